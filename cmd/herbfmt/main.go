package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/tk0miya/herbfmt/config"
	"github.com/tk0miya/herbfmt/diff"
	"github.com/tk0miya/herbfmt/discover"
	"github.com/tk0miya/herbfmt/format"
	"github.com/tk0miya/herbfmt/lint"
	"github.com/tk0miya/herbfmt/parser"
	"github.com/tk0miya/herbfmt/rewrite"
	"github.com/tk0miya/herbfmt/serve"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(os.Args[1:], logger); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [flags] [paths...]

Commands:
  format [paths...]   format files in place (or print to stdout with --stdout)
  check [paths...]    exit nonzero if any file is not already formatted
  lint [paths...]     run the lint engine and print offenses
  serve [dir]         start the live preview server

`, os.Args[0])
}

func run(args []string, logger *slog.Logger) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("missing command")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "format":
		return runFormat(rest, logger, false)
	case "check":
		return runFormat(rest, logger, true)
	case "lint":
		return runLint(rest, logger)
	case "serve":
		return runServe(rest, logger)
	case "-h", "--help", "help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// sharedFlags binds the flags every subcommand accepts; --stdout only has an
// effect for format.
type sharedFlags struct {
	configPath    string
	indentWidth   int
	maxLineLength int
	stdout        bool
}

func bindShared(fs *flag.FlagSet) *sharedFlags {
	f := &sharedFlags{}
	fs.StringVar(&f.configPath, "config", ".herbfmt.yml", "Path to project config file")
	fs.IntVar(&f.indentWidth, "indent-width", 0, "Override configured indent width")
	fs.IntVar(&f.maxLineLength, "max-line-length", 0, "Override configured max line length")
	fs.BoolVar(&f.stdout, "stdout", false, "Write formatted output to stdout instead of rewriting the file")
	return f
}

func loadEffectiveConfig(f *sharedFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	return cfg.Merge(config.Overrides{
		IndentWidth:   f.indentWidth,
		MaxLineLength: f.maxLineLength,
	}), nil
}

func runFormat(args []string, logger *slog.Logger, check bool) error {
	name := "format"
	if check {
		name = "check"
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	shared := bindShared(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadEffectiveConfig(shared)
	if err != nil {
		return err
	}

	files, err := discoverPaths(fs.Args(), cfg)
	if err != nil {
		return err
	}

	p := parser.NewExternal()
	registry := rewrite.NewRegistry()
	unformatted := 0

	for _, file := range files {
		if file.Ignored {
			logger.Debug("skipping ignored file", "path", file.Path)
			continue
		}

		root, err := p.Parse(file.Source)
		if err != nil {
			return fmt.Errorf("parse %s: %w", file.Path, err)
		}
		if fn, ok := registry.Get("sort-attributes"); ok {
			if err := fn(root); err != nil {
				return fmt.Errorf("rewrite %s: %w", file.Path, err)
			}
		}

		formatted := format.Format(root, format.FormatContext{
			FilePath:      file.Path,
			Source:        file.Source,
			IndentWidth:   cfg.IndentWidth,
			MaxLineLength: cfg.MaxLineLength,
		})

		if formatted == file.Source {
			continue
		}

		if check {
			unformatted++
			fmt.Print(diff.Unified(file.Path, file.Source, formatted))
			continue
		}

		if shared.stdout {
			fmt.Print(formatted)
			continue
		}

		if err := os.WriteFile(file.Path, []byte(formatted), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", file.Path, err)
		}
		logger.Info("formatted", "path", file.Path)
	}

	if check && unformatted > 0 {
		return fmt.Errorf("%d file(s) not formatted", unformatted)
	}
	return nil
}

func runLint(args []string, logger *slog.Logger) error {
	fs := flag.NewFlagSet("lint", flag.ContinueOnError)
	shared := bindShared(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadEffectiveConfig(shared)
	if err != nil {
		return err
	}

	files, err := discoverPaths(fs.Args(), cfg)
	if err != nil {
		return err
	}

	p := parser.NewExternal()
	lintCfg := lint.Config{Disabled: cfg.Lint.Disabled, Rules: cfg.Lint.Rules}
	total := 0

	for _, file := range files {
		if file.Ignored {
			continue
		}
		root, err := p.Parse(file.Source)
		if err != nil {
			return fmt.Errorf("parse %s: %w", file.Path, err)
		}
		offenses, err := lint.Run(root, lintCfg)
		if err != nil {
			return fmt.Errorf("lint %s: %w", file.Path, err)
		}
		for _, o := range offenses {
			fmt.Printf("%s:%d: [%s] %s\n", file.Path, o.Line, o.Rule, o.Message)
		}
		total += len(offenses)
	}

	if total > 0 {
		return fmt.Errorf("%d offense(s) found", total)
	}
	return nil
}

func runServe(args []string, logger *slog.Logger) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	shared := bindShared(fs)
	addr := fs.String("addr", ":8080", "Address to listen on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadEffectiveConfig(shared)
	if err != nil {
		return err
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	srv := serve.New(root, cfg, logger)
	logger.Info("starting preview server", "root", root, "addr", *addr)
	return http.ListenAndServe(*addr, srv.Router())
}

func discoverPaths(args []string, cfg *config.Config) ([]discover.File, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	var out []discover.File
	for _, root := range args {
		files, err := discover.Walk(root, cfg.Include, cfg.Exclude)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}
