// Binary generate_preseed renders preseed.cfg from template.cfg using the
// values in config.json. Run without arguments it reads and writes those
// files in the current directory.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/byte4ever/preseed_framework/generator"
	"github.com/byte4ever/preseed_framework/settings"
	"github.com/byte4ever/preseed_framework/templating"
)

// errStale reports a -check run whose output differs from a
// fresh render.
var errStale = errors.New("stale")

type arrayFlags []string

func (af *arrayFlags) String() string {
	return ""
}

func (af *arrayFlags) Set(value string) error {
	*af = append(*af, value)
	return nil
}

func run(args []string) error {
	const errCtx = "generate_preseed"

	cfg, err := settings.Load()
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	var (
		stampInfoFiles arrayFlags
		variables      arrayFlags
		startTag       string
		endTag         string
		check          bool
	)

	fs := flag.NewFlagSet(errCtx, flag.ContinueOnError)

	fs.StringVar(
		&cfg.Dir, "dir", cfg.Dir,
		"base directory for relative file paths",
	)

	fs.StringVar(
		&cfg.Config, "config", cfg.Config,
		"JSON (or YAML) config file with placeholder values",
	)

	fs.StringVar(
		&cfg.Template, "template", cfg.Template,
		"template file with {{key}} placeholders",
	)

	fs.StringVar(
		&cfg.Output, "output", cfg.Output,
		"output file path (- for stdout)",
	)

	fs.StringVar(
		&cfg.LogLevel, "log-level", cfg.LogLevel,
		"log level: debug, info, warn or error",
	)

	fs.Var(
		&stampInfoFiles,
		"stamp-info-file",
		"status file of KEY VALUE lines (repeatable)",
	)

	fs.Var(
		&variables,
		"variable",
		"value override in NAME=VALUE format (repeatable)",
	)

	fs.StringVar(
		&startTag, "start-tag", "{{",
		"start tag for template placeholders",
	)

	fs.StringVar(
		&endTag, "end-tag", "}}",
		"end tag for template placeholders",
	)

	fs.BoolVar(
		&check, "check", false,
		"exit non-zero if the output is not up to date, without writing",
	)

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	level, _ := cfg.Level() //nolint:errcheck // checked by Validate
	slog.SetDefault(slog.New(slog.NewTextHandler(
		os.Stderr, &slog.HandlerOptions{Level: level},
	)))

	ge := generator.Generator{
		ConfigPath:     cfg.ConfigPath(),
		TemplatePath:   cfg.TemplatePath(),
		OutputPath:     cfg.OutputPath(),
		StampInfoFiles: stampInfoFiles,
		Variables:      variables,
		Engine: templating.Engine{
			StartTag: startTag,
			EndTag:   endTag,
		},
	}

	if check {
		if ge.OutputPath == settings.Stdout {
			return fmt.Errorf(
				"%s: -check needs an output file", errCtx,
			)
		}

		ok, err := ge.Check()
		if err != nil {
			return err
		}

		if !ok {
			return fmt.Errorf("%s is %w", ge.OutputPath, errStale)
		}

		return nil
	}

	res, err := ge.Generate()
	if err != nil {
		return err
	}

	if res.OutputPath != settings.Stdout {
		fmt.Printf("Generated %s\n", res.OutputPath)
	}

	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}

		slog.Error(err.Error())
		os.Exit(1)
	}
}
