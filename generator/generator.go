package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/byte4ever/preseed_framework/digester"
	"github.com/byte4ever/preseed_framework/templating"
	"github.com/byte4ever/preseed_framework/values"
)

var (
	// ErrConfigNotFound is returned when the config file does
	// not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrTemplateNotFound is returned when the template file
	// does not exist.
	ErrTemplateNotFound = errors.New("template file not found")
)

// Generator renders one template into one output file.
type Generator struct {
	ConfigPath     string
	TemplatePath   string
	OutputPath     string
	StampInfoFiles []string
	Variables      []string
	Engine         templating.Engine
}

// Result describes a successful render.
type Result struct {
	OutputPath string
	Content    []byte
	Digest     string
	Unresolved []string
}

// Generate renders the template and writes it to
// OutputPath, replacing any existing file. Nothing is
// written when any input is missing or invalid.
func (ge *Generator) Generate() (*Result, error) {
	const errCtx = "generating"

	res, err := ge.Render()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := ge.Engine.Write(
		res.OutputPath, res.Content,
	); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info(
		"generated",
		"output", res.OutputPath,
		"digest", res.Digest,
	)

	return res, nil
}

// Check renders the template and reports whether
// OutputPath already holds the rendered content. A missing
// output is not up to date.
func (ge *Generator) Check() (bool, error) {
	const errCtx = "checking"

	res, err := ge.Render()
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	ok, err := digester.Matches(ge.OutputPath, res.Content)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Debug(
		"checked",
		"output", ge.OutputPath,
		"digest", res.Digest,
		"up_to_date", ok,
	)

	return ok, nil
}

// Render loads the inputs and renders the template without
// touching OutputPath.
func (ge *Generator) Render() (*Result, error) {
	const errCtx = "rendering"

	if err := ge.checkInputs(); err != nil {
		return nil, err
	}

	vars, err := ge.loadValues()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	tpl, err := os.ReadFile(ge.TemplatePath) //nolint:gosec // paths from CLI flags
	if err != nil {
		return nil, fmt.Errorf(
			"%s: reading template: %w", errCtx, err,
		)
	}

	out, err := ge.Engine.Render(string(tpl), vars)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	unresolved := Unresolved(&ge.Engine, string(tpl), vars)
	if len(unresolved) > 0 {
		slog.Debug(
			"unresolved placeholders",
			"template", ge.TemplatePath,
			"names", unresolved,
		)
	}

	return &Result{
		OutputPath: ge.OutputPath,
		Content:    []byte(out),
		Digest:     digester.Sum([]byte(out)),
		Unresolved: unresolved,
	}, nil
}

// Unresolved returns the sorted, unique names of the
// placeholders in tpl that vars does not define.
func Unresolved(
	en *templating.Engine,
	tpl string,
	vars map[string]string,
) []string {
	var names []string

	for _, name := range en.Placeholders(tpl) {
		if _, ok := vars[name]; !ok {
			names = append(names, name)
		}
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// checkInputs verifies that the config file and then the
// template file exist.
func (ge *Generator) checkInputs() error {
	if !exists(ge.ConfigPath) {
		return fmt.Errorf(
			"%w: %s", ErrConfigNotFound, ge.ConfigPath,
		)
	}

	if !exists(ge.TemplatePath) {
		return fmt.Errorf(
			"%w: %s", ErrTemplateNotFound, ge.TemplatePath,
		)
	}

	return nil
}

// loadValues layers stamps, the config file and explicit
// variables, in increasing precedence.
func (ge *Generator) loadValues() (map[string]string, error) {
	const errCtx = "loading values"

	stamps, err := values.LoadStamps(ge.StampInfoFiles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	config, err := values.LoadConfig(ge.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	vars, err := values.ParseVariables(ge.Variables)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return values.Merge(stamps, config, vars), nil
}

func exists(path string) bool {
	_, err := os.Stat(path)

	return !errors.Is(err, os.ErrNotExist)
}
