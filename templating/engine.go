package templating

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/valyala/fasttemplate"
)

// Engine renders templates by literal placeholder
// substitution.
type Engine struct {
	StartTag string
	EndTag   string
}

// Render replaces every occurrence of StartTag+key+EndTag
// with vars[key]. Unknown placeholders and unclosed start
// tags are kept verbatim. The template is scanned once, so
// substituted values are never expanded again.
func (en *Engine) Render(
	tpl string,
	vars map[string]string,
) (string, error) {
	const errCtx = "rendering template"

	var buf bytes.Buffer

	buf.Grow(len(tpl))

	if err := en.render(&buf, tpl, vars); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return buf.String(), nil
}

// Write writes content to outPath, truncating an existing
// file. An empty outPath or "-" writes to stdout.
func (en *Engine) Write(outPath string, content []byte) error {
	const errCtx = "writing output"

	out, closer, err := en.openOutput(outPath)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if closer == nil {
		if _, err := out.Write(content); err != nil {
			return fmt.Errorf(
				"%s: writing to stdout: %w", errCtx, err,
			)
		}

		return nil
	}

	if _, err := out.Write(content); err != nil {
		_ = closer() //nolint:errcheck // write error wins
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := closer(); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// Tags returns the configured start/end tags, falling
// back to double-brace defaults.
func (en *Engine) Tags() (string, string) {
	startTag := en.StartTag
	if startTag == "" {
		startTag = "{{"
	}

	endTag := en.EndTag
	if endTag == "" {
		endTag = "}}"
	}

	return startTag, endTag
}

// Placeholders returns the placeholder names found in tpl
// in order of appearance, duplicates included.
func (en *Engine) Placeholders(tpl string) []string {
	startTag, endTag := en.Tags()

	var names []string

	_, _ = fasttemplate.ExecuteFunc( //nolint:errcheck // io.Discard never fails
		tpl, startTag, endTag, io.Discard,
		func(_ io.Writer, tag string) (int, error) {
			names = append(names, innermost(tag, startTag))
			return 0, nil
		},
	)

	return names
}

// render writes tpl with placeholders resolved. Keys that
// fasttemplate cannot isolate as a tag, because their text
// overlaps the tags, are matched literally left to right;
// the text between those matches goes through fasttemplate.
func (en *Engine) render(
	w io.Writer,
	tpl string,
	vars map[string]string,
) error {
	startTag, endTag := en.Tags()

	tagFunc := literalTagFunc(startTag, endTag, vars)
	literal := literalPlaceholders(startTag, endTag, vars)

	for len(literal) > 0 {
		idx, ph := nextPlaceholder(tpl, literal)
		if idx < 0 {
			break
		}

		if _, err := fasttemplate.ExecuteFunc(
			tpl[:idx], startTag, endTag, w, tagFunc,
		); err != nil {
			return err
		}

		if _, err := io.WriteString(w, literal[ph]); err != nil {
			return err
		}

		tpl = tpl[idx+len(ph):]
	}

	_, err := fasttemplate.ExecuteFunc(
		tpl, startTag, endTag, w, tagFunc,
	)

	return err
}

// literalPlaceholders maps the full placeholder text of
// every key that is not tag-safe to its value.
func literalPlaceholders(
	startTag string,
	endTag string,
	vars map[string]string,
) map[string]string {
	var out map[string]string

	for key, val := range vars {
		if tagSafe(key, startTag, endTag) {
			continue
		}

		if out == nil {
			out = make(map[string]string)
		}

		out[startTag+key+endTag] = val
	}

	return out
}

// tagSafe reports whether fasttemplate plus innermost
// yields exactly key for the text startTag+key+endTag.
func tagSafe(key string, startTag string, endTag string) bool {
	return strings.Index(key+endTag, endTag) == len(key) &&
		strings.LastIndex(startTag+key, startTag) == 0
}

// nextPlaceholder returns the leftmost occurrence of any
// placeholder in tpl, preferring the longest on a tie, or
// -1 when none occurs.
func nextPlaceholder(
	tpl string,
	placeholders map[string]string,
) (int, string) {
	best := -1

	var found string

	for ph := range placeholders {
		idx := strings.Index(tpl, ph)
		if idx < 0 {
			continue
		}

		if best < 0 || idx < best ||
			(idx == best && len(ph) > len(found)) {
			best = idx
			found = ph
		}
	}

	return best, found
}

// literalTagFunc resolves a tag the way a plain substring
// replacement of startTag+name+endTag would. fasttemplate
// cuts the tag at the first start tag, so "{{{{a}}" yields
// the tag "{{a"; the name is whatever follows the last start
// tag inside it and the leading text is written back as-is.
func literalTagFunc(
	startTag string,
	endTag string,
	vars map[string]string,
) fasttemplate.TagFunc {
	return func(w io.Writer, tag string) (int, error) {
		name := innermost(tag, startTag)

		val, ok := vars[name]
		if !ok {
			return io.WriteString(w, startTag+tag+endTag)
		}

		full := startTag + tag
		prefix := full[:len(full)-len(name)-len(startTag)]

		return io.WriteString(w, prefix+val)
	}
}

// innermost returns the part of tag after the last
// occurrence of startTag within startTag+tag.
func innermost(tag string, startTag string) string {
	full := startTag + tag
	idx := strings.LastIndex(full, startTag)

	return full[idx+len(startTag):]
}

// openOutput returns a writer for the result. When
// outPath is empty or "-" it returns stdout. The returned
// closer function must be called to finalize the file
// (nil for stdout).
func (en *Engine) openOutput(
	outPath string,
) (io.Writer, func() error, error) {
	const errCtx = "opening output"

	if outPath == "" || outPath == "-" {
		return os.Stdout, nil, nil
	}

	fi, err := os.OpenFile( //nolint:gosec // paths from CLI flags
		outPath,
		os.O_RDWR|os.O_CREATE|os.O_TRUNC,
		0o666,
	)
	if err != nil {
		return nil, nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	return fi, fi.Close, nil
}
