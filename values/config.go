package values

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// ErrTrailingData is returned when a JSON config holds more
// than one top-level value.
var ErrTrailingData = errors.New("trailing data after object")

// LoadConfig reads the config file at path and returns its
// top-level keys with stringified values. Files ending in
// .yaml or .yml are decoded as YAML, anything else as JSON.
func LoadConfig(path string) (map[string]string, error) {
	const errCtx = "loading config"

	content, err := os.ReadFile(path) //nolint:gosec // paths from CLI flags
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var raw map[string]interface{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		raw, err = decodeYAML(content)
	default:
		raw, err = decodeJSON(content)
	}

	if err != nil {
		return nil, fmt.Errorf(
			"%s: %s: %w", errCtx, path, err,
		)
	}

	vars := make(map[string]string, len(raw))

	for key, val := range raw {
		vars[key] = Stringify(val)
	}

	return vars, nil
}

// decodeJSON decodes a single JSON object. Numbers are kept
// as json.Number so they render exactly as written.
func decodeJSON(
	content []byte,
) (map[string]interface{}, error) {
	const errCtx = "decoding config"

	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	var raw map[string]interface{}

	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if raw == nil {
		return nil, fmt.Errorf(
			"%s: top-level value must be an object", errCtx,
		)
	}

	var extra interface{}
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf(
			"%s: %w", errCtx, ErrTrailingData,
		)
	}

	return raw, nil
}

// decodeYAML decodes a YAML mapping. An empty document
// yields an empty mapping.
func decodeYAML(
	content []byte,
) (map[string]interface{}, error) {
	const errCtx = "decoding config"

	var raw map[string]interface{}

	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if raw == nil {
		raw = make(map[string]interface{})
	}

	return raw, nil
}

// Stringify returns the textual form of a decoded value.
// Strings are returned verbatim, numbers as written, booleans
// as true/false and null as the empty string. Arrays and
// objects are encoded as compact JSON.
// These are preseed spellings: booleans stay lower case,
// null is empty and 1.50 is not shortened to 1.5.
func Stringify(val interface{}) string {
	switch vv := val.(type) {
	case nil:
		return ""
	case string:
		return vv
	case json.Number:
		return vv.String()
	case bool:
		return strconv.FormatBool(vv)
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	case int, int64, uint64:
		return fmt.Sprint(vv)
	}

	buf, err := json.Marshal(val)
	if err != nil {
		return fmt.Sprint(val)
	}

	return string(buf)
}
