package values

import (
	"fmt"
	"os"
	"strings"
)

// LoadStamps reads workspace status files and merges them
// into a single map. Each line is "KEY VALUE" with the
// first space as delimiter. Lines without a space are
// silently skipped; later files override earlier ones.
func LoadStamps(
	infoFiles []string,
) (map[string]string, error) {
	const errCtx = "loading stamps"

	stamps := make(map[string]string)

	for _, sf := range infoFiles {
		content, err := os.ReadFile(sf) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		for _, line := range strings.Split(
			string(content), "\n",
		) {
			parts := strings.SplitN(
				strings.TrimSuffix(line, "\r"), " ", 2,
			)
			if len(parts) == 2 {
				stamps[parts[0]] = parts[1]
			}
		}
	}

	return stamps, nil
}

// ParseVariables converts NAME=VALUE pairs into a map.
// Only the first "=" separates name from value.
func ParseVariables(
	vars []string,
) (map[string]string, error) {
	const errCtx = "parsing variables"

	out := make(map[string]string, len(vars))

	for _, vr := range vars {
		parts := strings.SplitN(vr, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf(
				"%s: variable must be NAME=VALUE, got %s",
				errCtx, vr,
			)
		}

		out[parts[0]] = parts[1]
	}

	return out, nil
}

// Merge combines layers into a new map. Keys of later
// layers override those of earlier ones.
func Merge(layers ...map[string]string) map[string]string {
	size := 0
	for _, la := range layers {
		size += len(la)
	}

	out := make(map[string]string, size)

	for _, la := range layers {
		for key, val := range la {
			out[key] = val
		}
	}

	return out
}
