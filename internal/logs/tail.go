// Package logs reads the worker's append-only run log.
package logs

import (
	"errors"
	"os"
	"strings"
)

// Tail returns the last n lines of the file at path. A missing file yields
// no lines; n <= 0 yields the whole file.
func Tail(path string, n int) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	content := strings.TrimRight(string(data), "\n")
	if content == "" {
		return nil, nil
	}
	lines := strings.Split(content, "\n")
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
