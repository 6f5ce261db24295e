package table

import (
	"bufio"
	"fmt"
	"strings"
	"unicode"
)

// Entry is one (key, value) pair of a table source, in configuration order.
type Entry struct {
	Key   string
	Value string
}

// ParseConfig parses a table configuration blob: one entry per line, key
// followed by whitespace then the value (remainder of the line). Blank lines
// and '#' comments are skipped. Errors carry the 1-based line number.
func ParseConfig(config string) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(strings.NewReader(config))
	scanner.Buffer(make([]byte, MaxLineSize), MaxLineSize)

	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		sep := strings.IndexFunc(line, unicode.IsSpace)
		if sep < 0 {
			return nil, fmt.Errorf("%w, line %d: missing value for key %q", ErrConfig, lineno, line)
		}

		key := line[:sep]
		value := strings.TrimSpace(line[sep:])
		if len(key) >= MaxLineSize {
			return nil, fmt.Errorf("%w, line %d: key too long", ErrConfig, lineno)
		}

		entries = append(entries, Entry{Key: key, Value: value})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w, line %d: %v", ErrConfig, lineno+1, err)
	}

	return entries, nil
}
