package nasr

import (
	"bufio"
	"io"

	"github.com/cockroachdb/errors"
)

// maxLineBytes bounds a single record line; APT base records are 1530 bytes.
const maxLineBytes = 64 * 1024

// ForEach calls fn with the 1-based line number and text of every line in r
// that matches layout. Other record types are skipped. A nil reader yields
// nothing.
func ForEach(r io.Reader, layout Layout, fn func(lineNo int, line string)) error {
	if r == nil {
		return nil
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)

	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		if !layout.Matches(line) {
			continue
		}
		fn(n, line)
	}
	if err := sc.Err(); err != nil {
		return errors.Wrapf(err, "scan %s records at line %d", layout.Name, n+1)
	}
	return nil
}

// Count returns the number of layout records in r.
func Count(r io.Reader, layout Layout) (int, error) {
	count := 0
	err := ForEach(r, layout, func(int, string) { count++ })
	return count, err
}
