package nasr

import (
	"strings"
	"unicode/utf8"

	"github.com/couchcryptid/navaid-service/internal/domain"
	"golang.org/x/text/encoding/charmap"
)

// Record holds the trimmed text of each field of one parsed line, keyed by
// field name. Fields beyond the end of a short line are empty.
type Record map[string]string

// Get returns the named field, or "" when absent.
func (r Record) Get(name string) string { return r[name] }

// Parse slices line by the byte positions in layout. NASR files are
// ISO-8859-1; each field is decoded to UTF-8 after slicing so multi-byte
// output never shifts later offsets. An empty required field fails the whole
// line with a *domain.ParseError. Parse has no side effects and is safe for
// concurrent use.
func Parse(line string, layout Layout) (Record, error) {
	rec := make(Record, len(layout.Fields))
	for _, f := range layout.Fields {
		v := decodeLatin1(strings.TrimSpace(slice(line, f.Offset, f.Length)))
		if v == "" && f.Required {
			return nil, &domain.ParseError{
				Layout: layout.Name,
				Field:  f.Name,
				Reason: "required field is empty",
			}
		}
		rec[f.Name] = v
	}
	return rec, nil
}

// slice returns line[offset:offset+length] clipped to the line, or "" when
// the range starts past the end or has no length.
func slice(line string, offset, length int) string {
	if length <= 0 || offset < 0 || offset >= len(line) {
		return ""
	}
	end := offset + length
	if end > len(line) {
		end = len(line)
	}
	return line[offset:end]
}

func decodeLatin1(s string) string {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return s
	}
	out, err := charmap.ISO8859_1.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}
