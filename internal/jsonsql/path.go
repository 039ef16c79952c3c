package jsonsql

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/mysqljson/internal/jsondom"
)

var pathKeyPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Path builds a MySQL JSON path from object keys (string) and array indexes (int).
// Keys that are not plain identifiers are double-quoted.
//
//	Path("Tags", 0)        // $.Tags[0]
//	Path("first name")     // $."first name"
func Path(segments ...any) (string, error) {
	var b strings.Builder
	b.WriteString("$")
	for _, seg := range segments {
		switch s := seg.(type) {
		case string:
			b.WriteString(".")
			if s == "*" || pathKeyPattern.MatchString(s) {
				b.WriteString(s)
				continue
			}
			quoted, err := jsondom.MarshalCanonical(jsondom.String(s))
			if err != nil {
				return "", fmt.Errorf("path key %q: %w", s, err)
			}
			b.Write(quoted)
		case int:
			if s < 0 {
				return "", fmt.Errorf("path index %d is negative", s)
			}
			b.WriteString("[" + strconv.Itoa(s) + "]")
		default:
			return "", fmt.Errorf("unsupported path segment %T", seg)
		}
	}
	return b.String(), nil
}

// MustPath is Path that panics on error.
func MustPath(segments ...any) string {
	p, err := Path(segments...)
	if err != nil {
		panic(err)
	}
	return p
}

// ValidatePath checks the shape MySQL requires of every path argument.
func ValidatePath(p string) error {
	if !strings.HasPrefix(p, "$") {
		return fmt.Errorf("json path %q must start with $", p)
	}
	return nil
}
