package jsondom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/roach88/mysqljson/internal/jsonlib"
)

// ErrMalformedJSON marks input that is not a single valid JSON text.
var ErrMalformedJSON = errors.New("malformed json")

// Parse decodes data into a Value using lib. A nil lib uses encoding/json.
// Numbers are decoded as literals, never through float64.
func Parse(lib jsonlib.Library, data []byte) (Value, error) {
	if lib == nil {
		lib = jsonlib.Std{}
	}

	if !lib.Valid(data) {
		var discard any
		if err := lib.Unmarshal(data, &discard); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
		}
		return nil, fmt.Errorf("%w: %q", ErrMalformedJSON, truncate(data))
	}

	dec := lib.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after top-level value", ErrMalformedJSON)
	}

	v, err := FromAny(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return v, nil
}

// ParseDocument decodes data into a Document.
func ParseDocument(lib jsonlib.Library, data []byte) (*Document, error) {
	root, err := Parse(lib, data)
	if err != nil {
		return nil, err
	}
	return NewDocument(root), nil
}

// MustParse parses text with the default library and panics on error.
// Generated model snapshots use it to rebuild seed values.
func MustParse(text string) Value {
	v, err := Parse(nil, []byte(text))
	if err != nil {
		panic(err)
	}
	return v
}

// MustParseDocument is like MustParse but returns a Document.
func MustParseDocument(text string) *Document {
	return NewDocument(MustParse(text))
}

// numberLiteral is satisfied by the Number types of both supported libraries.
type numberLiteral interface {
	String() string
	Int64() (int64, error)
}

// FromAny converts generically decoded JSON (maps, slices, number literals)
// into a Value. Values already in tree form are returned unchanged.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case *Document:
		return val.Root(), nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		return literalNumber(val.String())
	case float64:
		return NewFloat(val)
	case float32:
		return NewFloat(float64(val))
	case int:
		return NewInt(int64(val)), nil
	case int64:
		return NewInt(val), nil
	case int32:
		return NewInt(int64(val)), nil
	case uint64:
		if val > math.MaxInt64 {
			return Number(fmt.Sprintf("%d", val)), nil
		}
		return NewInt(int64(val)), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			e, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = e
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			e, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = e
		}
		return obj, nil
	case numberLiteral:
		return literalNumber(val.String())
	default:
		return nil, fmt.Errorf("unsupported type for json tree: %T", v)
	}
}

// literalNumber keeps a decoded number literal if it can be written canonically.
func literalNumber(lit string) (Value, error) {
	if _, err := canonicalNumber(Number(lit)); err != nil {
		return nil, err
	}
	return Number(lit), nil
}

func truncate(data []byte) string {
	const limit = 64
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}
