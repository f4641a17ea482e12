package codec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"xdapi/internal/model"
)

// Package codec turns container entries into model values.
// Unknown fields are ignored and missing optional fields stay at their zero value;
// only fields a model type reports through MissingFields are enforced.

var ErrSchema = errors.New("schema error")

// SchemaError identifies the entry that failed to decode and where.
// Pointer is a JSON pointer into the entry, empty when the problem is the whole document.
// For decode failures it names the value enclosing the byte offset the decoder
// stopped at, so malformed input may point at the value just before the fault.
type SchemaError struct {
	Entry   string
	Pointer string
	Detail  string
	Err     error
}

func (e *SchemaError) Error() string {
	if e.Pointer != "" {
		return fmt.Sprintf("schema error in %q at %s: %s", e.Entry, e.Pointer, e.Detail)
	}
	return fmt.Sprintf("schema error in %q: %s", e.Entry, e.Detail)
}

func (e *SchemaError) Unwrap() error { return e.Err }

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

type requirer interface {
	MissingFields() []string
}

// Parse decodes data from entry into a new T and checks its required fields.
func Parse[T any, PT interface {
	*T
	requirer
}](entry string, data []byte) (*T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &SchemaError{Entry: entry, Detail: "empty document"}
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, &SchemaError{Entry: entry, Detail: "document is null"}
	}

	out := PT(new(T))
	if err := json.Unmarshal(trimmed, out); err != nil {
		return nil, decodeError(entry, trimmed, err)
	}
	if missing := out.MissingFields(); len(missing) > 0 {
		return nil, &SchemaError{
			Entry:   entry,
			Pointer: missing[0],
			Detail:  fmt.Sprintf("required field missing (%d total)", len(missing)),
		}
	}
	return (*T)(out), nil
}

// ParseManifest decodes the manifest entry.
func ParseManifest(entry string, data []byte) (*model.Manifest, error) {
	return Parse[model.Manifest](entry, data)
}

// ParseArtboard decodes an artboard graphics entry.
func ParseArtboard(entry string, data []byte) (*model.ArtboardDocument, error) {
	return Parse[model.ArtboardDocument](entry, data)
}

func decodeError(entry string, data []byte, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		ptr := pointerAt(data, typeErr.Offset)
		if ptr == "" {
			ptr = fieldPointer(typeErr.Field)
		}
		return &SchemaError{
			Entry:   entry,
			Pointer: ptr,
			Detail:  fmt.Sprintf("cannot use %s as %v", typeErr.Value, typeErr.Type),
			Err:     err,
		}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &SchemaError{
			Entry:   entry,
			Pointer: pointerAt(data, syntaxErr.Offset),
			Detail:  fmt.Sprintf("malformed json at offset %d", syntaxErr.Offset),
			Err:     err,
		}
	}
	return &SchemaError{Entry: entry, Detail: err.Error(), Err: err}
}

// fieldPointer converts a dotted decoder field path ("children.style.fill")
// to pointer form. Array indices are not reported by the decoder; it is the
// fallback when no offset is known.
func fieldPointer(field string) string {
	if field == "" {
		return ""
	}
	return "/" + strings.ReplaceAll(field, ".", "/")
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

type scanFrame struct {
	array bool
	index int
	key   string
}

// pointerAt returns the JSON pointer, with array indices, of the innermost
// value enclosing byte offset off of data. Only the prefix before off is
// scanned, so it works on documents that fail to decode later on.
func pointerAt(data []byte, off int64) string {
	if off <= 0 {
		return ""
	}
	var stack []scanFrame
	for i := 0; i < len(data) && int64(i) < off; i++ {
		top := len(stack) - 1
		switch data[i] {
		case '{':
			stack = append(stack, scanFrame{})
		case '[':
			stack = append(stack, scanFrame{array: true})
		case '}', ']':
			if top >= 0 {
				stack = stack[:top]
			}
		case ',':
			if top >= 0 {
				if stack[top].array {
					stack[top].index++
				} else {
					stack[top].key = ""
				}
			}
		case '"':
			end := stringEnd(data, i)
			if top >= 0 && !stack[top].array && stack[top].key == "" {
				stack[top].key = string(data[i+1 : end])
			}
			i = end
		}
	}

	var b strings.Builder
	for _, f := range stack {
		if f.array {
			fmt.Fprintf(&b, "/%d", f.index)
			continue
		}
		if f.key == "" {
			break
		}
		b.WriteString("/" + pointerEscaper.Replace(f.key))
	}
	return b.String()
}

// stringEnd returns the index of the quote closing the string opened at
// data[start], or len(data) when it is unterminated.
func stringEnd(data []byte, start int) int {
	for j := start + 1; j < len(data); j++ {
		switch data[j] {
		case '\\':
			j++
		case '"':
			return j
		}
	}
	return len(data)
}
