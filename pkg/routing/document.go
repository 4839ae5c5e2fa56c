package routing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrNotObject indicates that a JSON value was expected to be an object.
var ErrNotObject = errors.New("not a JSON object")

type object = orderedmap.OrderedMap[string, json.RawMessage]

// Document is a parsed JSON object that preserves key order.
type Document struct {
	fields *object
}

// Parse parses data as a JSON object.
func Parse(data []byte) (*Document, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	return &Document{fields: fields}, nil
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, d.fields.Len())
	for pair := d.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}

	return keys
}

// Raw returns the raw JSON value stored under key.
func (d *Document) Raw(key string) (json.RawMessage, bool) {
	return d.fields.Get(key)
}

// Encode writes the document as JSON indented by two spaces. Values that
// were not patched keep their original escaping, so HTML characters and
// U+2028 or U+2029 in strings are written as they were read.
func (d *Document) Encode(w io.Writer) error {
	compact := &bytes.Buffer{}

	err := writeObject(compact, d.fields)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	b := &bytes.Buffer{}

	err = json.Indent(b, compact.Bytes(), "", "  ")
	if err != nil {
		return fmt.Errorf("indent json: %w", err)
	}

	b.WriteByte('\n')

	_, err = b.WriteTo(w)
	if err != nil {
		return fmt.Errorf("write json: %w", err)
	}

	return nil
}

// Bytes returns the encoded document.
func (d *Document) Bytes() ([]byte, error) {
	b := &bytes.Buffer{}

	err := d.Encode(b)
	if err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// marshal encodes v as compact JSON without escaping HTML characters.
func marshal(v any) (json.RawMessage, error) {
	b := &bytes.Buffer{}

	if obj, ok := v.(*object); ok {
		err := writeObject(b, obj)
		if err != nil {
			return nil, err
		}

		return b.Bytes(), nil
	}

	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)

	err := enc.Encode(v)
	if err != nil {
		return nil, err //nolint:wrapcheck // Callers add context.
	}

	return bytes.TrimSuffix(b.Bytes(), []byte("\n")), nil
}

// writeObject writes obj as compact JSON. Raw values are compacted but not
// re-escaped.
func writeObject(b *bytes.Buffer, obj *object) error {
	b.WriteByte('{')

	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if pair != obj.Oldest() {
			b.WriteByte(',')
		}

		key, err := marshal(pair.Key)
		if err != nil {
			return fmt.Errorf("key %q: %w", pair.Key, err)
		}

		b.Write(key)
		b.WriteByte(':')

		err = json.Compact(b, pair.Value)
		if err != nil {
			return fmt.Errorf("value of %q: %w", pair.Key, err)
		}
	}

	b.WriteByte('}')

	return nil
}

func decodeObject(data []byte) (*object, error) {
	var raw json.RawMessage

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	if kindOf(raw) != '{' {
		return nil, ErrNotObject
	}

	obj := orderedmap.New[string, json.RawMessage]()

	err = json.Unmarshal(raw, obj)
	if err != nil {
		return nil, fmt.Errorf("decode json object: %w", err)
	}

	return obj, nil
}

// kindOf returns the first significant byte of a JSON value, which
// identifies its kind: '{', '[', '"', 'n', 't', 'f' or a number.
func kindOf(raw json.RawMessage) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}

	return trimmed[0]
}

func isNull(raw json.RawMessage) bool {
	return kindOf(raw) == 'n'
}
