package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Ordered is a string-keyed mapping that remembers insertion order.
//
// Schema documents are authored with meaningful key order (attributes are
// listed the way a class presents them), so both decoding and encoding keep
// that order instead of falling back to Go's randomized map iteration or
// encoding/json's sorted keys.
type Ordered[T any] struct {
	Keys   []string
	Values map[string]T
}

// NewOrdered returns an empty mapping ready for Set.
func NewOrdered[T any]() Ordered[T] {
	return Ordered[T]{Values: map[string]T{}}
}

// Set inserts or replaces a value. Replacing keeps the original position.
func (o *Ordered[T]) Set(key string, value T) {
	if o.Values == nil {
		o.Values = map[string]T{}
	}
	if _, exists := o.Values[key]; !exists {
		o.Keys = append(o.Keys, key)
	}
	o.Values[key] = value
}

func (o Ordered[T]) Get(key string) (T, bool) {
	value, ok := o.Values[key]
	return value, ok
}

func (o Ordered[T]) Has(key string) bool {
	_, ok := o.Values[key]
	return ok
}

func (o Ordered[T]) Len() int {
	return len(o.Keys)
}

// UnmarshalYAML decodes a mapping node in document order. A sequence or
// scalar where a mapping is expected is reported as a ShapeError.
func (o *Ordered[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	*o = NewOrdered[T]()
	if isNullNode(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return &ShapeError{Want: "mapping", Got: nodeKindName(node.Kind), Line: node.Line}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]
		var value T
		if !isNullNode(valueNode) {
			if err := valueNode.Decode(&value); err != nil {
				return prefixShapeError(keyNode.Value, err)
			}
		}
		o.Set(keyNode.Value, value)
	}
	return nil
}

// MarshalJSON writes members in insertion order.
func (o Ordered[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := marshalJSONNoEscape(key)
		if err != nil {
			return nil, err
		}
		encodedValue, err := marshalJSONNoEscape(o.Values[key])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(encodedValue)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping member order. Like UnmarshalYAML it
// reports a non-object as a ShapeError carrying the member path.
func (o *Ordered[T]) UnmarshalJSON(data []byte) error {
	*o = NewOrdered[T]()
	switch kind := jsonKind(data); kind {
	case "null":
		return nil
	case "mapping":
	default:
		return &ShapeError{Want: "mapping", Got: kind}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return &ShapeError{Want: "string key", Got: fmt.Sprintf("%v", keyTok)}
		}
		var value T
		if err := dec.Decode(&value); err != nil {
			return prefixShapeError(key, err)
		}
		o.Set(key, value)
	}
	_, err := dec.Token()
	return err
}

// marshalJSONNoEscape keeps URLs readable: query strings and fragments are
// written as is instead of as \u0026 escapes.
func marshalJSONNoEscape(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// jsonKind names the kind of a raw JSON value in the same terms ShapeError
// uses for YAML nodes.
func jsonKind(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return "empty"
	}
	switch trimmed[0] {
	case '{':
		return "mapping"
	case '[':
		return "sequence"
	case '"':
		return "string"
	case 'n':
		return "null"
	default:
		return "scalar"
	}
}

func isNullNode(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}

func nodeKindName(kind yaml.Kind) string {
	switch kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.DocumentNode:
		return "document"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
