package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Specs is an ordered attribute map. Values are either float64 or string.
// Key order follows the source document so comparison rows stay deterministic.
type Specs struct {
	keys   []string
	values map[string]any
}

// NewSpecs builds Specs from alternating key/value arguments.
// Values that are neither numbers nor strings are stringified.
func NewSpecs(pairs ...any) Specs {
	var s Specs
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		s.Set(key, pairs[i+1])
	}
	return s
}

// Set stores v under key, preserving the first insertion position.
// A nil value is ignored.
func (s *Specs) Set(key string, v any) {
	nv, ok := normalizeValue(v)
	if !ok {
		return
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.values[key] = nv
}

// Get returns the raw value for key.
func (s Specs) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// String returns the stringified value for key, or "" when absent.
func (s Specs) String(key string) string {
	v, ok := s.values[key]
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// Keys returns a copy of the attribute names in source order.
func (s Specs) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of attributes.
func (s Specs) Len() int {
	return len(s.keys)
}

// FormatValue renders a spec value the way it is displayed.
func FormatValue(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return fmt.Sprint(n)
	}
}

func normalizeValue(v any) (any, bool) {
	switch n := v.(type) {
	case nil:
		return nil, false
	case string:
		return n, true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f, true
		}
		return n.String(), true
	case bool:
		return strconv.FormatBool(n), true
	default:
		return fmt.Sprint(n), true
	}
}

// UnmarshalYAML decodes a YAML mapping while keeping key order.
func (s *Specs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("specs: expected mapping, got yaml kind %d at line %d", node.Kind, node.Line)
	}
	*s = Specs{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			continue
		}
		switch v.Tag {
		case "!!null":
			continue
		case "!!int", "!!float":
			var f float64
			if err := v.Decode(&f); err != nil {
				return fmt.Errorf("specs: decode %q: %w", k.Value, err)
			}
			s.Set(k.Value, f)
		default:
			s.Set(k.Value, v.Value)
		}
	}
	return nil
}

// MarshalYAML encodes Specs as an ordered mapping.
func (s Specs) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range s.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valNode := &yaml.Node{Kind: yaml.ScalarNode}
		switch v := s.values[k].(type) {
		case float64:
			valNode.Tag = "!!float"
			if v == float64(int64(v)) {
				valNode.Tag = "!!int"
			}
			valNode.Value = FormatValue(v)
		default:
			valNode.Tag = "!!str"
			valNode.Value = FormatValue(v)
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// MarshalJSON encodes Specs as a JSON object in source order.
func (s Specs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(s.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object while keeping key order.
// Nested objects and arrays are skipped.
func (s *Specs) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("specs: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("specs: expected object")
	}

	*s = Specs{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("specs: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("specs: expected string key")
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("specs: decode %q: %w", key, err)
		}
		switch v.(type) {
		case map[string]any, []any:
			continue
		}
		s.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("specs: %w", err)
	}
	return nil
}
