package session

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads a session file. Expressions may be written as plain
// strings or as mappings:
//
//	title: circles
//	viewport: {xMin: -5, xMax: 5, yMin: -5, yMax: 5}
//	expressions:
//	  - y = x^2
//	  - source: x^2 + y^2 <= 4
//	    color: "#2d70b3"
//	params:
//	  a: 2
//
// Missing settings take their defaults.
func LoadYAML(r io.Reader) (*Session, error) {
	s := New()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(s); err != nil && err != io.EOF {
		return nil, fmt.Errorf("session: yaml: %w", err)
	}
	return s.Normalize(), nil
}

// LoadYAMLFile is LoadYAML on a file path.
func LoadYAMLFile(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return LoadYAML(bytes.NewReader(data))
}

// WriteYAML writes s as a session file.
func WriteYAML(w io.Writer, s *Session) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("session: yaml: %w", err)
	}
	return enc.Close()
}

// UnmarshalYAML accepts a bare string as shorthand for a visible line.
func (e *Expression) UnmarshalYAML(value *yaml.Node) error {
	*e = defaultExpression()
	if value.Kind == yaml.ScalarNode {
		e.Source = value.Value
		return nil
	}
	type plain Expression
	return value.Decode((*plain)(e))
}

// UnmarshalYAML fills defaults for omitted stat plot fields.
func (p *StatPlot) UnmarshalYAML(value *yaml.Node) error {
	*p = StatPlot{Mode: ModePDF, Visible: true}
	type plain StatPlot
	return value.Decode((*plain)(p))
}
