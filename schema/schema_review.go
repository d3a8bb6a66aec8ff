package schema

import (
	"bytes"
	"encoding/json"
	"math"

	"gopkg.in/yaml.v3"
)

// OptionalNumber is a finite number that may be absent.
// Non-numeric scalars decode as absent instead of failing the document.
type OptionalNumber struct {
	Value float64
	Valid bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *OptionalNumber) UnmarshalYAML(node *yaml.Node) error {
	*n = OptionalNumber{}
	if node.Kind != yaml.ScalarNode || (node.Tag != "!!int" && node.Tag != "!!float") {
		return nil
	}
	var v float64
	if err := node.Decode(&v); err != nil {
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	n.Value, n.Valid = v, true
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. Any JSON number is accepted;
// null, strings and other kinds decode as absent.
func (n *OptionalNumber) UnmarshalJSON(data []byte) error {
	*n = OptionalNumber{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	n.Value, n.Valid = v, true
	return nil
}

// Count returns the number rounded to the nearest integer, nil when absent.
func (n OptionalNumber) Count() *int {
	if !n.Valid {
		return nil
	}
	v := int(math.Round(Clamp(n.Value, -maxExactCount, maxExactCount)))
	return &v
}

// maxExactCount bounds counts to the integers a float64 holds exactly.
const maxExactCount = 1 << 53

// Ptr returns the number as a pointer, nil when absent.
func (n OptionalNumber) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// OptionalString is a string scalar that may be absent.
type OptionalString struct {
	Value string
	Valid bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *OptionalString) UnmarshalYAML(node *yaml.Node) error {
	*s = OptionalString{}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!str" {
		s.Value, s.Valid = node.Value, true
	}
	return nil
}

// Ptr returns the string as a pointer, nil when absent.
func (s OptionalString) Ptr() *string {
	if !s.Valid {
		return nil
	}
	v := s.Value
	return &v
}

// RawEvidence is one evidence entry as written by a reviewer: either a bare
// string or an object with file, line and detail (or note).
type RawEvidence struct {
	Present bool
	Text    OptionalString
	File    OptionalString
	Line    OptionalNumber
	Detail  OptionalString
	Note    OptionalString
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *RawEvidence) UnmarshalYAML(node *yaml.Node) error {
	*e = RawEvidence{}
	switch node.Kind {
	case yaml.ScalarNode:
		// null, false and empty strings carry no evidence.
		if node.Tag == "!!null" || node.Value == "" || (node.Tag == "!!bool" && node.Value == "false") {
			return nil
		}
		if node.Tag == "!!str" {
			e.Present = true
			e.Text = OptionalString{Value: node.Value, Valid: true}
		}
		return nil
	case yaml.MappingNode:
		e.Present = true
		return eachField(node, func(key string, value *yaml.Node) error {
			switch key {
			case "file":
				return value.Decode(&e.File)
			case "line":
				return value.Decode(&e.Line)
			case "detail":
				return value.Decode(&e.Detail)
			case "note":
				return value.Decode(&e.Note)
			}
			return nil
		})
	case yaml.SequenceNode:
		e.Present = true
	}
	return nil
}

// RawFlag is a critical flag as written by a reviewer.
type RawFlag struct {
	Present  bool
	Type     OptionalString
	Message  OptionalString
	File     OptionalString
	Line     OptionalNumber
	Severity OptionalString
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *RawFlag) UnmarshalYAML(node *yaml.Node) error {
	*f = RawFlag{}
	switch node.Kind {
	case yaml.SequenceNode:
		// Any non-scalar still counts as a flag with default fields.
		f.Present = true
		return nil
	case yaml.MappingNode:
	default:
		return nil
	}
	f.Present = true
	return eachField(node, func(key string, value *yaml.Node) error {
		switch key {
		case "type":
			return value.Decode(&f.Type)
		case "message":
			return value.Decode(&f.Message)
		case "file":
			return value.Decode(&f.File)
		case "line":
			return value.Decode(&f.Line)
		case "severity":
			return value.Decode(&f.Severity)
		}
		return nil
	})
}

// RawCriterion is one rubric item of an evaluation.
type RawCriterion struct {
	Present  bool
	ID       OptionalString
	Score    OptionalNumber
	Evidence []RawEvidence
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *RawCriterion) UnmarshalYAML(node *yaml.Node) error {
	*c = RawCriterion{}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	c.Present = true
	return eachField(node, func(key string, value *yaml.Node) error {
		switch key {
		case "id":
			return value.Decode(&c.ID)
		case "score":
			return value.Decode(&c.Score)
		case "evidence":
			return decodeSequence(value, &c.Evidence)
		}
		return nil
	})
}

// RawEvaluation is the review of one file.
type RawEvaluation struct {
	Present       bool
	File          OptionalString
	Criteria      []RawCriterion
	CriticalFlags []RawFlag
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (ev *RawEvaluation) UnmarshalYAML(node *yaml.Node) error {
	*ev = RawEvaluation{}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	ev.Present = true
	return eachField(node, func(key string, value *yaml.Node) error {
		switch key {
		case "file":
			return value.Decode(&ev.File)
		case "criteria":
			return decodeSequence(value, &ev.Criteria)
		case "criticalFlags":
			return decodeSequence(value, &ev.CriticalFlags)
		}
		return nil
	})
}

// ReviewDocument is the optional qualitative review input.
type ReviewDocument struct {
	Evaluations   []RawEvaluation
	CriticalFlags []RawFlag
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *ReviewDocument) UnmarshalYAML(node *yaml.Node) error {
	*d = ReviewDocument{}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	return eachField(node, func(key string, value *yaml.Node) error {
		switch key {
		case "evaluations":
			return decodeSequence(value, &d.Evaluations)
		case "criticalFlags":
			return decodeSequence(value, &d.CriticalFlags)
		}
		return nil
	})
}

// eachField walks the key/value pairs of a mapping node.
func eachField(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// decodeSequence decodes node into out only when it is a sequence; anything
// else leaves out empty.
func decodeSequence[T any](node *yaml.Node, out *[]T) error {
	if node.Kind != yaml.SequenceNode {
		*out = nil
		return nil
	}
	return node.Decode(out)
}
