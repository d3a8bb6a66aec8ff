package schema

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"
)

// AxisScore is one risk axis. Score is nil when the axis had no computable sub-risk.
type AxisScore struct {
	Weight int      `json:"weight"`
	Score  *float64 `json:"score"`
}

// AxisSet holds the four axes keyed by name.
type AxisSet map[AxisName]AxisScore

// MarshalJSON writes the axes in reporting order rather than key order.
func (s AxisSet) MarshalJSON() ([]byte, error) {
	var keys []AxisName
	seen := make(map[AxisName]struct{}, len(s))
	for _, name := range AllAxes {
		if _, ok := s[name]; ok {
			keys = append(keys, name)
			seen[name] = struct{}{}
		}
	}
	var extra []AxisName
	for name := range s {
		if _, ok := seen[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	keys = append(keys, extra...)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(string(name))
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s[name])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// QuantSummary is the overall quantitative outcome.
type QuantSummary struct {
	QuantitativeScore float64 `json:"quantitativeScore"`
	QuantitativeGrade string  `json:"quantitativeGrade"`
}

// AnalysisScope records how the target set was built.
type AnalysisScope struct {
	Mode              TargetMode `json:"mode"`
	Target            string     `json:"target"`
	WindowDays        int        `json:"windowDays"`
	ClosureLimit      int        `json:"closureLimit"`
	SeedFileCount     int        `json:"seedFileCount"`
	AnalyzedFileCount int        `json:"analyzedFileCount"`
}

// QuantDocument is the quantitative metrics document written by collect.
type QuantDocument struct {
	SchemaVersion      string        `json:"schemaVersion"`
	GeneratedAt        time.Time     `json:"generatedAt"`
	Profile            Profile       `json:"profile"`
	AnalysisMode       string        `json:"analysisMode"`
	AnalysisScope      AnalysisScope `json:"analysisScope"`
	Files              []FileEntry   `json:"files"`
	Axes               AxisSet       `json:"axes"`
	Summary            QuantSummary  `json:"summary"`
	UnavailableMetrics []string      `json:"unavailableMetrics"`
}

// UnavailableDocument is the side document listing only the unavailable metrics.
type UnavailableDocument struct {
	UnavailableMetrics []string `json:"unavailableMetrics"`
}

// QuantInputAxis is a leniently decoded axis; either field may be missing.
type QuantInputAxis struct {
	Weight *float64 `json:"weight"`
	Score  *float64 `json:"score"`
}

// NamedInputAxis is one axis of a quantitative document, in document order.
type NamedInputAxis struct {
	Name string
	QuantInputAxis
}

// QuantInputAxes decodes the axes block either as an object keyed by axis
// name or as an array of {name|id, weight, score}. Document order is kept.
type QuantInputAxes []NamedInputAxis

// UnmarshalJSON implements json.Unmarshaler.
func (a *QuantInputAxes) UnmarshalJSON(data []byte) error {
	*a = nil
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		for _, raw := range items {
			var item struct {
				Name *string `json:"name"`
				ID   *string `json:"id"`
			}
			if json.Unmarshal(raw, &item) != nil {
				continue
			}
			name := item.Name
			if name == nil {
				name = item.ID
			}
			if name == nil || *name == "" {
				continue
			}
			*a = append(*a, NamedInputAxis{Name: *name, QuantInputAxis: decodeInputAxis(raw)})
		}
	case '{':
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		if _, err := dec.Token(); err != nil {
			return err
		}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			name, _ := tok.(string)
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return err
			}
			*a = append(*a, NamedInputAxis{Name: name, QuantInputAxis: decodeInputAxis(raw)})
		}
	}
	return nil
}

// decodeInputAxis accepts {weight, score} or a bare number score.
// Malformed fields decode as absent.
func decodeInputAxis(raw json.RawMessage) QuantInputAxis {
	var axis QuantInputAxis
	if err := json.Unmarshal(raw, &axis); err == nil {
		return axis
	}
	var score float64
	if err := json.Unmarshal(raw, &score); err == nil {
		return QuantInputAxis{Score: &score}
	}
	var loose map[string]json.RawMessage
	if err := json.Unmarshal(raw, &loose); err == nil {
		var w, sc float64
		if json.Unmarshal(loose["weight"], &w) == nil {
			axis.Weight = &w
		}
		if json.Unmarshal(loose["score"], &sc) == nil {
			axis.Score = &sc
		}
	}
	return axis
}

// QuantInputSummary is a leniently decoded summary block.
type QuantInputSummary struct {
	QuantitativeScore *float64 `json:"quantitativeScore"`
	QuantitativeGrade *string  `json:"quantitativeGrade"`
}

// UnavailableEntry decodes either a bare string or an object carrying a message.
type UnavailableEntry struct {
	Message string
	Valid   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *UnavailableEntry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		u.Message, u.Valid = s, true
		return nil
	}
	var obj struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.Message != nil {
		u.Message, u.Valid = *obj.Message, true
		return nil
	}
	u.Message, u.Valid = "", false
	return nil
}

// QuantInput is the quantitative document as read by the scorecard.
// It tolerates documents produced by other tools with partial fields.
type QuantInput struct {
	Profile            Profile            `json:"profile"`
	Files              []FileEntry        `json:"files"`
	Axes               QuantInputAxes     `json:"axes"`
	Summary            QuantInputSummary  `json:"summary"`
	UnavailableMetrics []UnavailableEntry `json:"unavailableMetrics"`
}
