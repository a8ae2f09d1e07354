package member

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Member is a DALI lab member record. Keys the API does not know about are
// kept in Extra and written back unchanged, so clients may attach free-form
// profile data.
type Member struct {
	ID      int    `json:"id"`
	DaliUID string `json:"daliUID,omitempty"`
	Name    string `json:"name"`
	Year    any    `json:"year"`
	Major   string `json:"major"`
	Dev     bool   `json:"dev"`

	Extra map[string]json.RawMessage `json:"-"`
}

// memberFields has Member's layout without its JSON methods.
type memberFields Member

// MarshalJSON flattens Extra next to the known fields.
func (m Member) MarshalJSON() ([]byte, error) {
	fields, err := json.Marshal(memberFields(m))
	if err != nil || len(m.Extra) == 0 {
		return fields, err
	}

	var known map[string]json.RawMessage
	if err := json.Unmarshal(fields, &known); err != nil {
		return nil, err
	}

	out := make(map[string]json.RawMessage, len(known)+len(m.Extra))
	for k, v := range m.Extra {
		out[k] = v
	}
	for k, v := range known {
		out[k] = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the known fields by exact key and stashes every
// other key in Extra. "Name" is a free-form field, not the name.
func (m *Member) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out Member
	targets := out.fieldTargets()
	for key, value := range raw {
		target, ok := targets[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, target); err != nil {
			return fmt.Errorf("member field %q: %w", key, err)
		}
		delete(raw, key)
	}
	if len(raw) == 0 {
		raw = nil
	}

	out.Extra = raw
	*m = out
	return nil
}

func (m *Member) fieldTargets() map[string]any {
	return map[string]any{
		"id":      &m.ID,
		"daliUID": &m.DaliUID,
		"name":    &m.Name,
		"year":    &m.Year,
		"major":   &m.Major,
		"dev":     &m.Dev,
	}
}

// typedField reports whether key decodes into a field that cannot hold null.
func typedField(key string) bool {
	switch key {
	case "id", "daliUID", "name", "major", "dev":
		return true
	}
	return false
}

// Clone returns a copy that shares no mutable state with m.
func (m Member) Clone() Member {
	if m.Extra != nil {
		extra := make(map[string]json.RawMessage, len(m.Extra))
		for k, v := range m.Extra {
			extra[k] = append(json.RawMessage(nil), v...)
		}
		m.Extra = extra
	}
	return m
}

// Merge applies patch over m key by key. Keys in patch win, keys absent from
// patch keep their current value. The id is not protected. A null patch value
// is only accepted for year and free-form keys.
func (m Member) Merge(patch map[string]json.RawMessage) (Member, error) {
	for k, v := range patch {
		if typedField(k) && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return Member{}, fmt.Errorf("member field %q cannot be null", k)
		}
	}
	if len(patch) == 0 {
		return m.Clone(), nil
	}

	current, err := json.Marshal(m)
	if err != nil {
		return Member{}, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(current, &merged); err != nil {
		return Member{}, err
	}
	for k, v := range patch {
		merged[k] = v
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return Member{}, err
	}

	var out Member
	if err := json.Unmarshal(data, &out); err != nil {
		return Member{}, err
	}
	return out, nil
}

// HasRequiredFields reports whether the draft carries both a name and a year.
func (m Member) HasRequiredFields() bool {
	return m.Name != "" && present(m.Year)
}

// present treats null, "", 0 and false as missing.
func present(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case float64:
		return val != 0
	case bool:
		return val
	default:
		return true
	}
}
