package member

import (
	"encoding/json"
	"testing"
)

func TestUnmarshalKeepsFreeFormFields(t *testing.T) {
	var m Member
	data := []byte(`{"id":3,"daliUID":"d3","name":"Carmen","year":2024,"major":"CS","dev":true,"home":"Boston","pm":true}`)
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal err: %v", err)
	}

	if m.ID != 3 || m.Name != "Carmen" || !m.Dev {
		t.Fatalf("known fields not decoded: %+v", m)
	}
	if len(m.Extra) != 2 {
		t.Fatalf("expected 2 extra fields, got %v", m.Extra)
	}
	if string(m.Extra["home"]) != `"Boston"` {
		t.Fatalf("unexpected home: %s", m.Extra["home"])
	}

	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal err: %v", err)
	}
	var flat map[string]any
	if err := json.Unmarshal(out, &flat); err != nil {
		t.Fatalf("decode marshalled member: %v", err)
	}
	if flat["home"] != "Boston" || flat["pm"] != true || flat["name"] != "Carmen" {
		t.Fatalf("free-form fields lost on marshal: %s", out)
	}
}

func TestMergePatchWinsAndKeepsTheRest(t *testing.T) {
	m := Member{
		ID:    1,
		Name:  "Alice",
		Year:  float64(2025),
		Major: "CS",
		Dev:   true,
		Extra: map[string]json.RawMessage{"home": json.RawMessage(`"Seattle"`)},
	}

	merged, err := m.Merge(map[string]json.RawMessage{
		"major": json.RawMessage(`"Math"`),
		"quote": json.RawMessage(`"hi"`),
	})
	if err != nil {
		t.Fatalf("merge err: %v", err)
	}

	if merged.Major != "Math" {
		t.Fatalf("patch did not override major: %s", merged.Major)
	}
	if merged.Name != "Alice" || merged.Year != float64(2025) || !merged.Dev || merged.ID != 1 {
		t.Fatalf("unpatched fields changed: %+v", merged)
	}
	if string(merged.Extra["home"]) != `"Seattle"` || string(merged.Extra["quote"]) != `"hi"` {
		t.Fatalf("unexpected extra fields: %v", merged.Extra)
	}
	if m.Major != "CS" {
		t.Fatal("merge mutated the receiver")
	}
}

func TestMergeCanOverrideID(t *testing.T) {
	m := Member{ID: 1, Name: "Alice", Year: float64(2025)}

	merged, err := m.Merge(map[string]json.RawMessage{"id": json.RawMessage(`7`)})
	if err != nil {
		t.Fatalf("merge err: %v", err)
	}
	if merged.ID != 7 {
		t.Fatalf("expected id 7, got %d", merged.ID)
	}
}

func TestMergeRejectsWrongType(t *testing.T) {
	m := Member{ID: 1, Name: "Alice", Year: float64(2025)}

	if _, err := m.Merge(map[string]json.RawMessage{"dev": json.RawMessage(`"yes"`)}); err == nil {
		t.Fatal("expected error for non-boolean dev")
	}
}

func TestHasRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		member Member
		want   bool
	}{
		{"numeric year", Member{Name: "A", Year: float64(2025)}, true},
		{"string year", Member{Name: "A", Year: "'25"}, true},
		{"missing name", Member{Year: float64(2025)}, false},
		{"missing year", Member{Name: "A"}, false},
		{"empty year", Member{Name: "A", Year: ""}, false},
		{"zero year", Member{Name: "A", Year: float64(0)}, false},
	}

	for _, tc := range cases {
		if got := tc.member.HasRequiredFields(); got != tc.want {
			t.Errorf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestFilterMatch(t *testing.T) {
	dev := Member{Major: "Computer Science", Dev: true}
	designer := Member{Major: "Studio Art", Dev: false}

	if !(Filter{}).Match(dev) || !(Filter{}).Match(designer) {
		t.Fatal("empty filter should pass everything")
	}
	if !(Filter{Major: "COMPUTER SCIENCE"}).Match(dev) {
		t.Fatal("major match should ignore case")
	}
	if (Filter{Major: "computer"}).Match(dev) {
		t.Fatal("major match should be exact")
	}
	if !(Filter{Dev: "TRUE"}).Match(dev) || (Filter{Dev: "true"}).Match(designer) {
		t.Fatal("dev=true should select developers only")
	}
	if !(Filter{Dev: "yes"}).Match(designer) || (Filter{Dev: "false"}).Match(dev) {
		t.Fatal("any dev value other than true should select non-developers")
	}
	if (Filter{Major: "studio art", Dev: "true"}).Match(designer) {
		t.Fatal("filters should compose with AND")
	}
}

func TestUnmarshalMatchesKnownFieldsExactly(t *testing.T) {
	var m Member
	data := []byte(`{"id":1,"name":"Alice","Name":"Bob","DEV":true,"year":2025}`)
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal err: %v", err)
	}

	if m.Name != "Alice" || m.Dev {
		t.Fatalf("case-variant keys leaked into known fields: %+v", m)
	}
	if string(m.Extra["Name"]) != `"Bob"` || string(m.Extra["DEV"]) != `true` {
		t.Fatalf("case-variant keys not kept as free-form fields: %v", m.Extra)
	}
}

func TestMergeKeepsCaseVariantKey(t *testing.T) {
	m := Member{ID: 1, Name: "Alice", Year: float64(2025)}

	merged, err := m.Merge(map[string]json.RawMessage{"Name": json.RawMessage(`"Bob"`)})
	if err != nil {
		t.Fatalf("merge err: %v", err)
	}
	if merged.Name != "Alice" {
		t.Fatalf("name changed by case-variant key: %q", merged.Name)
	}

	out, err := json.Marshal(merged)
	if err != nil {
		t.Fatalf("marshal err: %v", err)
	}
	var flat map[string]any
	if err := json.Unmarshal(out, &flat); err != nil {
		t.Fatalf("decode marshalled member: %v", err)
	}
	if flat["Name"] != "Bob" || flat["name"] != "Alice" {
		t.Fatalf("expected both keys in output, got %s", out)
	}
}

func TestMergeRejectsNullForTypedFields(t *testing.T) {
	m := Member{ID: 1, Name: "Alice", Year: float64(2025), Major: "CS"}

	for _, key := range []string{"id", "name", "major", "dev", "daliUID"} {
		if _, err := m.Merge(map[string]json.RawMessage{key: json.RawMessage(`null`)}); err == nil {
			t.Fatalf("expected error for null %s", key)
		}
	}

	merged, err := m.Merge(map[string]json.RawMessage{
		"year":  json.RawMessage(`null`),
		"quote": json.RawMessage(`null`),
	})
	if err != nil {
		t.Fatalf("merge err: %v", err)
	}
	if merged.Year != nil || string(merged.Extra["quote"]) != "null" {
		t.Fatalf("null year/free-form not applied: %+v", merged)
	}
}
