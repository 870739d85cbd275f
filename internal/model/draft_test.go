package model

import (
	"encoding/json"
	"testing"
)

func TestDraft_ZeroValueMarshalsEveryField(t *testing.T) {
	data, err := json.Marshal(Draft{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, name := range DraftFields {
		v, ok := got[name]
		if !ok {
			t.Errorf("field %q missing from payload", name)
			continue
		}
		if v != "" {
			t.Errorf("field %q = %v, want empty string", name, v)
		}
	}
}

func TestDraft_SetKnownAndUnknownFields(t *testing.T) {
	var d Draft
	d.Set(FieldName, "Alex")
	d.Set(FieldSkills, "Go, SQL")
	d.Set("portfolio", "https://alex.dev")

	if d.Name != "Alex" {
		t.Errorf("Name = %q, want Alex", d.Name)
	}
	if d.Get(FieldSkills) != "Go, SQL" {
		t.Errorf("skills = %q", d.Get(FieldSkills))
	}
	if d.Get("portfolio") != "https://alex.dev" {
		t.Errorf("portfolio = %q", d.Get("portfolio"))
	}

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["portfolio"] != "https://alex.dev" {
		t.Errorf("extra field not sent: %v", got)
	}
}

func TestDraft_ExtraCannotShadowKnownField(t *testing.T) {
	d := Draft{Name: "Alex", Extra: map[string]string{"name": "Mallory"}}
	data, _ := json.Marshal(d)
	var got map[string]string
	_ = json.Unmarshal(data, &got)
	if got["name"] != "Alex" {
		t.Errorf("name = %q, want Alex", got["name"])
	}
}

func TestDraft_CloneIsIndependent(t *testing.T) {
	d := Draft{Extra: map[string]string{"a": "1"}}
	c := d.Clone()
	c.Extra["a"] = "2"
	if d.Extra["a"] != "1" {
		t.Error("clone shares Extra with original")
	}
}

func TestRawCV_Unmarshal(t *testing.T) {
	payload := `{"id": 7, "created_at": "2025-01-02T03:04:05", "name": "Alex", "skills": "Python", "photo_path": "/uploads/a.png"}`
	var cv RawCV
	if err := json.Unmarshal([]byte(payload), &cv); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cv.ID != 7 || cv.CreatedAt != "2025-01-02T03:04:05" {
		t.Errorf("identity = %d %q", cv.ID, cv.CreatedAt)
	}
	if cv.Draft.Name != "Alex" || cv.Draft.Skills != "Python" || cv.Draft.PhotoPath != "/uploads/a.png" {
		t.Errorf("draft = %+v", cv.Draft)
	}
}

func TestMatchSummary_Level(t *testing.T) {
	tests := []struct {
		summary MatchSummary
		want    string
	}{
		{MatchSummary{MatchLevel: "Custom"}, "Custom"},
		{MatchSummary{MatchingScore: 85}, "Strong Match"},
		{MatchSummary{MatchingScore: 70}, "Strong Match"},
		{MatchSummary{MatchingScore: 40}, "Medium Match"},
		{MatchSummary{MatchingScore: 12.5}, "Weak Match"},
	}
	for _, tt := range tests {
		if got := tt.summary.Level(); got != tt.want {
			t.Errorf("Level(%+v) = %q, want %q", tt.summary, got, tt.want)
		}
	}
}

func TestAnalysisResult_Summary(t *testing.T) {
	r := NewAnalysisResult([]byte(`{"matching_score":71,"match_level":"Medium Match","reasons":["ok"]}`))
	s, err := r.Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.MatchingScore != 71 || s.MatchLevel != "Medium Match" || len(s.Reasons) != 1 {
		t.Errorf("summary = %+v", s)
	}
}
