package conversion

import (
	"encoding/json"
	"testing"
)

func TestStatusPolicyResolve(t *testing.T) {
	syntax := Issues{NewIssue(IssueSyntax, "bad order")}
	logical := Issues{NewIssue(IssueLogical, "contradiction")}

	tests := []struct {
		name       string
		policy     StatusPolicy
		hasMessage bool
		issues     Issues
		mode       ParsingMode
		want       Status
	}{
		{"no message", StatusByOutcome, false, nil, ModeStrict, StatusFail},
		{"clean", StatusByOutcome, true, nil, ModeStrict, StatusSuccess},
		{"issues with message", StatusByOutcome, true, syntax, ModeStrict, StatusWithErrors},
		{"severity strict syntax", StatusBySeverity, true, syntax, ModeStrict, StatusFail},
		{"severity lenient syntax", StatusBySeverity, true, syntax, ModeAllowSyntaxErrors, StatusWithErrors},
		{"severity logical", StatusBySeverity, true, logical, ModeStrict, StatusWithErrors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.policy.Resolve(tt.hasMessage, tt.issues, tt.mode)
			if got != tt.want {
				t.Errorf("Resolve() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIssuesHelpers(t *testing.T) {
	var is Issues
	is.Add(IssueMissingData, "Missing %s", "validity")
	is.Add(IssueSyntax, "x")
	is.Add(IssueSyntax, "y")

	if !is.Has(IssueMissingData) {
		t.Error("expected MISSING_DATA issue")
	}
	if is.Has(IssueLogical) {
		t.Error("unexpected LOGICAL issue")
	}
	if got := is.Count(IssueSyntax); got != 2 {
		t.Errorf("Count(SYNTAX) = %d, want 2", got)
	}
	if is[0].Message != "Missing validity" {
		t.Errorf("message = %q", is[0].Message)
	}

	p := is.Prefixed("[2] ")
	if p[1].Message != "[2] x" || is[1].Message != "x" {
		t.Errorf("Prefixed() changed the original or produced %q", p[1].Message)
	}
}

func TestIssueJSON(t *testing.T) {
	b, err := json.Marshal(NewIssue(IssueSyntaxError, "Invalid time"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"type":"SYNTAX_ERROR","message":"Invalid time"}` {
		t.Errorf("json = %s", b)
	}

	var back Issue
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Type != IssueSyntaxError {
		t.Errorf("type = %s", back.Type)
	}
}

func TestParseFamily(t *testing.T) {
	tests := map[string]Family{
		"":       FamilyUnknown,
		"taf":    FamilyTAF,
		"METAR":  FamilyMETAR,
		" swx ":  FamilySWX,
		"AIRMET": FamilyAIRMET,
	}
	for in, want := range tests {
		got, err := ParseFamily(in)
		if err != nil {
			t.Errorf("ParseFamily(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseFamily(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseFamily("NOTAM"); err == nil {
		t.Error("expected error for unknown family")
	}
}

func TestParseParsingMode(t *testing.T) {
	if m, _ := ParseParsingMode("lenient"); m != ModeAllowSyntaxErrors {
		t.Errorf("lenient = %s", m)
	}
	if m, _ := ParseParsingMode(""); m != ModeStrict {
		t.Errorf("empty = %s", m)
	}
	if _, err := ParseParsingMode("loose"); err == nil {
		t.Error("expected error")
	}
	if got := (Hints{}).LabelEndLength(); got != DefaultSWXLabelEndLength {
		t.Errorf("LabelEndLength() = %d", got)
	}
}
