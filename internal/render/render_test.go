package render

import (
	"strings"
	"testing"

	"github.com/wslanalytics/pressbox/internal/model"
)

func sampleArticle() Article {
	return Article{
		Round:    "3",
		Headline: "Margins matter in Round 3",
		Body:     "Arsenal edged Chelsea on the underlying numbers.",
		Bullets:  []string{"Top xG in round: Arsenal (1.80)", "Form check"},
		Facts: []model.Fact{
			{Label: "Arsenal vs Chelsea score", Value: "2-1", Source: "vw_round_facts"},
			{Label: "Arsenal xG", Value: "1.80", Source: "vw_round_facts"},
		},
		Teams: []string{"Arsenal", "Chelsea"},
	}
}

func TestSubstack_Recap(t *testing.T) {
	out, err := Substack(sampleArticle(), false)
	if err != nil {
		t.Fatalf("Substack() error = %v", err)
	}

	for _, want := range []string{
		"# Margins matter in Round 3",
		"*WSL Round 3 recap*",
		"Arsenal edged Chelsea",
		"## Facts panel",
		"| Arsenal vs Chelsea score | 2-1 | vw_round_facts |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSubstack_Preview(t *testing.T) {
	out, err := Substack(sampleArticle(), true)
	if err != nil {
		t.Fatalf("Substack() error = %v", err)
	}
	if !strings.Contains(out, "*WSL Round 3 preview*") {
		t.Errorf("preview marker missing:\n%s", out)
	}
	if strings.Contains(out, "recap*") {
		t.Error("preview output carries the recap marker")
	}
}

func TestThread(t *testing.T) {
	out, err := Thread(sampleArticle())
	if err != nil {
		t.Fatalf("Thread() error = %v", err)
	}
	if !strings.HasPrefix(out, "Margins matter in Round 3") {
		t.Errorf("thread should open with the headline:\n%s", out)
	}
	if !strings.Contains(out, "• Top xG in round: Arsenal (1.80)") {
		t.Errorf("bullet missing:\n%s", out)
	}
	if !strings.Contains(out, "Full breakdown on the Substack.") {
		t.Errorf("closer missing:\n%s", out)
	}
}

func TestAltText(t *testing.T) {
	out, err := AltText(sampleArticle())
	if err != nil {
		t.Fatalf("AltText() error = %v", err)
	}
	want := "WSLAnalytics graphic for Round 3, featuring Arsenal, Chelsea."
	if out != want {
		t.Errorf("AltText() = %q, want %q", out, want)
	}
}

func TestSEOYAML(t *testing.T) {
	a := sampleArticle()
	a.Headline = `Quotes "and" colons: a headline`

	out, err := SEOYAML(a)
	if err != nil {
		t.Fatalf("SEOYAML() error = %v", err)
	}
	if !strings.Contains(out, "title:") || !strings.Contains(out, "round: \"3\"") {
		t.Errorf("front matter fields missing:\n%s", out)
	}
	if !strings.Contains(out, "WSL") {
		t.Errorf("tags missing:\n%s", out)
	}
}

func TestRecapHeadline(t *testing.T) {
	rf := []model.Row{
		{"home_team": "Arsenal", "away_team": "Chelsea", "xg_home": 1.8, "xg_away": 0.9},
		{"home_team": "Spurs", "away_team": "Everton", "xg_home": 0.7, "xg_away": 2.3},
	}

	headline, bullets := RecapHeadline(rf, "3")
	if headline != "Margins matter in Round 3" {
		t.Errorf("headline = %q", headline)
	}
	if len(bullets) == 0 || !strings.Contains(bullets[0], "Everton (2.30)") {
		t.Errorf("top-xG bullet = %v, want Everton 2.30", bullets)
	}
}

func TestRecapHeadline_EmptyRound(t *testing.T) {
	headline, bullets := RecapHeadline(nil, "3")
	if headline != "Round Recap" {
		t.Errorf("headline = %q", headline)
	}
	if len(bullets) != 1 {
		t.Errorf("bullets = %v", bullets)
	}
}

func TestPrimaryTeams_DedupAndOrder(t *testing.T) {
	rows := []model.Row{
		{"home_team": "Arsenal", "away_team": "Chelsea"},
		{"home_team": "Chelsea", "away_team": "Spurs"},
		{"home_team": "Arsenal"},
	}

	teams := PrimaryTeams(rows, []string{"home_team"}, []string{"away_team"})
	want := []string{"Arsenal", "Chelsea", "Spurs"}
	if len(teams) != len(want) {
		t.Fatalf("teams = %v, want %v", teams, want)
	}
	for i := range want {
		if teams[i] != want[i] {
			t.Errorf("teams[%d] = %q, want %q", i, teams[i], want[i])
		}
	}
}
