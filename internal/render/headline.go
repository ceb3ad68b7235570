package render

import (
	"fmt"

	"github.com/wslanalytics/pressbox/internal/facts"
	"github.com/wslanalytics/pressbox/internal/model"
)

// RecapHeadline derives the recap headline and thread bullets from the
// round rows: the bullet leads with the round's top single-match xG.
func RecapHeadline(rf []model.Row, round string) (string, []string) {
	if len(rf) == 0 {
		return "Round Recap", []string{"No fixtures found."}
	}

	bestXG := 0.0
	bestTeam := ""
	for _, m := range rf {
		if xg := facts.GetFloat(m, "xg_home", "xgHome"); xg > bestXG {
			bestXG = xg
			bestTeam = facts.GetString(m, "Home", "home_team", "homeTeam", "home")
		}
		if xg := facts.GetFloat(m, "xg_away", "xgAway"); xg > bestXG {
			bestXG = xg
			bestTeam = facts.GetString(m, "Away", "away_team", "awayTeam", "away")
		}
	}

	headline := fmt.Sprintf("Margins matter in Round %s", round)
	bullets := []string{
		fmt.Sprintf("Top xG in round: %s (%.2f)", bestTeam, bestXG),
		"Best form over last five: see Facts Panel",
		"Set-piece signals emerging across the league.",
	}
	return headline, bullets
}

// PreviewHeadline derives the preview headline and thread bullets.
func PreviewHeadline(round string) (string, []string) {
	headline := fmt.Sprintf("Gameweek %s Preview: fault lines & margins", round)
	bullets := []string{
		"Win probabilities & likely scorelines",
		"Key matchups & trends",
		"Form vs underlying metrics",
	}
	return headline, bullets
}

// PrimaryTeams collects the distinct team names of the round in first
// appearance order, for alt text.
func PrimaryTeams(rows []model.Row, homeKeys, awayKeys []string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, m := range rows {
		add(facts.GetString(m, "", homeKeys...))
		add(facts.GetString(m, "", awayKeys...))
	}
	return out
}
