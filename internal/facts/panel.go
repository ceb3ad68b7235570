// Package facts converts raw stats rows into the labelled facts panel that
// feeds both the prompt and the grounding verifier.
package facts

import (
	"fmt"
	"strconv"

	"github.com/wslanalytics/pressbox/internal/model"
)

// View names, used as source attribution on every fact.
const (
	SourceRoundFacts    = "vw_round_facts"
	SourceTeamForm      = "vw_team_form_5"
	SourcePlayerLeaders = "vw_player_leaders_90"
	SourceShotProfile   = "vw_shot_profile"
	SourceSetPieceShare = "vw_set_piece_share"
	SourceGKXGOT        = "vw_gk_xgot"
	SourcePreview       = "rpc_round_fixtures_preview"
)

const (
	maxLeaders = 20
	maxKeepers = 10
)

// RoundPanel expands raw round rows into the facts panel for a recap
// article. Row keys are looked up tolerantly because DB mode and file mode
// deliver different casings.
func RoundPanel(rf, tf, leaders, shots, setp, gk []model.Row) []model.Fact {
	var panel []model.Fact

	for _, m := range rf {
		home := GetString(m, "Home", "home_team", "homeTeam", "home")
		away := GetString(m, "Away", "away_team", "awayTeam", "away")
		if home == "" {
			home = "Home"
		}
		if away == "" {
			away = "Away"
		}

		panel = append(panel,
			model.Fact{Label: home + " vs " + away + " score",
				Value:  GetString(m, "", "home_score", "homeScore", "hs") + "-" + GetString(m, "", "away_score", "awayScore", "as"),
				Source: SourceRoundFacts},
			model.Fact{Label: home + " xG", Value: fmtNum(getValue(m, "xg_home", "xgHome", "xg_h")), Source: SourceRoundFacts},
			model.Fact{Label: away + " xG", Value: fmtNum(getValue(m, "xg_away", "xgAway", "xg_a")), Source: SourceRoundFacts},
			model.Fact{Label: home + " xGOT", Value: fmtNum(getValue(m, "xgot_home", "xgotHome")), Source: SourceRoundFacts},
			model.Fact{Label: away + " xGOT", Value: fmtNum(getValue(m, "xgot_away", "xgotAway")), Source: SourceRoundFacts},
			model.Fact{Label: home + " shots", Value: GetString(m, "", "shots_home", "shotsHome"), Source: SourceRoundFacts},
			model.Fact{Label: away + " shots", Value: GetString(m, "", "shots_away", "shotsAway"), Source: SourceRoundFacts},
			model.Fact{Label: "Attendance", Value: GetString(m, "", "attendance", "att"), Source: SourceRoundFacts},
		)
	}

	for _, r := range tf {
		team := GetString(r, "Team", "team", "team_name")
		panel = append(panel,
			model.Fact{Label: team + " points(5)", Value: GetString(r, "", "pts_5", "pts5"), Source: SourceTeamForm},
			model.Fact{Label: team + " GF(5)", Value: GetString(r, "", "gf_5", "gf5"), Source: SourceTeamForm},
			model.Fact{Label: team + " GA(5)", Value: GetString(r, "", "ga_5", "ga5"), Source: SourceTeamForm},
		)
	}

	for i, l := range leaders {
		if i >= maxLeaders {
			break
		}
		player := GetString(l, "Player", "player_name", "name")
		panel = append(panel,
			model.Fact{Label: player + " g/90", Value: fmt.Sprintf("%.2f", GetFloat(l, "g90", "g_90")), Source: SourcePlayerLeaders},
			model.Fact{Label: player + " xG/90", Value: fmt.Sprintf("%.2f", GetFloat(l, "xg90", "xg_90")), Source: SourcePlayerLeaders},
			model.Fact{Label: player + " minutes", Value: strconv.Itoa(int(GetFloat(l, "minutes", "mins"))), Source: SourcePlayerLeaders},
		)
	}

	for _, s := range shots {
		tid := GetString(s, "T", "team_id", "teamId")
		panel = append(panel,
			model.Fact{Label: "Team " + tid + " box share", Value: fmt.Sprintf("%.2f", GetFloat(s, "box_share", "boxShare")), Source: SourceShotProfile},
			model.Fact{Label: "Team " + tid + " big chances", Value: GetString(s, "", "big_chances", "bigChances"), Source: SourceShotProfile},
		)
	}

	for _, sp := range setp {
		tid := GetString(sp, "T", "team_id", "teamId")
		panel = append(panel,
			model.Fact{Label: "Team " + tid + " xG set-pieces share", Value: fmt.Sprintf("%.2f", GetFloat(sp, "xg_sp_share", "xgSetPieceShare")), Source: SourceSetPieceShare},
		)
	}

	for i, g := range gk {
		if i >= maxKeepers {
			break
		}
		name := GetString(g, "GK", "player_name", "name")
		panel = append(panel,
			model.Fact{Label: name + " xGOTΔ", Value: fmt.Sprintf("%.2f", GetFloat(g, "xgot_delta", "xgotDelta")), Source: SourceGKXGOT},
		)
	}

	return panel
}

// PreviewPanel expands preview fixtures (win probabilities, likely
// scorelines, venue, broadcast) into the facts panel.
func PreviewPanel(fixtures []model.Row) []model.Fact {
	var panel []model.Fact

	for _, f := range fixtures {
		home := GetString(f, "", "home")
		away := GetString(f, "", "away")

		wp, _ := getValue(f, "win_probabilities", "probabilities").(map[string]any)
		panel = append(panel,
			model.Fact{Label: home + " win %", Value: toString(wp["home"]), Source: SourcePreview},
			model.Fact{Label: "Draw %", Value: toString(wp["draw"]), Source: SourcePreview},
			model.Fact{Label: away + " win %", Value: toString(wp["away"]), Source: SourcePreview},
		)

		mls := likelyScorelines(f)
		for i := 0; i < 3; i++ {
			v := ""
			if i < len(mls) {
				v = mls[i]
			}
			panel = append(panel, model.Fact{Label: fmt.Sprintf("Top scoreline %d", i+1), Value: v, Source: SourcePreview})
		}

		panel = append(panel,
			model.Fact{Label: "Venue", Value: GetString(f, "", "venue"), Source: SourcePreview},
			model.Fact{Label: "Broadcast", Value: GetString(f, "", "broadcast"), Source: SourcePreview},
		)
	}

	return panel
}

func likelyScorelines(f model.Row) []string {
	raw, _ := getValue(f, "most_likely_scorelines", "mostLikelyScorelines").([]any)
	var out []string
	for _, v := range raw {
		out = append(out, toString(v))
	}
	return out
}

// getValue returns the first present, non-nil key.
func getValue(m model.Row, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// GetString renders the first present key as text, or def when all are
// missing. The empty-string default mirrors how absent stats render as
// empty values rather than being dropped from the panel.
func GetString(m model.Row, def string, keys ...string) string {
	v := getValue(m, keys...)
	if v == nil {
		return def
	}
	return toString(v)
}

// GetFloat parses the first present key as a float, 0 when missing or
// non-numeric.
func GetFloat(m model.Row, keys ...string) float64 {
	v := getValue(m, keys...)
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// fmtNum formats a numeric value with two decimals, or an em dash when the
// value is missing or not a number.
func fmtNum(v any) string {
	switch n := v.(type) {
	case nil:
		return "—"
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return "—"
		}
		return fmt.Sprintf("%.2f", f)
	default:
		return fmt.Sprintf("%.2f", getFloatValue(n))
	}
}

func getFloatValue(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func toString(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		// JSON numbers decode as float64; render integral values without
		// a spurious fractional part.
		if n == float64(int64(n)) {
			return strconv.FormatInt(int64(n), 10)
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int:
		return strconv.Itoa(n)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case int64:
		return strconv.FormatInt(n, 10)
	default:
		return fmt.Sprintf("%v", n)
	}
}
