package llm

import (
	"strings"
	"testing"

	"github.com/wslanalytics/pressbox/internal/model"
)

func TestBuildRoundPrompt(t *testing.T) {
	prompt := BuildRoundPrompt(RoundPromptData{
		Angle:      "set pieces",
		RoundFacts: []model.Row{{"home_team": "Arsenal", "away_team": "Chelsea", "home_score": 2}},
		TeamForm:   []model.Row{{"team": "Arsenal", "pts_5": 13}},
	})

	if !strings.Contains(prompt, "Editorial angle: set pieces") {
		t.Error("angle missing from prompt")
	}
	if !strings.Contains(prompt, `"home_team":"Arsenal"`) {
		t.Error("round facts not embedded as JSON")
	}
	if !strings.Contains(prompt, `"pts_5":13`) {
		t.Error("team form not embedded as JSON")
	}
	if !strings.Contains(prompt, "Use ONLY the figures") {
		t.Error("grounding instruction missing")
	}
	// Sections with no rows still appear, as empty lists.
	if !strings.Contains(prompt, "Head-to-head notes:\n[]") {
		t.Error("empty sections should render as []")
	}
}

func TestBuildRoundPrompt_DefaultAngle(t *testing.T) {
	prompt := BuildRoundPrompt(RoundPromptData{})
	if !strings.Contains(prompt, "Editorial angle: none") {
		t.Error("empty angle should default to none")
	}
}

func TestBuildPreviewPrompt(t *testing.T) {
	prompt := BuildPreviewPrompt("derbies", []model.Row{{"home": "Arsenal", "away": "Spurs"}})

	if !strings.Contains(prompt, "Editorial angle: derbies") {
		t.Error("angle missing from prompt")
	}
	if !strings.Contains(prompt, `"home":"Arsenal"`) {
		t.Error("fixtures not embedded as JSON")
	}
	if !strings.Contains(prompt, "preview") {
		t.Error("prompt should say it is a preview")
	}
}
