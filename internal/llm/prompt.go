package llm

import (
	"encoding/json"
	"fmt"

	"github.com/wslanalytics/pressbox/internal/model"
)

// SystemPrompt frames every generation call. The grounding verifier is the
// enforcement side of the "no invented figures" instruction.
const SystemPrompt = "You are a precise, citation-aware sports analyst for WSLAnalytics."

// RoundPromptData carries the raw stat rows embedded into a recap prompt.
type RoundPromptData struct {
	Angle        string
	RoundFacts   []model.Row
	TeamForm     []model.Row
	Leaders      []model.Row
	ShotProfiles []model.Row
	SetPiece     []model.Row
	GK           []model.Row
	H2H          []model.Row
}

// BuildRoundPrompt builds the user prompt for a round recap. The stat rows
// are embedded as JSON; the model is told to use only figures that appear
// in them.
func BuildRoundPrompt(d RoundPromptData) string {
	angle := d.Angle
	if angle == "" {
		angle = "none"
	}
	return fmt.Sprintf(`Write a round recap article for a Women's Super League analytics publication.

Editorial angle: %s

Use ONLY the figures present in the data below. Do not invent statistics,
scores, or percentages; any number you write must appear in the data.
Keep the tone analytical, lead with the round's defining margin, and close
with what the underlying numbers suggest about the next round.

Match facts:
%s

Team form (last 5):
%s

Player leaders (per 90):
%s

Shot profiles:
%s

Set-piece shares:
%s

Goalkeeper xGOT deltas:
%s

Head-to-head notes:
%s

Write 5-7 paragraphs of Markdown body text without a title.`,
		angle,
		jsonBlob(d.RoundFacts),
		jsonBlob(d.TeamForm),
		jsonBlob(d.Leaders),
		jsonBlob(d.ShotProfiles),
		jsonBlob(d.SetPiece),
		jsonBlob(d.GK),
		jsonBlob(d.H2H),
	)
}

// BuildPreviewPrompt builds the user prompt for a gameweek preview from
// fixtures with win probabilities and likely scorelines.
func BuildPreviewPrompt(angle string, fixtures []model.Row) string {
	if angle == "" {
		angle = "none"
	}
	return fmt.Sprintf(`Write a gameweek preview article for a Women's Super League analytics publication.

Editorial angle: %s

Use ONLY the figures present in the fixture data below. Do not invent win
probabilities, scorelines, or any other number. Cover each fixture: the
probability split, the most likely scorelines, and what would have to be
true for the underdog.

Fixtures:
%s

Write 4-6 paragraphs of Markdown body text without a title.`,
		angle,
		jsonBlob(fixtures),
	)
}

// jsonBlob renders rows as compact JSON; marshal failures degrade to an
// empty list so a prompt is always produced.
func jsonBlob(rows []model.Row) string {
	if len(rows) == 0 {
		return "[]"
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return "[]"
	}
	return string(b)
}
