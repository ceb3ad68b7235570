package model

// Row is a raw stat row as returned by the stats views. Keys vary between
// DB and file mode (snake_case vs camelCase), so lookups go through the
// tolerant getters in internal/facts.
type Row = map[string]any

// SummariseParams are the inputs for article generation. Season and Round
// together enable DB mode; the row slices allow a caller to supply data
// directly (file mode), in which case the database is skipped.
type SummariseParams struct {
	Season  string `json:"season,omitempty"`
	Round   int    `json:"round,omitempty"`
	MatchID string `json:"match_id,omitempty"`
	Angle   string `json:"angle,omitempty"`

	RoundFacts      []Row `json:"round_facts,omitempty"`
	TeamForm        []Row `json:"team_form,omitempty"`
	Leaders         []Row `json:"leaders,omitempty"`
	ShotProfiles    []Row `json:"shot_profiles,omitempty"`
	SetPiece        []Row `json:"set_piece,omitempty"`
	GK              []Row `json:"gk,omitempty"`
	H2H             []Row `json:"h2h,omitempty"`
	PreviewFixtures []Row `json:"preview_fixtures,omitempty"`
}

// DBMode reports whether the params request a database-backed round recap:
// season and round set, no round facts supplied inline.
func (p SummariseParams) DBMode() bool {
	return p.Season != "" && p.Round >= 1 && p.RoundFacts == nil
}

// RenderedOutputs holds every rendered format for a generated article.
type RenderedOutputs struct {
	SubstackMD string     `json:"substack_md"`
	ThreadText string     `json:"thread_text"`
	AltText    string     `json:"alt_text"`
	SEOYAML    string     `json:"seo_yaml"`
	FactsPanel FactsPanel `json:"facts_panel"`
}

// SummariseResponse is the complete result of a summarise call.
// Ungrounded lists the numeric tokens of the body that could not be traced
// back to the facts panel; when non-empty the body carries a disclaimer.
type SummariseResponse struct {
	Inputs     SummariseParams `json:"inputs"`
	Outputs    RenderedOutputs `json:"outputs"`
	Citations  []string        `json:"citations"`
	Ungrounded []string        `json:"ungrounded,omitempty"`
}

// ArticleKind distinguishes the two article flavours.
type ArticleKind string

const (
	ArticleRecap   ArticleKind = "recap"
	ArticlePreview ArticleKind = "preview"
)

// ArticleRecord is the audit-log row persisted for every generated article,
// keeping the verifier's verdict alongside the prose it judged.
type ArticleRecord struct {
	ID         string      `json:"id"`
	Season     string      `json:"season"`
	Round      int         `json:"round"`
	Kind       ArticleKind `json:"kind"`
	Model      string      `json:"model"`
	Body       string      `json:"body"`
	Ungrounded []string    `json:"ungrounded,omitempty"`
}
