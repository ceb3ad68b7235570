package model

import "sort"

// Fact is a single stat with source attribution. Value is kept as text
// ("1.80", "3-1", "28%") because grounding checks compare textual
// renderings, not parsed numbers.
type Fact struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// FactsPanel is the ordered collection of facts handed to the model and to
// the grounding verifier.
type FactsPanel struct {
	Items []Fact `json:"items"`
}

// Sources returns the distinct source identifiers of the panel, sorted.
// Used as the citations list of a response.
func (p FactsPanel) Sources() []string {
	seen := make(map[string]struct{}, len(p.Items))
	out := make([]string, 0, len(p.Items))
	for _, f := range p.Items {
		if _, ok := seen[f.Source]; ok {
			continue
		}
		seen[f.Source] = struct{}{}
		out = append(out, f.Source)
	}
	sort.Strings(out)
	return out
}
