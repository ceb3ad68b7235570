// Package guard implements numeric fact-checking for generated text.
//
// Every number in a model-generated article body must trace back to a value
// in the supplied facts panel, under tolerant formatting rules (commas,
// percent signs, minor rounding). Scorelines like "3-1" or "2–2" are
// understood and indexed on both sides.
package guard

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/wslanalytics/pressbox/internal/model"
)

// scoreRe matches scorelines like "2-1" or "3 – 3" (hyphen or en dash).
var scoreRe = regexp.MustCompile(`\b(\d+)\s*[-–]\s*(\d+)\b`)

// allowList holds numbers often referenced in match prose that are not
// facts: minute markers, common intervals, and a small rolling window of
// season years.
var allowList = map[string]struct{}{
	"120": {}, "90": {}, "75": {}, "60": {}, "45": {}, "30": {},
	"25": {}, "20": {}, "15": {}, "10": {}, "5": {}, "3": {}, "2": {}, "1": {},
	"2019": {}, "2020": {}, "2021": {}, "2022": {}, "2023": {}, "2024": {},
	"2025": {}, "2026": {},
}

// FindUngrounded returns the numeric tokens found in body that are not
// present in the facts panel, unique and in order of first appearance.
// An empty result means all numeric content is grounded (or allow-listed).
// Nil or empty body/facts degrade to empty-input behaviour; the function
// never fails.
func FindUngrounded(body string, facts []model.Fact) []string {
	index := buildIndex(facts)

	var missing []string

	// Scorelines first, both halves checked independently.
	for _, pair := range Scorelines(body) {
		for _, part := range pair {
			norm := normalizeToken(part)
			if _, ok := allowList[norm]; ok {
				continue
			}
			if !intersects(variants(norm), index) {
				missing = append(missing, part)
			}
		}
	}

	// Standalone tokens, percents included.
	for _, tok := range Numbers(body) {
		norm := normalizeToken(tok)
		if _, ok := allowList[norm]; ok {
			continue
		}
		if _, ok := allowList[strings.TrimSuffix(tok, "%")]; ok {
			continue
		}
		if !intersects(variants(norm), index) {
			missing = append(missing, tok)
		}
	}

	return uniquePreserveOrder(missing)
}

// Numbers extracts numeric tokens from text: integers and decimals with
// optional comma grouping and an optional percent sign. Tokens embedded in
// words ("Matchday3") are skipped. Matches are returned left to right with
// duplicates retained. Scorelines are handled separately by Scorelines.
func Numbers(text string) []string {
	var out []string
	for i := 0; i < len(text); {
		if i > 0 && isLetter(text[i-1]) {
			i++
			continue
		}
		end, ok := matchNumberAt(text, i)
		if !ok {
			i++
			continue
		}
		out = append(out, text[i:end])
		i = end
	}
	return out
}

// Scorelines extracts scoreline pairs like "2-1" or "3 – 3" and returns the
// two digit runs of each match, left to right, duplicates retained.
func Scorelines(text string) [][2]string {
	var out [][2]string
	for _, m := range scoreRe.FindAllStringSubmatch(text, -1) {
		out = append(out, [2]string{m[1], m[2]})
	}
	return out
}

// matchNumberAt attempts to match a numeric token anchored at start:
// optional sign, 1-3 digits, optional comma-separated thousand groups,
// optional decimal part, optional trailing percent. Go's regexp has no
// lookaround, so the "not followed by a letter" guard is enforced here by
// trying candidate token ends longest-first and backing off over the
// optional components, the way a backtracking engine would.
func matchNumberAt(s string, start int) (int, bool) {
	j := start
	if j < len(s) && s[j] == '-' {
		j++
	}
	nd := countDigits(s, j)
	if nd > 3 {
		nd = 3
	}
	for ; nd >= 1; nd-- {
		pos := j + nd

		// Greedy thousand groups of exactly ",ddd".
		var groups int
		for p := pos; p+3 < len(s) && s[p] == ',' && countDigits(s, p+1) >= 3; p += 4 {
			groups++
		}

		for ng := groups; ng >= 0; ng-- {
			p := pos + 4*ng

			// Decimal part, backing off one fractional digit at a time.
			if p < len(s) && s[p] == '.' {
				for dd := countDigits(s, p+1); dd >= 1; dd-- {
					if end, ok := matchPercentEnd(s, p+1+dd); ok {
						return end, true
					}
				}
			}
			if end, ok := matchPercentEnd(s, p); ok {
				return end, true
			}
		}
	}
	return 0, false
}

// matchPercentEnd finalises a candidate token ending at pos: prefer
// consuming a trailing percent sign, and accept whichever end is not
// followed by a letter.
func matchPercentEnd(s string, pos int) (int, bool) {
	if pos < len(s) && s[pos] == '%' && boundaryAfter(s, pos+1) {
		return pos + 1, true
	}
	if boundaryAfter(s, pos) {
		return pos, true
	}
	return 0, false
}

func boundaryAfter(s string, pos int) bool {
	return pos >= len(s) || !isLetter(s[pos])
}

func countDigits(s string, from int) int {
	n := 0
	for from+n < len(s) && s[from+n] >= '0' && s[from+n] <= '9' {
		n++
	}
	return n
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// normalizeToken strips grouping commas and one trailing percent sign,
// keeping sign and decimal point. Pure string transform, idempotent.
func normalizeToken(tok string) string {
	return strings.TrimSuffix(strings.ReplaceAll(tok, ",", ""), "%")
}

// variants generates the tolerant renderings of a normalized numeric
// string: the raw form plus the value rounded to 0, 1 and 2 decimal places,
// and the raw form with trailing fractional zeros trimmed ("1.50" → "1.5").
// Rounding to integer is half-away-from-zero. Percent and non-percent forms
// were already collapsed by normalizeToken; that equivalence ("28%" matches
// a stored "28") is a deliberate tolerance. Non-numeric input degrades to a
// singleton set.
func variants(n string) map[string]struct{} {
	out := map[string]struct{}{n: {}}

	f, err := strconv.ParseFloat(n, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return out
	}

	r := math.Round(f)
	if r == 0 {
		out["0"] = struct{}{}
	} else {
		out[strconv.FormatFloat(r, 'f', 0, 64)] = struct{}{}
	}
	out[strconv.FormatFloat(f, 'f', 1, 64)] = struct{}{}
	out[strconv.FormatFloat(f, 'f', 2, 64)] = struct{}{}

	if strings.Contains(n, ".") {
		trimmed := strings.TrimRight(strings.TrimRight(n, "0"), ".")
		if trimmed != "" {
			out[trimmed] = struct{}{}
		}
	}
	return out
}

// buildIndex builds the set of tolerant numeric renderings from the facts'
// Value fields. Scorelines contribute both sides; standalone numbers
// (percents included) contribute directly. The index is a flat set with no
// provenance back to individual facts.
func buildIndex(facts []model.Fact) map[string]struct{} {
	bag := make(map[string]struct{})
	for _, f := range facts {
		for _, pair := range Scorelines(f.Value) {
			for _, part := range pair {
				for v := range variants(normalizeToken(part)) {
					bag[v] = struct{}{}
				}
			}
		}
		for _, tok := range Numbers(f.Value) {
			for v := range variants(normalizeToken(tok)) {
				bag[v] = struct{}{}
			}
		}
	}
	return bag
}

func intersects(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

func uniquePreserveOrder(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, x := range items {
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	return out
}
