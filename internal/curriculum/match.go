package curriculum

import (
	"strings"
	"unicode"
)

// Replacement rewrites one known spelling variant to its canonical form.
type Replacement struct {
	From string
	To   string
}

// MatchRules is the data behind SubjectsMatch. Replacements apply in order.
type MatchRules struct {
	Replacements []Replacement
	// AllowContains accepts a match when one normalized name contains the other.
	AllowContains bool
}

// DefaultMatchRules covers the transliteration variants teachers commonly type.
var DefaultMatchRules = MatchRules{
	AllowContains: true,
	Replacements: []Replacement{
		{"ilin", "ilm"},
		{"agaid", "aqaid"},
		{"kalam", "kalām"},
		{"quran", "qur'an"},
		{"surf", "sarf"},
		{"koraz", "kanz"},
		{"hidaya", "hidāyah"},
		{"ahkam", "aḥkām"},
		{"sharia", "sharīʿah"},
		{"ilm ul", "ilm-ul"},
		{"ilm un", "ilm-un"},
		{"ilm us", "ilm-us"},
	},
}

// Normalize case-folds s, turns '-' into a space and '&' into "and", drops ASCII
// punctuation and collapses whitespace.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "&", "and")
	s = strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII && (unicode.IsPunct(r) || unicode.IsSymbol(r)) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// SubjectsMatch reports whether two subject names denote the same subject.
func SubjectsMatch(a, b string) bool {
	return DefaultMatchRules.Match(a, b)
}

func (m MatchRules) Match(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if m.AllowContains && (strings.Contains(na, nb) || strings.Contains(nb, na)) {
		return true
	}
	return m.canonical(na) == m.canonical(nb)
}

func (m MatchRules) canonical(s string) string {
	for _, r := range m.Replacements {
		s = strings.ReplaceAll(s, r.From, r.To)
	}
	return s
}
