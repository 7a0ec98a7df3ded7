package taxonomy

import (
	"strings"
	"unicode"
)

// Normalize lowercases and trims a raw genre string, collapses runs of
// whitespace and underscores into single spaces, folds dash and apostrophe
// variants onto their ASCII forms, and drops any other punctuation.
//
// Normalize is idempotent.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	space := true
	for _, r := range strings.ToLower(raw) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			space = false
		case unicode.IsSpace(r) || r == '_':
			if !space {
				b.WriteRune(' ')
				space = true
			}
		case unicode.Is(unicode.Pd, r):
			b.WriteRune('-')
			space = false
		case r == '\'' || r == '‘' || r == '’':
			b.WriteRune('\'')
			space = false
		case r == '&' || r == '/' || r == '+':
			b.WriteRune(r)
			space = false
		}
	}
	return strings.TrimSpace(b.String())
}

// Aliases maps normalized spellings and synonyms onto canonical genre ids.
type Aliases struct {
	table map[string]string
}

// NewAliases builds an alias table from raw synonym -> canonical pairs.
//
// Keys and targets are normalized. Chains ("a" -> "b" -> "c") are collapsed
// so every key points straight at a genre which is not itself an alias,
// and keys which lead into a cycle are dropped.
func NewAliases(raw map[string]string) *Aliases {
	normalized := make(map[string]string, len(raw))
	for k, v := range raw {
		k, v := Normalize(k), Normalize(v)
		if k == "" || v == "" || k == v {
			continue
		}
		normalized[k] = v
	}

	table := make(map[string]string, len(normalized))
	for k := range normalized {
		seen := map[string]struct{}{k: {}}
		target, cyclic := normalized[k], false
		for {
			next, isAlias := normalized[target]
			if !isAlias {
				break
			}
			if _, loop := seen[target]; loop {
				cyclic = true
				break
			}
			seen[target] = struct{}{}
			target = next
		}
		if cyclic {
			continue
		}
		table[k] = target
	}

	return &Aliases{table: table}
}

// Resolve returns the canonical genre id for raw. Unknown genres resolve to
// their normalized form.
func (a *Aliases) Resolve(raw string) string {
	id := Normalize(raw)
	if a == nil {
		return id
	}
	if canonical, ok := a.table[id]; ok {
		return canonical
	}
	return id
}

// Len reports the number of aliases in the table.
func (a *Aliases) Len() int {
	if a == nil {
		return 0
	}
	return len(a.table)
}
