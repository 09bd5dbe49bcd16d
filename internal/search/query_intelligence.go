package search

import (
	"sort"
	"strings"
	"unicode"
)

const maxVariants = 10

// QueryContext is a search text prepared for matching: the normalized form
// plus synonym variants, the normalized form first.
type QueryContext struct {
	Original   string
	Normalized string
	Variants   []string
}

// NormalizeQuery lowercases, keeps letters and digits, and collapses every
// other run of characters into a single space.
func NormalizeQuery(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}

	b := strings.Builder{}
	b.Grow(len(input))
	for _, r := range input {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		case r == '.' || r == '\'':
			// b.sc, officer's
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

var compactKeys = func() map[string]string {
	out := make(map[string]string)
	for k := range Synonyms {
		if strings.Contains(k, " ") {
			out[strings.ReplaceAll(k, " ", "")] = k
		}
	}
	return out
}()

func ExpandQuery(normalized string) []string {
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return []string{}
	}

	out := make([]string, 0, maxVariants)
	seen := make(map[string]struct{}, maxVariants)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || len(out) >= maxVariants {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(normalized)
	for _, syn := range GetSynonyms(normalized) {
		add(syn)
	}

	words := strings.Fields(normalized)
	if spaced, ok := compactKeys[words[0]]; ok {
		words = append(strings.Fields(spaced), words[1:]...)
		add(strings.Join(words, " "))
	}

	// Swap one leading or inner phrase (up to two words) for its synonyms.
	for i := range words {
		for n := 2; n >= 1; n-- {
			if i+n > len(words) {
				continue
			}
			phrase := strings.Join(words[i:i+n], " ")
			syns := GetSynonyms(phrase)
			if len(syns) == 0 {
				continue
			}
			sort.Strings(syns)
			before := strings.Join(words[:i], " ")
			after := strings.Join(words[i+n:], " ")
			for _, syn := range syns {
				add(strings.Join(strings.Fields(before+" "+syn+" "+after), " "))
			}
		}
	}
	return out
}

func ProcessQuery(input string) QueryContext {
	ctx := QueryContext{Original: input, Normalized: NormalizeQuery(input)}
	if ctx.Normalized == "" {
		ctx.Variants = []string{}
		return ctx
	}
	ctx.Variants = ExpandQuery(ctx.Normalized)
	return ctx
}

// FallbackFirstWord is the broader query tried when the full text finds too
// few jobs.
func FallbackFirstWord(normalized string) string {
	words := strings.Fields(normalized)
	if len(words) == 0 {
		return ""
	}
	return words[0]
}
