// Package normalize canonicalizes entity names into comparison keys.
package normalize

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultSuffixes are organizational suffixes stripped from the end of a name.
var DefaultSuffixes = []string{"ltd", "llc", "inc", "solutions", "agro", "capital"}

// maxPasses bounds the fixed-point loop in Normalize.
const maxPasses = 8

var punctuation = strings.NewReplacer(".", " ", ",", " ", "-", " ")

// Normalizer turns names into comparison keys. It is safe for concurrent use.
type Normalizer struct {
	suffixes []string
}

// New builds a Normalizer for the given suffix list. Suffixes are matched as
// whole trailing words, longest first.
func New(suffixes []string) *Normalizer {
	seen := make(map[string]bool)
	var list []string
	for _, s := range suffixes {
		s = strings.Join(strings.Fields(Lower(s)), " ")
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool {
		if len(list[i]) != len(list[j]) {
			return len(list[i]) > len(list[j])
		}
		return list[i] < list[j]
	})
	return &Normalizer{suffixes: list}
}

var defaultNormalizer = New(DefaultSuffixes)

// Normalize uses DefaultSuffixes.
func Normalize(name string) string {
	return defaultNormalizer.Normalize(name)
}

// Suffixes returns the suffix list in matching order.
func (n *Normalizer) Suffixes() []string {
	out := make([]string, len(n.suffixes))
	copy(out, n.suffixes)
	return out
}

// Normalize lower-cases name, strips trailing suffixes, replaces periods,
// commas and hyphens with spaces and collapses whitespace. The steps repeat
// until the value stops changing, so Normalize(Normalize(x)) == Normalize(x).
func (n *Normalizer) Normalize(name string) string {
	cur := name
	for i := 0; i < maxPasses; i++ {
		next := n.pass(cur)
		if next == cur {
			break
		}
		cur = next
	}
	return cur
}

func (n *Normalizer) pass(s string) string {
	s = Lower(s)
	s = n.stripSuffixes(s)
	s = punctuation.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// stripSuffixes removes trailing suffix words. A name that consists only of a
// suffix is left alone.
func (n *Normalizer) stripSuffixes(s string) string {
	s = strings.TrimRight(s, " \t\r\n")
	for {
		stripped := false
		for _, suffix := range n.suffixes {
			if !strings.HasSuffix(s, " "+suffix) {
				continue
			}
			rest := strings.TrimRight(s[:len(s)-len(suffix)-1], " \t\r\n")
			if rest == "" {
				continue
			}
			s = rest
			stripped = true
			break
		}
		if !stripped {
			return s
		}
	}
}

// Lower lower-cases s with Unicode-aware rules.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
