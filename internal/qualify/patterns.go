package qualify

import (
	_ "embed"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed patterns.yaml
var defaultPatternsYAML []byte

// maxNicheLabels caps how many niche labels are combined into one
// detected niche string.
const maxNicheLabels = 3

type patternEntry struct {
	Label    string   `yaml:"label"`
	Patterns []string `yaml:"patterns"`
}

type patternsDoc struct {
	Niches    []patternEntry `yaml:"niches"`
	Locations []patternEntry `yaml:"locations"`
}

type compiledEntry struct {
	label string
	res   []*regexp.Regexp
}

// PatternSet holds the compiled niche and location tables. Entries are
// evaluated in file order; earlier entries win.
type PatternSet struct {
	niches    []compiledEntry
	locations []compiledEntry
}

// LoadPatterns compiles the pattern tables from the given YAML file, or
// from the embedded defaults when path is empty.
func LoadPatterns(path string) (*PatternSet, error) {
	raw := defaultPatternsYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrap(err, "qualify: read patterns file")
		}
		raw = b
	}

	var doc patternsDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, eris.Wrap(err, "qualify: parse patterns")
	}

	ps := &PatternSet{}
	var err error
	if ps.niches, err = compileEntries(doc.Niches); err != nil {
		return nil, err
	}
	if ps.locations, err = compileEntries(doc.Locations); err != nil {
		return nil, err
	}
	return ps, nil
}

func compileEntries(entries []patternEntry) ([]compiledEntry, error) {
	out := make([]compiledEntry, 0, len(entries))
	for _, e := range entries {
		ce := compiledEntry{label: e.Label}
		for _, p := range e.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, eris.Wrapf(err, "qualify: compile pattern %q for %q", p, e.Label)
			}
			ce.res = append(ce.res, re)
		}
		out = append(out, ce)
	}
	return out, nil
}

// DetectNiche returns up to three matching niche labels joined with
// ", ", in table order, or "general" when nothing matches.
func (ps *PatternSet) DetectNiche(text string) string {
	var labels []string
	for _, e := range ps.niches {
		for _, re := range e.res {
			if re.MatchString(text) {
				labels = append(labels, e.label)
				break
			}
		}
		if len(labels) == maxNicheLabels {
			break
		}
	}
	if len(labels) == 0 {
		return "general"
	}
	return strings.Join(labels, ", ")
}

// DetectLocation returns the first matching location label, or "".
func (ps *PatternSet) DetectLocation(text string) string {
	for _, e := range ps.locations {
		for _, re := range e.res {
			if re.MatchString(text) {
				return e.label
			}
		}
	}
	return ""
}

// words splits a label or target phrase into lowercase word tokens.
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
