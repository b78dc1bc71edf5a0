package milestones

import (
	"sync"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// category is one summary column. Keywords match anywhere in a title, ignoring ASCII case, the same way the summary
// query's ILIKE '%keyword%' does.
type category struct {
	column   string
	label    string
	keywords []string
}

var categories = []category{
	{column: "university_tours", label: "University tour", keywords: []string{"tour", "university", "educational"}},
	{column: "leadership_summits", label: "Leadership summit", keywords: []string{"summit"}},
	{column: "workshops_attended", label: "Workshop", keywords: []string{"workshop"}},
	{column: "mariachi_practice", label: "Mariachi practice", keywords: []string{"mariachi"}},
}

// Classifier labels milestone titles with the summary categories they count towards.
type Classifier struct {
	mu      sync.Mutex // FindAll is not documented as safe for concurrent use
	matcher ahocorasick.AhoCorasick
	owner   []int // pattern index -> categories index
}

func NewClassifier() *Classifier {
	var (
		patterns []string
		owner    []int
	)
	for i, cat := range categories {
		for _, kw := range cat.keywords {
			patterns = append(patterns, kw)
			owner = append(owner, i)
		}
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
		DFA:                  true,
	})
	return &Classifier{matcher: builder.Build(patterns), owner: owner}
}

// Classify returns the category labels of title in summary column order. A title can count towards several
// categories, e.g. "University workshop".
func (c *Classifier) Classify(title string) []string {
	c.mu.Lock()
	matches := c.matcher.FindAll(title)
	c.mu.Unlock()

	hit := make([]bool, len(categories))
	for _, m := range matches {
		hit[c.owner[m.Pattern()]] = true
	}

	var labels []string
	for i, ok := range hit {
		if ok {
			labels = append(labels, categories[i].label)
		}
	}
	return labels
}
