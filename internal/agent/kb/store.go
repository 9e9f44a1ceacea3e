// Package kb holds the static product knowledge base and the responder that
// answers product questions grounded on it. The document set is embedded at
// build time, loaded once, and immutable afterwards.
package kb

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

//go:embed knowledge_base.json
var knowledgeBaseJSON []byte

// Section is one retrievable passage, keyed by section name.
type Section struct {
	Name    string
	Content string
}

// Store is the pre-loaded document set with best-match retrieval (k=1).
type Store struct {
	sections []Section
}

// NewStore loads the embedded knowledge base.
func NewStore() (*Store, error) {
	return newStoreFromJSON(knowledgeBaseJSON)
}

func newStoreFromJSON(raw []byte) (*Store, error) {
	var byName map[string]string
	if err := json.Unmarshal(raw, &byName); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}

	sections := make([]Section, 0, len(byName))
	for name, content := range byName {
		sections = append(sections, Section{Name: name, Content: content})
	}
	// deterministic retrieval order for equal scores
	sort.Slice(sections, func(i, j int) bool { return sections[i].Name < sections[j].Name })

	return &Store{sections: sections}, nil
}

// Len returns the number of loaded sections.
func (s *Store) Len() int {
	return len(s.sections)
}

// Search returns the single best-matching section for a question, scored by
// query-token overlap. ok is false when no token matches or the store is empty.
func (s *Store) Search(query string) (best Section, ok bool) {
	terms := tokenize(query)
	if len(terms) == 0 {
		return Section{}, false
	}

	bestScore := 0
	for _, sec := range s.sections {
		haystack := strings.ToLower(sec.Name + " " + sec.Content)
		score := 0
		for term := range terms {
			if strings.Contains(haystack, term) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = sec
		}
	}
	return best, bestScore > 0
}

// stopwords that would otherwise match almost every section.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "about": true,
	"can": true, "do": true, "does": true, "for": true, "have": true,
	"how": true, "i": true, "is": true, "it": true, "me": true, "my": true,
	"of": true, "on": true, "or": true, "tell": true, "the": true,
	"to": true, "what": true, "whats": true, "you": true, "your": true,
}

func tokenize(s string) map[string]bool {
	terms := map[string]bool{}
	for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(f) < 2 || stopwords[f] {
			continue
		}
		terms[f] = true
	}
	return terms
}
