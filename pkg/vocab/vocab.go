// Package vocab defines the contracts against the string-interning
// vocabulary of the index, plus the query-local vocabulary used for strings
// that are materialized during evaluation.
package vocab

import (
	"sort"
	"strings"

	"github.com/quetzal-graph/quetzal/pkg/ids"
)

// Vocabulary is the read side of the index vocabulary. Implementations must
// be safe for concurrent use.
type Vocabulary interface {
	// LookupID resolves a literal or IRI string to its interned Id.
	LookupID(s string) (ids.Id, bool)
	// IDToString resolves an Id back to its string form. Returns false for
	// Ids that have no string form in this vocabulary.
	IDToString(id ids.Id) (string, bool)

	IsIri(id ids.Id) bool
	IsBlankNode(id ids.Id) bool
	IsLiteral(id ids.Id) bool
}

// MapVocabulary is an in-memory Vocabulary over a sorted word list. Ids are
// positions in the sorted list. It is immutable after construction and
// therefore trivially safe for concurrent readers.
type MapVocabulary struct {
	words []string
}

// NewMapVocabulary builds a vocabulary from the given words. The words are
// sorted; duplicates are kept as-is.
func NewMapVocabulary(words []string) *MapVocabulary {
	sorted := make([]string, len(words))
	copy(sorted, words)
	sort.Strings(sorted)
	return &MapVocabulary{words: sorted}
}

// LookupID implements Vocabulary.
func (v *MapVocabulary) LookupID(s string) (ids.Id, bool) {
	i := sort.SearchStrings(v.words, s)
	if i < len(v.words) && v.words[i] == s {
		return ids.FromVocabIndex(ids.VocabIndex(i)), true
	}
	return ids.Undefined(), false
}

// IDToString implements Vocabulary.
func (v *MapVocabulary) IDToString(id ids.Id) (string, bool) {
	if id.Datatype() != ids.DatatypeVocabIndex {
		return "", false
	}
	i := uint64(id.VocabIndex())
	if i >= uint64(len(v.words)) {
		return "", false
	}
	return v.words[i], true
}

// IsIri implements Vocabulary.
func (v *MapVocabulary) IsIri(id ids.Id) bool {
	s, ok := v.IDToString(id)
	return ok && strings.HasPrefix(s, "<")
}

// IsBlankNode implements Vocabulary.
func (v *MapVocabulary) IsBlankNode(id ids.Id) bool {
	s, ok := v.IDToString(id)
	return ok && strings.HasPrefix(s, "_:")
}

// IsLiteral implements Vocabulary.
func (v *MapVocabulary) IsLiteral(id ids.Id) bool {
	s, ok := v.IDToString(id)
	return ok && strings.HasPrefix(s, `"`)
}
