package vocab

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quetzal-graph/quetzal/pkg/ids"
)

func TestMapVocabularyLookup(t *testing.T) {
	v := NewMapVocabulary([]string{`"beta"`, "<alpha>", "_:b0"})

	id, ok := v.LookupID("<alpha>")
	require.True(t, ok)
	s, ok := v.IDToString(id)
	require.True(t, ok)
	require.Equal(t, "<alpha>", s)

	_, ok = v.LookupID("<missing>")
	require.False(t, ok)
}

func TestMapVocabularyClassification(t *testing.T) {
	v := NewMapVocabulary([]string{`"beta"`, "<alpha>", "_:b0"})

	iri, _ := v.LookupID("<alpha>")
	blank, _ := v.LookupID("_:b0")
	lit, _ := v.LookupID(`"beta"`)

	require.True(t, v.IsIri(iri))
	require.False(t, v.IsIri(lit))
	require.True(t, v.IsBlankNode(blank))
	require.True(t, v.IsLiteral(lit))
	require.False(t, v.IsLiteral(ids.IntID(3)))
}

func TestLocalVocabDeduplicates(t *testing.T) {
	l := NewLocalVocab()
	i := l.GetIndexAndAddIfNotContained("a")
	j := l.GetIndexAndAddIfNotContained("b")
	require.Equal(t, i, l.GetIndexAndAddIfNotContained("a"))
	require.NotEqual(t, i, j)
	require.Equal(t, 2, l.Size())

	s, ok := l.Word(j)
	require.True(t, ok)
	require.Equal(t, "b", s)
}

func TestLocalVocabConcurrentAdd(t *testing.T) {
	l := NewLocalVocab()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				l.GetIndexAndAddIfNotContained(fmt.Sprintf("word-%d", i))
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 100, l.Size())
}
