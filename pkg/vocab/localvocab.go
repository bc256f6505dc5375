package vocab

import "sync"

// LocalVocab stores strings that are created while evaluating a query (for
// example GROUP_CONCAT results) and are therefore not part of the index
// vocabulary. Entries are append-only and de-duplicated; indices handed out
// stay valid for the lifetime of the LocalVocab. Safe for concurrent use.
type LocalVocab struct {
	mtx     sync.Mutex
	words   []string
	indexOf map[string]uint64
}

// NewLocalVocab returns an empty LocalVocab.
func NewLocalVocab() *LocalVocab {
	return &LocalVocab{indexOf: make(map[string]uint64)}
}

// GetIndexAndAddIfNotContained returns the index of s, adding it first if it
// was not yet present.
func (l *LocalVocab) GetIndexAndAddIfNotContained(s string) uint64 {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if i, ok := l.indexOf[s]; ok {
		return i
	}
	i := uint64(len(l.words))
	l.words = append(l.words, s)
	l.indexOf[s] = i
	return i
}

// Word returns the string stored at index i.
func (l *LocalVocab) Word(i uint64) (string, bool) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if i >= uint64(len(l.words)) {
		return "", false
	}
	return l.words[i], true
}

// Size returns the number of distinct stored strings.
func (l *LocalVocab) Size() int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return len(l.words)
}
