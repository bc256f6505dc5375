package ids

import "fmt"

// Name-tagged index types. Keeping them distinct makes it a compile error to
// hand an index of one store to another.

// VocabIndex is a position in the sorted string table of the external
// vocabulary.
type VocabIndex uint64

// LocalVocabIndex is a position in a query-local vocabulary of strings
// materialized during evaluation.
type LocalVocabIndex uint64

// TextRecordIndex identifies a full-text match record.
type TextRecordIndex uint64

func (i VocabIndex) String() string      { return fmt.Sprintf("VocabIndex:%d", uint64(i)) }
func (i LocalVocabIndex) String() string { return fmt.Sprintf("LocalVocabIndex:%d", uint64(i)) }
func (i TextRecordIndex) String() string { return fmt.Sprintf("TextRecordIndex:%d", uint64(i)) }
