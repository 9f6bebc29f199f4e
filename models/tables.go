package models

// SyncTable identifies one replicated entity table. The same names are used
// in the wire protocol, the server store, and the client store.
type SyncTable string

const (
	TableBooks            SyncTable = "books"
	TableChapters         SyncTable = "chapters"
	TableSections         SyncTable = "sections"
	TableVocabularyItems  SyncTable = "vocabulary_items"
	TableLearningProgress SyncTable = "learning_progress"
)

// SyncTables lists every replicated table in a stable order. Pull and
// full-sync iterate this slice so that the set of replicated tables is
// defined in exactly one place.
var SyncTables = []SyncTable{
	TableBooks,
	TableChapters,
	TableSections,
	TableVocabularyItems,
	TableLearningProgress,
}

// IsValid reports whether t names a known replicated table.
func (t SyncTable) IsValid() bool {
	for _, known := range SyncTables {
		if t == known {
			return true
		}
	}
	return false
}

func (t SyncTable) String() string {
	return string(t)
}
