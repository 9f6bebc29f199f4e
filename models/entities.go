package models

import (
	"encoding/json"
	"fmt"
)

// The entity payload types below describe the replicable field set of each
// synced table. Foreign keys reference the parent entity's LocalID and are
// nullable: the model accepts partial hierarchy placement (e.g. a vocabulary
// item not yet filed into a section).
//
// Payloads travel inside SyncChange.Data and are stored as opaque JSON
// documents on both sides; the field list here is the fixed per-table
// projection of what replicates. Server-internal columns never appear.

// Book is the top-level container of the learning library.
type Book struct {
	LocalID  string  `json:"localId"`
	Title    string  `json:"title"`
	Author   *string `json:"author,omitempty"`
	Language string  `json:"language"`
}

// Chapter is an ordered subdivision of a book.
type Chapter struct {
	LocalID     string  `json:"localId"`
	BookLocalID *string `json:"bookLocalId,omitempty"`
	Title       string  `json:"title"`
	OrderIndex  int     `json:"orderIndex"`
}

// Section is an ordered subdivision of a chapter.
type Section struct {
	LocalID        string  `json:"localId"`
	ChapterLocalID *string `json:"chapterLocalId,omitempty"`
	Title          string  `json:"title"`
	OrderIndex     int     `json:"orderIndex"`
}

// VocabularyItem is one source/target word or phrase pair.
type VocabularyItem struct {
	LocalID        string  `json:"localId"`
	SectionLocalID *string `json:"sectionLocalId,omitempty"`
	SourceText     string  `json:"sourceText"`
	TargetText     string  `json:"targetText"`
	Notes          *string `json:"notes,omitempty"`
}

// LearningProgress is the spaced-repetition state of one vocabulary item.
// The scheduler consumes and produces these records; the sync engine treats
// them as plain data.
type LearningProgress struct {
	LocalID           string  `json:"localId"`
	VocabularyLocalID *string `json:"vocabularyLocalId,omitempty"`
	RepetitionCount   int     `json:"repetitionCount"`
	CorrectCount      int     `json:"correctCount"`
	IncorrectCount    int     `json:"incorrectCount"`
	EaseFactor        float64 `json:"easeFactor"`
	IntervalDays      int     `json:"intervalDays"`
	DueAt             int64   `json:"dueAt"`
	LastReviewedAt    *int64  `json:"lastReviewedAt,omitempty"`
}

// EncodePayload marshals an entity payload into the JSON form carried by
// SyncChange.Data.
func EncodePayload(payload any) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode entity payload: %w", err)
	}
	return data, nil
}

// DecodePayload unmarshals SyncChange.Data into the given entity payload
// pointer.
func DecodePayload(data json.RawMessage, payload any) error {
	if err := json.Unmarshal(data, payload); err != nil {
		return fmt.Errorf("decode entity payload: %w", err)
	}
	return nil
}
