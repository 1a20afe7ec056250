package model

import "time"

// Report is the resolved view of one document
type Report struct {
	DocumentID string         `json:"document_id"`
	SourceType string         `json:"source_type,omitempty"`
	ResolvedAt time.Time      `json:"resolved_at"`
	Entities   []EntityReport `json:"entities"`
	Stats      Stats          `json:"stats"`
}

// EntityReport describes one entity and its members
type EntityReport struct {
	ID            int             `json:"id"`
	GlobalID      string          `json:"global_id,omitempty"`
	Type          EntityType      `json:"type"`
	Subtype       EntitySubtype   `json:"subtype,omitempty"`
	Generic       bool            `json:"generic,omitempty"`
	CanonicalName string          `json:"canonical_name,omitempty"`
	Mentions      []MentionReport `json:"mentions"`
}

// MentionReport describes one member mention
type MentionReport struct {
	Sentence   int             `json:"sentence"`
	Index      int             `json:"index"`
	Type       MentionType     `json:"type"`
	Text       string          `json:"text"`
	Confidence ConfidenceLevel `json:"confidence"`
}

// Stats summarizes a resolution run
type Stats struct {
	Mentions         int            `json:"mentions"`
	Entities         int            `json:"entities"`
	ActiveEntities   int            `json:"active_entities"`
	SingletonsBefore int            `json:"singletons_before"`
	SingletonsAfter  int            `json:"singletons_after"`
	Decisions        map[string]int `json:"decisions"`
	Confidences      map[string]int `json:"confidences"`
}
