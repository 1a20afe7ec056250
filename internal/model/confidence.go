package model

// ConfidenceLevel is an advisory label describing the structural strength
// of a link decision. The set is closed.
type ConfidenceLevel int

const (
	UnknownConfidence ConfidenceLevel = iota
	NoEntity
	AnyName
	AmbiguousName
	TitleDesc
	CopulaDesc
	ApposDesc
	OnlyOneCandidateDesc
	PrevSentDoubleSubjectDesc
	OtherDesc
	WHQLinkPron
	NameAndPossPron
	DoubleSubjectPersonPron
	OnlyOneCandidatePron
	PrevSentDoubleSubjectPron
	OtherPron
)

var confidenceNames = [...]string{
	UnknownConfidence:         "UNKNOWN_CONFIDENCE",
	NoEntity:                  "NO_ENTITY",
	AnyName:                   "ANY_NAME",
	AmbiguousName:             "AMBIGUOUS_NAME",
	TitleDesc:                 "TITLE_DESC",
	CopulaDesc:                "COPULA_DESC",
	ApposDesc:                 "APPOS_DESC",
	OnlyOneCandidateDesc:      "ONLY_ONE_CANDIDATE_DESC",
	PrevSentDoubleSubjectDesc: "PREV_SENT_DOUBLE_SUBJECT_DESC",
	OtherDesc:                 "OTHER_DESC",
	WHQLinkPron:               "WHQ_LINK_PRON",
	NameAndPossPron:           "NAME_AND_POSS_PRON",
	DoubleSubjectPersonPron:   "DOUBLE_SUBJECT_PERSON_PRON",
	OnlyOneCandidatePron:      "ONLY_ONE_CANDIDATE_PRON",
	PrevSentDoubleSubjectPron: "PREV_SENT_DOUBLE_SUBJECT_PRON",
	OtherPron:                 "OTHER_PRON",
}

// ConfidenceLevels lists every level in declaration order
func ConfidenceLevels() []ConfidenceLevel {
	levels := make([]ConfidenceLevel, len(confidenceNames))
	for i := range confidenceNames {
		levels[i] = ConfidenceLevel(i)
	}
	return levels
}

// String returns the canonical label
func (c ConfidenceLevel) String() string {
	if c < 0 || int(c) >= len(confidenceNames) {
		return confidenceNames[UnknownConfidence]
	}
	return confidenceNames[c]
}

// MarshalText renders the label for JSON and YAML output
func (c ConfidenceLevel) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
