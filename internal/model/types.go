package model

import "strings"

// MentionType classifies how a mention refers to its entity
type MentionType string

const (
	MentionNone       MentionType = "none"
	MentionName       MentionType = "name"
	MentionPronoun    MentionType = "pron"
	MentionDescriptor MentionType = "desc"
	MentionPartitive  MentionType = "part"
	MentionAppositive MentionType = "appo"
	MentionList       MentionType = "list"
	MentionInfl       MentionType = "infl"
	MentionNestedName MentionType = "nest"
)

// Valid reports whether t is one of the known mention kinds
func (t MentionType) Valid() bool {
	switch t {
	case MentionNone, MentionName, MentionPronoun, MentionDescriptor, MentionPartitive,
		MentionAppositive, MentionList, MentionInfl, MentionNestedName:
		return true
	}
	return false
}

// EntityType is the ACE-style entity type of a mention or entity
type EntityType string

const (
	EntityUndetermined EntityType = "UNDET"
	EntityPerson       EntityType = "PER"
	EntityOrganization EntityType = "ORG"
	EntityGPE          EntityType = "GPE"
	EntityLocation     EntityType = "LOC"
	EntityFacility     EntityType = "FAC"
	EntityVehicle      EntityType = "VEH"
	EntityWeapon       EntityType = "WEA"
)

// ParseEntityType maps a label to an EntityType, case-insensitively.
// Unknown labels map to EntityUndetermined.
func ParseEntityType(s string) EntityType {
	switch t := EntityType(strings.ToUpper(strings.TrimSpace(s))); t {
	case EntityPerson, EntityOrganization, EntityGPE, EntityLocation,
		EntityFacility, EntityVehicle, EntityWeapon:
		return t
	}
	return EntityUndetermined
}

// Recognized reports whether the type can own entities
func (t EntityType) Recognized() bool {
	return t != EntityUndetermined && t != ""
}

// EntitySubtype refines an EntityType. The zero value is undetermined.
type EntitySubtype string

// SubtypeUndetermined marks a subtype that has not been decided
const SubtypeUndetermined EntitySubtype = ""

var subtypesByType = map[EntityType][]EntitySubtype{
	EntityPerson:       {"Individual", "Group", "Indeterminate"},
	EntityOrganization: {"Government", "Commercial", "Educational", "Entertainment", "Non-Governmental", "Media", "Religious", "Medical-Science", "Sports"},
	EntityGPE:          {"Continent", "Nation", "State-or-Province", "County-or-District", "Population-Center", "GPE-Cluster", "Special"},
	EntityLocation:     {"Address", "Boundary", "Celestial", "Water-Body", "Land-Region-Natural", "Region-General", "Region-International"},
	EntityFacility:     {"Airport", "Building-Grounds", "Path", "Plant", "Subarea-Facility"},
	EntityVehicle:      {"Air", "Land", "Water", "Subarea-Vehicle", "Underspecified"},
	EntityWeapon:       {"Biological", "Blunt", "Chemical", "Exploding", "Nuclear", "Projectile", "Sharp", "Shooting", "Underspecified"},
}

// Person subtypes used when guessing from pronoun number
const (
	SubtypeIndividual EntitySubtype = "Individual"
	SubtypeGroup      EntitySubtype = "Group"
)

// BelongsTo reports whether s is a subtype of t
func (s EntitySubtype) BelongsTo(t EntityType) bool {
	for _, candidate := range subtypesByType[t] {
		if candidate == s {
			return true
		}
	}
	return false
}

// Number is the guessed grammatical number of a mention
type Number string

const (
	NumberUnknown  Number = ""
	NumberSingular Number = "singular"
	NumberPlural   Number = "plural"
)

// Compatible reports whether two numbers may describe the same referent
func (n Number) Compatible(other Number) bool {
	return n == NumberUnknown || other == NumberUnknown || n == other
}
