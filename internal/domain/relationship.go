package domain

// Relationship is the closed set of milestone relationship kinds. The store
// persists these as MilestoneRelationshipType rows, but core logic only ever
// deals in the two constants below.
type Relationship string

const (
	// RelationshipRequires marks a consumer that depends on a milestone.
	RelationshipRequires Relationship = "requires"
	// RelationshipFulfills marks a producer that satisfies a milestone.
	RelationshipFulfills Relationship = "fulfills"
)

func (r Relationship) String() string { return string(r) }

// Valid reports whether r is one of the two allowed kinds.
func (r Relationship) Valid() bool {
	return r == RelationshipRequires || r == RelationshipFulfills
}

// RelationshipTypes returns the full enumeration, requires first.
func RelationshipTypes() []Relationship {
	return []Relationship{RelationshipRequires, RelationshipFulfills}
}
