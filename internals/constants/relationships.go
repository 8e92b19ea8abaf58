package constants

// Fixed set of relationship labels. An edge reads "member IS <type> OF
// related member".
const (
	RelSelf          = "Self"
	RelMother        = "Mother"
	RelFather        = "Father"
	RelDaughter      = "Daughter"
	RelSon           = "Son"
	RelSister        = "Sister"
	RelBrother       = "Brother"
	RelHusband       = "Husband"
	RelWife          = "Wife"
	RelGrandmother   = "Grandmother"
	RelGrandfather   = "Grandfather"
	RelGranddaughter = "Granddaughter"
	RelGrandson      = "Grandson"
	RelAunt          = "Aunt"
	RelUncle         = "Uncle"
	RelCousin        = "Cousin"
	RelSpouse        = "Spouse"
)

var RelationshipTypes = map[string]struct{}{
	RelSelf: {}, RelMother: {}, RelFather: {}, RelDaughter: {}, RelSon: {},
	RelSister: {}, RelBrother: {}, RelHusband: {}, RelWife: {},
	RelGrandmother: {}, RelGrandfather: {}, RelGranddaughter: {}, RelGrandson: {},
	RelAunt: {}, RelUncle: {}, RelCousin: {}, RelSpouse: {},
}

// ReciprocalRelationships maps the few paired labels that auto-insert an
// inverse edge during member creation. Everything else stays one-directional.
var ReciprocalRelationships = map[string]string{
	RelHusband: RelWife,
	RelWife:    RelHusband,
}

func IsValidRelationshipType(t string) bool {
	_, ok := RelationshipTypes[t]
	return ok
}
