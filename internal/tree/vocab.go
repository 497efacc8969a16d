package tree

// TREE hypermedia vocabulary IRIs.
//
// References:
//   - TREE: https://w3id.org/tree/specification
//   - XSD:  https://www.w3.org/TR/xmlschema11-2/
const (
	NS = "https://w3id.org/tree#"

	View           = NS + "view"
	Member         = NS + "member"
	RelationProp   = NS + "relation"
	NodeProp       = NS + "node"
	PathProp       = NS + "path"
	ValueProp      = NS + "value"
	RemainingItems = NS + "remainingItems"
)

// Relation types.
const (
	GreaterOrEqualThanRelation = NS + "GreaterOrEqualThanRelation"
	SubstringRelation          = NS + "SubstringRelation"
	PrefixRelation             = NS + "PrefixRelation"
	EqualThanRelation          = NS + "EqualThanRelation"
)

// XSDDateTime types continuation values.
const XSDDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"

// ContentType is the media type of every rendered view.
const ContentType = "application/ld+json; charset=utf-8"
