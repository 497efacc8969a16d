package tree

import (
	"fmt"
	"strings"
)

// Kind is the closed set of fragmentation strategies. Each kind emits exactly
// one relation type.
type Kind string

const (
	KindSubstring Kind = "substring"
	KindPrefix    Kind = "prefix"
	KindIdentity  Kind = "identity"
	KindRange     Kind = "range"
)

// Kinds lists every supported kind in a stable order.
var Kinds = []Kind{KindSubstring, KindPrefix, KindIdentity, KindRange}

// ParseKind accepts a kind name in any case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown fragmentation kind %q", s)
}

// RelationType returns the TREE relation IRI emitted for buckets of this kind.
func (k Kind) RelationType() (string, error) {
	switch k {
	case KindSubstring:
		return SubstringRelation, nil
	case KindPrefix:
		return PrefixRelation, nil
	case KindIdentity:
		return EqualThanRelation, nil
	case KindRange:
		return GreaterOrEqualThanRelation, nil
	default:
		return "", fmt.Errorf("unknown fragmentation kind %q", string(k))
	}
}
