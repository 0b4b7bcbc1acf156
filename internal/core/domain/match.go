package domain

import "strings"

type matchKind int

const (
	matchExact matchKind = iota
	matchAnyBaseName
)

// Match selects containers by image. It is either an exact image reference
// or a loose match on any image whose name contains BaseName.
//
// The loose form also catches unrelated images that happen to contain
// "grafana" in their name.
type Match struct {
	kind matchKind
	ref  ImageReference
}

// ExactImage matches containers whose image equals ref.
func ExactImage(ref ImageReference) Match {
	return Match{kind: matchExact, ref: ref}
}

// AnyWithBaseName matches every container running a Grafana-looking image.
func AnyWithBaseName() Match {
	return Match{kind: matchAnyBaseName}
}

// MatchFor returns the loose match for an empty version and an exact
// match otherwise.
func MatchFor(edition Edition, version string) Match {
	if version == "" {
		return AnyWithBaseName()
	}
	return ExactImage(ResolveImage(edition, version))
}

// Loose reports whether m matches by base name.
func (m Match) Loose() bool {
	return m.kind == matchAnyBaseName
}

// Matches reports whether a container running image is selected.
func (m Match) Matches(image string) bool {
	if m.kind == matchAnyBaseName {
		return strings.Contains(image, BaseName)
	}
	return image == m.ref.String()
}

func (m Match) String() string {
	if m.kind == matchAnyBaseName {
		return "any " + BaseName + " image"
	}
	return m.ref.String()
}
