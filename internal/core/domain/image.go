package domain

import "fmt"

const (
	// BaseName is the product name every Grafana image repository contains.
	BaseName = "grafana"

	// Repository is the standard edition image repository.
	Repository = "grafana/grafana"

	// EnterpriseRepository is the enterprise edition image repository.
	EnterpriseRepository = Repository + enterpriseSuffix

	// DefaultVersion is the tag started when no version is given.
	DefaultVersion = "latest"

	enterpriseSuffix = "-enterprise"
)

// Edition selects the standard or enterprise Grafana image.
type Edition int

const (
	Standard Edition = iota
	Enterprise
)

// EditionFor maps the --enterprise flag to an Edition.
func EditionFor(enterprise bool) Edition {
	if enterprise {
		return Enterprise
	}
	return Standard
}

func (e Edition) String() string {
	switch e {
	case Standard:
		return "standard"
	case Enterprise:
		return "enterprise"
	default:
		return fmt.Sprintf("edition(%d)", int(e))
	}
}

// ImageReference is a fully qualified Grafana image.
type ImageReference struct {
	Repository string
	Edition    Edition
	Tag        string
}

// ResolveImage composes the image reference for an edition and version.
// An empty version yields a reference ending in ":"; callers that pull
// must substitute DefaultVersion first.
func ResolveImage(edition Edition, version string) ImageReference {
	repo := Repository
	if edition == Enterprise {
		repo = EnterpriseRepository
	}
	return ImageReference{
		Repository: repo,
		Edition:    edition,
		Tag:        version,
	}
}

func (r ImageReference) String() string {
	return r.Repository + ":" + r.Tag
}
