package lifecycle

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/melih/grf/internal/core/domain"
)

// ListEnterpriseTags returns the tags of the locally known enterprise image,
// newest first. It fails with ErrRuntimeQuery when the image has never been
// pulled; callers should fall back to no suggestions.
func (c *Controller) ListEnterpriseTags(ctx context.Context) ([]string, error) {
	repoTags, err := c.runtime.ImageTags(ctx, domain.EnterpriseRepository)
	if err != nil {
		return nil, fmt.Errorf("%w: inspecting %s: %w", domain.ErrRuntimeQuery, domain.EnterpriseRepository, err)
	}

	prefix := domain.EnterpriseRepository + ":"
	tags := make([]string, 0, len(repoTags))
	for _, rt := range repoTags {
		if tag, ok := strings.CutPrefix(rt, prefix); ok && tag != "" {
			tags = append(tags, tag)
		}
	}
	SortTags(tags)
	return tags, nil
}

// SortTags orders tags in place: non-version tags such as "latest" first in
// lexical order, then versions from newest to oldest.
func SortTags(tags []string) {
	parsed := make(map[string]*version.Version, len(tags))
	for _, t := range tags {
		if v, err := version.NewVersion(t); err == nil {
			parsed[t] = v
		}
	}

	slices.SortStableFunc(tags, func(a, b string) int {
		va, vb := parsed[a], parsed[b]
		switch {
		case va == nil && vb == nil:
			return strings.Compare(a, b)
		case va == nil:
			return -1
		case vb == nil:
			return 1
		default:
			return vb.Compare(va)
		}
	})
}
