package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchFor(t *testing.T) {
	assert.True(t, MatchFor(Standard, "").Loose())
	assert.True(t, MatchFor(Enterprise, "").Loose())
	assert.False(t, MatchFor(Standard, "latest").Loose())
	assert.Equal(t, "grafana/grafana-enterprise:9.0.0", MatchFor(Enterprise, "9.0.0").String())
	assert.Equal(t, "any grafana image", AnyWithBaseName().String())
}

func TestMatch_Matches(t *testing.T) {
	images := []string{
		"grafana/grafana:latest",
		"grafana/grafana:9.0.0",
		"grafana/grafana-enterprise:9.0.0",
		"grafana/loki:2.9.0",
		"postgres:16",
		"sha256:deadbeef",
	}

	tests := []struct {
		name  string
		match Match
		want  []string
	}{
		{
			name:  "exact standard latest",
			match: ExactImage(ResolveImage(Standard, "latest")),
			want:  []string{"grafana/grafana:latest"},
		},
		{
			name:  "exact enterprise",
			match: MatchFor(Enterprise, "9.0.0"),
			want:  []string{"grafana/grafana-enterprise:9.0.0"},
		},
		{
			name:  "loose takes anything named grafana",
			match: AnyWithBaseName(),
			want: []string{
				"grafana/grafana:latest",
				"grafana/grafana:9.0.0",
				"grafana/grafana-enterprise:9.0.0",
				"grafana/loki:2.9.0",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, img := range images {
				if tt.match.Matches(img) {
					got = append(got, img)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatch_LooseNeverExcludesExact(t *testing.T) {
	loose := AnyWithBaseName()
	for _, e := range []Edition{Standard, Enterprise} {
		for _, v := range []string{"latest", "9.0.0", "main"} {
			exact := MatchFor(e, v)
			img := ResolveImage(e, v).String()
			assert.True(t, exact.Matches(img))
			assert.True(t, loose.Matches(img), "loose match excluded %s", img)
		}
	}
}
