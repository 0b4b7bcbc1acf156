package lifecycle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih/grf/internal/core/domain"
)

func TestPlanMounts_ContainerTargetsAreFixed(t *testing.T) {
	homes := []string{"/home/dev", "/Users/someone", "/root", "/tmp/x y"}
	targets := []string{domain.PluginsPath, domain.ConfigPath, domain.ProvisioningPath, domain.LicensePath}

	for _, home := range homes {
		for _, edition := range []domain.Edition{domain.Standard, domain.Enterprise} {
			plan, err := PlanMounts(Settings{Home: home}, edition)
			require.NoError(t, err)

			binds := plan.Binds()
			require.Len(t, binds, len(targets))
			for i, b := range binds {
				assert.Equal(t, targets[i], b.ContainerPath)
				assert.True(t, strings.HasPrefix(b.HostPath, home), "host path %q not under %q", b.HostPath, home)
				assert.True(t, strings.HasSuffix(b.String(), ":"+targets[i]))
			}
		}
	}
}

func TestPlanMounts_OnlyLicenseDependsOnEdition(t *testing.T) {
	std, err := PlanMounts(Settings{Home: "/home/dev"}, domain.Standard)
	require.NoError(t, err)
	ent, err := PlanMounts(Settings{Home: "/home/dev"}, domain.Enterprise)
	require.NoError(t, err)

	assert.Equal(t, std.Plugins, ent.Plugins)
	assert.Equal(t, std.Config, ent.Config)
	assert.Equal(t, std.Provisioning, ent.Provisioning)
	assert.NotEqual(t, std.License, ent.License)

	assert.Equal(t, "/home/dev/.grafana/license.jwt", std.License.HostPath)
	assert.Equal(t, "/home/dev/.grafana/ent-license.jwt", ent.License.HostPath)
	assert.Equal(t, "/home/dev/plugins", std.Plugins.HostPath)
	assert.Equal(t, "/home/dev/.grafana/grafana.ini", std.Config.HostPath)
	assert.Equal(t, "/home/dev/.grafana/provisioning", std.Provisioning.HostPath)
}

func TestPlanMounts_Env(t *testing.T) {
	tests := []struct {
		name  string
		proxy string
		want  []string
	}{
		{
			name: "no proxy",
			want: []string{
				"GF_ENTERPRISE_LICENSE_PATH=/var/lib/grafana/license.jwt",
				"TERM=xterm-256color",
			},
		},
		{
			name:  "proxy",
			proxy: "http://localhost:8080",
			want: []string{
				"GF_ENTERPRISE_LICENSE_PATH=/var/lib/grafana/license.jwt",
				"TERM=xterm-256color",
				"HTTP_PROXY=http://localhost:8080",
				"HTTPS_PROXY=http://localhost:8080",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanMounts(Settings{Home: "/home/dev", Proxy: tt.proxy}, domain.Standard)
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan.Env)
		})
	}
}

func TestPlanMounts_NoHome(t *testing.T) {
	_, err := PlanMounts(Settings{}, domain.Standard)
	assert.ErrorIs(t, err, domain.ErrHomeDirectoryUnresolved)
}
