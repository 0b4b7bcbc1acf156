package lifecycle

import (
	"fmt"
	"path/filepath"

	"github.com/melih/grf/internal/core/domain"
)

const terminalType = "xterm-256color"

// Settings carries the host environment the controller depends on.
type Settings struct {
	// Home is the invoking user's home directory.
	Home string

	// Proxy, when set, is exported as HTTP_PROXY and HTTPS_PROXY.
	Proxy string
}

// PlanMounts computes the binds and environment for a Grafana container.
func PlanMounts(s Settings, edition domain.Edition) (domain.MountPlan, error) {
	if s.Home == "" {
		return domain.MountPlan{}, domain.ErrHomeDirectoryUnresolved
	}

	grafanaDir := filepath.Join(s.Home, ".grafana")
	license := "license.jwt"
	if edition == domain.Enterprise {
		license = "ent-license.jwt"
	}

	env := []string{
		"GF_ENTERPRISE_LICENSE_PATH=" + domain.LicensePath,
		"TERM=" + terminalType,
	}
	if s.Proxy != "" {
		env = append(env,
			fmt.Sprintf("HTTP_PROXY=%s", s.Proxy),
			fmt.Sprintf("HTTPS_PROXY=%s", s.Proxy))
	}

	return domain.MountPlan{
		Plugins:      domain.Bind{HostPath: filepath.Join(s.Home, "plugins"), ContainerPath: domain.PluginsPath},
		Config:       domain.Bind{HostPath: filepath.Join(grafanaDir, "grafana.ini"), ContainerPath: domain.ConfigPath},
		Provisioning: domain.Bind{HostPath: filepath.Join(grafanaDir, "provisioning"), ContainerPath: domain.ProvisioningPath},
		License:      domain.Bind{HostPath: filepath.Join(grafanaDir, license), ContainerPath: domain.LicensePath},
		Env:          env,
	}, nil
}
