package domain

// Container side paths of the bind mounts.
const (
	PluginsPath      = "/var/lib/grafana/plugins"
	ConfigPath       = "/etc/grafana/grafana.ini"
	ProvisioningPath = "/etc/grafana/provisioning"
	LicensePath      = "/var/lib/grafana/license.jwt"
)

// Bind makes HostPath visible at ContainerPath.
type Bind struct {
	HostPath      string `json:"host_path"`
	ContainerPath string `json:"container_path"`
}

// String returns the runtime's "host:container" bind notation.
func (b Bind) String() string {
	return b.HostPath + ":" + b.ContainerPath
}

// MountPlan is the set of binds and environment for one start.
type MountPlan struct {
	Plugins      Bind
	Config       Bind
	Provisioning Bind
	License      Bind

	// Env holds KEY=VALUE entries in the order they are passed to the runtime.
	Env []string
}

// Binds returns the binds in a stable order.
func (p MountPlan) Binds() []Bind {
	return []Bind{p.Plugins, p.Config, p.Provisioning, p.License}
}
