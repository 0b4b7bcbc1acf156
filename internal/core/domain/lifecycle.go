package domain

const (
	// UIPort is the port Grafana serves its UI on inside the container.
	UIPort uint16 = 3000

	// DiagnosticPort is the debug port, always published 1:1.
	DiagnosticPort uint16 = 6060
)

// PortAssignment maps host ports onto the container's fixed ports.
type PortAssignment struct {
	HostPort       uint16 `json:"host_port"`
	UIPort         uint16 `json:"ui_port"`
	DiagnosticPort uint16 `json:"diagnostic_port"`
}

// NewPortAssignment publishes the UI port on hostPort.
func NewPortAssignment(hostPort uint16) PortAssignment {
	return PortAssignment{
		HostPort:       hostPort,
		UIPort:         UIPort,
		DiagnosticPort: DiagnosticPort,
	}
}

// CreateRequest describes a container to create.
type CreateRequest struct {
	Image      string
	Ports      PortAssignment
	Env        []string
	Binds      []string
	ExtraHosts []string
	User       string
	Entrypoint []string
	Cmd        []string
}

// StartOptions are the inputs of a start.
type StartOptions struct {
	Edition    Edition
	Version    string
	RandomPort bool
	TailLogs   bool
	Proxy      string
}

// StartResult describes a started container.
type StartResult struct {
	ContainerID string         `json:"id"`
	Image       string         `json:"image"`
	Ports       PortAssignment `json:"ports"`
	URL         string         `json:"url"`
}
