package domain

// Container represents a container reported by the runtime.
// It is never cached; every operation lists again.
type Container struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	Status   string `json:"status"`
	State    string `json:"state"`               // running, exited, etc.
	HostPort uint16 `json:"host_port,omitempty"` // host side of the UI port, 0 if unpublished
}

// ShortID returns the 12 character form of the container ID.
func (c Container) ShortID() string {
	return ShortID(c.ID)
}

// ShortID truncates a container ID to 12 characters.
func ShortID(id string) string {
	return id[:min(12, len(id))]
}
