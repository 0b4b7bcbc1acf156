package ports

import "context"

// PluginBuilder is the external plugin build tool.
type PluginBuilder interface {
	// Build compiles the plugin in the current project.
	Build(ctx context.Context) error

	// Certificate returns the CA certificate to install in the container.
	// The bytes are used verbatim.
	Certificate(ctx context.Context) ([]byte, error)
}
