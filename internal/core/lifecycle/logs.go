package lifecycle

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/melih/grf/internal/core/domain"
)

// StreamLogs follows a container's output, writing stdout and stderr frames
// to the given writers unmodified. It returns when the runtime closes the
// stream or ctx is cancelled.
func (c *Controller) StreamLogs(ctx context.Context, containerID string, stdout, stderr io.Writer) error {
	return c.ContainerLogs(ctx, containerID, true, stdout, stderr)
}

// ContainerLogs forwards a container's output. Without follow it returns
// once the existing output has been written.
func (c *Controller) ContainerLogs(ctx context.Context, containerID string, follow bool, stdout, stderr io.Writer) error {
	chunks, err := c.runtime.ContainerLogs(ctx, containerID, follow)
	if err != nil {
		return fmt.Errorf("%w: attaching to logs of %s: %w", domain.ErrRuntimeOperation, domain.ShortID(containerID), err)
	}
	return c.forward(ctx, containerID, chunks, stdout, stderr)
}

func (c *Controller) forward(ctx context.Context, containerID string, chunks iter.Seq2[domain.Chunk, error], stdout, stderr io.Writer) error {
	id := domain.ShortID(containerID)

	for chunk, err := range chunks {
		if err != nil {
			if ctx.Err() != nil {
				// Interrupted by the caller, not a stream failure.
				return nil
			}
			c.logger.Warn("log stream error", "containerID", id, "error", err)
			continue
		}

		var w io.Writer
		switch chunk.Stream {
		case domain.Stdout:
			w = stdout
		case domain.Stderr:
			w = stderr
		default:
			return fmt.Errorf("%w: container %s sent a %s frame", domain.ErrUnexpectedStdin, id, chunk.Stream)
		}

		if _, err := w.Write(chunk.Data); err != nil {
			c.logger.Warn("forwarding log chunk failed",
				"containerID", id,
				"stream", chunk.Stream.String(),
				"error", err)
		}
	}
	return nil
}
