package domain

import (
	"iter"
	"strings"
)

// StreamKind identifies the container stream a chunk came from.
// Values follow the runtime's multiplexing header.
type StreamKind byte

const (
	Stdin StreamKind = iota
	Stdout
	Stderr
)

func (k StreamKind) String() string {
	switch k {
	case Stdin:
		return "stdin"
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	default:
		return "unknown"
	}
}

// Chunk is one frame of container output.
type Chunk struct {
	Stream StreamKind
	Data   []byte
}

// ExecSession is a command started inside a container. Output must be
// drained before the exit code is known.
type ExecSession struct {
	ID     string
	Output iter.Seq2[Chunk, error]
}

// PullEvent is one progress message of an image pull.
type PullEvent struct {
	ID       string
	Status   string
	Progress string
}

func (e PullEvent) String() string {
	parts := make([]string, 0, 3)
	if e.ID != "" {
		parts = append(parts, e.ID+":")
	}
	if e.Status != "" {
		parts = append(parts, e.Status)
	}
	if e.Progress != "" {
		parts = append(parts, e.Progress)
	}
	return strings.Join(parts, " ")
}
