package docker

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/melih/grf/internal/core/domain"
)

// frameHeaderLen is the size of the multiplexing header: one byte stream
// type, three bytes padding, four bytes big endian payload length.
const frameHeaderLen = 8

// closing runs release once iteration of seq ends, however it ends.
func closing[T any](release func(), seq iter.Seq2[T, error]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer release()
		seq(yield)
	}
}

// maxChunkLen bounds a single read. Larger frames are yielded as several
// chunks of the same stream so a corrupt header cannot force a huge allocation.
const maxChunkLen = 32 << 10

// demux splits a multiplexed stdout/stderr stream into frames.
//
// stdcopy.StdCopy is not used because it folds stdin frames into stdout and
// stops at the first failed write.
func demux(r io.Reader) iter.Seq2[domain.Chunk, error] {
	return func(yield func(domain.Chunk, error) bool) {
		header := make([]byte, frameHeaderLen)
		for {
			if _, err := io.ReadFull(r, header); err != nil {
				if !errors.Is(err, io.EOF) {
					yield(domain.Chunk{}, fmt.Errorf("reading frame header: %w", err))
				}
				return
			}

			size := binary.BigEndian.Uint32(header[4:])

			var kind domain.StreamKind
			switch stdcopy.StdType(header[0]) {
			case stdcopy.Stdin:
				kind = domain.Stdin
			case stdcopy.Stdout:
				kind = domain.Stdout
			case stdcopy.Stderr:
				kind = domain.Stderr
			case stdcopy.Systemerr:
				msg, err := readSystemError(r, size)
				if err != nil {
					yield(domain.Chunk{}, err)
					return
				}
				if !yield(domain.Chunk{}, fmt.Errorf("error from daemon in stream: %s", msg)) {
					return
				}
				continue
			default:
				yield(domain.Chunk{}, fmt.Errorf("unrecognized stream type %d", header[0]))
				return
			}

			remaining := size
			for {
				data := make([]byte, min(remaining, maxChunkLen))
				if _, err := io.ReadFull(r, data); err != nil {
					yield(domain.Chunk{}, fmt.Errorf("reading %d byte frame: %w", size, err))
					return
				}
				remaining -= uint32(len(data))
				if !yield(domain.Chunk{Stream: kind, Data: data}, nil) {
					return
				}
				if remaining == 0 {
					break
				}
			}
		}
	}
}

// readSystemError keeps at most maxChunkLen bytes of a daemon error frame
// and discards the rest.
func readSystemError(r io.Reader, size uint32) ([]byte, error) {
	msg := make([]byte, min(size, maxChunkLen))
	if _, err := io.ReadFull(r, msg); err != nil {
		return nil, fmt.Errorf("reading %d byte frame: %w", size, err)
	}
	rest := int64(size) - int64(len(msg))
	if n, err := io.CopyN(io.Discard, r, rest); err != nil {
		return nil, fmt.Errorf("reading %d byte frame: %d bytes short: %w", size, rest-n, err)
	}
	return msg, nil
}

// pullEvents decodes the JSON message stream of an image pull. A message
// carrying an error is yielded with that error; decoding stops on malformed
// input.
func pullEvents(r io.Reader) iter.Seq2[domain.PullEvent, error] {
	return func(yield func(domain.PullEvent, error) bool) {
		dec := json.NewDecoder(r)
		for {
			var msg jsonmessage.JSONMessage
			if err := dec.Decode(&msg); err != nil {
				if !errors.Is(err, io.EOF) {
					yield(domain.PullEvent{}, fmt.Errorf("decoding pull progress: %w", err))
				}
				return
			}

			evt := domain.PullEvent{ID: msg.ID, Status: msg.Status}
			if msg.Progress != nil {
				evt.Progress = msg.Progress.String()
			}

			var err error
			if msg.Error != nil {
				err = msg.Error
			}
			if !yield(evt, err) {
				return
			}
		}
	}
}
