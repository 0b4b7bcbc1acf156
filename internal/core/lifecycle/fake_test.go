package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/melih/grf/internal/core/domain"
)

// fakeRuntime implements ports.ContainerRuntime for testing.
type fakeRuntime struct {
	containers []domain.Container
	listErr    error
	repoTags   []string
	tagsErr    error

	pullEvents []pullResult
	pullErr    error
	createID   string
	createErr  error
	copyErr    error
	startErr   error
	killErr    map[string]error
	execErr    error
	execOutput map[string][]chunkResult
	exitCodes  map[string]int
	exitErr    error
	logChunks  []chunkResult
	logsErr    error

	calls      []string
	created    []domain.CreateRequest
	copies     []copyCall
	killed     []string
	execs      []execCall
	logsFollow []bool
}

type pullResult struct {
	evt domain.PullEvent
	err error
}

type chunkResult struct {
	chunk domain.Chunk
	err   error
}

type copyCall struct {
	containerID string
	dir         string
	name        string
	content     []byte
}

type execCall struct {
	containerID string
	cmd         []string
}

func (f *fakeRuntime) ListContainers(ctx context.Context) ([]domain.Container, error) {
	f.calls = append(f.calls, "list")
	return f.containers, f.listErr
}

func (f *fakeRuntime) ImageTags(ctx context.Context, image string) ([]string, error) {
	f.calls = append(f.calls, "tags "+image)
	return f.repoTags, f.tagsErr
}

func (f *fakeRuntime) PullImage(ctx context.Context, ref string) (iter.Seq2[domain.PullEvent, error], error) {
	f.calls = append(f.calls, "pull "+ref)
	if f.pullErr != nil {
		return nil, f.pullErr
	}
	return func(yield func(domain.PullEvent, error) bool) {
		for _, r := range f.pullEvents {
			if !yield(r.evt, r.err) {
				return
			}
		}
	}, nil
}

func (f *fakeRuntime) CreateContainer(ctx context.Context, req domain.CreateRequest) (string, error) {
	f.calls = append(f.calls, "create")
	f.created = append(f.created, req)
	if f.createErr != nil {
		return "", f.createErr
	}
	if f.createID == "" {
		return "0123456789abcdef", nil
	}
	return f.createID, nil
}

func (f *fakeRuntime) CopyFile(ctx context.Context, containerID, dir, name string, content []byte) error {
	f.calls = append(f.calls, "copy")
	f.copies = append(f.copies, copyCall{containerID: containerID, dir: dir, name: name, content: content})
	return f.copyErr
}

func (f *fakeRuntime) StartContainer(ctx context.Context, containerID string) error {
	f.calls = append(f.calls, "start")
	return f.startErr
}

func (f *fakeRuntime) KillContainer(ctx context.Context, containerID string) error {
	f.calls = append(f.calls, "kill")
	f.killed = append(f.killed, containerID)
	return f.killErr[containerID]
}

func (f *fakeRuntime) Exec(ctx context.Context, containerID string, cmd []string) (domain.ExecSession, error) {
	f.calls = append(f.calls, "exec")
	f.execs = append(f.execs, execCall{containerID: containerID, cmd: cmd})
	if f.execErr != nil {
		return domain.ExecSession{}, f.execErr
	}
	return domain.ExecSession{
		ID:     "exec-" + containerID,
		Output: chunkSeq(f.execOutput[containerID]),
	}, nil
}

// ExecExitCode looks codes up by container ID; exec IDs are "exec-" + containerID.
func (f *fakeRuntime) ExecExitCode(ctx context.Context, execID string) (int, error) {
	f.calls = append(f.calls, "inspect "+execID)
	if f.exitErr != nil {
		return 0, f.exitErr
	}
	return f.exitCodes[strings.TrimPrefix(execID, "exec-")], nil
}

func (f *fakeRuntime) ContainerLogs(ctx context.Context, containerID string, follow bool) (iter.Seq2[domain.Chunk, error], error) {
	f.calls = append(f.calls, "logs")
	f.logsFollow = append(f.logsFollow, follow)
	if f.logsErr != nil {
		return nil, f.logsErr
	}
	return chunkSeq(f.logChunks), nil
}

func chunkSeq(results []chunkResult) iter.Seq2[domain.Chunk, error] {
	return func(yield func(domain.Chunk, error) bool) {
		for _, r := range results {
			if !yield(r.chunk, r.err) {
				return
			}
		}
	}
}

// fakeBuilder implements ports.PluginBuilder for testing.
type fakeBuilder struct {
	cert     []byte
	certErr  error
	buildErr error
	builds   int
}

func (b *fakeBuilder) Build(ctx context.Context) error {
	b.builds++
	return b.buildErr
}

func (b *fakeBuilder) Certificate(ctx context.Context) ([]byte, error) {
	return b.cert, b.certErr
}

// recordingReporter implements Reporter for testing.
type recordingReporter struct {
	lines    []string
	progress []domain.PullEvent
	done     int
}

func (r *recordingReporter) Infof(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Progress(evt domain.PullEvent) {
	r.progress = append(r.progress, evt)
}

func (r *recordingReporter) ProgressDone() {
	r.done++
}

// failingWriter fails every write.
type failingWriter struct {
	writes int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("broken pipe")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
