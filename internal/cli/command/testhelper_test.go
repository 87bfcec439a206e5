package command

import (
	"bytes"
	"context"
	"flag"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/devloop/internal/core/domain"
	"github.com/yndnr/devloop/internal/infra/project"
	"github.com/yndnr/devloop/internal/server/httpserver/handler"
	"github.com/yndnr/devloop/internal/storage/queue"
	"github.com/yndnr/devloop/internal/storage/statefile"
)

// deadPID is a valid PID that no process holds.
const deadPID = 1<<31 - 1

const testConf = `client:
  poll_interval: 10ms
  stop_timeout: 5s
  start_timeout: 5s
`

// newTestProject creates a project with a conf.yaml and returns it.
func newTestProject(t *testing.T) *project.Project {
	t.Helper()
	root := t.TempDir()
	p := &project.Project{Root: root}
	if err := os.MkdirAll(filepath.Join(root, project.FolderName), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p.ConfigPath(), []byte(testConf), 0644); err != nil {
		t.Fatal(err)
	}
	if err := p.EnsureServerDir(); err != nil {
		t.Fatal(err)
	}
	return p
}

// runApp runs the CLI with args and returns what it printed.
func runApp(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = &errOut
	err = app.RunContext(context.Background(), append([]string{"devloop"}, args...))
	return out.String(), errOut.String(), err
}

// testContext creates a CLI context with the global flags parsed from args.
func testContext(args ...string) *cli.Context {
	app := &cli.App{
		Name:     "test",
		Flags:    globalFlags(),
		Metadata: map[string]any{},
	}

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range app.Flags {
		f.Apply(set)
	}
	set.Parse(args)

	return cli.NewContext(app, set, nil)
}

type liveState struct {
	version int64
	status  string
}

func (s *liveState) Version() int64 { return s.version }

func (s *liveState) Status() (string, bool) { return s.status, s.status != "" }

// publishLive serves the live-reload routes and publishes a state record
// naming this process, so the project looks like it has a running server.
func publishLive(t *testing.T, p *project.Project, state *liveState) *domain.ServerState {
	t.Helper()
	mux := http.NewServeMux()
	handler.New(handler.Config{State: state, LiveReload: true}).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	rec := &domain.ServerState{
		Port: srv.Listener.Addr().(*net.TCPAddr).Port,
		PID:  os.Getpid(),
	}
	writeState(t, p, rec)
	return rec
}

func writeState(t *testing.T, p *project.Project, rec *domain.ServerState) {
	t.Helper()
	if err := statefile.New(p.StatePath()).Write(rec); err != nil {
		t.Fatal(err)
	}
}

func drain(t *testing.T, p *project.Project) []*domain.Request {
	t.Helper()
	reqs, err := queue.New(p.RequestsPath()).DrainAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return reqs
}

// drainQuiet drains the queue at path, ignoring a missing file.
func drainQuiet(ctx context.Context, path string) ([]*domain.Request, error) {
	return queue.New(path).DrainAll(ctx)
}
