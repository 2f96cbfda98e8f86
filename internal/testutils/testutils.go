//go:build integration

// Package testutils provides shared test infrastructure for integration tests.
package testutils

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Clip is a seeded video clip row.
type Clip struct {
	ID        int
	Thumbnail string
}

// ClipAction links a clip to an action with a confidence score.
type ClipAction struct {
	ClipID     int
	ActionID   int
	Confidence float64
}

// Action is a seeded action row.
type Action struct {
	ID   int
	Name string
}

const schema = `
CREATE TABLE "VideoClip" (
    clip_id   INTEGER PRIMARY KEY,
    thumbnail TEXT
);

CREATE TABLE "Action" (
    action_id   INTEGER PRIMARY KEY,
    action_name TEXT NOT NULL
);

CREATE TABLE "VideoClipAction" (
    clip_id    INTEGER NOT NULL REFERENCES "VideoClip" (clip_id),
    action_id  INTEGER NOT NULL REFERENCES "Action" (action_id),
    confidence DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (clip_id, action_id)
);
`

// PostgresEnv contains connection information for a Postgres test environment.
type PostgresEnv struct {
	Container testcontainers.Container
	DSN       string
}

// Close terminates the Postgres container.
func (e *PostgresEnv) Close(ctx context.Context) error {
	if e.Container != nil {
		return e.Container.Terminate(ctx)
	}
	return nil
}

// StartPostgresContainer starts a Postgres container with the clip/action
// schema already applied.
func StartPostgresContainer(t *testing.T, ctx context.Context) *PostgresEnv {
	t.Helper()

	const (
		user     = "haven"
		password = "haven"
		database = "haven"
	)

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": password,
			"POSTGRES_DB":       database,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("get container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, password, host, port.Port(), database)

	env := &PostgresEnv{Container: container, DSN: dsn}

	code, _, err := container.Exec(ctx, []string{
		"psql", "-U", user, "-d", database, "-c", schema,
	})
	if err != nil || code != 0 {
		t.Fatalf("apply schema: code=%d err=%v", code, err)
	}

	return env
}

// Seed inserts the given rows through psql inside the container.
func (e *PostgresEnv) Seed(t *testing.T, ctx context.Context, clips []Clip, actions []Action, links []ClipAction) {
	t.Helper()

	var b strings.Builder
	for _, c := range clips {
		if c.Thumbnail == "" {
			fmt.Fprintf(&b, `INSERT INTO "VideoClip" VALUES (%d, NULL);`, c.ID)
			continue
		}
		fmt.Fprintf(&b, `INSERT INTO "VideoClip" VALUES (%d, '%s');`, c.ID, c.Thumbnail)
	}
	for _, a := range actions {
		fmt.Fprintf(&b, `INSERT INTO "Action" VALUES (%d, '%s');`, a.ID, a.Name)
	}
	for _, l := range links {
		fmt.Fprintf(&b, `INSERT INTO "VideoClipAction" VALUES (%d, %d, %g);`, l.ClipID, l.ActionID, l.Confidence)
	}

	code, _, err := e.Container.Exec(ctx, []string{
		"psql", "-U", "haven", "-d", "haven", "-c", b.String(),
	})
	if err != nil || code != 0 {
		t.Fatalf("seed data: code=%d err=%v", code, err)
	}
}

// FlakyGateway serves content keyed by CID and fails the first failures
// requests for each CID with 503 before succeeding. Useful for exercising
// retry behavior end to end.
func FlakyGateway(t *testing.T, content map[string][]byte, failures int) *httptest.Server {
	t.Helper()

	var mu sync.Mutex
	attempts := make(map[string]int)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := strings.TrimPrefix(r.URL.Path, "/ipfs/")

		data, ok := content[cid]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		mu.Lock()
		attempts[cid]++
		n := attempts[cid]
		mu.Unlock()

		if n <= failures {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write(data)
	}))
}
