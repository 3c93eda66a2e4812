package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"yatube/internal/config"
	"yatube/internal/database"
)

type workspace struct {
	configPath string
	dbPath     string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	for _, key := range []string{"YATUBE_ADDR", "YATUBE_DB_DRIVER", "YATUBE_DB_PATH", "YATUBE_LOG_LEVEL", "YATUBE_SESSION_TTL", "YATUBE_PASSWORD"} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	return &workspace{
		configPath: filepath.Join(dir, "yatube.yaml"),
		dbPath:     filepath.Join(dir, "yatube.db"),
	}
}

// run executes one CLI invocation against the workspace and returns stdout.
func (ws *workspace) run(ctx context.Context, args ...string) (string, error) {
	cmd := newRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(append([]string{"--config", ws.configPath, "--db", ws.dbPath}, args...))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func (ws *workspace) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := ws.run(context.Background(), args...)
	require.NoError(t, err)
	return out
}

func TestMigrate(t *testing.T) {
	ws := newWorkspace(t)

	out := ws.mustRun(t, "migrate")
	assert.Contains(t, out, "is ready")

	_, err := os.Stat(ws.dbPath)
	assert.NoError(t, err)

	// The schema is idempotent.
	ws.mustRun(t, "migrate")
}

func TestGroupCommands(t *testing.T) {
	ws := newWorkspace(t)

	out := ws.mustRun(t, "group", "create", "--title", "Cats and Dogs", "--description", "pets")
	assert.Contains(t, out, "/group/cats-and-dogs/")

	ws.mustRun(t, "group", "create", "--title", "Other", "--slug", "other_one", "--description", "misc")

	_, err := ws.run(context.Background(), "group", "create", "--title", "Again", "--slug", "other_one", "--description", "dup")
	assert.ErrorIs(t, err, database.ErrSlugExists)

	list := ws.mustRun(t, "group", "list")
	assert.Contains(t, list, "cats-and-dogs")
	assert.Contains(t, list, "other_one")

	ws.mustRun(t, "group", "delete", "other_one")
	assert.NotContains(t, ws.mustRun(t, "group", "list"), "other_one")

	_, err = ws.run(context.Background(), "group", "delete", "other_one")
	assert.ErrorIs(t, err, database.ErrGroupNotFound)
}

func TestGroupCreate_RequiresFlags(t *testing.T) {
	ws := newWorkspace(t)

	_, err := ws.run(context.Background(), "group", "create", "--title", "No description")
	assert.Error(t, err)
}

func TestUserCommands(t *testing.T) {
	ws := newWorkspace(t)

	out := ws.mustRun(t, "user", "create", "leo", "--password", "secret-password")
	assert.Contains(t, out, "Created user leo")

	_, err := ws.run(context.Background(), "user", "create", "leo", "--password", "secret-password")
	assert.ErrorIs(t, err, database.ErrUsernameExists)

	t.Setenv("YATUBE_PASSWORD", "from-the-env")
	ws.mustRun(t, "user", "create", "mia")

	db, err := database.NewDatabase(context.Background(), config.DriverSQLite, ws.dbPath)
	require.NoError(t, err)
	defer db.Close()
	_, err = database.NewUserService(db).VerifyUser(context.Background(), "mia", "from-the-env")
	assert.NoError(t, err)

	ws.mustRun(t, "user", "delete", "leo")
	_, err = ws.run(context.Background(), "user", "delete", "leo")
	assert.ErrorIs(t, err, database.ErrUserNotFound)
}

func TestConfigInit(t *testing.T) {
	ws := newWorkspace(t)

	ws.mustRun(t, "--addr", "127.0.0.1:9000", "config", "init")

	data, err := os.ReadFile(ws.configPath)
	require.NoError(t, err)

	var saved config.Config
	require.NoError(t, yaml.Unmarshal(data, &saved))
	assert.Equal(t, "127.0.0.1:9000", saved.Server.Addr)
	assert.Equal(t, ws.dbPath, saved.Database.Path)
}

func TestInvalidConfigIsRejected(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, os.WriteFile(ws.configPath, []byte("database:\n  driver: postgres\n"), 0644))

	_, err := ws.run(context.Background(), "migrate")
	assert.ErrorContains(t, err, "invalid database driver")
}

func TestServe_StopsWhenContextEnds(t *testing.T) {
	ws := newWorkspace(t)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := ws.run(ctx, "--addr", "127.0.0.1:0", "serve")
	assert.NoError(t, err)
}
