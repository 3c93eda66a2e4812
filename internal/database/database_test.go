package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/internal/config"
	"yatube/internal/models"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(context.Background(), config.DriverSQLite, filepath.Join(t.TempDir(), "yatube.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// steppingClock returns a clock that advances one second per call.
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func mustCreateUser(t *testing.T, db *Database, username string) *models.User {
	t.Helper()
	user, err := NewUserService(db).CreateUser(context.Background(), username, "", "secret-password")
	require.NoError(t, err)
	return user
}

func mustCreateGroup(t *testing.T, db *Database, title, slug string) *models.Group {
	t.Helper()
	group, err := NewGroupService(db).CreateGroup(context.Background(), title, slug, title+" description")
	require.NoError(t, err)
	return group
}

func TestNewDatabase_SchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yatube.db")
	ctx := context.Background()

	db, err := NewDatabase(ctx, config.DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewDatabase(ctx, config.DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Ping(ctx))
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	_, err := NewDatabase(context.Background(), "postgres", filepath.Join(t.TempDir(), "x.db"))
	require.Error(t, err)
}

func TestBuildDSN(t *testing.T) {
	dsn, err := buildDSN(config.DriverSQLite3, "data/app.db")
	require.NoError(t, err)
	require.Contains(t, dsn, "_foreign_keys=on")

	dsn, err = buildDSN(config.DriverSQLite, "data/app.db")
	require.NoError(t, err)
	require.Contains(t, dsn, "foreign_keys(1)")
}

// openWithDriver opens a fresh database, skipping the test when the cgo
// driver was built as a stub.
func openWithDriver(t *testing.T, driver string) *Database {
	t.Helper()
	db, err := NewDatabase(context.Background(), driver, filepath.Join(t.TempDir(), "yatube.db"))
	if err != nil && strings.Contains(err.Error(), "requires cgo") {
		t.Skipf("%s driver unavailable: %v", driver, err)
	}
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestForeignKeys_PerDriver(t *testing.T) {
	for _, driver := range []string{config.DriverSQLite, config.DriverSQLite3} {
		t.Run(driver, func(t *testing.T) {
			db := openWithDriver(t, driver)
			ctx := context.Background()
			author := mustCreateUser(t, db, "author")
			other := mustCreateUser(t, db, "other")
			group := mustCreateGroup(t, db, "Cats", "cats")

			ps := NewPostService(db)
			grouped, err := ps.CreatePost(ctx, "grouped", other.ID, &group.ID)
			require.NoError(t, err)
			_, err = ps.CreatePost(ctx, "by author", author.ID, nil)
			require.NoError(t, err)

			// SET NULL
			require.NoError(t, NewGroupService(db).DeleteGroup(ctx, "cats"))
			post, err := ps.GetPost(ctx, grouped.ID)
			require.NoError(t, err)
			assert.Nil(t, post.GroupID)
			assert.Nil(t, post.Group)

			// CASCADE
			require.NoError(t, NewUserService(db).DeleteUser(ctx, "author"))
			count, err := ps.CountPosts(ctx, models.PostFilter{})
			require.NoError(t, err)
			assert.Equal(t, 1, count)

			_, err = ps.CreatePost(ctx, "orphan", author.ID, nil)
			assert.ErrorIs(t, err, ErrPostCreateFailed)
		})
	}
}
