package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_DryRun(t *testing.T) {
	t.Parallel()
	out, stderr, err := execute(t, "migrate", "-s", "testdata/schema.yaml", "-d", "sqlite")
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS "users" ("id" INTEGER NOT NULL, "name" TEXT NOT NULL, "email" TEXT, "admin" BOOLEAN NOT NULL, PRIMARY KEY ("id"));
CREATE TABLE IF NOT EXISTS "blog_posts" ("id" TEXT NOT NULL, "author_id" INTEGER NOT NULL, "title" TEXT NOT NULL, "published_at" DATETIME, "score" REAL, PRIMARY KEY ("id"));
CREATE TABLE IF NOT EXISTS "audit_log" ("message" TEXT NOT NULL, "at" DATETIME NOT NULL);
`, out)
	assert.Contains(t, stderr, "table has no primary key")
	assert.Contains(t, stderr, "table=audit_log")
}

func TestMigrate_JSON(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "boxql.db")
	out, _, err := execute(t, "migrate", "--format", "json", "-s", "testdata/schema.yaml", "-d", "sqlite", "--dsn", path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"tables":["users","blog_posts","audit_log"]}}`, out)

	// Tables are only created once.
	out, _, err = execute(t, "migrate", "-s", "testdata/schema.yaml", "-d", "sqlite", "--dsn", path)
	require.NoError(t, err)
	assert.Equal(t, "table users ready\ntable blog_posts ready\ntable audit_log ready\n", out)

	out, _, err = execute(t, "query", "--format", "json", "-s", "testdata/schema.yaml", "-t", "blog_posts", "-d", "sqlite", "--dsn", path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"columns":["id","author_id","title","published_at","score"],"rows":[]}}`, out)
}

func TestMigrate_Errors(t *testing.T) {
	t.Parallel()
	_, _, err := execute(t, "migrate", "-s", "testdata/schema.yaml", "-d", "oracle")
	require.ErrorContains(t, err, `unsupported dialect "oracle"`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = execute(t, "migrate", "-s", "testdata/missing.yaml")
	require.ErrorContains(t, err, "invalid schema")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
