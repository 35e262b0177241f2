package gen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/boxql/compiler/load"
)

func loadSchema(t *testing.T) *load.Schema {
	t.Helper()
	s, err := load.Load("testdata/schema.yaml")
	require.NoError(t, err)
	return s
}

func parseSchema(t *testing.T, src string) *load.Schema {
	t.Helper()
	s, err := load.Parse([]byte(src))
	require.NoError(t, err)
	return s
}

func TestGenerate(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := NewConfig(WithTarget(dir), WithWorkers(2))
	require.NoError(t, err)

	g := NewGenerator(cfg, loadSchema(t))
	require.NoError(t, g.Generate(context.Background()))
	require.Equal(t, []string{"users.go", "blog_posts.go", "audit_log.go"}, g.Files())

	golden := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, name := range g.Files() {
		got, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		golden.Assert(t, name, got)
	}
}

func TestGenerate_Package(t *testing.T) {
	t.Parallel()
	const schema = `
tables:
  - name: tags
    columns:
      - {name: label, type: text}
`
	tests := []struct {
		name    string
		target  string
		opts    []Option
		schema  string
		want    string
		wantErr bool
	}{
		{name: "option", target: "out", opts: []Option{WithPackage("db")}, schema: "package: models\n" + schema, want: "package db\n"},
		{name: "schema", target: "out", schema: "package: models\n" + schema, want: "package models\n"},
		{name: "target", target: "store", schema: schema, want: "package store\n"},
		{name: "invalid_target", target: "my-store", schema: schema, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := filepath.Join(t.TempDir(), tt.target)
			cfg, err := NewConfig(append([]Option{WithTarget(dir)}, tt.opts...)...)
			require.NoError(t, err)

			err = Generate(context.Background(), cfg, parseSchema(t, tt.schema))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMissingConfig)
				return
			}
			require.NoError(t, err)
			out, err := os.ReadFile(filepath.Join(dir, "tags.go"))
			require.NoError(t, err)
			assert.Contains(t, string(out), tt.want)
		})
	}
}

func TestGenerate_RecordFields(t *testing.T) {
	t.Parallel()
	const schema = `
package: models
tables:
  - name: users
    columns:
      - {name: id, type: integer, primary_key: true}
      - {name: name, type: text}
      - {name: email, type: text, nullable: true}
      - {name: bio, type: text, nullable: true}
records:
  - name: Patch
    table: users
    fields:
      - {column: email, optional: false}
      - {column: bio}
      - {column: name}
`
	dir := t.TempDir()
	cfg, err := NewConfig(WithTarget(dir))
	require.NoError(t, err)
	require.NoError(t, Generate(context.Background(), cfg, parseSchema(t, schema)))

	out, err := os.ReadFile(filepath.Join(dir, "users.go"))
	require.NoError(t, err)
	// Struct fields and changeset entries share the order of fields, and a
	// nullable column always maps to a pointer.
	assert.Contains(t, string(out), "type Patch struct {\n"+
		"\tID    int64   `sql:\"id\"`\n"+
		"\tEmail *string `sql:\"email\"`\n"+
		"\tBio   *string `sql:\"bio\"`\n"+
		"\tName  string  `sql:\"name\"`\n"+
		"}\n")
	assert.Contains(t, string(out), "\t\tchangeset.Policy{},\n"+
		"\t\tchangeset.Nullable(UserEmail, p.Email),\n"+
		"\t\tchangeset.Optional(UserBio, p.Bio),\n"+
		"\t\tchangeset.Required(UserName, p.Name),\n")
}

func TestGenerate_Header(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := NewConfig(WithTarget(dir), WithHeader(""))
	require.NoError(t, err)
	s := parseSchema(t, "package: models\ntables:\n  - name: tags\n    columns: [{name: label, type: text}]\n")
	require.NoError(t, Generate(context.Background(), cfg, s))

	out, err := os.ReadFile(filepath.Join(dir, "tags.go"))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "Code generated")
	assert.Contains(t, string(out), "TagLabel = sql.TextColumn(Tags, \"label\")")
}

func TestGenerate_SchemaErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		schema  string
		wantErr string
	}{
		{
			name: "record_collides_with_column",
			schema: `
tables:
  - name: users
    columns: [{name: id, type: integer, primary_key: true}, {name: name, type: text}]
records:
  - {name: UserName, table: users}
`,
			wantErr: `generated identifier "UserName" collides with users.name`,
		},
		{
			name: "tables_collide",
			schema: `
tables:
  - name: user_tags
    columns: [{name: a, type: text}]
  - name: user-tags
    columns: [{name: a, type: text}]
`,
			wantErr: `generated identifier "UserTags" collides with user_tags.table`,
		},
		{
			name:    "keyword",
			schema:  "tables:\n  - name: type\n    columns: [{name: a, type: text}]\n",
			wantErr: `generated identifier "type" is a Go keyword`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := NewConfig(WithTarget(t.TempDir()), WithPackage("models"))
			require.NoError(t, err)
			err = Generate(context.Background(), cfg, parseSchema(t, tt.schema))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSchema)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestGenerate_MissingTarget(t *testing.T) {
	t.Parallel()
	err := Generate(context.Background(), &Config{}, loadSchema(t))
	require.ErrorIs(t, err, ErrMissingConfig)
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "Target", cerr.Option)
}

func TestGenerate_Canceled(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := NewConfig(WithTarget(dir))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = Generate(ctx, cfg, loadSchema(t))
	require.ErrorIs(t, err, context.Canceled)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerate_WriteError(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	// The target is a regular file, so no directory can be created there.
	target := filepath.Join(dir, "models")
	require.NoError(t, os.WriteFile(target, nil, 0o644))
	cfg, err := NewConfig(WithTarget(target))
	require.NoError(t, err)

	err = Generate(context.Background(), cfg, loadSchema(t))
	require.ErrorIs(t, err, ErrGenerationFailed)
	var gerr *GenerationError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, "write", gerr.Phase)
}
