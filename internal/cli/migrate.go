package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/syssam/boxql/compiler/load"
	"github.com/syssam/boxql/dialect"
	"github.com/syssam/boxql/dialect/sql"
	"github.com/syssam/boxql/dialect/sql/schema"
)

// MigrateOptions holds the flags of the migrate command.
type MigrateOptions struct {
	Schema  string
	Dialect string
	DSN     string
}

// MigrateResult is the data written by the migrate command. Statements is
// set on a dry run, Tables otherwise.
type MigrateResult struct {
	Statements []string `json:"statements,omitempty" msgpack:"statements,omitempty"`
	Tables     []string `json:"tables,omitempty" msgpack:"tables,omitempty"`
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MigrateOptions{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the tables of a schema file",
		Long: `Create every table declared in the schema file that does not exist yet.
Existing tables are not altered.

Without --dsn the CREATE TABLE statements are printed instead.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Schema, "schema", "s", "schema.yaml", "path of the schema file")
	cmd.Flags().StringVarP(&opts.Dialect, "dialect", "d", dialect.Postgres, "SQL dialect (postgres|mysql|sqlite)")
	cmd.Flags().StringVar(&opts.DSN, "dsn", "", "data source name passed to the driver (default: dry run)")

	return cmd
}

func runMigrate(cmd *cobra.Command, rootOpts *RootOptions, opts *MigrateOptions) error {
	ctx := cmd.Context()
	logger := rootOpts.Logger()
	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	if !dialect.Supported(opts.Dialect) {
		return NewExitError(ExitCommandError, fmt.Sprintf("unsupported dialect %q", opts.Dialect))
	}
	s, err := load.Load(opts.Schema)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid schema", err)
	}
	tables := schemaTables(s)
	res := schema.ValidateSchema(tables)
	for _, w := range res.Warnings {
		logger.WarnContext(ctx, "schema warning", "table", w.Table, "column", w.Column, "message", w.Message)
	}
	if res.HasErrors() {
		return NewExitError(ExitCommandError, res.String())
	}

	if opts.DSN == "" {
		stmts := make([]string, len(tables))
		for i, t := range tables {
			query, _, err := sql.Render(opts.Dialect, schema.CreateTable(t))
			if err != nil {
				return WrapExitError(ExitCommandError, "cannot render statement", err)
			}
			stmts[i] = query
		}
		return formatter.Success(MigrateResult{Statements: stmts}, func(w io.Writer) error {
			for _, stmt := range stmts {
				if _, err := fmt.Fprintf(w, "%s;\n", stmt); err != nil {
					return err
				}
			}
			return nil
		})
	}

	drv, err := sql.Open(opts.Dialect, opts.DSN)
	if err != nil {
		return WrapExitError(ExitFailure, "opening database", err)
	}
	defer drv.Close()
	var exec dialect.Driver = drv
	if rootOpts.Verbose {
		exec = sql.NewDebugDriver(drv, logger)
	}
	if err := schema.Create(ctx, exec, tables...); err != nil {
		return WrapExitError(ExitFailure, "migration failed", err)
	}
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return formatter.Success(MigrateResult{Tables: names}, func(w io.Writer) error {
		for _, name := range names {
			if _, err := fmt.Fprintf(w, "table %s ready\n", name); err != nil {
				return err
			}
		}
		return nil
	})
}

// schemaTables describes the tables of a schema file for creation.
func schemaTables(s *load.Schema) []*schema.Table {
	tables := make([]*schema.Table, len(s.Tables))
	for i, t := range s.Tables {
		st := &schema.Table{Name: t.Name, Columns: make([]*schema.Column, len(t.Columns))}
		for j, c := range t.Columns {
			st.Columns[j] = &schema.Column{
				Name:       c.Name,
				Type:       c.Type,
				Nullable:   c.Nullable,
				PrimaryKey: c.PrimaryKey,
			}
		}
		tables[i] = st
	}
	return tables
}
