package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/syssam/boxql"
	"github.com/syssam/boxql/dialect/sql"
)

// RenderResult is the data written by the render command.
type RenderResult struct {
	SQL  string `json:"sql" msgpack:"sql"`
	Args []any  `json:"args" msgpack:"args"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatementOptions{}
	var inline bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a SELECT statement over a schema table",
		Long: `Build a SELECT statement from flags and print the SQL text and its bound
arguments for the chosen dialect. Columns are resolved from the schema file.

Example:

  boxql render -s schema.yaml -t users --select id,name --where admin=true --order name:desc --limit 10`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, rootOpts, opts, inline)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&inline, "inline", false, "write values as SQL literals instead of placeholders")

	return cmd
}

func runRender(cmd *cobra.Command, rootOpts *RootOptions, opts *StatementOptions, inline bool) error {
	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	stmt, err := buildStatement(cmd, opts)
	if err != nil {
		return err
	}
	var ropts []sql.Option
	if inline {
		ropts = append(ropts, sql.Inline())
	}
	query, args, err := stmt.query.Query(opts.Dialect, ropts...)
	if err != nil {
		if boxql.IsRenderError(err) {
			return WrapExitError(ExitCommandError, "cannot render statement", err)
		}
		return err
	}
	rootOpts.Logger().DebugContext(cmd.Context(), "rendered", "dialect", opts.Dialect, "args", len(args))
	if args == nil {
		args = []any{}
	}

	return formatter.Success(RenderResult{SQL: query, Args: args}, func(w io.Writer) error {
		if _, err := fmt.Fprintln(w, query); err != nil {
			return err
		}
		if len(args) == 0 {
			return nil
		}
		_, err := fmt.Fprintf(w, "args: %v\n", args)
		return err
	})
}
