package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/syssam/boxql/dialect"
	"github.com/syssam/boxql/dialect/sql"
	"github.com/syssam/boxql/dialect/sql/sqlgraph"
)

// QueryResult is the data written by the query command.
type QueryResult struct {
	Columns []string         `json:"columns" msgpack:"columns"`
	Rows    []map[string]any `json:"rows" msgpack:"rows"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatementOptions{}
	var dsn string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a SELECT statement over a schema table",
		Long: `Build a SELECT statement from the same flags as render, run it against the
database named by --dsn and print the rows.

The --dialect flag also selects the database/sql driver: postgres (lib/pq),
mysql (go-sql-driver) or sqlite (modernc.org/sqlite).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, rootOpts, opts, dsn)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&dsn, "dsn", "", "data source name passed to the driver")
	_ = cmd.MarkFlagRequired("dsn")

	return cmd
}

func runQuery(cmd *cobra.Command, rootOpts *RootOptions, opts *StatementOptions, dsn string) error {
	ctx := cmd.Context()
	logger := rootOpts.Logger()
	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	stmt, err := buildStatement(cmd, opts)
	if err != nil {
		return err
	}
	drv, err := sql.Open(opts.Dialect, dsn)
	if err != nil {
		return WrapExitError(ExitFailure, "opening database", err)
	}
	defer drv.Close()

	var exec dialect.ExecQuerier
	if rootOpts.Verbose {
		exec = sql.NewDebugDriver(drv, logger)
	} else {
		stats := sql.NewStatsDriver(drv, sql.WithSlowQueryLogger(logger))
		defer func() {
			logger.DebugContext(ctx, "query stats", "stats", stats.QueryStats().Snapshot())
		}()
		exec = stats
	}

	rows, err := sql.QueryStatement(ctx, exec, opts.Dialect, stmt.query)
	if err != nil {
		return WrapExitError(ExitFailure, "query failed", err)
	}
	defer rows.Close()
	result := QueryResult{Columns: stmt.columns, Rows: []map[string]any{}}
	for rows.Next() {
		row, err := sqlgraph.ScanMap(rows)
		if err != nil {
			return WrapExitError(ExitFailure, "query failed", err)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return WrapExitError(ExitFailure, "query failed", err)
	}

	return formatter.Success(result, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(result.Columns, "\t"))
		for _, row := range result.Rows {
			cells := make([]string, len(result.Columns))
			for i, c := range result.Columns {
				cells[i] = cell(row[c])
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		return tw.Flush()
	})
}

func cell(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
