package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/syssam/boxql/compiler/gen"
	"github.com/syssam/boxql/compiler/load"
)

// GenOptions holds the flags of the gen command.
type GenOptions struct {
	Schema  string
	Target  string
	Package string
	Header  string
	Workers int
	Watch   bool
}

// GenResult is the data written after a generation run.
type GenResult struct {
	Files []string `json:"files" msgpack:"files"`
}

// NewGenCommand creates the gen command.
func NewGenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenOptions{}

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate Go declarations from a schema file",
		Long: `Generate one Go file per table declared in the schema: the table marker,
its typed column references and the records that derive changesets.

With --watch the command keeps running and regenerates whenever the schema
file changes.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Schema, "schema", "s", "schema.yaml", "path of the schema file")
	cmd.Flags().StringVarP(&opts.Target, "target", "o", "", "output directory (default: the schema directory)")
	cmd.Flags().StringVar(&opts.Package, "package", "", "package name of the generated files")
	cmd.Flags().StringVar(&opts.Header, "header", gen.DefaultHeader, "comment written at the top of every file")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "number of files generated concurrently (default: GOMAXPROCS)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "regenerate when the schema changes")

	return cmd
}

func runGen(cmd *cobra.Command, rootOpts *RootOptions, opts *GenOptions) error {
	logger := rootOpts.Logger()
	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	target := opts.Target
	if target == "" {
		target = filepath.Dir(opts.Schema)
	}
	cfgOpts := []gen.Option{gen.WithTarget(target), gen.WithHeader(opts.Header)}
	if opts.Package != "" {
		cfgOpts = append(cfgOpts, gen.WithPackage(opts.Package))
	}
	if cmd.Flags().Changed("workers") {
		cfgOpts = append(cfgOpts, gen.WithWorkers(opts.Workers))
	}
	cfg, err := gen.NewConfig(cfgOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	run := func(ctx context.Context) error {
		s, err := load.Load(opts.Schema)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid schema", err)
		}
		g := gen.NewGenerator(cfg, s)
		if err := g.Generate(ctx); err != nil {
			return WrapExitError(ExitFailure, "generation failed", err)
		}
		files := g.Files()
		for i, f := range files {
			files[i] = filepath.Join(target, f)
		}
		logger.DebugContext(ctx, "generated", "schema", opts.Schema, "files", len(files))
		return formatter.Success(GenResult{Files: files}, func(w io.Writer) error {
			for _, f := range files {
				if _, err := fmt.Fprintf(w, "wrote %s\n", f); err != nil {
					return err
				}
			}
			return nil
		})
	}

	ctx := cmd.Context()
	if err := run(ctx); err != nil && !opts.Watch {
		return err
	} else if err != nil {
		logger.ErrorContext(ctx, "generation failed", "error", err)
	}
	if !opts.Watch {
		return nil
	}
	// Watch reports failed runs through the default logger.
	slog.SetDefault(logger)
	logger.InfoContext(ctx, "watching schema", "path", opts.Schema)
	if err := gen.Watch(ctx, opts.Schema, run); err != nil {
		return WrapExitError(ExitFailure, "watch failed", err)
	}
	return nil
}
