package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvollmer/lanegraph/pkg/pipeline"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	ref     string // branch or ref to lay out instead of HEAD
	limit   int    // maximum number of commits, 0 for all
	linear  bool   // single-column layout
	format  string // output format: json or text
	output  string // output file path, empty for stdout
	labels  bool   // include commit summaries in text output
	noCache bool   // disable caching
	refresh bool   // recompute even on cache hit
}

// newGraphCmd creates the graph command for computing layouts.
func newGraphCmd() *cobra.Command {
	var o graphOpts

	cmd := &cobra.Command{
		Use:   "graph [repository]",
		Short: "Compute a commit-graph layout and print it",
		Long: `Compute a commit-graph layout and print it.

The graph command reads commit history from a local repository (defaulting
to the current directory), assigns each commit a row and a colored lane,
and prints the result as JSON or as an ASCII graph.

Layouts are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd.Context(), args, o)
		},
	}

	cmd.Flags().StringVarP(&o.ref, "ref", "r", "", "branch or ref to lay out (default: HEAD)")
	cmd.Flags().IntVarP(&o.limit, "limit", "n", 0, "maximum number of commits (0 = all)")
	cmd.Flags().BoolVar(&o.linear, "linear", false, "single-column layout without lane assignment")
	cmd.Flags().StringVarP(&o.format, "format", "f", pipeline.FormatJSON, "output format: json, text")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&o.labels, "labels", true, "include commit summaries in text output")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func runGraph(ctx context.Context, args []string, o graphOpts) error {
	if o.format != pipeline.FormatJSON && o.format != pipeline.FormatText {
		return fmt.Errorf("unsupported format %q (want json or text)", o.format)
	}

	src, err := openSource(args)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := loggerFromContext(ctx)
	runner, err := newRunner(ctx, cfg, o.noCache, logger)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Cache.Close()

	opts := pipeline.Options{
		Ref:     o.ref,
		Limit:   o.limit,
		Linear:  o.linear || cfg.Engine.Linear,
		Engine:  cfg.Engine.Layout(),
		Formats: []string{o.format},
		Labels:  o.labels,
		Refresh: o.refresh,
	}

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, src, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	prog.done(fmt.Sprintf("Laid out %d commits", res.Stats.CommitCount))

	data := res.Artifacts[o.format]
	if o.output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(o.output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", o.output, err)
	}

	printSuccess("Layout complete")
	printFile(o.output)
	printStats(res.Stats.CommitCount, res.Stats.MaxColumns, res.CacheInfo.LayoutHit)
	printNextStep("Render", "lanegraph render "+src.Path())

	return nil
}
