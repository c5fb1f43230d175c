package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvollmer/lanegraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	ref       string // branch or ref to lay out instead of HEAD
	limit     int    // maximum number of commits, 0 for all
	linear    bool   // single-column layout
	output    string // output file path (or base path for multiple formats)
	formats   string // comma-separated output formats: svg, dot, png
	rowHeight int    // vertical pixels per row (svg)
	laneWidth int    // horizontal pixels per lane (svg)
	labels    bool   // include commit summaries next to nodes
	noCache   bool   // disable caching
	refresh   bool   // recompute even on cache hit
}

// newRenderCmd creates the render command for generating graph artifacts.
// It supports SVG (native renderer), DOT, and PNG (via graphviz) output.
func newRenderCmd() *cobra.Command {
	var o renderOpts

	cmd := &cobra.Command{
		Use:   "render [repository]",
		Short: "Render a commit graph as SVG, DOT, or PNG",
		Long: `Render a commit graph as SVG, DOT, or PNG.

The render command computes the layout for a local repository and writes
one artifact per requested format. SVG output uses the native renderer;
DOT and PNG output go through graphviz.

With multiple formats the output flag is treated as a base path and the
format extension is appended.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), args, o)
		},
	}

	cmd.Flags().StringVarP(&o.ref, "ref", "r", "", "branch or ref to lay out (default: HEAD)")
	cmd.Flags().IntVarP(&o.limit, "limit", "n", 0, "maximum number of commits (0 = all)")
	cmd.Flags().BoolVar(&o.linear, "linear", false, "single-column layout without lane assignment")
	cmd.Flags().StringVarP(&o.output, "output", "o", "graph", "output file or base path")
	cmd.Flags().StringVarP(&o.formats, "format", "f", "", "comma-separated formats: svg (default), dot, png")
	cmd.Flags().IntVar(&o.rowHeight, "row-height", 0, "vertical pixels per row in SVG output")
	cmd.Flags().IntVar(&o.laneWidth, "lane-width", 0, "horizontal pixels per lane in SVG output")
	cmd.Flags().BoolVar(&o.labels, "labels", false, "include commit summaries next to nodes")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func runRender(ctx context.Context, args []string, o renderOpts) error {
	formats := parseFormats(o.formats)
	if o.formats == "" {
		formats = []string{pipeline.FormatSVG}
	}
	for _, f := range formats {
		switch f {
		case pipeline.FormatSVG, pipeline.FormatDOT, pipeline.FormatPNG:
		default:
			return fmt.Errorf("unsupported format %q (want svg, dot, or png)", f)
		}
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

	rowHeight := o.rowHeight
	if rowHeight == 0 {
		rowHeight = cfg.Render.RowHeight
	}
	laneWidth := o.laneWidth
	if laneWidth == 0 {
		laneWidth = cfg.Render.LaneWidth
	}

	opts := pipeline.Options{
		Ref:       o.ref,
		Limit:     o.limit,
		Linear:    o.linear || cfg.Engine.Linear,
		Engine:    cfg.Engine.Layout(),
		Formats:   formats,
		RowHeight: rowHeight,
		LaneWidth: laneWidth,
		Labels:    o.labels,
		Refresh:   o.refresh,
	}

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, src, opts)
	if err != nil {
		return fmt.Errorf("render graph: %w", err)
	}
	prog.done(fmt.Sprintf("Rendered %d commits", res.Stats.CommitCount))

	printSuccess("Render complete")
	for _, f := range formats {
		path := outputPath(o.output, f, len(formats) > 1)
		if err := os.WriteFile(path, res.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(res.Stats.CommitCount, res.Stats.MaxColumns, res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)

	return nil
}

// outputPath derives the per-format output path. With a single format the
// base is used as-is when it already carries an extension.
func outputPath(base, format string, multi bool) string {
	if !multi && filepath.Ext(base) != "" {
		return base
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + "." + format
}
