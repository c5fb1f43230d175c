package cli

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mvollmer/lanegraph/internal/tui"
	"github.com/mvollmer/lanegraph/pkg/pipeline"
)

// newViewCmd creates the view command for browsing the graph in a terminal UI.
func newViewCmd() *cobra.Command {
	var (
		ref     string
		limit   int
		linear  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "view [repository]",
		Short: "Browse the commit graph in a terminal UI",
		Long: `Browse the commit graph in a terminal UI.

The view command computes the layout for a local repository and opens an
interactive list with the lane graph drawn next to each commit. Use the
arrow keys or j/k to move, g/G to jump, and q to quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), args, ref, limit, linear, noCache)
		},
	}

	cmd.Flags().StringVarP(&ref, "ref", "r", "", "branch or ref to lay out (default: HEAD)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of commits (0 = all)")
	cmd.Flags().BoolVar(&linear, "linear", false, "single-column layout without lane assignment")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func runView(ctx context.Context, args []string, ref string, limit int, linear, noCache bool) error {
	src, err := openSource(args)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	runner, err := newRunner(ctx, cfg, noCache, loggerFromContext(ctx))
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Cache.Close()

	opts := pipeline.Options{
		Ref:    ref,
		Limit:  limit,
		Linear: linear || cfg.Engine.Linear,
		Engine: cfg.Engine.Layout(),
	}

	res, err := runner.Execute(ctx, src, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	title := filepath.Base(src.Path())
	if res.CurrentRef != "" {
		title = fmt.Sprintf("%s (%s)", title, res.CurrentRef)
	}

	model := tui.NewModel(title, res.Layout, res.Records)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}
