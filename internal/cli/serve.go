package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvollmer/lanegraph/internal/server"
	"github.com/mvollmer/lanegraph/pkg/pipeline"
)

// newServeCmd creates the serve command for running the HTTP server.
func newServeCmd() *cobra.Command {
	var (
		addr    string
		ref     string
		limit   int
		linear  bool
		noCache bool
		noWatch bool
	)

	cmd := &cobra.Command{
		Use:   "serve [repository]",
		Short: "Serve commit-graph layouts over HTTP",
		Long: `Serve commit-graph layouts over HTTP.

The serve command computes layouts for a local repository on demand and
exposes them as JSON (/api/graph) and rendered artifacts (/api/graph.svg,
/api/graph.png, /api/graph.dot). The repository is watched for changes;
connected websocket clients (/ws) are notified when the layout changes.

The server runs until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), args, addr, ref, limit, linear, noCache, noWatch)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, :8087)")
	cmd.Flags().StringVarP(&ref, "ref", "r", "", "branch or ref to lay out (default: HEAD)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of commits (0 = all)")
	cmd.Flags().BoolVar(&linear, "linear", false, "single-column layout without lane assignment")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "disable repository watching")

	return cmd
}

func runServe(ctx context.Context, args []string, addr, ref string, limit int, linear, noCache, noWatch bool) error {
	src, err := openSource(args)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	logger := loggerFromContext(ctx)
	runner, err := newRunner(ctx, cfg, noCache, logger)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Cache.Close()

	srvCfg := server.Config{
		Addr:     addr,
		Debounce: cfg.Server.Debounce.Duration,
		Options: pipeline.Options{
			Ref:       ref,
			Limit:     limit,
			Linear:    linear || cfg.Engine.Linear,
			Engine:    cfg.Engine.Layout(),
			RowHeight: cfg.Render.RowHeight,
			LaneWidth: cfg.Render.LaneWidth,
		},
	}
	if !noWatch {
		srvCfg.RepoPath = src.Path()
	}

	printInfo("Serving on http://localhost%s", addr)
	printDetail("Repository: %s", src.Path())

	srv := server.New(srvCfg, src, runner, logger)
	return srv.Run(ctx)
}
