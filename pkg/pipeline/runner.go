package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mvollmer/lanegraph/pkg/cache"
	"github.com/mvollmer/lanegraph/pkg/checkpoint"
	"github.com/mvollmer/lanegraph/pkg/layout"
	"github.com/mvollmer/lanegraph/pkg/observability"
	"github.com/mvollmer/lanegraph/pkg/render"
)

// Provider supplies the raw history for a run. *git.Source implements
// it; tests use in-memory fakes.
type Provider interface {
	ListCommits(ctx context.Context, limit int) ([]checkpoint.Record, error)
	BranchHeads(ctx context.Context) ([]checkpoint.BranchHead, error)
	CurrentRef(ctx context.Context) (string, error)
}

// Runner executes the pipeline with caching. It is stateless apart from
// the cache and logger; one Runner can serve concurrent runs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects the default key scheme, and a nil logger uses log.Default.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// historySnapshot is the canonical serialization hashed into the layout
// cache key.
type historySnapshot struct {
	Records []checkpoint.Record     `json:"records"`
	Heads   []checkpoint.BranchHead `json:"heads"`
	Ref     string                  `json:"ref"`
}

// Execute runs the complete fetch → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, src Provider, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	fetchStart := time.Now()
	observability.Pipeline().OnFetchStart(ctx, opts.Ref)
	records, heads, ref, err := r.fetch(ctx, src, opts)
	observability.Pipeline().OnFetchComplete(ctx, ref, len(records), time.Since(fetchStart), err)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	result.Records = records
	result.Heads = heads
	result.CurrentRef = ref
	result.Stats.FetchTime = time.Since(fetchStart)
	result.Stats.CommitCount = len(records)

	r.Logger.Info("fetched history",
		"run", result.RunID,
		"commits", len(records),
		"branches", len(heads),
		"duration", result.Stats.FetchTime)

	snapshot, err := json.Marshal(historySnapshot{Records: records, Heads: heads, Ref: ref})
	if err != nil {
		return nil, fmt.Errorf("serialize history: %w", err)
	}
	historyHash := cache.Hash(snapshot)

	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, engineName(opts), len(records))
	res, layoutHit, err := r.computeLayout(ctx, historyHash, records, heads, ref, opts)
	observability.Pipeline().OnLayoutComplete(ctx, engineName(opts), time.Since(layoutStart), err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.ConnectionCount = len(res.Connections)
	result.Stats.MaxColumns = res.MaxColumns
	result.CacheInfo.LayoutHit = layoutHit

	layoutData, err := layout.MarshalResult(res)
	if err != nil {
		return nil, fmt.Errorf("serialize layout: %w", err)
	}
	result.LayoutHash = cache.Hash(layoutData)

	r.Logger.Info("computed layout",
		"run", result.RunID,
		"lanes", res.MaxColumns,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.renderArtifacts(ctx, result, layoutData, records, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered artifacts",
		"run", result.RunID,
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) fetch(ctx context.Context, src Provider, opts Options) ([]checkpoint.Record, []checkpoint.BranchHead, string, error) {
	records, err := src.ListCommits(ctx, opts.Limit)
	if err != nil {
		return nil, nil, "", err
	}
	heads, err := src.BranchHeads(ctx)
	if err != nil {
		return nil, nil, "", err
	}
	ref := opts.Ref
	if ref == "" {
		if ref, err = src.CurrentRef(ctx); err != nil {
			return nil, nil, "", err
		}
	}
	return records, heads, ref, nil
}

// computeLayout returns the cached layout for this history or runs the
// engine and stores the result.
func (r *Runner) computeLayout(ctx context.Context, historyHash string, records []checkpoint.Record, heads []checkpoint.BranchHead, ref string, opts Options) (layout.Result, bool, error) {
	key := r.Keyer.LayoutKey(historyHash, cache.LayoutKeyOpts{
		Linear:               opts.Linear,
		HeadTakeoverPremium:  opts.Engine.HeadTakeoverPremium,
		ReuseTakeoverPremium: opts.Engine.ReuseTakeoverPremium,
		HeadLookahead:        opts.Engine.HeadLookahead,
		Palette:              opts.Engine.Palette,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := layout.UnmarshalResult(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// Corrupt entry, fall through to recompute.
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	var res layout.Result
	if opts.Linear {
		color := ""
		if len(opts.Engine.Palette) > 0 {
			color = opts.Engine.Palette[0]
		}
		res = layout.NewLinearEngine(color).Layout(records, heads, ref)
	} else {
		res = layout.NewEngine(opts.Engine).Layout(records, heads, ref)
	}

	if data, err := layout.MarshalResult(res); err == nil {
		_ = r.Cache.Set(ctx, key, data, TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}
	return res, false, nil
}

// engineName labels a run for hooks and logs.
func engineName(opts Options) string {
	if opts.Linear {
		return "linear"
	}
	return "standard"
}

// renderArtifacts serves every requested format from cache when
// possible, rendering and backfilling the rest.
func (r *Runner) renderArtifacts(ctx context.Context, result *Result, layoutData []byte, records []checkpoint.Record, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true

	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.RenderKey(result.LayoutHash, format)
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "render")
				artifacts[format] = data
				continue
			}
		}
		allHit = false
		observability.Cache().OnCacheMiss(ctx, "render")

		data, err := r.renderOne(ctx, result.Layout, layoutData, records, format, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		_ = r.Cache.Set(ctx, r.Keyer.RenderKey(result.LayoutHash, format), data, TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "render", len(data))
	}
	return artifacts, allHit, nil
}

func (r *Runner) renderOne(ctx context.Context, res layout.Result, layoutData []byte, records []checkpoint.Record, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return layoutData, nil
	case FormatSVG:
		svgOpts := []render.SVGOption{}
		if opts.RowHeight > 0 {
			svgOpts = append(svgOpts, render.WithRowHeight(opts.RowHeight))
		}
		if opts.LaneWidth > 0 {
			svgOpts = append(svgOpts, render.WithLaneWidth(opts.LaneWidth))
		}
		if opts.Labels {
			svgOpts = append(svgOpts, render.WithLabels(summaries(records)))
		}
		return render.RenderSVG(res, svgOpts...), nil
	case FormatDOT:
		return []byte(render.ToDOT(res)), nil
	case FormatPNG:
		return render.GraphvizPNG(ctx, render.ToDOT(res))
	case FormatText:
		if opts.Labels {
			return []byte(render.RenderText(res, records)), nil
		}
		return []byte(render.RenderText(res, nil)), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func summaries(records []checkpoint.Record) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.Description
	}
	return out
}
