// Package pipeline runs the fetch → layout → render pipeline shared by
// the CLI, the HTTP server, and the TUI. Centralizing it keeps caching
// and option handling identical across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Fetch: read commits, branch heads, and the current ref from a
//     Provider (usually a git repository)
//  2. Layout: compute row, lane, color, and connector assignments
//  3. Render: generate output artifacts (JSON, SVG, DOT, PNG, text)
//
// Layout and render results are memoized in a [cache.Cache], keyed on a
// content hash of the stage input, so an unchanged repository costs one
// history read and two cache hits.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, src, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"fmt"
	"time"

	"github.com/mvollmer/lanegraph/pkg/checkpoint"
	"github.com/mvollmer/lanegraph/pkg/layout"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatText = "text"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatText: true,
}

// Cache TTLs per stage.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Options configures one pipeline run.
type Options struct {
	// Ref overrides the provider's current ref when non-empty.
	Ref string

	// Limit bounds the number of commits fetched; <=0 means all.
	Limit int

	// Linear selects the single-column layout engine.
	Linear bool

	// Engine is the layout tuning; zero fields fall back to defaults.
	Engine layout.Config

	// Formats lists the artifacts to render. Empty means JSON only.
	Formats []string

	// RowHeight and LaneWidth shape SVG output; zero means defaults.
	RowHeight int
	LaneWidth int

	// Labels includes commit summaries in SVG and text output.
	Labels bool

	// Refresh bypasses the layout and artifact caches.
	Refresh bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return fmt.Errorf("unsupported format %q", f)
		}
	}
	if o.Engine.HeadLookahead == 0 {
		o.Engine.HeadLookahead = layout.DefaultHeadLookahead
	}
	if o.Engine.HeadTakeoverPremium == 0 {
		o.Engine.HeadTakeoverPremium = layout.DefaultHeadTakeoverPremium
	}
	if o.Engine.ReuseTakeoverPremium == 0 {
		o.Engine.ReuseTakeoverPremium = layout.DefaultReuseTakeoverPremium
	}
	return nil
}

// Stats captures per-stage timing and graph size for one run.
type Stats struct {
	FetchTime  time.Duration `json:"fetch_time"`
	LayoutTime time.Duration `json:"layout_time"`
	RenderTime time.Duration `json:"render_time"`

	CommitCount     int `json:"commit_count"`
	ConnectionCount int `json:"connection_count"`
	MaxColumns      int `json:"max_columns"`
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	LayoutHit bool `json:"layout_hit"`
	RenderHit bool `json:"render_hit"`
}

// Result is the output of one pipeline run.
type Result struct {
	// RunID uniquely identifies this run in logs and API responses.
	RunID string `json:"run_id"`

	Records    []checkpoint.Record     `json:"-"`
	Heads      []checkpoint.BranchHead `json:"heads"`
	CurrentRef string                  `json:"current_ref"`

	Layout layout.Result `json:"layout"`

	// LayoutHash is the content hash of the serialized layout, usable
	// as an ETag.
	LayoutHash string `json:"layout_hash"`

	// Artifacts maps format name to rendered bytes.
	Artifacts map[string][]byte `json:"-"`

	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cache_info"`
}
