// Package pkg provides the core libraries for lanegraph commit-graph layout.
//
// # Overview
//
// Lanegraph turns commit history into a deterministic visual layout where
// each commit gets a row (newest first) and a colored lane per branch. The
// pkg directory is organized into these areas:
//
//  1. [checkpoint] - History model (commit records, branch heads, validation)
//  2. [layout] - The layout engines (lane assignment, colors, connections)
//  3. [render] - Output formats (SVG, DOT/PNG via graphviz, text)
//  4. [source/git] - Reading history from local git repositories
//  5. [cache] - Cache backends (file, redis, mongo) and the key scheme
//  6. [pipeline] - Orchestration (fetch → layout → render) with caching
//  7. [config] - TOML configuration
//  8. [observability] - Optional metrics and tracing hooks
//
// # Architecture
//
// The typical data flow through lanegraph:
//
//	Git Repository
//	         ↓
//	    [source/git] package (read commits, branch heads, current ref)
//	         ↓
//	    [checkpoint] package (history model + validation)
//	         ↓
//	    [layout] package (rows, lanes, colors, connections)
//	         ↓
//	    [render] package (SVG/DOT/PNG/text output)
//
// # Quick Start
//
// Compute and render a layout:
//
//	import (
//	    "context"
//	    "github.com/mvollmer/lanegraph/pkg/layout"
//	    "github.com/mvollmer/lanegraph/pkg/render"
//	    "github.com/mvollmer/lanegraph/pkg/source/git"
//	)
//
//	// 1. Read history
//	src, _ := git.Open(".")
//	records, _ := src.ListCommits(context.Background(), 0)
//	heads, _ := src.BranchHeads(context.Background())
//	ref, _ := src.CurrentRef(context.Background())
//
//	// 2. Compute layout
//	res := layout.NewEngine(layout.DefaultConfig()).Layout(records, heads, ref)
//
//	// 3. Render to SVG
//	svg := render.RenderSVG(res)
//
// The [pipeline] package wires the same flow behind a cache and is what the
// CLI and HTTP server use.
//
// [checkpoint]: https://pkg.go.dev/github.com/mvollmer/lanegraph/pkg/checkpoint
// [layout]: https://pkg.go.dev/github.com/mvollmer/lanegraph/pkg/layout
// [render]: https://pkg.go.dev/github.com/mvollmer/lanegraph/pkg/render
// [source/git]: https://pkg.go.dev/github.com/mvollmer/lanegraph/pkg/source/git
// [cache]: https://pkg.go.dev/github.com/mvollmer/lanegraph/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/mvollmer/lanegraph/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/mvollmer/lanegraph/pkg/config
// [observability]: https://pkg.go.dev/github.com/mvollmer/lanegraph/pkg/observability
package pkg
