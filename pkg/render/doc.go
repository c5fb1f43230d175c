// Package render turns computed layouts into output artifacts.
//
// Three sinks are provided:
//
//   - [RenderSVG] draws the grid directly: fixed row and lane pitch,
//     straight lines within a lane, cubic curves across lanes.
//   - [ToDOT] emits Graphviz DOT; [GraphvizSVG] and [GraphvizPNG]
//     rasterize it through the graphviz library.
//   - [RenderText] produces a plain-text graph for terminals and logs.
//
// All sinks are deterministic: the same layout renders to identical
// bytes.
package render
