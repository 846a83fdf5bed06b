// Package graphcalc is the core of an interactive graphing calculator.
//
// # Overview
//
// A Graph owns a session (the user-authored expression list, parameters and
// view settings), compiles every line into a plot kind, and renders and
// analyzes the result on a 2D viewport through gg.
//
// # Quick Start
//
//	import "github.com/gogpu/graphcalc"
//
//	g := graphcalc.New(nil, graphcalc.WithSize(800, 600))
//	g.Add("y = x^2 - 4")
//	g.Add("x^2 + y^2 = 9")
//
//	f, _ := os.Create("graph.png")
//	defer f.Close()
//	g.WritePNG(context.Background(), f)
//
//	for _, p := range g.Analyze() {
//		fmt.Println(p.Kind, p.X, p.Y)
//	}
//
// # Frames
//
// Every render works on a Frame, an immutable snapshot of the compiled lines,
// viewport and settings. A Frame may be rendered or analyzed on any goroutine
// while the Graph keeps accepting edits.
//
// # Sub-packages
//
//   - expr: text to numeric functions
//   - plot: line classification and the running ans register
//   - viewport: data rectangle, transform, pan/zoom/fit
//   - draw: renderers over gg.Context
//   - analysis: intercepts, extrema, intersections
//   - session: persisted state, share blobs, YAML files, presets
//   - stats, cas: provider interfaces with default implementations
//   - store, server: SQLite sessions and websocket transport
//
// # Coordinate System
//
// Data coordinates have y growing upwards. Pixel coordinates follow gg:
// origin at top-left, y growing down.
package graphcalc

// Version is the library version.
const Version = "0.1.0"
