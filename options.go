package graphcalc

import (
	"github.com/gogpu/graphcalc/cas"
	"github.com/gogpu/graphcalc/gesture"
	"github.com/gogpu/graphcalc/provider"
	"github.com/gogpu/graphcalc/stats"
)

// Default canvas size.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Option configures a Graph during creation.
//
// Example:
//
//	g := graphcalc.New(sess,
//	    graphcalc.WithSize(1024, 768),
//	    graphcalc.WithCAS(myProvider),
//	)
type Option func(*options)

type options struct {
	width, height int
	stats         *provider.Handle[stats.Provider]
	cas           *provider.Handle[cas.Provider]
	markers       bool
	labels        bool
	gesture       []gesture.Option
}

// defaultOptions returns the built-in providers and an 800x600 canvas.
func defaultOptions() options {
	return options{
		width:   DefaultWidth,
		height:  DefaultHeight,
		stats:   provider.Ready[stats.Provider]("stats", stats.NewGonum()),
		cas:     provider.Ready[cas.Provider]("cas", cas.Numeric{}),
		markers: true,
		labels:  true,
	}
}

// WithSize sets the canvas size in pixels. Non-positive values keep the
// default.
func WithSize(width, height int) Option {
	return func(o *options) {
		if width > 0 {
			o.width = width
		}
		if height > 0 {
			o.height = height
		}
	}
}

// WithStats replaces the statistics provider.
func WithStats(p stats.Provider) Option {
	return func(o *options) {
		o.stats = provider.Ready("stats", p)
	}
}

// WithStatsHandle uses a lazily loaded statistics provider.
func WithStatsHandle(h *provider.Handle[stats.Provider]) Option {
	return func(o *options) {
		o.stats = h
	}
}

// WithCAS replaces the symbolic algebra provider.
func WithCAS(p cas.Provider) Option {
	return func(o *options) {
		o.cas = provider.Ready("cas", p)
	}
}

// WithCASHandle uses a lazily loaded symbolic algebra provider.
func WithCASHandle(h *provider.Handle[cas.Provider]) Option {
	return func(o *options) {
		o.cas = h
	}
}

// WithoutMarkers disables drawing analysis points.
func WithoutMarkers() Option {
	return func(o *options) {
		o.markers = false
	}
}

// WithoutLabels disables grid labels.
func WithoutLabels() Option {
	return func(o *options) {
		o.labels = false
	}
}

// WithGesture configures the pointer state machine.
func WithGesture(opts ...gesture.Option) Option {
	return func(o *options) {
		o.gesture = append(o.gesture, opts...)
	}
}
