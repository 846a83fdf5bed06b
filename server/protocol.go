package server

import (
	"github.com/gogpu/graphcalc/analysis"
	"github.com/gogpu/graphcalc/viewport"
)

// Inbound message types.
const (
	TypePan      = "pan"
	TypeZoom     = "zoom"
	TypeResize   = "resize"
	TypeReset    = "reset"
	TypeFit      = "fit"
	TypePointer  = "pointer"
	TypeAdd      = "add"
	TypeEdit     = "edit"
	TypeRemove   = "remove"
	TypeParam    = "param"
	TypeViewport = "viewport"
	TypeCAS      = "cas"
	TypeSave     = "save"
)

// Outbound message types. Rendered frames are sent as binary PNG messages.
const (
	TypeState   = "state"
	TypeGesture = "gesture"
	TypeResult  = "result"
	TypeSaved   = "saved"
	TypeError   = "error"
)

// Pointer phases.
const (
	PhaseDown = "down"
	PhaseMove = "move"
	PhaseUp   = "up"
)

// Message is a client request. Fields not used by Type are ignored.
type Message struct {
	Type string `json:"type"`

	// pan, pointer and zoom. A zoom with X and Y both zero keeps the
	// center fixed; otherwise the pixel (X, Y) stays put.
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	Factor float64 `json:"factor,omitempty"`
	Phase  string  `json:"phase,omitempty"`

	// resize
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// add, edit, remove, param, save
	ID     string  `json:"id,omitempty"`
	Source string  `json:"source,omitempty"`
	Name   string  `json:"name,omitempty"`
	Value  float64 `json:"value,omitempty"`

	Viewport *viewport.Viewport `json:"viewport,omitempty"`

	// cas
	Op        string   `json:"op,omitempty"`
	Expr      string   `json:"expr,omitempty"`
	Equations []string `json:"equations,omitempty"`
	Variables []string `json:"variables,omitempty"`
	Target    string   `json:"target,omitempty"`

	// err is set by the read pump for a message that could not be decoded.
	err error
}

// LineState reports one compiled line.
type LineState struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Error string `json:"error,omitempty"`
	// Value is the result of a calculator line.
	Value *float64 `json:"value,omitempty"`
}

// Reply is a server message.
type Reply struct {
	Type string `json:"type"`

	// state
	Frame    int                `json:"frame,omitempty"`
	Viewport *viewport.Viewport `json:"viewport,omitempty"`
	Lines    []LineState        `json:"lines,omitempty"`
	Points   []analysis.Point   `json:"points,omitempty"`
	Ans      *float64           `json:"ans,omitempty"`

	// gesture
	Gesture string             `json:"gesture,omitempty"`
	X       float64            `json:"x,omitempty"`
	Y       float64            `json:"y,omitempty"`
	Traces  map[string]float64 `json:"traces,omitempty"`

	// result, saved
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`

	Error string `json:"error,omitempty"`
}
