package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gogpu/graphcalc"
	"github.com/gogpu/graphcalc/cas"
	"github.com/gogpu/graphcalc/gesture"
	"github.com/gogpu/graphcalc/internal/logging"
	"github.com/gogpu/graphcalc/plot"
	"github.com/gogpu/graphcalc/viewport"
)

// ErrUnknownType is reported for a message whose type is not recognized.
var ErrUnknownType = errors.New("server: unknown message type")

// tickInterval is how often a held pointer is checked for a long press.
const tickInterval = 50 * time.Millisecond

type outbound struct {
	kind int
	data []byte
}

// conn is one websocket client. The read pump decodes messages into inbox,
// a single loop applies them to the graph and renders, and the write pump
// owns every write to the socket.
type conn struct {
	srv   *Server
	ws    *websocket.Conn
	graph *graphcalc.Graph

	inbox   chan Message
	results chan cas.Result
	send    chan outbound
	done    chan struct{} // closed when the write pump exits

	frame int
}

func newConn(srv *Server, ws *websocket.Conn, g *graphcalc.Graph) *conn {
	return &conn{
		srv:     srv,
		ws:      ws,
		graph:   g,
		inbox:   make(chan Message, srv.opts.queueSize),
		results: make(chan cas.Result, 4),
		send:    make(chan outbound, 8),
		done:    make(chan struct{}),
	}
}

func (c *conn) serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go c.writePump()
	go c.readPump()
	c.loop(ctx)
}

func (c *conn) readPump() {
	defer close(c.inbox)
	o := c.srv.opts
	c.ws.SetReadLimit(o.readLimit)
	c.ws.SetReadDeadline(time.Now().Add(o.pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(o.pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logging.Logger().Warn("server: read failed", "remote", c.ws.RemoteAddr().String(), "err", err)
			}
			return
		}
		var m Message
		if err := json.Unmarshal(data, &m); err != nil {
			m = Message{err: fmt.Errorf("server: bad message: %w", err)}
		}
		select {
		case c.inbox <- m:
		case <-c.done:
			return
		}
	}
}

func (c *conn) writePump() {
	o := c.srv.opts
	ticker := time.NewTicker(o.pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		c.ws.Close()
	}()
	for {
		select {
		case m, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(o.writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteMessage(m.kind, m.data); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(o.writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// loop applies messages one batch at a time: everything queued when a
// message arrives is applied before a single frame is rendered.
func (c *conn) loop(ctx context.Context) {
	defer close(c.send)
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	c.render(ctx)
	for {
		var changed bool
		select {
		case first, ok := <-c.inbox:
			if !ok {
				return
			}
			for _, m := range drain(first, c.inbox) {
				changed = c.apply(ctx, m) || changed
			}
		case res := <-c.results:
			changed = c.applyResult(res)
		case now := <-ticker.C:
			c.gestures(c.graph.Tick(now))
		case <-c.done:
			return
		}
		if changed {
			c.render(ctx)
		}
	}
}

// drain returns first followed by every message already queued in inbox.
func drain(first Message, inbox <-chan Message) []Message {
	batch := []Message{first}
	for {
		select {
		case m, ok := <-inbox:
			if !ok {
				return batch
			}
			batch = append(batch, m)
		default:
			return batch
		}
	}
}

// apply handles one message and reports whether a new frame is needed.
func (c *conn) apply(ctx context.Context, m Message) bool {
	if m.err != nil {
		c.reply(Reply{Type: TypeError, Error: m.err.Error()})
		return false
	}
	g := c.graph
	var err error
	switch m.Type {
	case TypePan:
		g.Pan(m.DX, m.DY)
	case TypeZoom:
		if m.X == 0 && m.Y == 0 {
			g.Zoom(m.Factor)
		} else {
			g.ZoomAt(m.X, m.Y, m.Factor)
		}
	case TypeResize:
		g.Resize(min(m.Width, c.srv.opts.maxSize), min(m.Height, c.srv.opts.maxSize))
	case TypeReset:
		g.Reset()
	case TypeFit:
		g.Fit()
	case TypeViewport:
		if m.Viewport == nil {
			err = viewport.ErrInvalid
			break
		}
		err = g.SetViewport(*m.Viewport)
	case TypePointer:
		return c.pointer(m)
	case TypeAdd:
		id := g.Add(m.Source)
		c.reply(Reply{Type: TypeResult, ID: id})
	case TypeEdit:
		err = g.SetSource(m.ID, m.Source)
	case TypeRemove:
		err = g.Remove(m.ID)
	case TypeParam:
		g.SetParam(m.Name, m.Value)
	case TypeCAS:
		c.runCAS(ctx, m)
		return false
	case TypeSave:
		c.save(ctx, m.Name)
		return false
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownType, m.Type)
	}
	if err != nil {
		c.reply(Reply{Type: TypeError, Error: err.Error()})
		return false
	}
	return true
}

func (c *conn) pointer(m Message) bool {
	now := time.Now()
	var evs []gesture.Event
	switch m.Phase {
	case PhaseDown:
		c.graph.PointerDown(m.X, m.Y, now)
		return false
	case PhaseMove:
		evs = c.graph.PointerMove(m.X, m.Y, now)
	case PhaseUp:
		evs = c.graph.PointerUp(m.X, m.Y, now)
	default:
		c.reply(Reply{Type: TypeError, Error: fmt.Sprintf("server: unknown pointer phase %q", m.Phase)})
		return false
	}
	return c.gestures(evs)
}

// gestures reports taps and long presses with the value of every explicit
// line at that x. It reports whether the view was dragged.
func (c *conn) gestures(evs []gesture.Event) bool {
	dragged := false
	for _, ev := range evs {
		switch ev.Kind {
		case gesture.Drag:
			dragged = true
		case gesture.Tap, gesture.Hold:
			w, h := c.graph.Size()
			tr := viewport.NewTransform(c.graph.Viewport(), w, h)
			p := tr.ToData(ev.X, ev.Y)
			traces := make(map[string]float64)
			for _, cv := range c.graph.Snapshot().Curves() {
				if y, err := c.graph.Trace(cv.ID, p.X); err == nil && finite(y) {
					traces[cv.ID] = y
				}
			}
			c.reply(Reply{Type: TypeGesture, Gesture: ev.Kind.String(), X: p.X, Y: p.Y, Traces: traces})
		}
	}
	return dragged
}

func (c *conn) runCAS(ctx context.Context, m Message) {
	req := cas.Request{
		Op:        cas.Op(m.Op),
		Expr:      m.Expr,
		Equations: m.Equations,
		Variables: m.Variables,
		Target:    m.Target,
	}
	ch := c.graph.RunCAS(ctx, req)
	go func() {
		select {
		case res := <-ch:
			select {
			case c.results <- res:
			case <-ctx.Done():
			}
		case <-ctx.Done():
		}
	}()
}

func (c *conn) applyResult(res cas.Result) bool {
	id, err := c.graph.ApplyCAS(res)
	if err != nil {
		c.reply(Reply{Type: TypeError, Error: err.Error()})
		return false
	}
	c.reply(Reply{Type: TypeResult, ID: id})
	return true
}

func (c *conn) save(ctx context.Context, name string) {
	st := c.srv.opts.store
	if st == nil {
		c.reply(Reply{Type: TypeError, Error: ErrNoStore.Error()})
		return
	}
	if err := st.Save(ctx, name, c.graph.Session()); err != nil {
		c.reply(Reply{Type: TypeError, Error: err.Error()})
		return
	}
	c.reply(Reply{Type: TypeSaved, Name: name})
}

// render sends one PNG frame followed by the state of the frame.
func (c *conn) render(ctx context.Context) {
	start := time.Now()
	f := c.graph.Snapshot()
	var buf bytes.Buffer
	if err := f.WritePNG(ctx, &buf); err != nil {
		logging.Logger().Warn("server: render failed", "err", err)
	}
	c.frame++
	c.push(outbound{kind: websocket.BinaryMessage, data: buf.Bytes()})
	c.reply(stateOf(f, c.frame))
	logging.Logger().Debug("server: frame", "frame", c.frame, "bytes", buf.Len(), "elapsed", time.Since(start))
}

func stateOf(f *graphcalc.Frame, n int) Reply {
	vp := f.Viewport
	r := Reply{Type: TypeState, Frame: n, Viewport: &vp, Points: f.Analyze()}
	ans := f.Ans
	r.Ans = &ans
	for _, l := range f.Lines {
		ls := LineState{ID: l.ID, Kind: l.Kind.String()}
		if l.Err != nil {
			ls.Error = l.Err.Error()
		}
		if s, ok := l.Curve.(*plot.Scalar); ok && finite(s.Value) {
			v := s.Value
			ls.Value = &v
		}
		r.Lines = append(r.Lines, ls)
	}
	return r
}

func (c *conn) reply(r Reply) {
	data, err := json.Marshal(r)
	if err != nil {
		logging.Logger().Warn("server: encode reply", "type", r.Type, "err", err)
		return
	}
	c.push(outbound{kind: websocket.TextMessage, data: data})
}

func (c *conn) push(m outbound) {
	select {
	case c.send <- m:
	case <-c.done:
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
