// Package server serves interactive graphs over websockets.
//
// Each connection owns one graph. Clients send JSON messages (see Message)
// and receive a binary PNG message for every rendered frame, followed by a
// JSON state message. Messages that queue up while a frame renders are
// applied together and produce one frame.
//
// The stateless endpoint GET /frame.png renders a share blob. Rendered
// blobs are kept in an LRU cache; the X-Cache header reports hit or miss.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gogpu/graphcalc"
	"github.com/gogpu/graphcalc/internal/cache"
	"github.com/gogpu/graphcalc/internal/logging"
	"github.com/gogpu/graphcalc/session"
	"github.com/gogpu/graphcalc/store"
)

// ErrNoStore is reported when saving without a configured store.
var ErrNoStore = errors.New("server: no session store configured")

// Defaults.
const (
	DefaultReadLimit  = 64 << 10
	DefaultQueueSize  = 64
	DefaultFrameCache = 64
	DefaultMaxSize    = 4096
	DefaultWriteWait  = 10 * time.Second
	DefaultPongWait   = 60 * time.Second
)

// Option configures a Server.
type Option func(*options)

type options struct {
	graph       []graphcalc.Option
	store       *store.Store
	readLimit   int64
	queueSize   int
	maxSize     int
	frameCache  int
	writeWait   time.Duration
	pongWait    time.Duration
	pingPeriod  time.Duration
	checkOrigin func(*http.Request) bool
}

func defaultOptions() options {
	return options{
		readLimit:  DefaultReadLimit,
		queueSize:  DefaultQueueSize,
		maxSize:    DefaultMaxSize,
		frameCache: DefaultFrameCache,
		writeWait:  DefaultWriteWait,
		pongWait:   DefaultPongWait,
		pingPeriod: DefaultPongWait * 9 / 10,
	}
}

// WithGraphOptions passes options to every graph the server creates.
func WithGraphOptions(opts ...graphcalc.Option) Option {
	return func(o *options) {
		o.graph = append(o.graph, opts...)
	}
}

// WithStore enables loading sessions by name and the save message.
func WithStore(st *store.Store) Option {
	return func(o *options) {
		o.store = st
	}
}

// WithReadLimit caps the size of one client message in bytes.
func WithReadLimit(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.readLimit = n
		}
	}
}

// WithPongWait sets how long a silent client is kept. Pings are sent at
// 90% of it.
func WithPongWait(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pongWait = d
			o.pingPeriod = d * 9 / 10
		}
	}
}

// WithFrameCache sets how many rendered /frame.png images are kept. Zero
// disables the cache.
func WithFrameCache(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.frameCache = n
		}
	}
}

// WithCheckOrigin replaces the same-origin check of the upgrade.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(o *options) {
		o.checkOrigin = fn
	}
}

// Server is an http.Handler for graph websockets.
type Server struct {
	opts     options
	upgrader websocket.Upgrader
	mux      *http.ServeMux
	frames   *cache.Cache[string, []byte] // nil when disabled
}

// New returns a server.
func New(opts ...Option) *Server {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &Server{
		opts: o,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 64 << 10,
			CheckOrigin:     o.checkOrigin,
		},
		mux: http.NewServeMux(),
	}
	if o.frameCache > 0 {
		s.frames = cache.New[string, []byte](o.frameCache)
	}
	s.mux.HandleFunc("GET /ws", s.handleWS)
	s.mux.HandleFunc("GET /frame.png", s.handleFrame)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// sessionFor picks the session a request asks for: a saved session by
// name, a share blob, or an empty session.
func (s *Server) sessionFor(r *http.Request) (*session.Session, int, error) {
	q := r.URL.Query()
	if name := q.Get("name"); name != "" {
		if s.opts.store == nil {
			return nil, http.StatusNotFound, ErrNoStore
		}
		sess, err := s.opts.store.Load(r.Context(), name)
		if errors.Is(err, store.ErrNotFound) {
			return nil, http.StatusNotFound, err
		}
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return sess, 0, nil
	}
	if blob := q.Get("blob"); blob != "" {
		return session.Decode(blob), 0, nil
	}
	return session.New(), 0, nil
}

// size reads the w and h query parameters.
func (s *Server) size(r *http.Request) (int, int, error) {
	w, h := graphcalc.DefaultWidth, graphcalc.DefaultHeight
	q := r.URL.Query()
	for _, p := range []struct {
		key string
		dst *int
	}{{"w", &w}, {"h", &h}} {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > s.opts.maxSize {
			return 0, 0, fmt.Errorf("server: invalid %s %q", p.key, v)
		}
		*p.dst = n
	}
	return w, h, nil
}

func (s *Server) newGraph(r *http.Request) (*graphcalc.Graph, int, error) {
	sess, code, err := s.sessionFor(r)
	if err != nil {
		return nil, code, err
	}
	w, h, err := s.size(r)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	opts := append([]graphcalc.Option{graphcalc.WithSize(w, h)}, s.opts.graph...)
	return graphcalc.New(sess, opts...), 0, nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	g, code, err := s.newGraph(r)
	if err != nil {
		http.Error(w, err.Error(), code)
		return
	}
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger().Warn("server: upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	logging.Logger().Info("server: client connected", "remote", r.RemoteAddr)
	newConn(s, ws, g).serve(context.WithoutCancel(r.Context()))
	logging.Logger().Info("server: client disconnected", "remote", r.RemoteAddr)
}

// frameKey returns the cache key of a frame request. Saved sessions can
// change under their name, so only blob requests are cached.
func (s *Server) frameKey(r *http.Request) (string, bool) {
	q := r.URL.Query()
	if s.frames == nil || q.Get("name") != "" {
		return "", false
	}
	return q.Get("w") + "x" + q.Get("h") + ":" + q.Get("blob"), true
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	key, cacheable := s.frameKey(r)
	if cacheable {
		if data, ok := s.frames.Get(key); ok {
			writeFrame(w, data, "hit")
			return
		}
	}

	g, code, err := s.newGraph(r)
	if err != nil {
		http.Error(w, err.Error(), code)
		return
	}
	var buf bytes.Buffer
	if err := g.WritePNG(r.Context(), &buf); err != nil {
		logging.Logger().Warn("server: frame failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if cacheable {
		s.frames.Set(key, buf.Bytes())
	}
	writeFrame(w, buf.Bytes(), "miss")
}

func writeFrame(w http.ResponseWriter, data []byte, status string) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Cache", status)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		logging.Logger().Debug("server: frame write failed", "err", err)
	}
}

// FrameStats reports the /frame.png cache counters.
func (s *Server) FrameStats() cache.Stats {
	if s.frames == nil {
		return cache.Stats{}
	}
	return s.frames.Stats()
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logging.Logger().Info("server: listening", "addr", addr)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
