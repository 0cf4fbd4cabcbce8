package playground

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"expvar"
	"sync"
	"time"

	"fortio.org/log"
	"github.com/edwingeng/deque"
	"github.com/tevino/abool/v2"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/expvarhandler"
	"github.com/zeebo/blake3"

	"alin/interpreter-go/pkg/diag"
	"alin/interpreter-go/pkg/driver"
	"alin/interpreter-go/pkg/interpreter"
)

// Counters exposed on /stats.
var (
	requests       = expvar.NewInt("playgroundRequests")
	runs           = expvar.NewInt("playgroundRuns")
	cacheHits      = expvar.NewInt("playgroundCacheHits")
	cacheEvictions = expvar.NewInt("playgroundCacheEvictions")
	rejected       = expvar.NewInt("playgroundRejected")
	truncatedRuns  = expvar.NewInt("playgroundTruncated")
	failedRuns     = expvar.NewInt("playgroundFailedRuns")
)

const maxSourceBytes = 1 << 20

// Diagnostic is the wire form of a diag.Diagnostic.
type Diagnostic struct {
	Kind    diag.Kind `json:"kind"`
	Message string    `json:"message"`
	Line    int       `json:"line"`
	Column  int       `json:"column"`
}

// Result is the JSON body returned by POST /run.
type Result struct {
	Output      string       `json:"output"`
	Truncated   bool         `json:"truncated,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Server runs posted programs, each in a fresh session.
type Server struct {
	cfg      driver.PlaygroundConfig
	srv      *fasthttp.Server
	draining *abool.AtomicBool

	mu    sync.Mutex
	cache map[string][]byte
	order deque.Deque // cache keys, oldest first
}

// New builds a server; call ListenAndServe to start it.
func New(cfg driver.PlaygroundConfig) *Server {
	s := &Server{
		cfg:      cfg,
		draining: abool.NewBool(false),
		cache:    make(map[string][]byte),
		order:    deque.NewDeque(),
	}
	s.srv = &fasthttp.Server{
		Handler:            s.Handler,
		Name:               "alin-playground",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       30 * time.Second,
		MaxRequestBodySize: maxSourceBytes,
	}
	return s
}

// ListenAndServe blocks serving on the configured address.
func (s *Server) ListenAndServe() error {
	log.Infof("Starting playground on %q (step limit %d, cache %d, max string %d, max output %d)",
		s.cfg.Addr, s.cfg.StepLimit, s.cfg.CacheSize, s.cfg.MaxStringLen, s.cfg.MaxOutput)
	return s.srv.ListenAndServe(s.cfg.Addr)
}

// Shutdown stops accepting work and waits for in-flight requests.
func (s *Server) Shutdown() error {
	s.Drain()
	log.Infof("Playground shutting down")
	return s.srv.Shutdown()
}

// Drain makes every further request fail with 503.
func (s *Server) Drain() {
	s.draining.Set()
}

// Handler routes requests. It is safe for concurrent use.
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	requests.Add(1)
	if s.draining.IsSet() {
		rejected.Add(1)
		ctx.Error("draining", fasthttp.StatusServiceUnavailable)
		return
	}
	switch string(ctx.Path()) {
	case "/run":
		if !ctx.IsPost() {
			s.methodNotAllowed(ctx, fasthttp.MethodPost)
			return
		}
		s.handleRun(ctx)
	case "/healthz":
		if !ctx.IsGet() && !ctx.IsHead() {
			s.methodNotAllowed(ctx, fasthttp.MethodGet)
			return
		}
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString("ok")
	case "/stats":
		expvarhandler.ExpvarHandler(ctx)
	default:
		rejected.Add(1)
		ctx.Error("not found", fasthttp.StatusNotFound)
	}
}

func (s *Server) methodNotAllowed(ctx *fasthttp.RequestCtx, allow string) {
	rejected.Add(1)
	ctx.Response.Header.Set("Allow", allow)
	ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
}

func (s *Server) handleRun(ctx *fasthttp.RequestCtx) {
	source := ctx.PostBody()
	key := cacheKey(source)
	if body, ok := s.lookup(key); ok {
		cacheHits.Add(1)
		ctx.Response.Header.Set("X-Alin-Cache", "hit")
		writeJSON(ctx, body)
		return
	}

	body, err := json.Marshal(Evaluate(string(source), s.cfg))
	if err != nil {
		log.Errf("playground: encode result: %v", err)
		ctx.Error("internal error", fasthttp.StatusInternalServerError)
		return
	}
	s.store(key, body)
	ctx.Response.Header.Set("X-Alin-Cache", "miss")
	writeJSON(ctx, body)
}

func writeJSON(ctx *fasthttp.RequestCtx, body []byte) {
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

// Evaluate runs source in a fresh session under the step, string and output limits of pg.
func Evaluate(source string, pg driver.PlaygroundConfig) Result {
	runs.Add(1)
	cfg := driver.DefaultConfig()
	cfg.StepLimit = pg.StepLimit
	out := &cappedWriter{limit: pg.MaxOutput}
	report := driver.NewSession(cfg, out, interpreter.WithMaxStringLen(pg.MaxStringLen)).Run(source)
	if out.truncated {
		truncatedRuns.Add(1)
	}
	if report.Failed() {
		failedRuns.Add(1)
	}

	res := Result{
		Output:      out.buf.String(),
		Truncated:   out.truncated,
		Diagnostics: make([]Diagnostic, 0, len(report.Diagnostics)),
	}
	for _, d := range report.Diagnostics {
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Kind:    d.Kind,
			Message: d.Message,
			Line:    d.Pos.Line,
			Column:  d.Pos.Column,
		})
	}
	return res
}

// cappedWriter keeps at most limit bytes and silently drops the rest. A limit of zero keeps
// everything.
type cappedWriter struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (w *cappedWriter) Write(p []byte) (int, error) {
	if w.limit > 0 {
		if room := w.limit - w.buf.Len(); len(p) > room {
			w.buf.Write(p[:room])
			w.truncated = true
			return len(p), nil
		}
	}
	return w.buf.Write(p)
}

func cacheKey(source []byte) string {
	h := blake3.New()
	h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Server) lookup(key string) ([]byte, bool) {
	if s.cfg.CacheSize <= 0 {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.cache[key]
	return body, ok
}

// store inserts body and evicts the oldest entries beyond the configured size.
func (s *Server) store(key string, body []byte) {
	if s.cfg.CacheSize <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cache[key]; ok {
		return
	}
	s.cache[key] = body
	s.order.PushBack(key)
	for s.order.Len() > s.cfg.CacheSize {
		oldest := s.order.PopFront().(string)
		delete(s.cache, oldest)
		cacheEvictions.Add(1)
	}
}

// cached reports the number of cached responses.
func (s *Server) cached() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}
