// Package server exposes calculator sessions over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kobzarvs/qcalc/internal/canon"
	"github.com/kobzarvs/qcalc/internal/engine"
	"github.com/kobzarvs/qcalc/internal/eval"
	"github.com/kobzarvs/qcalc/internal/format"
	"github.com/kobzarvs/qcalc/internal/history"
	"github.com/kobzarvs/qcalc/internal/logger"
	"github.com/kobzarvs/qcalc/internal/metrics"
	"github.com/kobzarvs/qcalc/internal/session"
	"github.com/kobzarvs/qcalc/internal/solver"
	"github.com/kobzarvs/qcalc/internal/validate"
)

// Options seeds every session the server creates.
type Options struct {
	Engine       engine.Config
	HistoryLimit int
}

// Server runs one engine session per id. Each request loads the session
// from the store, applies at most one action and saves it back, holding the
// session's lock throughout.
type Server struct {
	store   session.Store
	metrics *metrics.Metrics
	opts    Options

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// New creates a server. m may be nil.
func New(store session.Store, m *metrics.Metrics, opts Options) *Server {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = history.DefaultLimit
	}
	return &Server{
		store:   store,
		metrics: m,
		opts:    opts,
		locks:   make(map[string]*sessionLock),
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLog)

	r.Get("/health", s.health)
	r.Post("/eval", s.eval)
	r.Post("/solve", s.solve)
	r.Get("/functions", s.functions)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Get("/{id}", s.getSession)
		r.Delete("/{id}", s.deleteSession)
		r.Post("/{id}/actions", s.postAction)
	})

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

// sessionLock serializes requests for one id. refs counts holders and
// waiters so the entry can go once nobody needs it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func (s *Server) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

// open loads id into a fresh engine session. A missing id starts empty and
// reports found == false.
func (s *Server) open(ctx context.Context, id string) (sess *engine.Session, h *history.List, found bool, err error) {
	h = history.New(s.opts.HistoryLimit)
	sess = engine.New(s.opts.Engine, h, nil)
	snap, err := s.store.Load(ctx, id)
	switch {
	case errors.Is(err, session.ErrNotFound):
	case err != nil:
		return nil, nil, false, err
	default:
		snap.Apply(sess, h)
		found = true
	}
	if s.metrics != nil {
		sess.Observe(s.metrics)
	}
	return sess, h, found, nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) functions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"functions": eval.Functions()})
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		logger.Error("list sessions failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	unlock := s.lock(id)
	defer unlock()

	sess, h, found, err := s.open(r.Context(), id)
	if err != nil {
		logger.Error("load session failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, session.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newView(id, sess, h))
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	unlock := s.lock(id)
	defer unlock()

	if err := s.store.Delete(r.Context(), id); err != nil {
		logger.Error("delete session failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) postAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var a engine.Action
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		logger.Warn("invalid action body", "id", id, "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}

	unlock := s.lock(id)
	defer unlock()

	sess, h, _, err := s.open(r.Context(), id)
	if err != nil {
		logger.Error("load session failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := sess.Dispatch(a); err != nil {
		logger.Warn("action rejected", "id", id, "action", a.Name, "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}

	snap := session.Capture(sess, h)
	snap.LastSaved = time.Now()
	if err := s.store.Save(r.Context(), id, &snap); err != nil {
		logger.Error("save session failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, newView(id, sess, h))
}

type evalRequest struct {
	Expression string `json:"expression"`
	Angle      string `json:"angle,omitempty"`
	Format     string `json:"format,omitempty"`
	Shift      bool   `json:"shift,omitempty"`
}

type evalResponse struct {
	OK      bool    `json:"ok"`
	Value   float64 `json:"value"`
	Display string  `json:"display,omitempty"`
	Error   string  `json:"error,omitempty"`
	Kind    string  `json:"kind,omitempty"`
}

// eval is stateless: validate, evaluate and format one expression.
func (s *Server) eval(w http.ResponseWriter, r *http.Request) {
	var req evalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	angle, ok := eval.ParseAngleMode(req.Angle)
	if !ok && req.Angle != "" {
		writeError(w, http.StatusBadRequest, errors.New("unknown angle mode "+req.Angle))
		return
	}
	if req.Angle == "" {
		angle = s.opts.Engine.Angle
	}
	mode, ok := format.ParseMode(req.Format)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("unknown format mode "+req.Format))
		return
	}
	if req.Format == "" {
		mode = s.opts.Engine.Format
	}

	shift := &canon.Shift{}
	shift.Set(req.Shift)
	expr := canon.CanonicalizeShift(req.Expression, shift)
	out := validate.Check(expr, eval.Env{Angle: angle, Rand: s.opts.Engine.Rand}).Outcome()
	var resp evalResponse
	if out.OK() {
		precision := s.opts.Engine.Precision
		if precision <= 0 {
			precision = format.DefaultPrecision
		}
		resp = evalResponse{OK: true, Value: out.Value, Display: format.Format(out.Value, mode, precision)}
		if s.metrics != nil {
			s.metrics.Evaluated(engine.Outcome{Value: out.Value, Display: resp.Display})
		}
	} else {
		resp = evalResponse{Error: out.Err.Msg, Kind: out.Err.Kind.String()}
		if s.metrics != nil {
			s.metrics.Evaluated(engine.Outcome{Err: out.Err})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type solveRequest struct {
	Equation string `json:"equation"`
	Mode     string `json:"mode,omitempty"`
	Angle    string `json:"angle,omitempty"`
}

func (s *Server) solve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mode, ok := solver.ParseMode(req.Mode)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("unknown solve mode "+req.Mode))
		return
	}
	angle := s.opts.Engine.Angle
	if req.Angle != "" {
		if angle, ok = eval.ParseAngleMode(req.Angle); !ok {
			writeError(w, http.StatusBadRequest, errors.New("unknown angle mode "+req.Angle))
			return
		}
	}

	res := solver.Solve(req.Equation, mode, solver.Options{
		Iterations: s.opts.Engine.SolverIterations,
		Angle:      angle,
	})
	if s.metrics != nil {
		s.metrics.Solved(mode, res)
	}
	writeJSON(w, http.StatusOK, newSolveView(res))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
