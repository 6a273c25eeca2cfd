package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/qcalc/internal/engine"
	"github.com/kobzarvs/qcalc/internal/metrics"
	"github.com/kobzarvs/qcalc/internal/session"
)

func newTestServer(t *testing.T, store session.Store) (*httptest.Server, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	srv := httptest.NewServer(New(store, m, Options{}).Handler())
	t.Cleanup(srv.Close)
	return srv, m
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestSessionActions(t *testing.T) {
	store := session.NewMemoryStore()
	srv, _ := newTestServer(t, store)
	url := srv.URL + "/sessions/s1/actions"

	resp := post(t, url, engine.Action{Name: engine.ActInsert, Text: "2+3*4"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := decode[View](t, resp)
	assert.Equal(t, "2+3*4", v.Text)
	assert.Equal(t, "14", v.Preview)

	resp = post(t, url, engine.Action{Name: engine.ActEquals})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v = decode[View](t, resp)
	assert.Equal(t, "14", v.Text)
	assert.Equal(t, "2+3*4", v.Previous)
	assert.Equal(t, 14.0, v.LastAnswer)
	require.Len(t, v.History, 1)
	assert.Equal(t, "14", v.History[0].Result)

	resp, err := http.Get(srv.URL + "/sessions/s1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v = decode[View](t, resp)
	assert.Equal(t, "14", v.Text)
	assert.Equal(t, "DEG", v.Angle)

	snap, err := store.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "14", snap.State.Text)
}

func TestSessionFailureIsState(t *testing.T) {
	srv, _ := newTestServer(t, session.NewMemoryStore())
	url := srv.URL + "/sessions/s1/actions"

	post(t, url, engine.Action{Name: engine.ActInsert, Text: "1/0"}).Body.Close()
	resp := post(t, url, engine.Action{Name: engine.ActEquals})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := decode[View](t, resp)
	assert.Equal(t, "Error", v.Text)
	assert.Equal(t, "Invalid math (∞ or NaN)", v.Status)
}

func TestUnknownActionRejected(t *testing.T) {
	srv, _ := newTestServer(t, session.NewMemoryStore())
	resp := post(t, srv.URL+"/sessions/s1/actions", engine.Action{Name: "launch"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMissingSession(t *testing.T) {
	srv, _ := newTestServer(t, session.NewMemoryStore())
	resp, err := http.Get(srv.URL + "/sessions/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListAndDeleteSessions(t *testing.T) {
	srv, _ := newTestServer(t, session.NewMemoryStore())
	post(t, srv.URL+"/sessions/a/actions", engine.Action{Name: engine.ActInsert, Text: "1"}).Body.Close()
	post(t, srv.URL+"/sessions/b/actions", engine.Action{Name: engine.ActInsert, Text: "2"}).Body.Close()

	resp, err := http.Get(srv.URL + "/sessions/")
	require.NoError(t, err)
	list := decode[map[string][]string](t, resp)
	assert.Equal(t, []string{"a", "b"}, list["sessions"])

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/sessions/a", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/sessions/a")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEval(t *testing.T) {
	srv, _ := newTestServer(t, session.NewMemoryStore())

	tests := []struct {
		body    evalRequest
		ok      bool
		display string
		err     string
	}{
		{body: evalRequest{Expression: "2+3*4"}, ok: true, display: "14"},
		{body: evalRequest{Expression: "sin(90)"}, ok: true, display: "1"},
		{body: evalRequest{Expression: "1500", Format: "eng"}, ok: true, display: "1.50000000e+3"},
		{body: evalRequest{Expression: "1/0"}, err: "Invalid math (∞ or NaN)"},
	}
	for _, tt := range tests {
		resp := post(t, srv.URL+"/eval", tt.body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		got := decode[evalResponse](t, resp)
		assert.Equal(t, tt.ok, got.OK, tt.body.Expression)
		assert.Equal(t, tt.display, got.Display, tt.body.Expression)
		assert.Equal(t, tt.err, got.Error, tt.body.Expression)
	}

	resp := post(t, srv.URL+"/eval", evalRequest{Expression: "1", Angle: "grad"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEvalValidatesFirst(t *testing.T) {
	srv, _ := newTestServer(t, session.NewMemoryStore())

	tests := []struct {
		expr string
		kind string
		msg  string
	}{
		{expr: "2+++3", kind: "structural", msg: "Too many operators together"},
		{expr: "(1+2", kind: "structural", msg: "open=1, close=0"},
		{expr: "", kind: "structural", msg: "Nothing to evaluate"},
		{expr: "3!!", kind: "evaluation", msg: "invalid expression"},
	}
	for _, tt := range tests {
		got := decode[evalResponse](t, post(t, srv.URL+"/eval", evalRequest{Expression: tt.expr}))
		assert.False(t, got.OK, tt.expr)
		assert.Equal(t, tt.kind, got.Kind, tt.expr)
		assert.Contains(t, got.Error, tt.msg, tt.expr)
	}
}

func TestEvalZeroKeepsValue(t *testing.T) {
	srv, _ := newTestServer(t, session.NewMemoryStore())
	got := decode[map[string]any](t, post(t, srv.URL+"/eval", evalRequest{Expression: "1-1"}))
	assert.Equal(t, true, got["ok"])
	assert.Contains(t, got, "value")
	assert.Equal(t, 0.0, got["value"])
	assert.Equal(t, "0", got["display"])
}

func TestEvalShift(t *testing.T) {
	srv, _ := newTestServer(t, session.NewMemoryStore())
	got := decode[evalResponse](t, post(t, srv.URL+"/eval", evalRequest{Expression: "cos(1)", Shift: true}))
	require.True(t, got.OK, got.Error)
	assert.Equal(t, "0", got.Display)

	got = decode[evalResponse](t, post(t, srv.URL+"/eval", evalRequest{Expression: "cos(1)"}))
	require.True(t, got.OK, got.Error)
	assert.NotEqual(t, "0", got.Display)
}

func TestFunctions(t *testing.T) {
	srv, _ := newTestServer(t, session.NewMemoryStore())
	resp, err := http.Get(srv.URL + "/functions")
	require.NoError(t, err)
	got := decode[map[string][]string](t, resp)
	assert.Contains(t, got["functions"], "sin")
	assert.Contains(t, got["functions"], "factorial")
	assert.NotContains(t, got["functions"], "pi")
}

func TestSessionLocksReleased(t *testing.T) {
	s := New(session.NewMemoryStore(), nil, Options{})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	body, err := json.Marshal(engine.Action{Name: engine.ActInsert, Text: "1"})
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Post(srv.URL+"/sessions/busy/actions", "application/json", bytes.NewReader(body))
			if err == nil {
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	resp, err := http.Get(srv.URL + "/sessions/busy")
	require.NoError(t, err)
	v := decode[View](t, resp)
	assert.Len(t, v.Text, n)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/sessions/busy", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Empty(t, s.locks)
}

func TestSolve(t *testing.T) {
	srv, _ := newTestServer(t, session.NewMemoryStore())

	resp := post(t, srv.URL+"/solve", solveRequest{Equation: "x**2-5*x+6=0", Mode: "quadratic"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[SolveView](t, resp)
	assert.Equal(t, "quadratic-real", got.Kind)
	require.Len(t, got.Roots, 2)
	assert.InDelta(t, 3, got.Roots[0], 1e-9)
	assert.InDelta(t, 2, got.Roots[1], 1e-9)
	require.NotNil(t, got.Discriminant)
	assert.InDelta(t, 1, *got.Discriminant, 1e-9)

	resp = post(t, srv.URL+"/solve", solveRequest{Equation: "x=1=2"})
	got = decode[SolveView](t, resp)
	assert.Equal(t, "failure", got.Kind)
	assert.Equal(t, "Equation must contain exactly one equals sign", got.Error)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, session.NewMemoryStore())
	post(t, srv.URL+"/eval", evalRequest{Expression: "1+1"}).Body.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `qcalc_evaluations_total{outcome="ok"} 1`)
}

func TestRedisBackedSessions(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store := session.NewRedisStoreFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr()}))
	srv, _ := newTestServer(t, store)

	post(t, srv.URL+"/sessions/r1/actions", engine.Action{Name: engine.ActPress, Text: "pi"}).Body.Close()
	resp := post(t, srv.URL+"/sessions/r1/actions", engine.Action{Name: engine.ActMemoryStore})
	v := decode[View](t, resp)
	assert.Equal(t, "M", v.MemoryFlag)
	assert.InDelta(t, 3.14159265, v.Memory, 1e-6)
	assert.True(t, mr.Exists(session.DefaultPrefix+"r1"))
}
