package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/workshop"
	"github.com/aretw0/workshop/internal/testutils"
	"github.com/aretw0/workshop/pkg/adapters/memory"
	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/observability"
	"github.com/aretw0/workshop/pkg/session"
	"github.com/aretw0/workshop/pkg/sound"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server   *httptest.Server
	sessions *session.Manager
	mute     *sound.Mute
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog, err := memory.NewCatalog(testutils.MatchingExercise(), testutils.ConstructionExercise())
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	ws, err := workshop.New(
		workshop.WithLoader(catalog),
		workshop.WithScheduler(testutils.NewFakeScheduler()),
		workshop.WithLifecycleHooks(metrics.Hooks()),
	)
	require.NoError(t, err)

	streams := NewStreamManager(nil)
	mute := sound.NewMute(false)
	sessions := session.NewManager(ws,
		session.WithListener(streams.Publish),
		session.WithSinkFactory(streams.SinkFactory(mute, nil)),
		session.WithObserver(metrics),
	)

	srv, err := NewServer(Config{
		Catalog:  ws,
		Sessions: sessions,
		Streams:  streams,
		Mute:     mute,
		Metrics:  reg,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = sessions.CloseAll(context.Background())
	})
	return &fixture{server: ts, sessions: sessions, mute: mute}
}

func (f *fixture) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (f *fixture) open(t *testing.T, exerciseID string) sessionResponse {
	t.Helper()
	var created sessionResponse
	require.Equal(t, http.StatusCreated, f.do(t, "POST", "/sessions", map[string]string{"exercise_id": exerciseID}, &created))
	require.NotEmpty(t, created.ID)
	return created
}

func TestServer_HealthAndInfo(t *testing.T) {
	f := newFixture(t)

	var health map[string]string
	assert.Equal(t, http.StatusOK, f.do(t, "GET", "/health", nil, &health))
	assert.Equal(t, "ok", health["status"])

	var info map[string]string
	assert.Equal(t, http.StatusOK, f.do(t, "GET", "/info", nil, &info))
	assert.Equal(t, workshop.Version, info["version"])
	assert.Equal(t, "1.0.0", info["api_version"])

	resp, err := http.Get(f.server.URL + "/openapi.yaml")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))
}

func TestServer_Exercises(t *testing.T) {
	f := newFixture(t)

	var list []ExerciseSummary
	require.Equal(t, http.StatusOK, f.do(t, "GET", "/exercises", nil, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "matching", list[0].ID)
	assert.Equal(t, domain.LayoutSingleSlot, list[0].Layout)

	var one ExerciseSummary
	require.Equal(t, http.StatusOK, f.do(t, "GET", "/exercises/synthesis", nil, &one))
	assert.Equal(t, 2, one.Problems)
	assert.Equal(t, domain.VerifyExplicit, one.Verification)

	var e errorResponse
	assert.Equal(t, http.StatusNotFound, f.do(t, "GET", "/exercises/missing", nil, &e))
	assert.Contains(t, e.Error, "exercise not found")
}

func TestServer_SessionLifecycle(t *testing.T) {
	f := newFixture(t)
	created := f.open(t, "matching")
	assert.Equal(t, "matching", created.ExerciseID)
	assert.Len(t, created.Snapshot.Bank, 6)

	var list []session.Info
	require.Equal(t, http.StatusOK, f.do(t, "GET", "/sessions", nil, &list))
	require.Len(t, list, 1)

	var drag map[string]json.RawMessage
	require.Equal(t, http.StatusOK, f.do(t, "POST", "/sessions/"+created.ID+"/drag", map[string]string{"item": "c1"}, &drag))
	require.Contains(t, drag, "payload")

	var drop dropResponse
	require.Equal(t, http.StatusOK, f.do(t, "POST", "/sessions/"+created.ID+"/drop", map[string]any{
		"payload": drag["payload"],
		"target":  domain.InZone("d1"),
	}, &drop))
	assert.True(t, drop.Accepted)
	assert.Equal(t, domain.OutcomeCorrect, drop.Outcome)
	assert.Len(t, drop.Snapshot.Placed(), 1)

	var got sessionResponse
	require.Equal(t, http.StatusOK, f.do(t, "GET", "/sessions/"+created.ID, nil, &got))
	assert.Equal(t, 1, got.Snapshot.Progress.Correct)

	var reset snapshotResponse
	require.Equal(t, http.StatusOK, f.do(t, "POST", "/sessions/"+created.ID+"/reset", nil, &reset))
	assert.Empty(t, reset.Snapshot.Placed())

	assert.Equal(t, http.StatusNoContent, f.do(t, "DELETE", "/sessions/"+created.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, f.do(t, "GET", "/sessions/"+created.ID, nil, &errorResponse{}))
	assert.Equal(t, http.StatusNotFound, f.do(t, "DELETE", "/sessions/"+created.ID, nil, &errorResponse{}))
}

func TestServer_DropPayloadAsString(t *testing.T) {
	f := newFixture(t)
	created := f.open(t, "matching")

	var drag map[string]json.RawMessage
	require.Equal(t, http.StatusOK, f.do(t, "POST", "/sessions/"+created.ID+"/drag", map[string]string{"item": "c2"}, &drag))

	var drop dropResponse
	require.Equal(t, http.StatusOK, f.do(t, "POST", "/sessions/"+created.ID+"/drop", map[string]any{
		"payload": string(drag["payload"]),
		"target":  domain.InZone("d1"),
	}, &drop))
	assert.True(t, drop.Accepted)
	assert.Equal(t, domain.OutcomeIncorrect, drop.Outcome)
	assert.Equal(t, 1, drop.Snapshot.PendingReverts)
}

func TestServer_DropRejections(t *testing.T) {
	f := newFixture(t)
	created := f.open(t, "matching")

	var drop dropResponse
	require.Equal(t, http.StatusOK, f.do(t, "POST", "/sessions/"+created.ID+"/drop", map[string]any{
		"payload": `{"v":1,"item":"c1"}`,
		"target":  domain.InZone("d1"),
	}, &drop))
	assert.False(t, drop.Accepted)
	assert.Equal(t, domain.RejectMalformed, drop.Rejection)

	assert.Equal(t, http.StatusConflict, f.do(t, "POST", "/sessions/"+created.ID+"/drag", map[string]string{"item": "nope"}, &errorResponse{}))
	assert.Equal(t, http.StatusBadRequest, f.do(t, "POST", "/sessions/"+created.ID+"/drag", map[string]string{"unknown": "x"}, &errorResponse{}))
	assert.Equal(t, http.StatusNotFound, f.do(t, "POST", "/sessions", map[string]string{"exercise_id": "missing"}, &errorResponse{}))
	assert.Equal(t, http.StatusBadRequest, f.do(t, "POST", "/sessions", map[string]string{}, &errorResponse{}))
}

func TestServer_ConstructionCheckAndNext(t *testing.T) {
	f := newFixture(t)
	created := f.open(t, "synthesis")
	path := "/sessions/" + created.ID

	var check checkResponse
	require.Equal(t, http.StatusOK, f.do(t, "POST", path+"/check", nil, &check))
	assert.False(t, check.Performed)

	for _, id := range []string{"s1t1", "s1t2", "s1t3"} {
		var drag map[string]json.RawMessage
		require.Equal(t, http.StatusOK, f.do(t, "POST", path+"/drag", map[string]string{"item": id}, &drag))
		var drop dropResponse
		require.Equal(t, http.StatusOK, f.do(t, "POST", path+"/drop", map[string]any{
			"payload": drag["payload"],
			"target":  domain.Sequence(),
		}, &drop))
		require.True(t, drop.Accepted, id)
	}

	require.Equal(t, http.StatusOK, f.do(t, "POST", path+"/check", nil, &check))
	assert.True(t, check.Performed)
	assert.Equal(t, domain.OutcomeCorrect, check.Outcome)
	assert.True(t, check.Snapshot.Complete)

	var next snapshotResponse
	require.Equal(t, http.StatusOK, f.do(t, "POST", path+"/next", nil, &next))
	assert.Equal(t, "s2", next.Snapshot.ProblemID)
}

func TestServer_Sound(t *testing.T) {
	f := newFixture(t)

	var state map[string]bool
	require.Equal(t, http.StatusOK, f.do(t, "GET", "/sound", nil, &state))
	assert.False(t, state["muted"])

	require.Equal(t, http.StatusOK, f.do(t, "PUT", "/sound", map[string]bool{"muted": true}, &state))
	assert.True(t, state["muted"])
	assert.True(t, f.mute.Muted())

	assert.Equal(t, http.StatusBadRequest, f.do(t, "PUT", "/sound", map[string]any{}, &errorResponse{}))
}

func TestServer_Metrics(t *testing.T) {
	f := newFixture(t)
	created := f.open(t, "matching")
	require.Equal(t, http.StatusOK, f.do(t, "POST", "/sessions/"+created.ID+"/check", nil, &checkResponse{}))

	resp, err := http.Get(f.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body strings.Builder
	_, err = bufio.NewReader(resp.Body).WriteTo(&body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "workshop_sessions_active 1")
}

func TestServer_CatalogEventsRequireWatcher(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusNotImplemented, f.do(t, "GET", "/events", nil, &errorResponse{}))
}

func TestServer_SessionEvents(t *testing.T) {
	f := newFixture(t)
	created := f.open(t, "matching")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", f.server.URL+"/sessions/"+created.ID+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var typ, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				typ = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "":
				return typ, data
			}
		}
	}

	typ, data := readEvent()
	assert.Equal(t, "ping", typ)
	assert.Equal(t, "connected", data)

	typ, data = readEvent()
	require.Equal(t, EventSnapshot, typ)
	var initial domain.SnapshotDiff
	require.NoError(t, json.Unmarshal([]byte(data), &initial))
	assert.Len(t, initial.Bank, 6)

	var drag map[string]json.RawMessage
	require.Equal(t, http.StatusOK, f.do(t, "POST", "/sessions/"+created.ID+"/drag", map[string]string{"item": "c1"}, &drag))
	require.Equal(t, http.StatusOK, f.do(t, "POST", "/sessions/"+created.ID+"/drop", map[string]any{
		"payload": drag["payload"],
		"target":  domain.InZone("d1"),
	}, &dropResponse{}))

	seen := map[string]string{}
	for len(seen) < 2 {
		typ, data := readEvent()
		if _, ok := seen[typ]; !ok {
			seen[typ] = data
		}
	}
	assert.JSONEq(t, `{"cue":"drag"}`, seen[EventCue])
	assert.Contains(t, seen[EventSnapshot], `"outcome":"correct"`)
}

func TestServer_SessionWebsocket(t *testing.T) {
	f := newFixture(t)
	created := f.open(t, "matching")

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/sessions/" + created.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, EventSnapshot, ev.Type)

	var drag map[string]json.RawMessage
	require.Equal(t, http.StatusOK, f.do(t, "POST", "/sessions/"+created.ID+"/drag", map[string]string{"item": "c1"}, &drag))
	require.Equal(t, http.StatusOK, f.do(t, "POST", "/sessions/"+created.ID+"/drop", map[string]any{
		"payload": drag["payload"],
		"target":  domain.InZone("d2"),
	}, &dropResponse{}))
	for ev.Type = ""; ev.Type != EventSnapshot; {
		require.NoError(t, conn.ReadJSON(&ev))
	}
	var diff domain.SnapshotDiff
	require.NoError(t, json.Unmarshal(ev.Data, &diff))
	require.Len(t, diff.Zones, 1)
	assert.Equal(t, domain.OutcomeIncorrect, diff.Zones[0].Placements[0].Outcome)

	require.Equal(t, http.StatusNoContent, f.do(t, "DELETE", "/sessions/"+created.ID, nil, nil))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "closing the session closes the socket: %v", err)
}
