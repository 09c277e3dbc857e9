package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/shipsim/internal/engine"
	"github.com/talgya/shipsim/internal/persistence"
	"github.com/talgya/shipsim/internal/ship"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	sim := engine.NewSimulation()
	require.NoError(t, sim.Generate(ship.SmallTestConfig(), 3, 5))
	return &Server{
		Runner:       engine.NewRunner(sim),
		AdminKey:     "secret",
		RunID:        uuid.New(),
		SnapshotPath: filepath.Join(t.TempDir(), "snap.ssb"),
		RateLimit:    10,
		RateBurst:    20,
	}
}

func get(t *testing.T, handler http.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestStatusEndpoint(t *testing.T) {
	s := testServer(t)
	rec := get(t, s.handleStatus, "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, s.RunID.String(), body["run_id"])
	assert.Equal(t, true, body["generated"])
	assert.EqualValues(t, 10, body["rooms"])
	assert.EqualValues(t, 8, body["people"])
	assert.EqualValues(t, 2, body["decks"])
}

func TestStatsEndpoint(t *testing.T) {
	s := testServer(t)
	rec := get(t, s.handleStats, "/api/v1/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats engine.SimStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.CrewCount)
	assert.Equal(t, 5, stats.PassengerCount)
}

func TestPeopleEndpointFilter(t *testing.T) {
	s := testServer(t)

	rec := get(t, s.handlePeople, "/api/v1/people")
	var all []engine.PersonSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 8)

	rec = get(t, s.handlePeople, "/api/v1/people?role=crew")
	var crew []engine.PersonSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &crew))
	assert.Len(t, crew, 3)
}

func TestPersonDetail(t *testing.T) {
	s := testServer(t)

	rec := get(t, s.handlePersonDetail, "/api/v1/person/0")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap engine.PersonSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 0, snap.ID)

	rec = get(t, s.handlePersonDetail, "/api/v1/person/999")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, s.handlePersonDetail, "/api/v1/person/bogus")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoomEndpoints(t *testing.T) {
	s := testServer(t)

	rec := get(t, s.handleRooms, "/api/v1/rooms?deck=0")
	var rooms []engine.RoomSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rooms))
	assert.Len(t, rooms, 5)
	for _, r := range rooms {
		assert.Equal(t, 0, r.Deck)
	}

	rec = get(t, s.handleRoomDetail, "/api/v1/room/3")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, s.handleRoomDetail, "/api/v1/room/999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDecksEndpoint(t *testing.T) {
	s := testServer(t)
	rec := get(t, s.handleDecks, "/api/v1/decks")
	require.Equal(t, http.StatusOK, rec.Code)

	var decks []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decks))
	require.Len(t, decks, 2)
	assert.EqualValues(t, 5, decks[0]["rooms"])
}

func TestAdminOnlyAuth(t *testing.T) {
	s := testServer(t)
	handler := s.adminOnly(s.handleTimeScale)

	// GET passes without auth.
	rec := get(t, handler, "/api/v1/timescale")
	assert.Equal(t, http.StatusOK, rec.Code)

	post := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/timescale",
			strings.NewReader(`{"time_scale": 120}`))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		handler(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, post("").Code)
	assert.Equal(t, http.StatusUnauthorized, post("wrong").Code)

	rec = post("secret")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 120.0, body["time_scale"])
}

func TestAdminDisabledWithoutKey(t *testing.T) {
	s := testServer(t)
	s.AdminKey = ""
	handler := s.adminOnly(s.handleTimeScale)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/timescale",
		strings.NewReader(`{"time_scale": 9}`))
	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTimeScaleClampsThroughAPI(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/timescale",
		strings.NewReader(`{"time_scale": -10}`))
	rec := httptest.NewRecorder()
	s.handleTimeScale(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, engine.MinTimeScale, body["time_scale"])
}

func TestSnapshotEndpoint(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/snapshot", nil)
	rec := httptest.NewRecorder()
	s.handleSnapshot(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.FileExists(t, s.SnapshotPath)

	rec = get(t, s.handleSnapshot, "/api/v1/snapshot")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestEventsEndpointLimit(t *testing.T) {
	s := testServer(t)
	rec := get(t, s.handleEvents, "/api/v1/events?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var events []engine.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	assert.LessOrEqual(t, len(events), 5)
}

func TestEventsHistoryEndpoint(t *testing.T) {
	s := testServer(t)
	db, err := persistence.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s.DB = db

	require.NoError(t, db.SaveEvents([]engine.Event{
		{SimHours: 1.0, Description: "reactor hum steadies", Category: "maintenance"},
		{SimHours: 2.0, Description: "two passengers chat over dinner", Category: "social"},
		{SimHours: 3.0, Description: "coolant valve serviced", Category: "maintenance"},
	}))

	rec := get(t, s.handleEvents, "/api/v1/events?history=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var events []engine.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 3)
	assert.Equal(t, "reactor hum steadies", events[0].Description, "oldest first")

	rec = get(t, s.handleEvents, "/api/v1/events?history=1&category=social")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "social", events[0].Category)

	rec = get(t, s.handleEvents, "/api/v1/events?history=1&limit=2")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	assert.Len(t, events, 2)
}
