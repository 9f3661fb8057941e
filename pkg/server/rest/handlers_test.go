package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/pathfind"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/server/rest/service"
)

func newRouter(t *testing.T) (*chi.Mux, *Metrics) {
	t.Helper()
	net, err := network.LoadJSONFile("../../network/testdata/small_town.json")
	require.NoError(t, err)
	pfs, err := pathfind.NewPathfinders(net)
	require.NoError(t, err)

	m := NewMetrics(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(PromeHttpMiddleware(m))
	PathfindingRouter(r, service.NewPathfindingService(net, pfs, nil, zap.NewNop()))
	return r, m
}

func post(t *testing.T, r http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestPathfindHandler(t *testing.T) {
	r, _ := newRouter(t)

	rec := post(t, r, "/api/pathfind", `{
		"mode": "car",
		"start": {"lane": 0},
		"end": {"lane": 6, "dist_along": 10}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp PathfindResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "car", resp.Mode)
	assert.Equal(t, 18.0, resp.Cost)
	assert.Equal(t, "s", resp.Unit)
	assert.InDelta(t, 240.0, resp.Length, 1e-9)

	var kinds []string
	for _, s := range resp.Steps {
		kinds = append(kinds, s.Type)
	}
	assert.Equal(t, []string{"lane", "turn", "lane", "turn", "lane"}, kinds)
	require.NotNil(t, resp.Steps[1].Turn)
	assert.Equal(t, Turn{Parent: 1, Src: 0, Dst: 3}, *resp.Steps[1].Turn)
	require.NotNil(t, resp.Steps[4].Lane)
	assert.Equal(t, uint32(6), *resp.Steps[4].Lane)
}

func TestPathfindHandlerAudit(t *testing.T) {
	r, _ := newRouter(t)

	rec := post(t, r, "/api/pathfind", `{
		"mode": "bike",
		"start": {"lane": 1},
		"end": {"lane": 0, "dist_along": 50},
		"audit": true
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp PathfindResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "m", resp.Unit)
	require.Len(t, resp.Findings, 1)
	assert.Equal(t, uint32(0), resp.Findings[0].Lane)
	assert.Equal(t, uint32(2), resp.Findings[0].BikeLane)
}

func TestPathfindHandlerErrors(t *testing.T) {
	r, _ := newRouter(t)

	for name, tc := range map[string]struct {
		body string
		code int
	}{
		"malformed json":  {body: `{"mode": `, code: http.StatusBadRequest},
		"missing lane":    {body: `{"mode": "car", "start": {}, "end": {"lane": 6}}`, code: http.StatusBadRequest},
		"unknown mode":    {body: `{"mode": "walk", "start": {"lane": 0}, "end": {"lane": 6}}`, code: http.StatusBadRequest},
		"negative offset": {body: `{"mode": "car", "start": {"lane": 0, "dist_along": -1}, "end": {"lane": 6}}`, code: http.StatusBadRequest},
		"unknown lane":    {body: `{"mode": "car", "start": {"lane": 0}, "end": {"lane": 99}}`, code: http.StatusBadRequest},
		"unusable lane":   {body: `{"mode": "car", "start": {"lane": 2}, "end": {"lane": 6}}`, code: http.StatusBadRequest},
		"offset too long": {body: `{"mode": "car", "start": {"lane": 0}, "end": {"lane": 6, "dist_along": 81}}`, code: http.StatusBadRequest},
	} {
		t.Run(name, func(t *testing.T) {
			rec := post(t, r, "/api/pathfind", tc.body)
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())

			var resp ErrResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.ErrorText)
		})
	}
}

func TestPathfindHandlerValidationMessages(t *testing.T) {
	r, _ := newRouter(t)

	rec := post(t, r, "/api/pathfind", `{"mode": "walk", "start": {"lane": 0}, "end": {"lane": 6}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.ErrValidation, 1)
	assert.Contains(t, resp.ErrValidation[0], "Mode")
}

func TestApplyEditsHandler(t *testing.T) {
	r, _ := newRouter(t)
	route := `{"mode": "car", "start": {"lane": 0}, "end": {"lane": 6}}`

	require.Equal(t, http.StatusOK, post(t, r, "/api/pathfind", route).Code)

	rec := post(t, r, "/api/edits", `{"closed_lanes": [3]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, post(t, r, "/api/pathfind", route).Code)

	// reopening lane 3 as a driving lane brings the route back
	rec = post(t, r, "/api/edits", `{"changed_lane_types": [{"lane": 3, "type": "driving"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusOK, post(t, r, "/api/pathfind", route).Code)

	rec = post(t, r, "/api/edits", `{"banned_turns": [{"parent": 1, "src": 0, "dst": 3}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, post(t, r, "/api/pathfind", route).Code)
}

func TestApplyEditsHandlerErrors(t *testing.T) {
	r, _ := newRouter(t)

	for name, body := range map[string]string{
		"no edits":          `{}`,
		"unknown lane type": `{"changed_lane_types": [{"lane": 3, "type": "tram"}]}`,
		"missing lane":      `{"changed_lane_types": [{"type": "biking"}]}`,
		"unknown lane":      `{"closed_lanes": [99]}`,
		"unknown turn":      `{"banned_turns": [{"parent": 3, "src": 0, "dst": 6}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := post(t, r, "/api/edits", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestNetworkGapsHandler(t *testing.T) {
	r, _ := newRouter(t)
	trips := `[
		{"origin": {"lane": 0}, "destination": {"lane": 6}},
		{"origin": {"lane": 1}, "destination": {"lane": 8}},
		{"origin": {"lane": 6}, "destination": {"lane": 0}}
	]`

	rec := post(t, r, "/api/network-gaps", `{"trips": `+trips+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp NetworkGapsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.NumFilteredTrips)
	assert.Equal(t, []RoadCount{{Road: 3, Count: 2}, {Road: 1, Count: 1}}, resp.Roads)

	rec = post(t, r, "/api/network-gaps", `{"trips": `+trips+`, "filters": {
		"max_driving_time_s": 1800, "max_biking_time_s": 1800, "max_biking_distance": 200
	}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp = NetworkGapsResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.NumFilteredTrips)
	assert.Equal(t, []RoadCount{{Road: 3, Count: 1}}, resp.Roads)
}

func TestNetworkGapsHandlerErrors(t *testing.T) {
	r, _ := newRouter(t)

	rec := post(t, r, "/api/network-gaps", `{"trips": [{"origin": {"lane": 0}, "destination": {}}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, r, "/api/network-gaps", `{"trips": [{"origin": {"lane": 0}, "destination": {"lane": 42}}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, r, "/api/network-gaps", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPromeHttpMiddleware(t *testing.T) {
	r, m := newRouter(t)

	post(t, r, "/api/pathfind", `{"mode": "car", "start": {"lane": 0}, "end": {"lane": 6}}`)
	post(t, r, "/api/pathfind", `{"mode": "car", "start": {"lane": 0}, "end": {"lane": 99}}`)
	post(t, r, "/api/pathfind", `{"mode": "car", "start": {"lane": 0}, "end": {"lane": 6}}`)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/pathfind", http.MethodPost, "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/pathfind", http.MethodPost, "400")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}
