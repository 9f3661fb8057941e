package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/analysis"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/pathfind"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/server/rest/service"
)

type PathfindingService interface {
	Pathfind(ctx context.Context, req pathfind.PathRequest, audit bool) (service.Route, error)
	ApplyEdits(ctx context.Context, edits network.Edits) error
	NetworkGaps(ctx context.Context, trips []analysis.Trip, filters analysis.Filters) (analysis.NetworkGaps, error)
}

type PathfindingHandler struct {
	svc      PathfindingService
	validate *validator.Validate
	trans    ut.Translator
}

func PathfindingRouter(r *chi.Mux, svc PathfindingService) {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	validate := validator.New()
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	handler := &PathfindingHandler{svc: svc, validate: validate, trans: trans}

	r.Group(func(r chi.Router) {
		r.Route("/api", func(r chi.Router) {
			r.Post("/pathfind", handler.Pathfind)
			r.Post("/edits", handler.ApplyEdits)
			r.Post("/network-gaps", handler.NetworkGaps)
		})
	})
}

type Position struct {
	Lane      *uint32 `json:"lane" validate:"required"`
	DistAlong float64 `json:"dist_along" validate:"gte=0"`
}

func (p Position) toPosition() pathfind.Position {
	return pathfind.Position{Lane: network.LaneID(*p.Lane), DistAlong: p.DistAlong}
}

type PathfindRequest struct {
	Mode  string   `json:"mode" validate:"required,oneof=car bike bus"`
	Start Position `json:"start"`
	End   Position `json:"end"`
	Audit bool     `json:"audit"`
}

func (s *PathfindRequest) Bind(r *http.Request) error {
	if s.Start.Lane == nil || s.End.Lane == nil {
		return errors.New("start and end lanes are required")
	}
	return nil
}

type Turn struct {
	Parent uint32 `json:"parent"`
	Src    uint32 `json:"src"`
	Dst    uint32 `json:"dst"`
}

type Step struct {
	Type string  `json:"type"`
	Lane *uint32 `json:"lane,omitempty"`
	Turn *Turn   `json:"turn,omitempty"`
}

type BikeLaneFinding struct {
	Turn         Turn   `json:"turn"`
	Lane         uint32 `json:"lane"`
	LaneCost     uint32 `json:"lane_cost"`
	BikeLane     uint32 `json:"bike_lane"`
	BikeLaneCost uint32 `json:"bike_lane_cost"`
}

type PathfindResponse struct {
	Mode     string            `json:"mode"`
	Steps    []Step            `json:"steps"`
	Cost     float64           `json:"cost"`
	Unit     string            `json:"unit"`
	Length   float64           `json:"length"`
	Findings []BikeLaneFinding `json:"findings,omitempty"`
}

func toTurn(t network.TurnID) Turn {
	return Turn{Parent: uint32(t.Parent), Src: uint32(t.Src), Dst: uint32(t.Dst)}
}

func RenderPathfindResponse(mode network.Mode, route service.Route) *PathfindResponse {
	steps := make([]Step, 0, len(route.Path.Steps))
	for _, s := range route.Path.Steps {
		if s.Kind == pathfind.StepTurn {
			turn := toTurn(s.Turn)
			steps = append(steps, Step{Type: "turn", Turn: &turn})
			continue
		}
		lane := uint32(s.Lane)
		steps = append(steps, Step{Type: "lane", Lane: &lane})
	}

	findings := make([]BikeLaneFinding, 0, len(route.Findings))
	for _, f := range route.Findings {
		findings = append(findings, BikeLaneFinding{
			Turn:         toTurn(f.Turn),
			Lane:         uint32(f.Lane),
			LaneCost:     f.LaneCost,
			BikeLane:     uint32(f.BikeLane),
			BikeLaneCost: f.BikeLaneCost,
		})
	}

	return &PathfindResponse{
		Mode:     mode.String(),
		Steps:    steps,
		Cost:     route.Path.Cost,
		Unit:     route.Path.Unit.String(),
		Length:   route.Length,
		Findings: findings,
	}
}

// validateRequest renders the translated validation errors and reports
// whether data is valid.
func (h *PathfindingHandler) validateRequest(w http.ResponseWriter, r *http.Request, data interface{}) bool {
	if err := h.validate.Struct(data); err != nil {
		render.Render(w, r, ErrValidation(err, translateError(err, h.trans)))
		return false
	}
	return true
}

// Pathfind
//
//	@Summary		lane-level shortest path
//	@Description	shortest lane-level path for a car, bike or bus, optionally auditing bike routes for unused bike lanes
//	@Tags			pathfinding
//	@Param			body	body	PathfindRequest	true	"start, end and vehicle mode"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/pathfind [post]
//	@Success		200	{object}	PathfindResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *PathfindingHandler) Pathfind(w http.ResponseWriter, r *http.Request) {
	data := &PathfindRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if !h.validateRequest(w, r, *data) {
		return
	}

	mode, err := network.ParseMode(data.Mode)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	req := pathfind.PathRequest{
		Start: data.Start.toPosition(),
		End:   data.End.toPosition(),
		Mode:  mode,
	}

	route, err := h.svc.Pathfind(r.Context(), req, data.Audit)
	if err != nil {
		render.Render(w, r, ErrFromService(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderPathfindResponse(mode, route))
}

type LaneTypeChange struct {
	Lane *uint32 `json:"lane" validate:"required"`
	Type string  `json:"type" validate:"required,oneof=driving biking bus sidewalk construction"`
}

type EditsRequest struct {
	ClosedLanes      []uint32         `json:"closed_lanes"`
	ChangedLaneTypes []LaneTypeChange `json:"changed_lane_types" validate:"dive"`
	BannedTurns      []Turn           `json:"banned_turns"`
}

func (s *EditsRequest) Bind(r *http.Request) error {
	if len(s.ClosedLanes) == 0 && len(s.ChangedLaneTypes) == 0 && len(s.BannedTurns) == 0 {
		return errors.New("no edits")
	}
	return nil
}

func (s *EditsRequest) toEdits() (network.Edits, error) {
	edits := network.Edits{ChangedLaneTypes: make(map[network.LaneID]network.LaneType)}
	for _, id := range s.ClosedLanes {
		edits.ClosedLanes = append(edits.ClosedLanes, network.LaneID(id))
	}
	for _, c := range s.ChangedLaneTypes {
		lt, err := network.ParseLaneType(c.Type)
		if err != nil {
			return network.Edits{}, err
		}
		edits.ChangedLaneTypes[network.LaneID(*c.Lane)] = lt
	}
	for _, t := range s.BannedTurns {
		edits.BannedTurns = append(edits.BannedTurns, network.TurnID{
			Parent: network.IntersectionID(t.Parent),
			Src:    network.LaneID(t.Src),
			Dst:    network.LaneID(t.Dst),
		})
	}
	return edits, nil
}

type EditsResponse struct {
	Message string `json:"message"`
}

// ApplyEdits
//
//	@Summary		edit the lane network
//	@Description	apply lane closures, lane type changes and turn bans, then rebuild every vehicle pathfinder
//	@Tags			network
//	@Param			body	body	EditsRequest	true	"network edits"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/edits [post]
//	@Success		200	{object}	EditsResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		409	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *PathfindingHandler) ApplyEdits(w http.ResponseWriter, r *http.Request) {
	data := &EditsRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if !h.validateRequest(w, r, *data) {
		return
	}
	edits, err := data.toEdits()
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	if err := h.svc.ApplyEdits(r.Context(), edits); err != nil {
		render.Render(w, r, ErrFromService(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &EditsResponse{Message: "pathfinders rebuilt"})
}

type Trip struct {
	Origin      Position `json:"origin"`
	Destination Position `json:"destination"`
}

type Filters struct {
	MaxDrivingTimeSeconds float64 `json:"max_driving_time_s" validate:"gte=0"`
	MaxBikingTimeSeconds  float64 `json:"max_biking_time_s" validate:"gte=0"`
	MaxBikingDistance     float64 `json:"max_biking_distance" validate:"gte=0"`
}

type NetworkGapsRequest struct {
	Trips   []Trip   `json:"trips" validate:"required,dive"`
	Filters *Filters `json:"filters"`
}

func (s *NetworkGapsRequest) Bind(r *http.Request) error {
	for _, t := range s.Trips {
		if t.Origin.Lane == nil || t.Destination.Lane == nil {
			return errors.New("every trip needs an origin and a destination lane")
		}
	}
	return nil
}

func (s *NetworkGapsRequest) filters() analysis.Filters {
	if s.Filters == nil {
		return analysis.DefaultFilters()
	}
	return analysis.Filters{
		MaxDrivingTime:    time.Duration(s.Filters.MaxDrivingTimeSeconds * float64(time.Second)),
		MaxBikingTime:     time.Duration(s.Filters.MaxBikingTimeSeconds * float64(time.Second)),
		MaxBikingDistance: s.Filters.MaxBikingDistance,
	}
}

type RoadCount struct {
	Road  uint32 `json:"road"`
	Count int    `json:"count"`
}

type NetworkGapsResponse struct {
	NumFilteredTrips int         `json:"num_filtered_trips"`
	Roads            []RoadCount `json:"roads"`
}

func RenderNetworkGapsResponse(gaps analysis.NetworkGaps) *NetworkGapsResponse {
	roads := make([]RoadCount, 0, len(gaps.CountPerRoad))
	for _, rc := range gaps.Ranked() {
		roads = append(roads, RoadCount{Road: uint32(rc.Road), Count: rc.Count})
	}
	return &NetworkGapsResponse{
		NumFilteredTrips: gaps.NumFilteredTrips,
		Roads:            roads,
	}
}

// NetworkGaps
//
//	@Summary		find bike network gaps
//	@Description	route every trip by car and by bike and count the high stress roads on the bike routes of trips that pass the filters
//	@Tags			analysis
//	@Param			body	body	NetworkGapsRequest	true	"trips and filters"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/network-gaps [post]
//	@Success		200	{object}	NetworkGapsResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *PathfindingHandler) NetworkGaps(w http.ResponseWriter, r *http.Request) {
	data := &NetworkGapsRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if !h.validateRequest(w, r, *data) {
		return
	}

	trips := make([]analysis.Trip, 0, len(data.Trips))
	for _, t := range data.Trips {
		trips = append(trips, analysis.Trip{
			Origin:      t.Origin.toPosition(),
			Destination: t.Destination.toPosition(),
		})
	}

	gaps, err := h.svc.NetworkGaps(r.Context(), trips, data.filters())
	if err != nil {
		render.Render(w, r, ErrFromService(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderNetworkGapsResponse(gaps))
}
