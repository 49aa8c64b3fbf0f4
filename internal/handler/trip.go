package handler

import (
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/domain"
)

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body TripRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "")
		return
	}

	trip := requestToTrip(body)
	trip.UserID = userID
	created, err := s.trips.Create(r.Context(), trip)
	if err != nil {
		s.fail(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?filter=all|upcoming|past, ?sort=title|start_date|end_date|location,
// ?order=asc|desc, ?page= and ?limit= (defaults: all, start_date, asc, 1, 20; max limit 100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var (
		filter, sort, order *string
		page, limit         *int
	)
	query := r.URL.Query()
	for name, dest := range map[string]any{
		"filter": &filter, "sort": &sort, "order": &order,
		"page": &page, "limit": &limit,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			s.fail(w, r, fmt.Errorf("%w: invalid format for parameter %s", errBadRequest, name), "")
			return
		}
	}

	q := domain.NewTripQuery(filter, sort, order, page, limit)
	trips, total, err := s.trips.List(r.Context(), userID, q)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, TripList{
		Data: data,
		Pagination: Pagination{
			Page:  q.Page.Page,
			Limit: q.Page.Limit,
			Total: int(total),
		},
	})
}

// GetTrip handles GET /trips/{tripId}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "tripId")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), userID, id)
	if err != nil {
		s.fail(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{tripId}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "tripId")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	var body TripRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "")
		return
	}

	trip := requestToTrip(body)
	trip.ID = id
	trip.UserID = userID
	updated, err := s.trips.Update(r.Context(), trip)
	if err != nil {
		s.fail(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{tripId}. The trip's events go with it.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "tripId")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	if err := s.trips.Delete(r.Context(), userID, id); err != nil {
		s.fail(w, r, err, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToTrip converts a TripRequest body into a domain.Trip.
// Missing dates stay zero and are rejected by the service.
func requestToTrip(body TripRequest) domain.Trip {
	t := domain.Trip{Title: body.Title}
	if body.StartDate != nil {
		t.StartDate = body.StartDate.Time
	}
	if body.EndDate != nil {
		t.EndDate = body.EndDate.Time
	}
	if body.Location != nil {
		t.Location = *body.Location
	}
	if body.Note != nil {
		t.Note = *body.Note
	}
	if body.TimeZone != nil {
		t.TimeZone = *body.TimeZone
	}
	return t
}

// tripToResponse converts a domain.Trip into its wire shape.
func tripToResponse(t domain.Trip) Trip {
	resp := Trip{
		Id:        t.ID,
		Title:     t.Title,
		StartDate: openapi_types.Date{Time: t.StartDate},
		EndDate:   openapi_types.Date{Time: t.EndDate},
		TimeZone:  t.TimeZone,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Location != "" {
		resp.Location = &t.Location
	}
	if t.Note != "" {
		resp.Note = &t.Note
	}
	return resp
}
