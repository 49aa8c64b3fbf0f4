package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// tripPath binds the caller and the {tripId} path parameter shared by every
// event route. It writes the error response itself and reports ok=false.
func (s *Server) tripPath(w http.ResponseWriter, r *http.Request) (userID, tripID uuid.UUID, ok bool) {
	userID, ok = requireUser(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		s.fail(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, tripID, true
}

// ListEvents handles GET /trips/{tripId}/events.
// Events are ordered by start time.
func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := s.tripPath(w, r)
	if !ok {
		return
	}

	events, err := s.events.ListByTripID(r.Context(), userID, tripID)
	if err != nil {
		s.fail(w, r, err, "trip not found")
		return
	}
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = eventToResponse(e)
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateEvent handles POST /trips/{tripId}/events.
func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := s.tripPath(w, r)
	if !ok {
		return
	}
	var body EventRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "")
		return
	}

	event := requestToEvent(body)
	event.TripID = tripID
	created, err := s.events.Create(r.Context(), userID, event)
	if err != nil {
		s.fail(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, eventToResponse(created))
}

// GetEvent handles GET /trips/{tripId}/events/{eventId}.
func (s *Server) GetEvent(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := s.tripPath(w, r)
	if !ok {
		return
	}
	eventID, err := pathUUID(r, "eventId")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	event, err := s.events.GetByID(r.Context(), userID, tripID, eventID)
	if err != nil {
		s.fail(w, r, err, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, eventToResponse(event))
}

// UpdateEvent handles PUT /trips/{tripId}/events/{eventId}.
func (s *Server) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := s.tripPath(w, r)
	if !ok {
		return
	}
	eventID, err := pathUUID(r, "eventId")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	var body EventRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "")
		return
	}

	event := requestToEvent(body)
	event.ID = eventID
	event.TripID = tripID
	updated, err := s.events.Update(r.Context(), userID, event)
	if err != nil {
		s.fail(w, r, err, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, eventToResponse(updated))
}

// DeleteEvent handles DELETE /trips/{tripId}/events/{eventId}.
func (s *Server) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := s.tripPath(w, r)
	if !ok {
		return
	}
	eventID, err := pathUUID(r, "eventId")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	if err := s.events.Delete(r.Context(), userID, tripID, eventID); err != nil {
		s.fail(w, r, err, "event not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToEvent converts an EventRequest body into a domain.Event.
// A missing start time stays zero and is rejected by the service.
func requestToEvent(body EventRequest) domain.Event {
	e := domain.Event{
		Category:     domain.Category(body.Category),
		Name:         body.Name,
		EndTime:      body.EndTime,
		Reservation:  body.Reservation,
		URL:          body.Url,
		Note:         body.Note,
		CheckInTime:  body.CheckInTime,
		CheckOutTime: body.CheckOutTime,
		Mode:         domain.TransportMode(body.SubCategory),
		Location:     placeFromRequest(body.Location),
		Origin:       placeFromRequest(body.Origin),
		Destination:  placeFromRequest(body.Destination),
	}
	if body.StartTime != nil {
		e.StartTime = *body.StartTime
	}
	return e
}

func placeFromRequest(p *Place) domain.Place {
	if p == nil {
		return domain.Place{}
	}
	return domain.Place{Name: p.Name, Address: p.Address, Lat: p.Lat, Lng: p.Lng}
}

// placeToResponse returns nil for an empty place so it is omitted.
func placeToResponse(p domain.Place) *Place {
	if p == (domain.Place{}) {
		return nil
	}
	return &Place{Name: p.Name, Address: p.Address, Lat: p.Lat, Lng: p.Lng}
}

// eventToResponse converts a domain.Event into its wire shape.
func eventToResponse(e domain.Event) Event {
	resp := Event{
		Id:           e.ID,
		TripId:       e.TripID,
		Category:     string(e.Category),
		Name:         e.Name,
		Title:        e.Title(),
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		Location:     placeToResponse(e.Location),
		Reservation:  e.Reservation,
		CheckInTime:  e.CheckInTime,
		CheckOutTime: e.CheckOutTime,
		Origin:       placeToResponse(e.Origin),
		Destination:  placeToResponse(e.Destination),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if e.URL != "" {
		resp.Url = &e.URL
	}
	if e.Note != "" {
		resp.Note = &e.Note
	}
	if e.Mode != "" {
		mode := string(e.Mode)
		resp.SubCategory = &mode
	}
	return resp
}
