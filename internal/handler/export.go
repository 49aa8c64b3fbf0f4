package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_title", "trip_start_date", "trip_end_date", "trip_location",
	"event_id", "category", "event_title", "start_time", "end_time",
	"place", "reservation", "url", "note",
}

// GetExport handles GET /export: a flat table of every trip and event the
// caller owns. Use ?format=csv to receive CSV; the default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		s.fail(w, r, fmt.Errorf("%w: invalid format for parameter format", errBadRequest), "")
		return
	}
	if format != nil && *format != "json" && *format != "csv" {
		s.fail(w, r, fmt.Errorf("%w: format must be json or csv", errBadRequest), "")
		return
	}

	rows, err := s.exports.Rows(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	if format != nil && *format == "csv" {
		body := buildCSV(rows)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="trips.csv"`)
		w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = body.WriteTo(w)
		return
	}

	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, exportRowToResponse(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetCalendar handles GET /trips/{tripId}/calendar.ics.
// The feed is rendered into memory first so a failure can still be
// answered with a proper error status.
func (s *Server) GetCalendar(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := s.tripPath(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := s.exports.Calendar(r.Context(), &buf, userID, tripID); err != nil {
		s.fail(w, r, err, "trip not found")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.ics"`, calendarFileName(tripID)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func calendarFileName(tripID uuid.UUID) string {
	return "trip-" + tripID.String()
}

// buildCSV encodes rows as CSV with a header row.
func buildCSV(rows []domain.ExportRow) *bytes.Buffer {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	// bytes.Buffer writes never fail, so csv.Writer errors are ignored.
	_ = cw.Write(csvHeaders)
	for _, row := range rows {
		_ = cw.Write(exportRowToCSVRecord(row))
	}
	cw.Flush()
	return &buf
}

// exportRowToCSVRecord flattens a row; nil times and a nil event ID become
// empty strings.
func exportRowToCSVRecord(r domain.ExportRow) []string {
	eventID := ""
	if r.EventID != uuid.Nil {
		eventID = r.EventID.String()
	}
	return []string{
		r.TripID.String(),
		r.TripTitle,
		r.TripStartDate.Format(openapi_types.DateFormat),
		r.TripEndDate.Format(openapi_types.DateFormat),
		r.TripLocation,
		eventID,
		string(r.Category),
		r.EventTitle,
		formatOptionalTime(r.StartTime),
		formatOptionalTime(r.EndTime),
		r.Place,
		strconv.FormatBool(r.Reservation),
		r.URL,
		strings.ReplaceAll(r.Note, "\r\n", "\n"),
	}
}

// exportRowToResponse maps a domain.ExportRow to its JSON shape.
// Empty strings become nil pointers (omitted).
func exportRowToResponse(r domain.ExportRow) ExportRow {
	row := ExportRow{
		TripId:        r.TripID,
		TripTitle:     r.TripTitle,
		TripStartDate: openapi_types.Date{Time: r.TripStartDate},
		TripEndDate:   openapi_types.Date{Time: r.TripEndDate},
		TripLocation:  optional(r.TripLocation),
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Reservation:   r.Reservation,
		Url:           optional(r.URL),
		Note:          optional(r.Note),
		Place:         optional(r.Place),
		EventTitle:    optional(r.EventTitle),
		Category:      optional(string(r.Category)),
	}
	if r.EventID != uuid.Nil {
		id := r.EventID
		row.EventId = &id
	}
	return row
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// formatOptionalTime returns the RFC3339 representation of t, or "" if t is nil.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
