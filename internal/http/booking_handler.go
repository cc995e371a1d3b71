package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/studio-booking/internal/application"
	"github.com/example/studio-booking/internal/booking"
	"github.com/example/studio-booking/internal/calendar"
)

type bookingService interface {
	Create(ctx context.Context, params application.CreateBookingParams) (application.Booking, error)
	Update(ctx context.Context, params application.UpdateBookingParams) (application.Booking, error)
	Delete(ctx context.Context, id string) error
	ListWeek(ctx context.Context, reference calendar.Date) ([]application.Booking, error)
	ListMonthRecurring(ctx context.Context, reference calendar.Date) ([]application.Booking, error)
}

type BookingHandler struct {
	service   bookingService
	responder responder
}

func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{service: service, responder: newResponder(logger)}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	created, err := h.service.Create(r.Context(), application.CreateBookingParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, bookingResponse{Booking: toBookingDTO(created)})
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	updated, err := h.service.Update(r.Context(), application.UpdateBookingParams{
		Principal: principal,
		BookingID: bookingID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, bookingResponse{Booking: toBookingDTO(updated)})
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	if err := h.service.Delete(r.Context(), bookingID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// List serves the week grid by default, or the recurring month summary when a
// month parameter is present.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()

	if month := strings.TrimSpace(query.Get("month")); month != "" {
		reference, err := parseMonthParam(month)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
			return
		}

		bookings, err := h.service.ListMonthRecurring(r.Context(), reference)
		if err != nil {
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		h.responder.writeJSON(r.Context(), w, http.StatusOK, listBookingsResponse{Bookings: toBookingDTOs(bookings)})
		return
	}

	reference, err := parseWeekParam(query)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	bookings, err := h.service.ListWeek(r.Context(), reference)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	week := calendar.WeekOf(reference)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listBookingsResponse{
		WeekStart: week[0].String(),
		Bookings:  toBookingDTOs(bookings),
	})
}

func parseWeekParam(values url.Values) (calendar.Date, error) {
	raw := strings.TrimSpace(values.Get("week"))
	if raw == "" {
		return calendar.DateOf(time.Now()), nil
	}
	date, err := calendar.ParseDate(raw)
	if err != nil {
		return calendar.Date{}, err
	}
	return date, nil
}

func parseMonthParam(raw string) (calendar.Date, error) {
	ts, err := time.Parse("2006-01", raw)
	if err != nil {
		return calendar.Date{}, err
	}
	return calendar.DateOf(ts), nil
}

type bookingRequest struct {
	Type      string `json:"type"`
	ClassName string `json:"class_name"`
	Teacher   string `json:"teacher"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Color     string `json:"color"`
	Date      string `json:"date"`
	DayOfWeek string `json:"day_of_week"`
	Duration  string `json:"duration"`
}

func (r bookingRequest) toInput() application.BookingInput {
	return application.BookingInput{
		Kind:      strings.TrimSpace(r.Type),
		ClassName: strings.TrimSpace(r.ClassName),
		Teacher:   strings.TrimSpace(r.Teacher),
		StartTime: strings.TrimSpace(r.StartTime),
		EndTime:   strings.TrimSpace(r.EndTime),
		Color:     strings.TrimSpace(r.Color),
		Date:      strings.TrimSpace(r.Date),
		DayOfWeek: strings.TrimSpace(r.DayOfWeek),
		Duration:  strings.TrimSpace(r.Duration),
	}
}

type bookingResponse struct {
	Booking bookingDTO `json:"booking"`
}

type listBookingsResponse struct {
	WeekStart string       `json:"week_start,omitempty"`
	Bookings  []bookingDTO `json:"bookings"`
}

type bookingDTO struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	ClassName string `json:"class_name"`
	Teacher   string `json:"teacher"`
	CreatedBy string `json:"created_by"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Color     string `json:"color"`

	Date string `json:"date,omitempty"`

	DayOfWeek string `json:"day_of_week,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Duration  string `json:"duration,omitempty"`

	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	Occurrences []string `json:"occurrences,omitempty"`
}

func toBookingDTO(b application.Booking) bookingDTO {
	dto := bookingDTO{
		ID:        b.ID,
		Type:      string(b.Kind),
		ClassName: b.ClassName,
		Teacher:   b.Teacher,
		CreatedBy: b.CreatedBy,
		StartTime: b.StartTime.String(),
		EndTime:   b.EndTime.String(),
		Color:     b.Color,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: b.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	switch b.Kind {
	case booking.KindSingle:
		dto.Date = b.Date.String()
	case booking.KindRecurring:
		dto.DayOfWeek = b.Weekday.String()
		dto.StartDate = b.Range.Start.String()
		if b.Range.End != nil {
			dto.EndDate = b.Range.End.String()
		}
		dto.Duration = formatDuration(b.DurationMonths)
	}

	if len(b.Occurrences) > 0 {
		dto.Occurrences = make([]string, 0, len(b.Occurrences))
		for _, date := range b.Occurrences {
			dto.Occurrences = append(dto.Occurrences, date.String())
		}
	}

	return dto
}

func toBookingDTOs(bookings []application.Booking) []bookingDTO {
	if len(bookings) == 0 {
		return nil
	}
	out := make([]bookingDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingDTO(b))
	}
	return out
}

func formatDuration(months int) string {
	switch months {
	case 0:
		return "unbounded"
	case 1:
		return "1 month"
	default:
		return strconv.Itoa(months) + " months"
	}
}
