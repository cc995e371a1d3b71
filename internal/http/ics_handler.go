package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/example/studio-booking/internal/application"
	"github.com/example/studio-booking/internal/calendar"
)

type calendarService interface {
	ListWeek(ctx context.Context, reference calendar.Date) ([]application.Booking, error)
}

// CalendarHandler serves the weekly class plan as an iCalendar feed so staff
// can subscribe from their phone calendars.
type CalendarHandler struct {
	service   calendarService
	responder responder
	location  *time.Location
}

func NewCalendarHandler(service calendarService, location *time.Location, logger *slog.Logger) *CalendarHandler {
	if location == nil {
		location = time.Local
	}
	return &CalendarHandler{service: service, responder: newResponder(logger), location: location}
}

// WeekFeed renders every occurrence in the requested week as a VEVENT. Each
// occurrence gets its own event; recurring bookings are expanded rather than
// exported as RRULEs so the feed stays a plain snapshot of the week.
func (h *CalendarHandler) WeekFeed(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	reference, err := parseWeekParam(r.URL.Query())
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	bookings, err := h.service.ListWeek(r.Context(), reference)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	for _, b := range bookings {
		for _, date := range b.Occurrences {
			event := cal.AddEvent(fmt.Sprintf("%s-%s@studio-booking", b.ID, date))
			event.SetDtStampTime(b.UpdatedAt.UTC())
			event.SetStartAt(b.StartTime.On(date, h.location))
			event.SetEndAt(b.EndTime.On(date, h.location))
			event.SetSummary(b.ClassName)
			event.SetDescription(fmt.Sprintf("Taught by %s", b.Teacher))
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(cal.Serialize())); err != nil {
		h.responder.loggerFor(r.Context()).ErrorContext(r.Context(), "failed to write calendar feed", "error", err)
	}
}
