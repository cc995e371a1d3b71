package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/studio-booking/internal/persistence/memory"
	"github.com/example/studio-booking/internal/testfixtures"
)

// newTestHandler wires the full stack over the in-memory store. The fixture
// clock anchors on Monday 2025-01-06 and booking identifiers are sequential.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	factory := testfixtures.NewServiceFactory()
	bookingService := factory.NewBookingService(testfixtures.BookingServiceDeps{Bookings: memory.NewStore()})
	staffService := factory.NewStaffService(testfixtures.StaffServiceDeps{})

	router := NewRouter(RouterConfig{
		Auth:     NewAuthHandler(staffService, nil),
		Bookings: NewBookingHandler(bookingService, nil),
		Calendar: NewCalendarHandler(bookingService, time.UTC, nil),
	})
	return RequireStaff(staffService, nil, "/login", "/calendar.ics")(router)
}

func doJSON(t *testing.T, handler http.Handler, method, path, staff, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if staff != "" {
		req.Header.Set("X-Studio-Staff", staff)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func createBooking(t *testing.T, handler http.Handler, staff, body string) string {
	t.Helper()

	rec := doJSON(t, handler, http.MethodPost, "/bookings", staff, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Booking struct {
			ID string `json:"id"`
		} `json:"booking"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.Booking.ID
}

const singleBody = `{
	"type": "single",
	"class_name": "Morning Flow",
	"teacher": "Ana",
	"start_time": "09:00",
	"end_time": "10:00",
	"color": "#FF6B6B",
	"date": "2025-01-06"
}`

const recurringBody = `{
	"type": "recurring",
	"class_name": "Vinyasa",
	"teacher": "Lucia",
	"start_time": "18:00",
	"end_time": "19:00",
	"color": "#4ECDC4",
	"day_of_week": "Wednesday",
	"duration": "3 months"
}`

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)

	t.Run("roster member logs in without the staff header", func(t *testing.T) {
		t.Parallel()

		rec := doJSON(t, handler, http.MethodPost, "/login", "", `{"staff":"Flor"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Staff string `json:"staff"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Staff != "Flor" {
			t.Fatalf("expected staff Flor, got %q", resp.Staff)
		}
	})

	t.Run("unknown names get 401", func(t *testing.T) {
		t.Parallel()

		rec := doJSON(t, handler, http.MethodPost, "/login", "", `{"staff":"Mallory"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("only POST is allowed", func(t *testing.T) {
		t.Parallel()

		rec := doJSON(t, handler, http.MethodGet, "/login", "", "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

func TestStaffHeaderGuard(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)

	t.Run("requests without the header are rejected", func(t *testing.T) {
		t.Parallel()

		rec := doJSON(t, handler, http.MethodGet, "/bookings", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("names outside the roster are rejected", func(t *testing.T) {
		t.Parallel()

		rec := doJSON(t, handler, http.MethodGet, "/bookings", "Mallory", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("the calendar feed is exempt", func(t *testing.T) {
		t.Parallel()

		rec := doJSON(t, handler, http.MethodGet, "/calendar.ics?week=2025-01-06", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}

func TestCreateBookingEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("valid single booking is created", func(t *testing.T) {
		t.Parallel()

		handler := newTestHandler(t)
		rec := doJSON(t, handler, http.MethodPost, "/bookings", "Oski", singleBody)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Booking struct {
				ID        string `json:"id"`
				Type      string `json:"type"`
				CreatedBy string `json:"created_by"`
				Date      string `json:"date"`
			} `json:"booking"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Booking.ID != "booking-1" || resp.Booking.Type != "single" {
			t.Fatalf("unexpected booking: %+v", resp.Booking)
		}
		if resp.Booking.CreatedBy != "Oski" {
			t.Fatalf("expected creator from the staff header, got %q", resp.Booking.CreatedBy)
		}
		if resp.Booking.Date != "2025-01-06" {
			t.Fatalf("expected date 2025-01-06, got %q", resp.Booking.Date)
		}
	})

	t.Run("recurring booking reports its derived range", func(t *testing.T) {
		t.Parallel()

		handler := newTestHandler(t)
		rec := doJSON(t, handler, http.MethodPost, "/bookings", "Flor", recurringBody)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Booking struct {
				DayOfWeek string `json:"day_of_week"`
				StartDate string `json:"start_date"`
				EndDate   string `json:"end_date"`
				Duration  string `json:"duration"`
			} `json:"booking"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Booking.DayOfWeek != "Wednesday" {
			t.Fatalf("expected Wednesday, got %q", resp.Booking.DayOfWeek)
		}
		if resp.Booking.StartDate != "2025-01-06" || resp.Booking.EndDate != "2025-04-06" {
			t.Fatalf("unexpected range: %+v", resp.Booking)
		}
		if resp.Booking.Duration != "3 months" {
			t.Fatalf("expected duration selector to round trip, got %q", resp.Booking.Duration)
		}
	})

	t.Run("conflicting booking gets 409 with the blocking class named", func(t *testing.T) {
		t.Parallel()

		handler := newTestHandler(t)
		createBooking(t, handler, "Oski", singleBody)

		overlap := strings.Replace(singleBody, `"09:00"`, `"09:30"`, 1)
		overlap = strings.Replace(overlap, `"10:00"`, `"10:30"`, 1)
		rec := doJSON(t, handler, http.MethodPost, "/bookings", "Flor", overlap)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			ErrorCode string `json:"error_code"`
			Message   string `json:"message"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.ErrorCode != "BOOKING_CONFLICT" {
			t.Fatalf("expected BOOKING_CONFLICT, got %q", resp.ErrorCode)
		}
		want := `Conflict with class "Morning Flow" by Ana on 2025-01-06 at 09:00-10:00`
		if resp.Message != want {
			t.Fatalf("expected message %q, got %q", want, resp.Message)
		}
	})

	t.Run("invalid input gets 422 with field errors", func(t *testing.T) {
		t.Parallel()

		handler := newTestHandler(t)
		invalid := strings.Replace(singleBody, `"09:00"`, `"09:15"`, 1)
		rec := doJSON(t, handler, http.MethodPost, "/bookings", "Oski", invalid)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Errors map[string]string `json:"errors"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if _, ok := resp.Errors["start_time"]; !ok {
			t.Fatalf("expected a start_time field error, got %v", resp.Errors)
		}
	})

	t.Run("malformed JSON gets 400", func(t *testing.T) {
		t.Parallel()

		handler := newTestHandler(t)
		rec := doJSON(t, handler, http.MethodPost, "/bookings", "Oski", "{not json")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestListBookingsEndpoint(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)
	createBooking(t, handler, "Oski", singleBody)
	createBooking(t, handler, "Flor", recurringBody)

	t.Run("week view lists occurrences", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/bookings?week=2025-01-08", "Joa", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			WeekStart string `json:"week_start"`
			Bookings  []struct {
				Type        string   `json:"type"`
				Occurrences []string `json:"occurrences"`
			} `json:"bookings"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.WeekStart != "2025-01-06" {
			t.Fatalf("expected week start 2025-01-06, got %q", resp.WeekStart)
		}
		if len(resp.Bookings) != 2 {
			t.Fatalf("expected 2 bookings, got %d", len(resp.Bookings))
		}
		if len(resp.Bookings[1].Occurrences) != 1 || resp.Bookings[1].Occurrences[0] != "2025-01-08" {
			t.Fatalf("expected recurring occurrence on 2025-01-08, got %v", resp.Bookings[1].Occurrences)
		}
	})

	t.Run("month view lists only recurring bookings", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/bookings?month=2025-02", "Joa", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Bookings []struct {
				Type string `json:"type"`
			} `json:"bookings"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Bookings) != 1 || resp.Bookings[0].Type != "recurring" {
			t.Fatalf("expected only the recurring booking, got %v", resp.Bookings)
		}
	})

	t.Run("malformed month parameter gets 400", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/bookings?month=February", "Joa", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestUpdateAndDeleteBookingEndpoints(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)
	id := createBooking(t, handler, "Oski", singleBody)

	t.Run("update replaces the slot", func(t *testing.T) {
		moved := strings.Replace(singleBody, `"2025-01-06"`, `"2025-01-07"`, 1)
		rec := doJSON(t, handler, http.MethodPut, "/bookings/"+id, "Flor", moved)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Booking struct {
				Date      string `json:"date"`
				CreatedBy string `json:"created_by"`
			} `json:"booking"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Booking.Date != "2025-01-07" {
			t.Fatalf("expected date 2025-01-07, got %q", resp.Booking.Date)
		}
		if resp.Booking.CreatedBy != "Oski" {
			t.Fatalf("expected creator to survive the edit, got %q", resp.Booking.CreatedBy)
		}
	})

	t.Run("unknown id gets 404", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPut, "/bookings/missing", "Flor", singleBody)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("delete removes the booking", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodDelete, "/bookings/"+id, "Oski", "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}

		rec = doJSON(t, handler, http.MethodDelete, "/bookings/"+id, "Oski", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for a second delete, got %d", rec.Code)
		}
	})

	t.Run("unsupported method gets 405", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPatch, "/bookings/"+id, "Oski", "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

func TestCalendarFeedEndpoint(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)
	createBooking(t, handler, "Oski", singleBody)
	createBooking(t, handler, "Flor", recurringBody)

	rec := doJSON(t, handler, http.MethodGet, "/calendar.ics?week=2025-01-06", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Fatalf("expected text/calendar content type, got %q", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "BEGIN:VCALENDAR") {
		t.Fatal("expected a VCALENDAR envelope")
	}
	if !strings.Contains(body, "SUMMARY:Morning Flow") {
		t.Fatalf("expected the single class summary, body:\n%s", body)
	}
	if !strings.Contains(body, "SUMMARY:Vinyasa") {
		t.Fatalf("expected the recurring class summary, body:\n%s", body)
	}
}
