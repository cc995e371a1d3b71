// Package http provides HTTP handlers and middleware for the studio booking API.
//
// The router exposes the following endpoints:
//   - POST /login: confirms a staff identity. Body: {"staff","passcode"}. Response:
//     {"staff"}. Subsequent mutation requests carry the confirmed name in the
//     `X-Studio-Staff` header; there is no session state.
//   - GET /bookings?week=YYYY-MM-DD: the week grid. Returns every booking with at
//     least one occurrence in the Monday-start week containing the given date
//     (defaulting to today), with concrete occurrence dates attached.
//   - GET /bookings?month=YYYY-MM: the recurring month summary. Returns the
//     recurring bookings whose active range overlaps the month.
//   - POST /bookings, PUT /bookings/{id}, DELETE /bookings/{id}: booking mutations
//     exchanging the `bookingDTO` payload defined in booking_handler.go. A create
//     or update that overlaps an existing booking is rejected with 409 and a
//     message naming the blocking class.
//   - GET /calendar.ics?week=YYYY-MM-DD: the week's occurrences as an iCalendar
//     feed, one VEVENT per occurrence.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
