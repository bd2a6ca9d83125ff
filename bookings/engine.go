package bookings

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"interlink/errs"
	"interlink/models"
	"interlink/utils"
)

// Store is the persistence surface the engine needs. The Mongo implementation
// lives in store.go; tests substitute an in-memory fake.
type Store interface {
	EventByID(ctx context.Context, eventID string) (*models.Event, error)
	ConfirmedTickets(ctx context.Context, eventID string) (int, error)
	InsertBooking(ctx context.Context, b *models.Booking) error
	BookingByID(ctx context.Context, bookingID string) (*models.Booking, error)
	SetBookingStatus(ctx context.Context, bookingID, status string, at time.Time) error
	SetAttendanceStatus(ctx context.Context, bookingID, status string, at time.Time) error
	BookingsByUser(ctx context.Context, userID string) ([]models.Booking, error)
	BookingsByEvent(ctx context.Context, eventID string, includeCancelled bool) ([]models.Booking, error)
	AddRegisteredEvent(ctx context.Context, userID, eventID string) error
	RemoveRegisteredEvent(ctx context.Context, userID, eventID string) error
}

// CreateCommand is the typed booking request produced at the HTTP boundary.
// Business logic never sees raw request bodies.
type CreateCommand struct {
	EventID                string                         `json:"eventId"`
	Contact                models.Contact                 `json:"contact"`
	TicketCount            int                            `json:"ticketCount"`
	AdditionalParticipants []models.AdditionalParticipant `json:"additionalParticipants"`
}

// Engine decides whether reservations can be made and keeps booking state
// consistent. The capacity check and the insert run under per-event mutual
// exclusion so two concurrent requests cannot both pass the gate.
type Engine struct {
	store     Store
	now       func() time.Time
	broadcast func(eventID string, spots models.Spots)

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEngine(store Store, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store: store,
		now:   now,
		locks: make(map[string]*sync.Mutex),
	}
}

// SetBroadcast installs the availability-update hook. Called once at wiring
// time, before the engine serves requests.
func (e *Engine) SetBroadcast(fn func(eventID string, spots models.Spots)) {
	e.broadcast = fn
}

func (e *Engine) eventLock(eventID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	if l, ok := e.locks[eventID]; ok {
		return l
	}
	l := &sync.Mutex{}
	e.locks[eventID] = l
	return l
}

func (cmd *CreateCommand) validate() error {
	cmd.EventID = strings.TrimSpace(cmd.EventID)
	cmd.Contact.Name = strings.TrimSpace(cmd.Contact.Name)
	cmd.Contact.Email = strings.TrimSpace(cmd.Contact.Email)
	cmd.Contact.Phone = strings.TrimSpace(cmd.Contact.Phone)
	cmd.Contact.AttendeeType = strings.TrimSpace(cmd.Contact.AttendeeType)

	if cmd.EventID == "" {
		return errs.Validation("eventId is required")
	}
	if cmd.Contact.Name == "" || cmd.Contact.Email == "" || cmd.Contact.Phone == "" || cmd.Contact.AttendeeType == "" {
		return errs.Validation("Contact name, email, phone and attendee type are required")
	}
	if !models.ValidAttendeeType(cmd.Contact.AttendeeType) {
		return errs.Validation("Attendee type must be student, professional or other")
	}
	if cmd.TicketCount == 0 {
		cmd.TicketCount = 1
	}
	if cmd.TicketCount < 1 {
		return errs.Validation("ticketCount must be at least 1")
	}
	for _, p := range cmd.AdditionalParticipants {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Email) == "" {
			return errs.Validation("Additional participants need a name and an email")
		}
	}
	return nil
}

// Create runs the gate sequence and persists the booking. Gates run in order
// and the first failure aborts with nothing written.
func (e *Engine) Create(ctx context.Context, userID string, cmd CreateCommand) (*models.BookingWithEvent, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	event, err := e.store.EventByID(ctx, cmd.EventID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	if !now.Before(event.StartDateTime) {
		return nil, errs.Conflict("Event has already started or passed")
	}
	if !now.Before(event.RegistrationDeadline) {
		return nil, errs.Conflict("Registration deadline has passed")
	}

	// Capacity check and insert are one critical section per event.
	lock := e.eventLock(event.EventID)
	lock.Lock()
	defer lock.Unlock()

	booked, err := e.store.ConfirmedTickets(ctx, event.EventID)
	if err != nil {
		return nil, err
	}
	remaining := event.MaxParticipants - booked
	if remaining < cmd.TicketCount {
		return nil, errs.Capacity(remaining)
	}

	booking := deriveBooking(userID, event, cmd, now)
	if err := e.store.InsertBooking(ctx, &booking); err != nil {
		return nil, err
	}

	// Idempotent add: the relation is a set, duplicates are impossible.
	if err := e.store.AddRegisteredEvent(ctx, userID, event.EventID); err != nil {
		return nil, err
	}

	e.announce(event, booked+countedTickets(&booking))

	return &models.BookingWithEvent{Booking: booking, Event: event.View()}, nil
}

// deriveBooking fills pricing, statuses and the ticket id for a validated
// request. Free events confirm immediately; paid ones stay pending (there is
// no payment callback, so pending paid bookings are terminal).
func deriveBooking(userID string, event *models.Event, cmd CreateCommand, now time.Time) models.Booking {
	booking := models.Booking{
		BookingID:              utils.GetUUID(),
		TicketID:               utils.TicketID(event.EventID, userID, now.UnixMilli()),
		UserID:                 userID,
		EventID:                event.EventID,
		Contact:                cmd.Contact,
		AdditionalParticipants: cmd.AdditionalParticipants,
		TicketCount:            cmd.TicketCount,
		AttendanceStatus:       models.AttendanceNotMarked,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if event.EntryType == models.EntryFree {
		booking.TotalAmount = 0
		booking.PaymentStatus = models.PaymentCompleted
		booking.BookingStatus = models.BookingConfirmed
	} else {
		booking.TotalAmount = event.TicketPrice * float64(cmd.TicketCount)
		booking.PaymentStatus = models.PaymentPending
		booking.BookingStatus = models.BookingPending
	}
	return booking
}

// countedTickets is the booking's weight against capacity: only confirmed
// bookings count.
func countedTickets(b *models.Booking) int {
	if b.BookingStatus == models.BookingConfirmed {
		return b.TicketCount
	}
	return 0
}

// Cancel flips a booking to cancelled. Payment status is untouched; refunds
// are out of band. Cancelled bookings are kept for history.
func (e *Engine) Cancel(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	booking, err := e.store.BookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, errs.Authorization("Only the booking owner can cancel it")
	}

	event, err := e.store.EventByID(ctx, booking.EventID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	if !now.Before(event.StartDateTime) {
		return nil, errs.Conflict("Cannot cancel booking after event has started")
	}
	if booking.BookingStatus == models.BookingCancelled {
		return nil, errs.Conflict("Booking is already cancelled")
	}

	lock := e.eventLock(event.EventID)
	lock.Lock()
	defer lock.Unlock()

	if err := e.store.SetBookingStatus(ctx, bookingID, models.BookingCancelled, now); err != nil {
		return nil, err
	}
	if err := e.store.RemoveRegisteredEvent(ctx, userID, event.EventID); err != nil {
		return nil, err
	}

	booking.BookingStatus = models.BookingCancelled
	booking.UpdatedAt = now

	booked, err := e.store.ConfirmedTickets(ctx, event.EventID)
	if err == nil {
		e.announce(event, booked)
	}

	return booking, nil
}

// ownedEvent resolves an event only when the organizer owns it. Missing and
// foreign events get the same message so existence is not leaked.
func (e *Engine) ownedEvent(ctx context.Context, organizerID, eventID string) (*models.Event, error) {
	event, err := e.store.EventByID(ctx, eventID)
	var nf *errs.NotFoundError
	if errors.As(err, &nf) {
		return nil, errs.NotFound("Event not found or no access")
	}
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, errs.Authorization("Event not found or no access")
	}
	return event, nil
}

// BookingsForOrganizer lists an event's non-cancelled bookings for its owner.
func (e *Engine) BookingsForOrganizer(ctx context.Context, organizerID, eventID string) ([]models.Booking, error) {
	if _, err := e.ownedEvent(ctx, organizerID, eventID); err != nil {
		return nil, err
	}
	return e.store.BookingsByEvent(ctx, eventID, false)
}

// MarkAttendance records attendance on a booking for the organizer who owns
// the parent event. Last write wins; no history of prior marks is kept.
func (e *Engine) MarkAttendance(ctx context.Context, organizerID, bookingID, status string) (*models.Booking, error) {
	if !models.ValidAttendanceStatus(status) {
		return nil, errs.Validation("Status must be present, absent or not_marked")
	}

	booking, err := e.store.BookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if _, err := e.ownedEvent(ctx, organizerID, booking.EventID); err != nil {
		return nil, err
	}

	now := e.now()
	if err := e.store.SetAttendanceStatus(ctx, bookingID, status, now); err != nil {
		return nil, err
	}

	booking.AttendanceStatus = status
	booking.UpdatedAt = now
	return booking, nil
}

// RemainingSpots reports availability. Booked tickets are aggregated from the
// booking set on demand, never read from a stored counter, so the report can
// not drift from the authoritative bookings. Remaining is not clamped.
func (e *Engine) RemainingSpots(ctx context.Context, eventID string) (*models.Spots, error) {
	event, err := e.store.EventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	booked, err := e.store.ConfirmedTickets(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &models.Spots{
		Capacity:      event.MaxParticipants,
		BookedTickets: booked,
		Remaining:     event.MaxParticipants - booked,
	}, nil
}

func (e *Engine) announce(event *models.Event, booked int) {
	if e.broadcast == nil {
		return
	}
	e.broadcast(event.EventID, models.Spots{
		Capacity:      event.MaxParticipants,
		BookedTickets: booked,
		Remaining:     event.MaxParticipants - booked,
	})
}
