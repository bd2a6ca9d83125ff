package bookings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interlink/errs"
	"interlink/models"
)

// fakeStore is an in-memory Store for engine tests.
type fakeStore struct {
	mu         sync.Mutex
	events     map[string]models.Event
	bookings   map[string]models.Booking
	registered map[string]map[string]bool
	failInsert bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:     make(map[string]models.Event),
		bookings:   make(map[string]models.Booking),
		registered: make(map[string]map[string]bool),
	}
}

func (s *fakeStore) EventByID(_ context.Context, eventID string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[eventID]
	if !ok {
		return nil, errs.NotFound("Event not found")
	}
	return &event, nil
}

func (s *fakeStore) ConfirmedTickets(_ context.Context, eventID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, b := range s.bookings {
		if b.EventID == eventID && b.BookingStatus == models.BookingConfirmed {
			total += b.TicketCount
		}
	}
	return total, nil
}

func (s *fakeStore) InsertBooking(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsert {
		return errs.Persistence("insert booking", errors.New("store down"))
	}
	s.bookings[b.BookingID] = *b
	return nil
}

func (s *fakeStore) BookingByID(_ context.Context, bookingID string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, errs.NotFound("Booking not found")
	}
	return &b, nil
}

func (s *fakeStore) SetBookingStatus(_ context.Context, bookingID, status string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.bookings[bookingID]
	b.BookingStatus = status
	b.UpdatedAt = at
	s.bookings[bookingID] = b
	return nil
}

func (s *fakeStore) SetAttendanceStatus(_ context.Context, bookingID, status string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.bookings[bookingID]
	b.AttendanceStatus = status
	b.UpdatedAt = at
	s.bookings[bookingID] = b
	return nil
}

func (s *fakeStore) BookingsByUser(_ context.Context, userID string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeStore) BookingsByEvent(_ context.Context, eventID string, includeCancelled bool) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, b := range s.bookings {
		if b.EventID != eventID {
			continue
		}
		if !includeCancelled && b.BookingStatus == models.BookingCancelled {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *fakeStore) AddRegisteredEvent(_ context.Context, userID, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registered[userID] == nil {
		s.registered[userID] = make(map[string]bool)
	}
	s.registered[userID][eventID] = true
	return nil
}

func (s *fakeStore) RemoveRegisteredEvent(_ context.Context, userID, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.registered[userID], eventID)
	return nil
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func freeEvent(capacity int) models.Event {
	return models.Event{
		EventID:              "evt-free-000001",
		Title:                "Community Meetup",
		StartDateTime:        testNow.Add(48 * time.Hour),
		EndDateTime:          testNow.Add(52 * time.Hour),
		RegistrationDeadline: testNow.Add(24 * time.Hour),
		MaxParticipants:      capacity,
		EntryType:            models.EntryFree,
		Mode:                 models.ModeOffline,
		Venue:                "Hall A",
		Status:               models.EventUpcoming,
		OrganizerID:          "org-1",
	}
}

func paidEvent(capacity int, price float64) models.Event {
	e := freeEvent(capacity)
	e.EventID = "evt-paid-000002"
	e.EntryType = models.EntryPaid
	e.TicketPrice = price
	return e
}

func validCmd(eventID string, count int) CreateCommand {
	return CreateCommand{
		EventID: eventID,
		Contact: models.Contact{
			Name:         "Asha Rao",
			Email:        "asha@example.com",
			Phone:        "5550001111",
			AttendeeType: models.AttendeeStudent,
		},
		TicketCount: count,
	}
}

func newTestEngine(t *testing.T, events ...models.Event) (*Engine, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	for _, e := range events {
		store.events[e.EventID] = e
	}
	return NewEngine(store, func() time.Time { return testNow }), store
}

func TestCreateValidation(t *testing.T) {
	engine, _ := newTestEngine(t, freeEvent(10))

	cases := []struct {
		name string
		mut  func(*CreateCommand)
	}{
		{"missing event id", func(c *CreateCommand) { c.EventID = "" }},
		{"missing name", func(c *CreateCommand) { c.Contact.Name = "" }},
		{"missing email", func(c *CreateCommand) { c.Contact.Email = "" }},
		{"missing phone", func(c *CreateCommand) { c.Contact.Phone = "" }},
		{"missing attendee type", func(c *CreateCommand) { c.Contact.AttendeeType = "" }},
		{"bad attendee type", func(c *CreateCommand) { c.Contact.AttendeeType = "alien" }},
		{"negative ticket count", func(c *CreateCommand) { c.TicketCount = -2 }},
		{"incomplete extra participant", func(c *CreateCommand) {
			c.AdditionalParticipants = []models.AdditionalParticipant{{Name: "No Email"}}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := validCmd("evt-free-000001", 1)
			tc.mut(&cmd)
			_, err := engine.Create(context.Background(), "user-1", cmd)
			var ve *errs.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestCreateUnknownEvent(t *testing.T) {
	engine, _ := newTestEngine(t)
	_, err := engine.Create(context.Background(), "user-1", validCmd("missing", 1))
	var nf *errs.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestCreateTemporalGates(t *testing.T) {
	started := freeEvent(10)
	started.EventID = "evt-started"
	started.StartDateTime = testNow.Add(-time.Hour)
	started.RegistrationDeadline = testNow.Add(-2 * time.Hour)

	closed := freeEvent(10)
	closed.EventID = "evt-closed"
	closed.RegistrationDeadline = testNow.Add(-time.Minute)

	engine, _ := newTestEngine(t, started, closed)

	_, err := engine.Create(context.Background(), "user-1", validCmd("evt-started", 1))
	var ce *errs.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Error(), "already started")

	_, err = engine.Create(context.Background(), "user-1", validCmd("evt-closed", 1))
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Error(), "deadline")
}

func TestFreeBookingConfirmsImmediately(t *testing.T) {
	engine, store := newTestEngine(t, freeEvent(10))

	booked, err := engine.Create(context.Background(), "user-1", validCmd("evt-free-000001", 2))
	require.NoError(t, err)

	assert.Equal(t, models.BookingConfirmed, booked.BookingStatus)
	assert.Equal(t, models.PaymentCompleted, booked.PaymentStatus)
	assert.Equal(t, float64(0), booked.TotalAmount)
	assert.Equal(t, models.AttendanceNotMarked, booked.AttendanceStatus)
	assert.Equal(t, "Community Meetup", booked.Event.Title)
	assert.True(t, store.registered["user-1"]["evt-free-000001"])
}

func TestPaidBookingStaysPending(t *testing.T) {
	engine, _ := newTestEngine(t, paidEvent(10, 500))

	booked, err := engine.Create(context.Background(), "user-1", validCmd("evt-paid-000002", 3))
	require.NoError(t, err)

	assert.Equal(t, models.BookingPending, booked.BookingStatus)
	assert.Equal(t, models.PaymentPending, booked.PaymentStatus)
	assert.Equal(t, float64(1500), booked.TotalAmount)

	// Pending bookings never count against capacity.
	spots, err := engine.RemainingSpots(context.Background(), "evt-paid-000002")
	require.NoError(t, err)
	assert.Equal(t, 0, spots.BookedTickets)
	assert.Equal(t, 10, spots.Remaining)
}

func TestTicketCountDefaultsToOne(t *testing.T) {
	engine, _ := newTestEngine(t, freeEvent(10))

	cmd := validCmd("evt-free-000001", 0)
	booked, err := engine.Create(context.Background(), "user-1", cmd)
	require.NoError(t, err)
	assert.Equal(t, 1, booked.TicketCount)
}

func TestCapacityGate(t *testing.T) {
	engine, _ := newTestEngine(t, freeEvent(10))
	ctx := context.Background()

	booked, err := engine.Create(ctx, "user-1", validCmd("evt-free-000001", 10))
	require.NoError(t, err)
	assert.Equal(t, 10, booked.TicketCount)

	spots, err := engine.RemainingSpots(ctx, "evt-free-000001")
	require.NoError(t, err)
	assert.Equal(t, models.Spots{Capacity: 10, BookedTickets: 10, Remaining: 0}, *spots)

	_, err = engine.Create(ctx, "user-2", validCmd("evt-free-000001", 1))
	var cap *errs.CapacityError
	require.ErrorAs(t, err, &cap)
	assert.Equal(t, 0, cap.Remaining)
}

func TestCapacityGateReportsRemaining(t *testing.T) {
	engine, _ := newTestEngine(t, freeEvent(10))
	ctx := context.Background()

	_, err := engine.Create(ctx, "user-1", validCmd("evt-free-000001", 7))
	require.NoError(t, err)

	_, err = engine.Create(ctx, "user-2", validCmd("evt-free-000001", 5))
	var cap *errs.CapacityError
	require.ErrorAs(t, err, &cap)
	assert.Equal(t, 3, cap.Remaining)
}

func TestNoOversellUnderConcurrency(t *testing.T) {
	const capacity = 20
	const workers = 100

	event := freeEvent(capacity)
	engine, store := newTestEngine(t, event)
	ctx := context.Background()

	var wg sync.WaitGroup
	successes := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := engine.Create(ctx, "user-1", validCmd(event.EventID, 1))
			if err == nil {
				successes <- 1
			} else {
				var cap *errs.CapacityError
				assert.ErrorAs(t, err, &cap)
			}
		}(i)
	}
	wg.Wait()
	close(successes)

	won := 0
	for range successes {
		won++
	}
	assert.Equal(t, capacity, won)

	total, err := store.ConfirmedTickets(ctx, event.EventID)
	require.NoError(t, err)
	assert.Equal(t, capacity, total)
}

func TestPersistenceFailureAfterGates(t *testing.T) {
	engine, store := newTestEngine(t, freeEvent(10))
	store.failInsert = true

	_, err := engine.Create(context.Background(), "user-1", validCmd("evt-free-000001", 1))
	var pe *errs.PersistenceError
	require.ErrorAs(t, err, &pe)

	// Nothing written: no booking, no relation entry.
	assert.Empty(t, store.bookings)
	assert.Empty(t, store.registered["user-1"])
}

func TestCancelChecks(t *testing.T) {
	engine, store := newTestEngine(t, freeEvent(10))
	ctx := context.Background()

	booked, err := engine.Create(ctx, "user-b", validCmd("evt-free-000001", 1))
	require.NoError(t, err)

	_, err = engine.Cancel(ctx, "user-a", booked.BookingID)
	var ae *errs.AuthorizationError
	require.ErrorAs(t, err, &ae)

	// Status unchanged by the rejected attempt.
	kept, err := store.BookingByID(ctx, booked.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, kept.BookingStatus)

	_, err = engine.Cancel(ctx, "user-a", "no-such-booking")
	var nf *errs.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestCancelAfterStart(t *testing.T) {
	event := freeEvent(10)
	engine, store := newTestEngine(t, event)
	ctx := context.Background()

	booked, err := engine.Create(ctx, "user-1", validCmd(event.EventID, 1))
	require.NoError(t, err)

	// Event starts before the cancel attempt.
	event.StartDateTime = testNow.Add(-time.Hour)
	store.mu.Lock()
	store.events[event.EventID] = event
	store.mu.Unlock()

	_, err = engine.Cancel(ctx, "user-1", booked.BookingID)
	var ce *errs.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Error(), "Cannot cancel booking after event has started")
}

func TestCancelFreesCapacityAndRelation(t *testing.T) {
	engine, store := newTestEngine(t, freeEvent(10))
	ctx := context.Background()

	booked, err := engine.Create(ctx, "user-1", validCmd("evt-free-000001", 4))
	require.NoError(t, err)

	cancelled, err := engine.Cancel(ctx, "user-1", booked.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.BookingStatus)
	// Payment status untouched by cancellation.
	assert.Equal(t, models.PaymentCompleted, cancelled.PaymentStatus)
	// Ticket id survives the status flip.
	assert.Equal(t, booked.TicketID, cancelled.TicketID)

	spots, err := engine.RemainingSpots(ctx, "evt-free-000001")
	require.NoError(t, err)
	assert.Equal(t, 0, spots.BookedTickets)
	assert.Equal(t, 10, spots.Remaining)

	assert.False(t, store.registered["user-1"]["evt-free-000001"])

	// No transition out of cancelled.
	_, err = engine.Cancel(ctx, "user-1", booked.BookingID)
	var ce *errs.ConflictError
	assert.ErrorAs(t, err, &ce)
}

func TestRebookingKeepsRelationASet(t *testing.T) {
	engine, store := newTestEngine(t, freeEvent(10))
	ctx := context.Background()

	first, err := engine.Create(ctx, "user-1", validCmd("evt-free-000001", 1))
	require.NoError(t, err)
	_, err = engine.Create(ctx, "user-1", validCmd("evt-free-000001", 1))
	require.NoError(t, err)

	assert.Len(t, store.registered["user-1"], 1)

	// Cancelling one booking removes the single relation entry.
	_, err = engine.Cancel(ctx, "user-1", first.BookingID)
	require.NoError(t, err)
	assert.Empty(t, store.registered["user-1"])
}

func TestBookingsForOrganizerOwnership(t *testing.T) {
	event := freeEvent(10)
	engine, _ := newTestEngine(t, event)
	ctx := context.Background()

	booked, err := engine.Create(ctx, "user-1", validCmd(event.EventID, 2))
	require.NoError(t, err)
	cancelled, err := engine.Create(ctx, "user-2", validCmd(event.EventID, 1))
	require.NoError(t, err)
	_, err = engine.Cancel(ctx, "user-2", cancelled.BookingID)
	require.NoError(t, err)

	rows, err := engine.BookingsForOrganizer(ctx, "org-1", event.EventID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, booked.BookingID, rows[0].BookingID)

	// Non-owners and missing events produce the same message so listing a
	// foreign event id does not reveal whether it exists.
	_, err = engine.BookingsForOrganizer(ctx, "org-2", event.EventID)
	var ae *errs.AuthorizationError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Event not found or no access", err.Error())

	_, err = engine.BookingsForOrganizer(ctx, "org-1", "missing")
	var nf *errs.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Event not found or no access", err.Error())
}

func TestMarkAttendance(t *testing.T) {
	event := freeEvent(10)
	engine, store := newTestEngine(t, event)
	ctx := context.Background()

	booked, err := engine.Create(ctx, "user-1", validCmd(event.EventID, 1))
	require.NoError(t, err)

	_, err = engine.MarkAttendance(ctx, "org-1", booked.BookingID, "late")
	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = engine.MarkAttendance(ctx, "org-2", booked.BookingID, models.AttendancePresent)
	var ae *errs.AuthorizationError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Event not found or no access", err.Error())

	// Rejected attempts leave the booking untouched.
	kept, err := store.BookingByID(ctx, booked.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceNotMarked, kept.AttendanceStatus)

	marked, err := engine.MarkAttendance(ctx, "org-1", booked.BookingID, models.AttendancePresent)
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, marked.AttendanceStatus)

	stored, err := store.BookingByID(ctx, booked.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, stored.AttendanceStatus)

	_, err = engine.MarkAttendance(ctx, "org-1", "missing", models.AttendanceAbsent)
	var nfb *errs.NotFoundError
	assert.ErrorAs(t, err, &nfb)
}

func TestRemainingSpotsUnknownEvent(t *testing.T) {
	engine, _ := newTestEngine(t)
	_, err := engine.RemainingSpots(context.Background(), "missing")
	var nf *errs.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestBroadcastFiresOnCreateAndCancel(t *testing.T) {
	engine, _ := newTestEngine(t, freeEvent(10))
	ctx := context.Background()

	var mu sync.Mutex
	var updates []models.Spots
	engine.SetBroadcast(func(eventID string, spots models.Spots) {
		mu.Lock()
		updates = append(updates, spots)
		mu.Unlock()
	})

	booked, err := engine.Create(ctx, "user-1", validCmd("evt-free-000001", 3))
	require.NoError(t, err)
	_, err = engine.Cancel(ctx, "user-1", booked.BookingID)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, updates, 2)
	assert.Equal(t, 7, updates[0].Remaining)
	assert.Equal(t, 10, updates[1].Remaining)
}
