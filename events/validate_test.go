package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interlink/models"
)

func validEvent() models.Event {
	start := time.Date(2025, 9, 10, 18, 0, 0, 0, time.UTC)
	return models.Event{
		Title:                "Tech Conference",
		StartDateTime:        start,
		EndDateTime:          start.Add(3 * time.Hour),
		RegistrationDeadline: start.Add(-24 * time.Hour),
		MaxParticipants:      100,
		EntryType:            models.EntryPaid,
		TicketPrice:          250,
		Mode:                 models.ModeHybrid,
		Venue:                "Convention Center",
		StreamingLink:        "https://stream.example.com/tc",
	}
}

func TestValidateEventAcceptsValid(t *testing.T) {
	e := validEvent()
	require.NoError(t, validateEvent(&e))
}

func TestValidateEventRules(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*models.Event)
	}{
		{"blank title", func(e *models.Event) { e.Title = "   " }},
		{"missing start", func(e *models.Event) { e.StartDateTime = time.Time{} }},
		{"end before start", func(e *models.Event) { e.EndDateTime = e.StartDateTime.Add(-time.Hour) }},
		{"end equals start", func(e *models.Event) { e.EndDateTime = e.StartDateTime }},
		{"missing deadline", func(e *models.Event) { e.RegistrationDeadline = time.Time{} }},
		{"deadline after start", func(e *models.Event) { e.RegistrationDeadline = e.StartDateTime.Add(time.Hour) }},
		{"zero capacity", func(e *models.Event) { e.MaxParticipants = 0 }},
		{"bad entry type", func(e *models.Event) { e.EntryType = "donation" }},
		{"paid without price", func(e *models.Event) { e.TicketPrice = 0 }},
		{"bad mode", func(e *models.Event) { e.Mode = "in-person" }},
		{"offline without venue", func(e *models.Event) { e.Mode = models.ModeOffline; e.Venue = "" }},
		{"online without stream", func(e *models.Event) { e.Mode = models.ModeOnline; e.StreamingLink = "" }},
		{"hybrid without venue", func(e *models.Event) { e.Venue = "" }},
		{"hybrid without stream", func(e *models.Event) { e.StreamingLink = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := validEvent()
			tc.mut(&e)
			assert.Error(t, validateEvent(&e))
		})
	}
}

func TestValidateEventZeroesFreePrice(t *testing.T) {
	e := validEvent()
	e.EntryType = models.EntryFree
	e.TicketPrice = 50
	require.NoError(t, validateEvent(&e))
	assert.Equal(t, float64(0), e.TicketPrice)
}

func TestStatusTransitions(t *testing.T) {
	allowed := [][2]string{
		{models.EventDraft, models.EventUpcoming},
		{models.EventDraft, models.EventCanceled},
		{models.EventUpcoming, models.EventOngoing},
		{models.EventUpcoming, models.EventCanceled},
		{models.EventOngoing, models.EventCompleted},
		{models.EventOngoing, models.EventCanceled},
	}
	for _, pair := range allowed {
		assert.True(t, canTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}

	denied := [][2]string{
		{models.EventDraft, models.EventOngoing},
		{models.EventUpcoming, models.EventDraft},
		{models.EventCompleted, models.EventOngoing},
		{models.EventCanceled, models.EventUpcoming},
		{models.EventCompleted, models.EventCanceled},
	}
	for _, pair := range denied {
		assert.False(t, canTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}
}
