package events

import (
	"strings"
	"time"

	"interlink/errs"
	"interlink/models"
)

// validateEvent checks the field and cross-field rules for a new or edited
// event. Capacity is validated here but fixed after creation.
func validateEvent(event *models.Event) error {
	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return errs.Validation("Title is required")
	}
	if event.StartDateTime.IsZero() || event.EndDateTime.IsZero() {
		return errs.Validation("Start and end date-times are required")
	}
	if !event.EndDateTime.After(event.StartDateTime) {
		return errs.Validation("End time must be after start time")
	}
	if event.RegistrationDeadline.IsZero() {
		return errs.Validation("Registration deadline is required")
	}
	if event.RegistrationDeadline.After(event.StartDateTime) {
		return errs.Validation("Registration deadline must not be after the start time")
	}
	if event.MaxParticipants < 1 {
		return errs.Validation("maxParticipants must be at least 1")
	}
	if !models.ValidEntryType(event.EntryType) {
		return errs.Validation("Entry type must be free or paid")
	}
	if event.EntryType == models.EntryPaid && event.TicketPrice <= 0 {
		return errs.Validation("Ticket price is required for paid events")
	}
	if event.EntryType == models.EntryFree {
		event.TicketPrice = 0
	}
	if !models.ValidMode(event.Mode) {
		return errs.Validation("Mode must be online, offline or hybrid")
	}
	if (event.Mode == models.ModeOffline || event.Mode == models.ModeHybrid) && strings.TrimSpace(event.Venue) == "" {
		return errs.Validation("Venue is required for offline and hybrid events")
	}
	if (event.Mode == models.ModeOnline || event.Mode == models.ModeHybrid) && strings.TrimSpace(event.StreamingLink) == "" {
		return errs.Validation("Streaming link is required for online and hybrid events")
	}
	return nil
}

// statusTransitions holds the allowed lifecycle moves. Events are never
// physically deleted.
var statusTransitions = map[string][]string{
	models.EventDraft:    {models.EventUpcoming, models.EventCanceled},
	models.EventUpcoming: {models.EventOngoing, models.EventCanceled},
	models.EventOngoing:  {models.EventCompleted, models.EventCanceled},
}

func canTransition(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func nowUTC() time.Time { return time.Now().UTC() }
