package models

import "time"

// Event lifecycle states.
const (
	EventDraft     = "draft"
	EventUpcoming  = "upcoming"
	EventOngoing   = "ongoing"
	EventCompleted = "completed"
	EventCanceled  = "canceled"
)

// Entry types.
const (
	EntryFree = "free"
	EntryPaid = "paid"
)

// Event modes.
const (
	ModeOnline  = "online"
	ModeOffline = "offline"
	ModeHybrid  = "hybrid"
)

type Event struct {
	EventID              string    `json:"eventid" bson:"eventid"`
	Title                string    `json:"title" bson:"title"`
	Description          string    `json:"description" bson:"description"`
	Banner               string    `json:"banner" bson:"banner"`
	StartDateTime        time.Time `json:"start_date_time" bson:"start_date_time"`
	EndDateTime          time.Time `json:"end_date_time" bson:"end_date_time"`
	RegistrationDeadline time.Time `json:"registration_deadline" bson:"registration_deadline"`
	MaxParticipants      int       `json:"max_participants" bson:"max_participants"`
	EntryType            string    `json:"entry_type" bson:"entry_type"`
	TicketPrice          float64   `json:"ticket_price,omitempty" bson:"ticket_price,omitempty"`
	Mode                 string    `json:"mode" bson:"mode"`
	Venue                string    `json:"venue,omitempty" bson:"venue,omitempty"`
	StreamingLink        string    `json:"streaming_link,omitempty" bson:"streaming_link,omitempty"`
	Status               string    `json:"status" bson:"status"`
	Category             string    `json:"category,omitempty" bson:"category,omitempty"`
	Tags                 []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	OrganizerID          string    `json:"organizerid" bson:"organizerid"`
	CreatedAt            time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" bson:"updated_at"`
}

// EventView is the restricted event projection joined onto booking responses.
type EventView struct {
	EventID       string    `json:"eventid" bson:"eventid"`
	Title         string    `json:"title" bson:"title"`
	Banner        string    `json:"banner" bson:"banner"`
	StartDateTime time.Time `json:"start_date_time" bson:"start_date_time"`
	Venue         string    `json:"venue,omitempty" bson:"venue,omitempty"`
	Mode          string    `json:"mode" bson:"mode"`
	EntryType     string    `json:"entry_type" bson:"entry_type"`
}

func (e *Event) View() EventView {
	return EventView{
		EventID:       e.EventID,
		Title:         e.Title,
		Banner:        e.Banner,
		StartDateTime: e.StartDateTime,
		Venue:         e.Venue,
		Mode:          e.Mode,
		EntryType:     e.EntryType,
	}
}

func ValidEventStatus(s string) bool {
	switch s {
	case EventDraft, EventUpcoming, EventOngoing, EventCompleted, EventCanceled:
		return true
	}
	return false
}

func ValidEntryType(s string) bool {
	return s == EntryFree || s == EntryPaid
}

func ValidMode(s string) bool {
	switch s {
	case ModeOnline, ModeOffline, ModeHybrid:
		return true
	}
	return false
}
