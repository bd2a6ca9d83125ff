package models

import "time"

// Booking statuses. Confirmed is the only state that counts against capacity.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Attendance statuses.
const (
	AttendancePresent   = "present"
	AttendanceAbsent    = "absent"
	AttendanceNotMarked = "not_marked"
)

// Attendee types.
const (
	AttendeeStudent      = "student"
	AttendeeProfessional = "professional"
	AttendeeOther        = "other"
)

// Contact is the primary participant on a booking.
type Contact struct {
	Name         string `json:"name" bson:"name"`
	Email        string `json:"email" bson:"email"`
	Phone        string `json:"phone" bson:"phone"`
	AttendeeType string `json:"attendee_type" bson:"attendee_type"`
}

// AdditionalParticipant is a guest on a booking; no phone required.
type AdditionalParticipant struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
}

type Booking struct {
	BookingID              string                  `json:"bookingid" bson:"bookingid"`
	TicketID               string                  `json:"ticketid" bson:"ticketid"`
	UserID                 string                  `json:"userid" bson:"userid"`
	EventID                string                  `json:"eventid" bson:"eventid"`
	Contact                Contact                 `json:"contact" bson:"contact"`
	AdditionalParticipants []AdditionalParticipant `json:"additional_participants,omitempty" bson:"additional_participants,omitempty"`
	TicketCount            int                     `json:"ticket_count" bson:"ticket_count"`
	TotalAmount            float64                 `json:"total_amount" bson:"total_amount"`
	PaymentStatus          string                  `json:"payment_status" bson:"payment_status"`
	BookingStatus          string                  `json:"booking_status" bson:"booking_status"`
	AttendanceStatus       string                  `json:"attendance_status" bson:"attendance_status"`
	CreatedAt              time.Time               `json:"created_at" bson:"created_at"`
	UpdatedAt              time.Time               `json:"updated_at" bson:"updated_at"`
}

// BookingWithEvent joins a booking with the restricted event view for display.
type BookingWithEvent struct {
	Booking `bson:",inline"`
	Event   EventView `json:"event" bson:"event"`
}

// Spots is the availability report for one event. Remaining is never clamped so
// callers can detect historical overbooking.
type Spots struct {
	Capacity      int `json:"capacity"`
	BookedTickets int `json:"bookedTickets"`
	Remaining     int `json:"remaining"`
}

// Participant is one derived row of an event's participant list.
type Participant struct {
	TicketID         string `json:"ticketid"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	AttendeeType     string `json:"attendee_type,omitempty"`
	TicketCount      int    `json:"ticket_count"`
	BookingStatus    string `json:"booking_status"`
	PaymentStatus    string `json:"payment_status"`
	AttendanceStatus string `json:"attendance_status"`
	BookingID        string `json:"bookingid"`
	IsPrimary        bool   `json:"is_primary"`
}

func ValidAttendanceStatus(s string) bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceNotMarked:
		return true
	}
	return false
}

func ValidAttendeeType(s string) bool {
	switch s {
	case AttendeeStudent, AttendeeProfessional, AttendeeOther:
		return true
	}
	return false
}
