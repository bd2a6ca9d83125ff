package participants

import (
	"fmt"

	"interlink/models"
)

// Derive expands bookings into the participant list. Each non-cancelled
// booking yields one primary record plus one record per additional
// participant. Attendance is tracked at booking granularity, so synthesized
// records always report not_marked; their ticket ids get ordinal suffixes.
func Derive(bookings []models.Booking) []models.Participant {
	participants := []models.Participant{}
	for _, b := range bookings {
		if b.BookingStatus == models.BookingCancelled {
			continue
		}

		participants = append(participants, models.Participant{
			TicketID:         b.TicketID,
			Name:             b.Contact.Name,
			Email:            b.Contact.Email,
			Phone:            b.Contact.Phone,
			AttendeeType:     b.Contact.AttendeeType,
			TicketCount:      b.TicketCount,
			BookingStatus:    b.BookingStatus,
			PaymentStatus:    b.PaymentStatus,
			AttendanceStatus: b.AttendanceStatus,
			BookingID:        b.BookingID,
			IsPrimary:        true,
		})

		for i, extra := range b.AdditionalParticipants {
			participants = append(participants, models.Participant{
				TicketID:         fmt.Sprintf("%s-%d", b.TicketID, i+1),
				Name:             extra.Name,
				Email:            extra.Email,
				TicketCount:      0,
				BookingStatus:    b.BookingStatus,
				PaymentStatus:    b.PaymentStatus,
				AttendanceStatus: models.AttendanceNotMarked,
				BookingID:        b.BookingID,
				IsPrimary:        false,
			})
		}
	}
	return participants
}
