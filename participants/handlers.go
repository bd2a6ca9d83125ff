package participants

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"interlink/bookings"
	"interlink/errs"
	"interlink/models"
	"interlink/mq"
	"interlink/utils"
)

// GET /api/participants/event/:eventid
func ListParticipants(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	organizerID := utils.GetUserIDFromRequest(r)
	eventID := ps.ByName("eventid")

	rows, err := bookings.Bkg.BookingsForOrganizer(r.Context(), organizerID, eventID)
	if err != nil {
		errs.Respond(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": Derive(rows)})
}

// POST /api/participants/attendance/:bookingid
func MarkAttendance(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	organizerID := utils.GetUserIDFromRequest(r)
	bookingID := ps.ByName("bookingid")

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errs.Respond(w, errs.Validation("Invalid request body"))
		return
	}

	booking, err := bookings.Bkg.MarkAttendance(r.Context(), organizerID, bookingID, input.Status)
	if err != nil {
		errs.Respond(w, err)
		return
	}

	mq.Emit("attendance-marked", models.Index{
		EntityType: "booking", EntityId: bookingID,
		Method: "POST", ItemType: "event", ItemId: booking.EventID,
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"data":    utils.M{"bookingid": bookingID, "attendance_status": booking.AttendanceStatus},
	})
}

// GET /api/participants/export/:eventid — CSV of the derived participant list.
func ExportParticipants(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	organizerID := utils.GetUserIDFromRequest(r)
	eventID := ps.ByName("eventid")

	rows, err := bookings.Bkg.BookingsForOrganizer(r.Context(), organizerID, eventID)
	if err != nil {
		errs.Respond(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=participants-%s.csv", eventID))

	if err := WriteCSV(w, Derive(rows)); err != nil {
		errs.Respond(w, errs.Persistence("write csv", err))
	}
}

// WriteCSV serializes the derived participant list. Purely a reshaping of the
// same rows ListParticipants returns.
func WriteCSV(w interface{ Write([]byte) (int, error) }, participants []models.Participant) error {
	cw := csv.NewWriter(w)

	header := []string{"ticket_id", "name", "email", "phone", "attendee_type", "ticket_count", "booking_status", "payment_status", "attendance_status"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, p := range participants {
		record := []string{
			p.TicketID,
			p.Name,
			p.Email,
			p.Phone,
			p.AttendeeType,
			strconv.Itoa(p.TicketCount),
			p.BookingStatus,
			p.PaymentStatus,
			p.AttendanceStatus,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
