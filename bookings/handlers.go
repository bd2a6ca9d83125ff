package bookings

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"interlink/errs"
	"interlink/models"
	"interlink/mq"
	"interlink/utils"
)

// POST /api/bookings/create
func CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		errs.Respond(w, errs.Authorization("Invalid user"))
		return
	}

	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		errs.Respond(w, errs.Validation("Invalid request body"))
		return
	}

	booked, err := Bkg.Create(r.Context(), userID, cmd)
	if err != nil {
		errs.Respond(w, err)
		return
	}

	mq.Emit("booking-created", models.Index{
		EntityType: "booking", EntityId: booked.BookingID,
		Method: "POST", ItemType: "event", ItemId: booked.EventID,
	})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "data": booked})
}

// PUT /api/bookings/cancel/:id
func CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		errs.Respond(w, errs.Authorization("Invalid user"))
		return
	}

	booking, err := Bkg.Cancel(r.Context(), userID, ps.ByName("id"))
	if err != nil {
		errs.Respond(w, err)
		return
	}

	mq.Emit("booking-cancelled", models.Index{
		EntityType: "booking", EntityId: booking.BookingID,
		Method: "PUT", ItemType: "event", ItemId: booking.EventID,
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": booking})
}

// GET /api/bookings/remaining-spots/:eventid
func RemainingSpots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	spots, err := Bkg.RemainingSpots(r.Context(), ps.ByName("eventid"))
	if err != nil {
		errs.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": spots})
}

// GET /api/bookings/my-tickets
func MyTickets(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		errs.Respond(w, errs.Authorization("Invalid user"))
		return
	}

	bookings, err := Bkg.store.BookingsByUser(r.Context(), userID)
	if err != nil {
		errs.Respond(w, err)
		return
	}

	tickets := make([]models.BookingWithEvent, 0, len(bookings))
	for _, b := range bookings {
		view := eventViewOrZero(r.Context(), b.EventID)
		tickets = append(tickets, models.BookingWithEvent{Booking: b, Event: view})
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": tickets})
}

// GET /api/bookings/:id and /api/bookings/details/:id
func GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		errs.Respond(w, errs.Authorization("Invalid user"))
		return
	}

	booking, err := Bkg.store.BookingByID(r.Context(), ps.ByName("id"))
	if err != nil {
		errs.Respond(w, err)
		return
	}
	if booking.UserID != userID {
		errs.Respond(w, errs.Authorization("Only the booking owner can view it"))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"data":    models.BookingWithEvent{Booking: *booking, Event: eventViewOrZero(r.Context(), booking.EventID)},
	})
}

// eventViewOrZero joins the restricted event view onto booking reads. A
// missing event leaves the view empty rather than failing the listing.
func eventViewOrZero(ctx context.Context, eventID string) models.EventView {
	event, err := Bkg.store.EventByID(ctx, eventID)
	if err != nil {
		return models.EventView{EventID: eventID}
	}
	return event.View()
}
