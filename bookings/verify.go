package bookings

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"interlink/errs"
	"interlink/globals"
	"interlink/models"
	"interlink/utils"
)

const allowedDrift = 24 * 60 * 60 // seconds; tickets are checked on event day

// SignQRPayload returns eventID|bookingID|ticketID|timestamp|signature.
func SignQRPayload(eventID, bookingID, ticketID string) string {
	timestamp := time.Now().Unix()
	data := fmt.Sprintf("%s|%s|%s|%d", eventID, bookingID, ticketID, timestamp)

	h := hmac.New(sha256.New, globals.QrSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return fmt.Sprintf("%s|%s", data, sig)
}

// VerifyQRPayload checks the signature and drift window of a scanned payload.
func VerifyQRPayload(payload string) (eventID, bookingID, ticketID string, err error) {
	parts := strings.Split(payload, "|")
	if len(parts) != 5 {
		return "", "", "", errors.New("invalid QR format")
	}

	eventID = parts[0]
	bookingID = parts[1]
	ticketID = parts[2]
	timestampStr := parts[3]
	signature := parts[4]

	ts, err := strconv.ParseInt(timestampStr, 10, 64)
	if err != nil {
		return "", "", "", errors.New("invalid timestamp")
	}

	now := time.Now().Unix()
	if abs(now-ts) > allowedDrift {
		return "", "", "", errors.New("ticket expired or from the future")
	}

	data := fmt.Sprintf("%s|%s|%s|%s", eventID, bookingID, ticketID, timestampStr)
	h := hmac.New(sha256.New, globals.QrSecret)
	h.Write([]byte(data))
	expectedSig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expectedSig)) {
		return "", "", "", errors.New("invalid signature")
	}

	return eventID, bookingID, ticketID, nil
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// VerifyScan resolves a scanned QR payload to its booking. Only the organizer
// who owns the event can resolve its tickets.
func (e *Engine) VerifyScan(ctx context.Context, organizerID, payload string) (*models.Booking, error) {
	eventID, bookingID, ticketID, err := VerifyQRPayload(payload)
	if err != nil {
		return nil, errs.Validation(err.Error())
	}

	booking, err := e.store.BookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if _, err := e.ownedEvent(ctx, organizerID, booking.EventID); err != nil {
		return nil, err
	}
	if booking.EventID != eventID || booking.TicketID != ticketID {
		return nil, errs.Validation("Ticket does not match booking")
	}
	return booking, nil
}

// GET /api/bookings/verify?payload=... — organizer-side QR check at the door.
func VerifyTicket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	organizerID := utils.GetUserIDFromRequest(r)
	if organizerID == "" {
		errs.Respond(w, errs.Authorization("Invalid user"))
		return
	}

	payload := r.URL.Query().Get("payload")
	if payload == "" {
		errs.Respond(w, errs.Validation("payload is required"))
		return
	}

	booking, err := Bkg.VerifyScan(r.Context(), organizerID, payload)
	if err != nil {
		errs.Respond(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": booking})
}
