package bookings

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"interlink/errs"
	"interlink/utils"
)

// GET /api/bookings/print/:id — printable PDF ticket with a signed QR code.
func PrintTicket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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
		errs.Respond(w, errs.Authorization("Only the booking owner can print the ticket"))
		return
	}

	event, err := Bkg.store.EventByID(r.Context(), booking.EventID)
	if err != nil {
		errs.Respond(w, err)
		return
	}

	qrPayload := SignQRPayload(booking.EventID, booking.BookingID, booking.TicketID)
	qrPNG, err := qrcode.Encode(qrPayload, qrcode.Medium, 256)
	if err != nil {
		errs.Respond(w, errs.Persistence("generate QR code", err))
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Event Ticket")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Event: %s", event.Title))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Starts: %s", event.StartDateTime.Format("2 Jan 2006 15:04 MST")))
	pdf.Ln(8)
	if event.Venue != "" {
		pdf.Cell(0, 10, fmt.Sprintf("Venue: %s", event.Venue))
		pdf.Ln(8)
	}
	pdf.Cell(0, 10, fmt.Sprintf("Name: %s", booking.Contact.Name))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Tickets: %d", booking.TicketCount))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Ticket ID: %s", booking.TicketID))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		errs.Respond(w, errs.Persistence("generate PDF", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=ticket-"+booking.TicketID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
