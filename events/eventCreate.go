package events

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"interlink/db"
	"interlink/errs"
	"interlink/models"
	"interlink/mq"
	"interlink/utils"
)

var eventpicUploadPath = "./static/eventpic"

func CreateEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Parse multipart form
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		errs.Respond(w, errs.Validation("Unable to parse form"))
		return
	}

	if r.FormValue("event") == "" {
		errs.Respond(w, errs.Validation("Missing event data"))
		return
	}

	var event models.Event
	if err := json.Unmarshal([]byte(r.FormValue("event")), &event); err != nil {
		errs.Respond(w, errs.Validation("Invalid event data"))
		return
	}

	organizerID := utils.GetUserIDFromRequest(r)
	if organizerID == "" {
		errs.Respond(w, errs.Authorization("Invalid user"))
		return
	}

	event.OrganizerID = organizerID
	event.EventID = utils.GenerateID(14)
	event.CreatedAt = nowUTC()
	event.UpdatedAt = event.CreatedAt
	event.StartDateTime = event.StartDateTime.UTC()
	event.EndDateTime = event.EndDateTime.UTC()
	event.RegistrationDeadline = event.RegistrationDeadline.UTC()
	if event.Status == "" {
		event.Status = models.EventUpcoming
	}
	if event.Status != models.EventDraft && event.Status != models.EventUpcoming {
		errs.Respond(w, errs.Validation("New events must be draft or upcoming"))
		return
	}

	if err := validateEvent(&event); err != nil {
		errs.Respond(w, err)
		return
	}

	// Check for EventID collisions
	exists := db.EventsCollection.FindOne(context.TODO(), bson.M{"eventid": event.EventID}).Err()
	if exists == nil {
		errs.Respond(w, errs.Conflict("Event id collision, please retry"))
		return
	}

	if banner, err := saveBanner(r, event.EventID); err != nil {
		errs.Respond(w, err)
		return
	} else if banner != "" {
		event.Banner = banner
	}

	if _, err := db.EventsCollection.InsertOne(context.TODO(), event); err != nil {
		errs.Respond(w, errs.Persistence("insert event", err))
		return
	}

	mq.Emit("event-created", models.Index{EntityType: "event", EntityId: event.EventID, Method: "POST"})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "data": event})
}

// saveBanner stores an optional banner upload and renders its thumbnail.
// Returns the stored filename, or "" when no banner was sent.
func saveBanner(r *http.Request, eventID string) (string, error) {
	bannerFile, _, err := r.FormFile("banner")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", errs.Validation("Error retrieving banner file")
	}
	defer bannerFile.Close()

	// Validate file type
	buff := make([]byte, 512)
	if _, err := bannerFile.Read(buff); err != nil {
		return "", errs.Persistence("read banner", err)
	}
	contentType := http.DetectContentType(buff)
	if !strings.HasPrefix(contentType, "image/") {
		return "", errs.Validation("Banner must be an image")
	}
	bannerFile.Seek(0, io.SeekStart)

	dir := filepath.Join(eventpicUploadPath, "banner")
	if err := utils.EnsureDir(dir); err != nil {
		return "", errs.Persistence("create banner directory", err)
	}

	filename := eventID + ".jpg"
	out, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", errs.Persistence("save banner", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, bannerFile); err != nil {
		return "", errs.Persistence("save banner", err)
	}

	if err := utils.CreateThumb(eventID, dir, ".jpg", 300, 200); err != nil {
		log.Printf("Failed to create banner thumbnail for %s: %v", eventID, err)
	}

	return filename, nil
}
