package events

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"interlink/db"
	"interlink/errs"
	"interlink/models"
	"interlink/rdx"
	"interlink/utils"
)

func GetEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page := 1
	limit := 10
	if parsed, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && parsed > 0 {
		page = parsed
	}
	if parsed, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && parsed > 0 {
		limit = parsed
	}

	int64Limit := int64(limit)
	int64Skip := int64((page - 1) * limit)

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.ValidEventStatus(status) {
			errs.Respond(w, errs.Validation("Invalid event status filter"))
			return
		}
		filter["status"] = status
	}

	cursor, err := db.EventsCollection.Find(context.TODO(), filter, &options.FindOptions{
		Skip:  &int64Skip,
		Limit: &int64Limit,
		Sort:  bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		errs.Respond(w, errs.Persistence("list events", err))
		return
	}
	defer cursor.Close(context.TODO())

	var events []models.Event
	if err = cursor.All(context.TODO(), &events); err != nil {
		errs.Respond(w, errs.Persistence("decode events", err))
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": events, "page": page, "limit": limit})
}

func GetEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("eventid")

	var event models.Event
	if cached, err := rdx.RdxGet("event:" + id); err == nil && cached != "" {
		if err := json.Unmarshal([]byte(cached), &event); err != nil {
			event = models.Event{}
		}
	}

	if event.EventID == "" {
		err := db.EventsCollection.FindOne(context.TODO(), bson.M{"eventid": id}).Decode(&event)
		if err == mongo.ErrNoDocuments {
			errs.Respond(w, errs.NotFound("Event not found"))
			return
		}
		if err != nil {
			errs.Respond(w, errs.Persistence("get event", err))
			return
		}
		if data, err := json.Marshal(event); err == nil {
			rdx.SetWithExpiry("event:"+id, string(data), 10*time.Minute)
		}
	}

	// Drafts are visible to the owning organizer only.
	if event.Status == models.EventDraft && event.OrganizerID != utils.GetUserIDFromRequest(r) {
		errs.Respond(w, errs.NotFound("Event not found"))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": event})
}
