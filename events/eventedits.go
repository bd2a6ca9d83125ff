package events

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"interlink/db"
	"interlink/errs"
	"interlink/models"
	"interlink/mq"
	"interlink/rdx"
	"interlink/utils"
)

// EditEvent updates mutable fields on an owned event. Capacity is fixed at
// creation and cannot be edited.
func EditEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")
	organizerID := utils.GetUserIDFromRequest(r)

	var existing models.Event
	err := db.EventsCollection.FindOne(context.TODO(), bson.M{"eventid": eventID}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		errs.Respond(w, errs.NotFound("Event not found"))
		return
	}
	if err != nil {
		errs.Respond(w, errs.Persistence("get event", err))
		return
	}
	if existing.OrganizerID != organizerID {
		errs.Respond(w, errs.Authorization("Only the owning organizer can edit this event"))
		return
	}

	var patch models.Event
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		errs.Respond(w, errs.Validation("Invalid input"))
		return
	}

	updated := existing
	if patch.Title != "" {
		updated.Title = patch.Title
	}
	if patch.Description != "" {
		updated.Description = patch.Description
	}
	if !patch.StartDateTime.IsZero() {
		updated.StartDateTime = patch.StartDateTime.UTC()
	}
	if !patch.EndDateTime.IsZero() {
		updated.EndDateTime = patch.EndDateTime.UTC()
	}
	if !patch.RegistrationDeadline.IsZero() {
		updated.RegistrationDeadline = patch.RegistrationDeadline.UTC()
	}
	if patch.EntryType != "" {
		updated.EntryType = patch.EntryType
	}
	if patch.TicketPrice != 0 {
		updated.TicketPrice = patch.TicketPrice
	}
	if patch.Mode != "" {
		updated.Mode = patch.Mode
	}
	if patch.Venue != "" {
		updated.Venue = patch.Venue
	}
	if patch.StreamingLink != "" {
		updated.StreamingLink = patch.StreamingLink
	}
	if patch.Category != "" {
		updated.Category = patch.Category
	}
	if patch.Tags != nil {
		updated.Tags = patch.Tags
	}
	updated.MaxParticipants = existing.MaxParticipants
	updated.UpdatedAt = nowUTC()

	if err := validateEvent(&updated); err != nil {
		errs.Respond(w, err)
		return
	}

	_, err = db.EventsCollection.ReplaceOne(context.TODO(), bson.M{"eventid": eventID}, updated)
	if err != nil {
		errs.Respond(w, errs.Persistence("update event", err))
		return
	}

	rdx.RdxDel("event:" + eventID)
	mq.Emit("event-updated", models.Index{EntityType: "event", EntityId: eventID, Method: "PUT"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": updated})
}

// UpdateEventStatus moves an owned event through its lifecycle. Events are
// canceled, never deleted.
func UpdateEventStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")
	organizerID := utils.GetUserIDFromRequest(r)

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Status == "" {
		errs.Respond(w, errs.Validation("Status is required"))
		return
	}
	if !models.ValidEventStatus(input.Status) {
		errs.Respond(w, errs.Validation("Invalid event status"))
		return
	}

	var existing models.Event
	err := db.EventsCollection.FindOne(context.TODO(), bson.M{"eventid": eventID}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		errs.Respond(w, errs.NotFound("Event not found"))
		return
	}
	if err != nil {
		errs.Respond(w, errs.Persistence("get event", err))
		return
	}
	if existing.OrganizerID != organizerID {
		errs.Respond(w, errs.Authorization("Only the owning organizer can change event status"))
		return
	}

	if !canTransition(existing.Status, input.Status) {
		errs.Respond(w, errs.Conflict("Cannot move event from "+existing.Status+" to "+input.Status))
		return
	}

	_, err = db.EventsCollection.UpdateOne(
		context.TODO(),
		bson.M{"eventid": eventID},
		bson.M{"$set": bson.M{"status": input.Status, "updated_at": nowUTC()}},
	)
	if err != nil {
		errs.Respond(w, errs.Persistence("update event status", err))
		return
	}

	rdx.RdxDel("event:" + eventID)
	mq.Emit("event-status-changed", models.Index{EntityType: "event", EntityId: eventID, Method: "PUT", ItemType: input.Status})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": utils.M{"eventid": eventID, "status": input.Status}})
}
