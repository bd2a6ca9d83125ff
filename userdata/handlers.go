package userdata

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"

	"interlink/errs"
	"interlink/utils"
)

// GET /api/user/registered-events
func MyRegisteredEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		errs.Respond(w, errs.Authorization("Invalid user"))
		return
	}

	eventIDs, err := RegisteredEvents(r.Context(), userID)
	if err == mongo.ErrNoDocuments {
		eventIDs = []string{}
	} else if err != nil {
		errs.Respond(w, errs.Persistence("get registered events", err))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": eventIDs})
}
