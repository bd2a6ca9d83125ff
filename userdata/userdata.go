package userdata

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"interlink/db"
)

// AddRegisteredEvent records the event on the user's registered-events set.
// $addToSet keeps the relation a set: booking the same event twice never
// duplicates the entry.
func AddRegisteredEvent(ctx context.Context, userID, eventID string) error {
	_, err := db.UserCollection.UpdateOne(
		ctx,
		bson.M{"userid": userID},
		bson.M{"$addToSet": bson.M{"events_registered": eventID}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to add registered event: %w", err)
	}
	return nil
}

// RemoveRegisteredEvent drops the event from the user's registered-events set.
func RemoveRegisteredEvent(ctx context.Context, userID, eventID string) error {
	_, err := db.UserCollection.UpdateOne(
		ctx,
		bson.M{"userid": userID},
		bson.M{"$pull": bson.M{"events_registered": eventID}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove registered event: %w", err)
	}
	return nil
}

// RegisteredEvents returns the user's registered event ids.
func RegisteredEvents(ctx context.Context, userID string) ([]string, error) {
	var user struct {
		EventsRegistered []string `bson:"events_registered"`
	}
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user)
	if err != nil {
		return nil, err
	}
	if user.EventsRegistered == nil {
		return []string{}, nil
	}
	return user.EventsRegistered, nil
}
