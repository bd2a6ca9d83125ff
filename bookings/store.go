package bookings

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"interlink/db"
	"interlink/errs"
	"interlink/models"
	"interlink/userdata"
)

// mongoStore backs the engine with the shared Mongo collections.
type mongoStore struct{}

func (mongoStore) EventByID(ctx context.Context, eventID string) (*models.Event, error) {
	var event models.Event
	err := db.EventsCollection.FindOne(ctx, bson.M{"eventid": eventID}).Decode(&event)
	if err == mongo.ErrNoDocuments {
		return nil, errs.NotFound("Event not found")
	}
	if err != nil {
		return nil, errs.Persistence("get event", err)
	}
	return &event, nil
}

// ConfirmedTickets sums ticket counts over confirmed bookings with a
// group-and-sum aggregation. Pending and cancelled bookings never count.
func (mongoStore) ConfirmedTickets(ctx context.Context, eventID string) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"eventid":        eventID,
			"booking_status": models.BookingConfirmed,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$ticket_count"},
		}}},
	}

	cursor, err := db.BookingsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, errs.Persistence("count confirmed tickets", err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		Total int `bson:"total"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, errs.Persistence("count confirmed tickets", err)
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}

func (mongoStore) InsertBooking(ctx context.Context, b *models.Booking) error {
	if _, err := db.BookingsCollection.InsertOne(ctx, b); err != nil {
		return errs.Persistence("insert booking", err)
	}
	return nil
}

func (mongoStore) BookingByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	var booking models.Booking
	err := db.BookingsCollection.FindOne(ctx, bson.M{"bookingid": bookingID}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, errs.NotFound("Booking not found")
	}
	if err != nil {
		return nil, errs.Persistence("get booking", err)
	}
	return &booking, nil
}

func (mongoStore) SetBookingStatus(ctx context.Context, bookingID, status string, at time.Time) error {
	_, err := db.BookingsCollection.UpdateOne(
		ctx,
		bson.M{"bookingid": bookingID},
		bson.M{"$set": bson.M{"booking_status": status, "updated_at": at}},
	)
	if err != nil {
		return errs.Persistence("update booking status", err)
	}
	return nil
}

func (mongoStore) SetAttendanceStatus(ctx context.Context, bookingID, status string, at time.Time) error {
	_, err := db.BookingsCollection.UpdateOne(
		ctx,
		bson.M{"bookingid": bookingID},
		bson.M{"$set": bson.M{"attendance_status": status, "updated_at": at}},
	)
	if err != nil {
		return errs.Persistence("update attendance status", err)
	}
	return nil
}

func (mongoStore) BookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	cursor, err := db.BookingsCollection.Find(
		ctx,
		bson.M{"userid": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, errs.Persistence("list user bookings", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, errs.Persistence("decode user bookings", err)
	}
	return bookings, nil
}

func (mongoStore) BookingsByEvent(ctx context.Context, eventID string, includeCancelled bool) ([]models.Booking, error) {
	filter := bson.M{"eventid": eventID}
	if !includeCancelled {
		filter["booking_status"] = bson.M{"$ne": models.BookingCancelled}
	}

	cursor, err := db.BookingsCollection.Find(
		ctx,
		filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, errs.Persistence("list event bookings", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, errs.Persistence("decode event bookings", err)
	}
	return bookings, nil
}

func (mongoStore) AddRegisteredEvent(ctx context.Context, userID, eventID string) error {
	if err := userdata.AddRegisteredEvent(ctx, userID, eventID); err != nil {
		return errs.Persistence("add registered event", err)
	}
	return nil
}

func (mongoStore) RemoveRegisteredEvent(ctx context.Context, userID, eventID string) error {
	if err := userdata.RemoveRegisteredEvent(ctx, userID, eventID); err != nil {
		return errs.Persistence("remove registered event", err)
	}
	return nil
}

// Bkg is the process-wide engine over the Mongo store.
var Bkg = NewEngine(mongoStore{}, time.Now)
