package db

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"interlink/globals"
)

var (
	UserCollection     *mongo.Collection
	EventsCollection   *mongo.Collection
	BookingsCollection *mongo.Collection
	Client             *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := globals.Getenv("MONGODB_URI", "mongodb://localhost:27017")
	dbname := globals.Getenv("MONGO_DB", "interlinkdb")

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database(dbname)
	UserCollection = database.Collection("users")
	EventsCollection = database.Collection("events")
	BookingsCollection = database.Collection("bookings")

	createIndexes()
}

// Indexes for the booking hot paths: the confirmed-ticket aggregation filters on
// (eventid, booking_status), and per-user listings on userid.
func createIndexes() {
	ctx := context.TODO()

	_, err := BookingsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "eventid", Value: 1}, {Key: "booking_status", Value: 1}}},
		{Keys: bson.D{{Key: "userid", Value: 1}}},
		{Keys: bson.D{{Key: "bookingid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "ticketid", Value: 1}}},
	})
	if err != nil {
		log.Printf("Failed to create booking indexes: %v", err)
	}

	_, err = EventsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "eventid", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Printf("Failed to create event index: %v", err)
	}

	_, err = UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userid", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Printf("Failed to create user index: %v", err)
	}
}
