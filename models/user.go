package models

import "time"

type User struct {
	UserID           string    `json:"userid" bson:"userid"`
	Username         string    `json:"username" bson:"username"`
	Email            string    `json:"email" bson:"email"`
	Password         string    `json:"-" bson:"password"`
	Role             []string  `json:"role" bson:"role"`
	Name             string    `json:"name,omitempty" bson:"name,omitempty"`
	PhoneNumber      string    `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	EventsRegistered []string  `json:"events_registered" bson:"events_registered"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
	LastLogin        time.Time `json:"last_login" bson:"last_login"`
	RefreshToken     string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry    time.Time `json:"-" bson:"refresh_expiry,omitempty"`
}

// Index represents a lifecycle message published to the event bus.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id"`
	ItemType   string `json:"item_type"`
}
