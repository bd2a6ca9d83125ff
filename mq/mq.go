package mq

import (
	"context"
	"encoding/json"
	"log"

	"interlink/models"
	"interlink/rdx"
)

const channel = "booking-events"

// Emit publishes a lifecycle event to the Redis pub/sub channel. Failures are
// logged and dropped; the bus is advisory, never part of the write path.
func Emit(eventName string, content models.Index) {
	payload := struct {
		Event string       `json:"event"`
		Data  models.Index `json:"data"`
	}{Event: eventName, Data: content}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("mq: failed to marshal %s event: %v", eventName, err)
		return
	}

	if err := rdx.Conn.Publish(context.Background(), channel, data).Err(); err != nil {
		log.Printf("mq: failed to publish %s event: %v", eventName, err)
	}
}
