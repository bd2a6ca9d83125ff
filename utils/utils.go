package utils

import (
	rndm "math/rand"
	"strconv"

	"github.com/google/uuid"
)

// --- Random String and ID Generators ---

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// GenerateID creates an opaque entity id of length n.
func GenerateID(n int) string {
	return GenerateRandomString(n)
}

func GetUUID() string {
	return uuid.New().String()
}

// LastN returns the last n characters of s, or s itself when shorter.
func LastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// TicketID derives the human-readable ticket id for a booking. Assigned once at
// first save and never regenerated.
func TicketID(eventID, userID string, epochMillis int64) string {
	ms := strconv.FormatInt(epochMillis, 10)
	return "EVNT-" + LastN(eventID, 6) + "-" + LastN(userID, 6) + "-" + LastN(ms, 6)
}
