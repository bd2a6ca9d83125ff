package globals

import (
	"context"
	"os"
)

var (
	JwtSecret = []byte(Getenv("JWT_SECRET", "change_me"))
	QrSecret  = []byte(Getenv("QR_SECRET", "change_me_too"))
)

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const RolesKey ContextKey = "roles"

var Ctx = context.Background()

func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
