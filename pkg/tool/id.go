package tool

import "github.com/google/uuid"

// GenerateUUIDV7 returns a time-ordered UUID; rows keyed by it sort by
// creation time.
func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}
