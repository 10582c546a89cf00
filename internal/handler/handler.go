package handler

import (
	"time"

	"gameshelf/backend/internal/rental"
)

// guard is the shared rental lifecycle service. Every handler that mutates
// rentals or deletes games goes through it.
var guard *rental.Service

// Init wires the lifecycle guard used by the handlers.
func Init(s *rental.Service) {
	guard = s
}

const dateLayout = "2006-01-02"

// parseDate parses a day-granular date as UTC midnight.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

// today returns the current date truncated to UTC midnight.
func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
