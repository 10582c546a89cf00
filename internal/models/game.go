package models

import "time"

// Complexity tiers a game can be tagged with.
const (
	ComplexityLow    = "low"
	ComplexityMedium = "medium"
	ComplexityHigh   = "high"
)

// Game represents a board game in the catalog.
type Game struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:255;not null;index"`
	MinPlayers  *int
	MaxPlayers  *int
	PlayTime    *int    // minutes
	Complexity  *string `gorm:"size:20"` // low | medium | high
	Description string
	ImageURL    string `gorm:"size:512"`
	ExternalURL string `gorm:"size:512"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Rentals []Rental `gorm:"foreignKey:GameID"`
}

// ValidComplexity reports whether c is one of the known tiers.
func ValidComplexity(c string) bool {
	return c == ComplexityLow || c == ComplexityMedium || c == ComplexityHigh
}
