package models

import "time"

// Rental represents one loan of a game to a renter. A rental is active while
// ReturnedAt is null; a game may have at most one active rental, which the
// partial unique index created in database.Migrate enforces alongside the
// guard in internal/rental.
type Rental struct {
	ID         uint       `gorm:"primaryKey"`
	GameID     uint       `gorm:"not null;index"`
	Name       string     `gorm:"size:255;not null"`
	Email      string     `gorm:"size:255"`
	Phone      string     `gorm:"size:50"`
	RentedAt   time.Time  `gorm:"not null"` // date, UTC midnight
	DueDate    time.Time  `gorm:"not null"` // date, UTC midnight
	ReturnedAt *time.Time `gorm:"index"`
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Game Game `gorm:"foreignKey:GameID"`
}

// Active reports whether the rental has not been returned yet.
func (r *Rental) Active() bool {
	return r.ReturnedAt == nil
}

// Overdue reports whether the rental is active and past due as of the given
// day (compared at day granularity).
func (r *Rental) Overdue(today time.Time) bool {
	return r.Active() && r.DueDate.Before(today.Truncate(24*time.Hour))
}
