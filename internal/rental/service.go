// Package rental is the single home of the rental lifecycle rules: a game
// can have at most one active (non-returned) rental, rentals move once from
// active to returned, and due dates only ever move forward. Every transport
// handler goes through this service rather than touching the tables directly.
package rental

import (
	"errors"
	"log"
	"time"

	"gameshelf/backend/internal/models"

	"gorm.io/gorm"
)

// DefaultRentalDays is the rental period applied when no due date is given.
const DefaultRentalDays = 14

// Service enforces the rental lifecycle against the database. The logger is
// injected so the guard stays testable in isolation.
type Service struct {
	db     *gorm.DB
	logger *log.Logger
}

// NewService returns a guard bound to db. A nil logger falls back to the
// standard logger.
func NewService(db *gorm.DB, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{db: db, logger: logger}
}

// CreateInput carries the fields needed to open a rental. RentedAt and
// DueDate are day-granular UTC dates.
type CreateInput struct {
	GameID   uint
	Name     string
	Email    string
	Phone    string
	RentedAt time.Time
	DueDate  *time.Time
	Notes    string
}

// UpdateInput carries the contact fields an admin may edit on an existing
// rental. Lifecycle fields (dates, returned_at) are not updatable this way.
type UpdateInput struct {
	Name  string
	Email string
	Phone string
	Notes string
}

// IsAvailable reports whether the game has no active rental. It does not
// check that the game exists.
func (s *Service) IsAvailable(gameID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Rental{}).
		Where("game_id = ? AND returned_at IS NULL", gameID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// CreateRental opens a rental for a game that is currently available. The
// availability check and the insert run in one transaction, and the partial
// unique index on rentals(game_id) backs the rule against writers racing
// past the check.
func (s *Service) CreateRental(input CreateInput) (*models.Rental, error) {
	if input.Email == "" && input.Phone == "" {
		return nil, ErrContactRequired
	}

	dueDate := input.RentedAt.AddDate(0, 0, DefaultRentalDays)
	if input.DueDate != nil {
		dueDate = *input.DueDate
	}

	r := &models.Rental{
		GameID:   input.GameID,
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		RentedAt: input.RentedAt,
		DueDate:  dueDate,
		Notes:    input.Notes,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var game models.Game
		if err := tx.First(&game, input.GameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGameNotFound
			}
			return err
		}

		var active int64
		if err := tx.Model(&models.Rental{}).
			Where("game_id = ? AND returned_at IS NULL", input.GameID).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrGameAlreadyRented
		}

		return tx.Create(r).Error
	})
	if err != nil {
		// The index fires when two creates race past the count.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrGameAlreadyRented
		}
		return nil, err
	}

	s.logger.Printf("rental %d opened for game %d, due %s", r.ID, r.GameID, r.DueDate.Format("2006-01-02"))
	return r, nil
}

// ReturnRental stamps the rental as returned now. Returned rentals stay
// returned; a second return fails without touching the row.
func (s *Service) ReturnRental(rentalID uint) (*models.Rental, error) {
	var r models.Rental
	if err := s.db.First(&r, rentalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}
	if !r.Active() {
		return nil, ErrAlreadyReturned
	}

	now := time.Now().UTC()
	r.ReturnedAt = &now
	if err := s.db.Save(&r).Error; err != nil {
		return nil, err
	}

	s.logger.Printf("rental %d returned (game %d)", r.ID, r.GameID)
	return &r, nil
}

// ExtendRental moves an active rental's due date strictly forward.
func (s *Service) ExtendRental(rentalID uint, newDueDate time.Time) (*models.Rental, error) {
	var r models.Rental
	if err := s.db.First(&r, rentalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}
	if !r.Active() {
		return nil, ErrAlreadyReturned
	}
	if !newDueDate.After(r.DueDate) {
		return nil, ErrDueDateNotLater
	}

	r.DueDate = newDueDate
	if err := s.db.Save(&r).Error; err != nil {
		return nil, err
	}

	s.logger.Printf("rental %d extended to %s", r.ID, newDueDate.Format("2006-01-02"))
	return &r, nil
}

// UpdateRental edits the renter's contact details and notes on an existing
// rental. The email-or-phone rule still applies.
func (s *Service) UpdateRental(rentalID uint, input UpdateInput) (*models.Rental, error) {
	if input.Email == "" && input.Phone == "" {
		return nil, ErrContactRequired
	}

	var r models.Rental
	if err := s.db.First(&r, rentalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}

	r.Name = input.Name
	r.Email = input.Email
	r.Phone = input.Phone
	r.Notes = input.Notes
	if err := s.db.Save(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteGame removes a game from the catalog. A game with an active rental
// cannot be deleted; returned-rental history is left in place as an audit
// trail. Returns false when the game does not exist.
func (s *Service) DeleteGame(gameID uint) (bool, error) {
	var game models.Game
	if err := s.db.First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	available, err := s.IsAvailable(gameID)
	if err != nil {
		return false, err
	}
	if !available {
		return false, ErrGameHasActive
	}

	if err := s.db.Delete(&models.Game{}, gameID).Error; err != nil {
		return false, err
	}

	s.logger.Printf("game %d deleted", gameID)
	return true, nil
}

// DeleteRental removes a rental record unconditionally. Returns false when
// the rental does not exist.
func (s *Service) DeleteRental(rentalID uint) (bool, error) {
	result := s.db.Delete(&models.Rental{}, rentalID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
