package handler

import (
	"net/http"
	"strconv"
	"time"

	"gameshelf/backend/internal/database"
	"gameshelf/backend/internal/models"
	"gameshelf/backend/internal/rental"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type RentalInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	GameID   uint   `json:"game_id" binding:"required"`
	RentedAt string `json:"rented_at" binding:"required"`
	DueDate  string `json:"due_date"`
	Notes    string `json:"notes"`
}

type RentalUpdateInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

type ExtendInput struct {
	DueDate string `json:"due_date" binding:"required"`
}

// Rental status values reported in responses and accepted by the status
// filter. Overdue is derived, not stored.
const (
	StatusActive   = "active"
	StatusReturned = "returned"
	StatusOverdue  = "overdue"
)

type RentalResponse struct {
	ID         uint    `json:"id"`
	GameID     uint    `json:"game_id"`
	GameTitle  string  `json:"game_title,omitempty"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	RentedAt   string  `json:"rented_at"`
	DueDate    string  `json:"due_date"`
	ReturnedAt *string `json:"returned_at"`
	Status     string  `json:"status"`
	Notes      string  `json:"notes"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func newRentalResponse(r models.Rental) RentalResponse {
	resp := RentalResponse{
		ID:        r.ID,
		GameID:    r.GameID,
		GameTitle: r.Game.Title,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		RentedAt:  r.RentedAt.Format(dateLayout),
		DueDate:   r.DueDate.Format(dateLayout),
		Status:    StatusActive,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt.UTC().Format(dateLayout),
		UpdatedAt: r.UpdatedAt.UTC().Format(dateLayout),
	}
	if r.ReturnedAt != nil {
		returned := r.ReturnedAt.UTC().Format(time.RFC3339)
		resp.ReturnedAt = &returned
		resp.Status = StatusReturned
	} else if r.Overdue(today()) {
		resp.Status = StatusOverdue
	}
	return resp
}

// endregion

// region --- Admin Handlers ---

// CreateRental godoc
// @Summary      Rent a game out
// @Description  Opens a rental for an available game. Due date defaults to 14 days after the rental date.
// @Tags         admin-rentals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RentalInput true "Rental Info"
// @Success      201 {object} DataResponse{data=RentalResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Failure      409 {object} ErrorResponse "Game already rented"
// @Router       /admin/rentals [post]
func CreateRental(c *gin.Context) {
	var input RentalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error(), "Invalid rental payload", nil)
		return
	}

	rentedAt, err := parseDate(input.RentedAt)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error(), "Invalid rental payload",
			map[string]string{"rented_at": "must be a YYYY-MM-DD date"})
		return
	}

	create := rental.CreateInput{
		GameID:   input.GameID,
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		RentedAt: rentedAt,
		Notes:    input.Notes,
	}
	if input.DueDate != "" {
		dueDate, err := parseDate(input.DueDate)
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeValidation, err.Error(), "Invalid rental payload",
				map[string]string{"due_date": "must be a YYYY-MM-DD date"})
			return
		}
		create.DueDate = &dueDate
	}

	r, err := guard.CreateRental(create)
	if err != nil {
		respondGuardError(c, err)
		return
	}

	if err := database.DB.Preload("Game").First(r, r.ID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, err.Error(), "Failed to load rental", nil)
		return
	}
	respondData(c, http.StatusCreated, newRentalResponse(*r), nil)
}

// UpdateRental godoc
// @Summary      Update a rental's contact details
// @Description  Edits the renter name, contact fields and notes. Dates and return state are managed by the return and extend operations.
// @Tags         admin-rentals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int               true "Rental ID"
// @Param        input body RentalUpdateInput true "Contact Info"
// @Success      200 {object} DataResponse{data=RentalResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Rental not found"
// @Router       /admin/rentals/{id} [put]
func UpdateRental(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var input RentalUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error(), "Invalid rental payload", nil)
		return
	}

	r, err := guard.UpdateRental(uint(id), rental.UpdateInput{
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
		Notes: input.Notes,
	})
	if err != nil {
		respondGuardError(c, err)
		return
	}

	if err := database.DB.Preload("Game").First(r, r.ID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, err.Error(), "Failed to load rental", nil)
		return
	}
	respondData(c, http.StatusOK, newRentalResponse(*r), nil)
}

// ReturnRental godoc
// @Summary      Return a rental
// @Description  Marks an active rental as returned now.
// @Tags         admin-rentals
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Rental ID"
// @Success      200 {object} DataResponse{data=RentalResponse}
// @Failure      400 {object} ErrorResponse "Rental already returned"
// @Failure      404 {object} ErrorResponse "Rental not found"
// @Router       /admin/rentals/{id}/return [post]
func ReturnRental(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	r, err := guard.ReturnRental(uint(id))
	if err != nil {
		respondGuardError(c, err)
		return
	}

	if err := database.DB.Preload("Game").First(r, r.ID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, err.Error(), "Failed to load rental", nil)
		return
	}
	respondData(c, http.StatusOK, newRentalResponse(*r), nil)
}

// ExtendRental godoc
// @Summary      Extend a rental
// @Description  Moves an active rental's due date strictly forward.
// @Tags         admin-rentals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int         true "Rental ID"
// @Param        input body ExtendInput true "New due date"
// @Success      200 {object} DataResponse{data=RentalResponse}
// @Failure      400 {object} ErrorResponse "Rental returned or date not later"
// @Failure      404 {object} ErrorResponse "Rental not found"
// @Router       /admin/rentals/{id}/extend [post]
func ExtendRental(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var input ExtendInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error(), "Invalid extend payload", nil)
		return
	}
	dueDate, err := parseDate(input.DueDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error(), "Invalid extend payload",
			map[string]string{"due_date": "must be a YYYY-MM-DD date"})
		return
	}

	r, err := guard.ExtendRental(uint(id), dueDate)
	if err != nil {
		respondGuardError(c, err)
		return
	}

	if err := database.DB.Preload("Game").First(r, r.ID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, err.Error(), "Failed to load rental", nil)
		return
	}
	respondData(c, http.StatusOK, newRentalResponse(*r), nil)
}

// DeleteRental godoc
// @Summary      Delete a rental record
// @Description  Removes a rental from the ledger unconditionally.
// @Tags         admin-rentals
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Rental ID"
// @Success      200 {object} DataResponse
// @Failure      404 {object} ErrorResponse "Rental not found"
// @Router       /admin/rentals/{id} [delete]
func DeleteRental(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	deleted, err := guard.DeleteRental(uint(id))
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, err.Error(), "Failed to delete rental", nil)
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, CodeNotFound, "rental not found", "Rental not found", nil)
		return
	}

	respondData(c, http.StatusOK, gin.H{"message": "Rental deleted"}, nil)
}

// endregion

// region --- Public Handlers ---

// GetRentalByID godoc
// @Summary      Get a single rental by ID
// @Tags         rentals
// @Produce      json
// @Param        id path int true "Rental ID"
// @Success      200 {object} DataResponse{data=RentalResponse}
// @Failure      404 {object} ErrorResponse "Rental not found"
// @Router       /rentals/{id} [get]
func GetRentalByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var r models.Rental
	if err := database.DB.Preload("Game").First(&r, id).Error; err != nil {
		respondError(c, http.StatusNotFound, CodeNotFound, "rental not found", "Rental not found", nil)
		return
	}

	respondData(c, http.StatusOK, newRentalResponse(r), nil)
}

// rentalSortColumns is the allow-list for the sort query param.
var rentalSortColumns = map[string]string{
	"rented_at":  "rented_at",
	"due_date":   "due_date",
	"name":       "name",
	"created_at": "created_at",
}

// GetRentals godoc
// @Summary      List rentals
// @Description  Paginated ledger listing with filters on renter name, game, status and rental date range.
// @Tags         rentals
// @Produce      json
// @Param        q       query string false "Search query for renter name"
// @Param        game_id query int    false "Filter by game"
// @Param        status  query string false "Status filter" Enums(active, returned, overdue)
// @Param        from    query string false "Earliest rented_at (YYYY-MM-DD)"
// @Param        to      query string false "Latest rented_at (YYYY-MM-DD)"
// @Param        sort    query string false "Sort column" Enums(rented_at, due_date, name, created_at)
// @Param        order   query string false "Sort direction" Enums(asc, desc)
// @Param        page    query int    false "Page number" default(1)
// @Param        limit   query int    false "Items per page" default(20)
// @Success      200 {object} DataResponse{data=[]RentalResponse}
// @Failure      400 {object} ErrorResponse
// @Router       /rentals [get]
func GetRentals(c *gin.Context) {
	page, limit := parsePaging(c)
	offset := (page - 1) * limit

	dbQuery := database.DB.Model(&models.Rental{})

	if q := c.Query("q"); q != "" {
		dbQuery = dbQuery.Where("LOWER(name) LIKE LOWER(?)", "%"+q+"%")
	}
	if v := c.Query("game_id"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			dbQuery = dbQuery.Where("game_id = ?", n)
		}
	}

	switch c.Query("status") {
	case "":
	case StatusActive:
		dbQuery = dbQuery.Where("returned_at IS NULL")
	case StatusReturned:
		dbQuery = dbQuery.Where("returned_at IS NOT NULL")
	case StatusOverdue:
		dbQuery = dbQuery.Where("returned_at IS NULL AND due_date < ?", today())
	default:
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid status filter",
			"Status must be active, returned or overdue", nil)
		return
	}

	if v := c.Query("from"); v != "" {
		from, err := parseDate(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeValidation, err.Error(),
				"From must be a YYYY-MM-DD date", nil)
			return
		}
		dbQuery = dbQuery.Where("rented_at >= ?", from)
	}
	if v := c.Query("to"); v != "" {
		to, err := parseDate(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeValidation, err.Error(),
				"To must be a YYYY-MM-DD date", nil)
			return
		}
		dbQuery = dbQuery.Where("rented_at <= ?", to)
	}

	sort := c.DefaultQuery("sort", "rented_at")
	column, ok := rentalSortColumns[sort]
	if !ok {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid sort column",
			"Unsupported sort column", nil)
		return
	}
	order := c.DefaultQuery("order", "desc")
	if order != "asc" && order != "desc" {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid sort direction",
			"Order must be asc or desc", nil)
		return
	}

	var totalItems int64
	if err := dbQuery.Count(&totalItems).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, err.Error(), "Failed to count rentals", nil)
		return
	}

	var rentals []models.Rental
	err := dbQuery.Preload("Game").Order(column + " " + order).Offset(offset).Limit(limit).Find(&rentals).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, err.Error(), "Failed to retrieve rentals", nil)
		return
	}

	response := make([]RentalResponse, 0, len(rentals))
	for _, r := range rentals {
		response = append(response, newRentalResponse(r))
	}

	respondData(c, http.StatusOK, response, NewPaginationMeta(totalItems, page, limit))
}

// endregion
