package handler

import (
	"net/http"
	"strconv"

	"gameshelf/backend/internal/database"
	"gameshelf/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type GameInput struct {
	Title       string  `json:"title" binding:"required"`
	MinPlayers  *int    `json:"min_players"`
	MaxPlayers  *int    `json:"max_players"`
	PlayTime    *int    `json:"play_time"`
	Complexity  *string `json:"complexity"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	ExternalURL string  `json:"external_link"`
}

// validate checks the field-level rules that binding tags cannot express.
// Returns per-field messages for the error envelope.
func (in *GameInput) validate() map[string]string {
	details := make(map[string]string)
	if in.MinPlayers != nil && *in.MinPlayers < 1 {
		details["min_players"] = "must be at least 1"
	}
	if in.MaxPlayers != nil && *in.MaxPlayers < 1 {
		details["max_players"] = "must be at least 1"
	}
	if in.MinPlayers != nil && in.MaxPlayers != nil && *in.MinPlayers > *in.MaxPlayers {
		details["min_players"] = "must not exceed max_players"
	}
	if in.PlayTime != nil && *in.PlayTime < 1 {
		details["play_time"] = "must be at least 1"
	}
	if in.Complexity != nil && !models.ValidComplexity(*in.Complexity) {
		details["complexity"] = "must be one of low, medium, high"
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

type GameResponse struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	MinPlayers  *int    `json:"min_players"`
	MaxPlayers  *int    `json:"max_players"`
	PlayTime    *int    `json:"play_time"`
	Complexity  *string `json:"complexity"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	ExternalURL string  `json:"external_link"`
	IsRented    bool    `json:"is_rented"`
	DueDate     *string `json:"due_date"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// newGameResponse builds the response row, joining in the derived
// availability fields from the game's active rental, if any.
func newGameResponse(game models.Game, active *models.Rental) GameResponse {
	resp := GameResponse{
		ID:          game.ID,
		Title:       game.Title,
		MinPlayers:  game.MinPlayers,
		MaxPlayers:  game.MaxPlayers,
		PlayTime:    game.PlayTime,
		Complexity:  game.Complexity,
		Description: game.Description,
		ImageURL:    game.ImageURL,
		ExternalURL: game.ExternalURL,
		CreatedAt:   game.CreatedAt.UTC().Format(dateLayout),
		UpdatedAt:   game.UpdatedAt.UTC().Format(dateLayout),
	}
	if active != nil {
		resp.IsRented = true
		due := active.DueDate.Format(dateLayout)
		resp.DueDate = &due
	}
	return resp
}

// endregion

// region --- Admin Handlers ---

// CreateGame godoc
// @Summary      Create a new game
// @Description  Adds a board game to the catalog.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GameInput true "Game Info"
// @Success      201  {object}  DataResponse{data=GameResponse}
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /admin/games [post]
func CreateGame(c *gin.Context) {
	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error(), "Invalid game payload", nil)
		return
	}
	if details := input.validate(); details != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid game fields", "Invalid game payload", details)
		return
	}

	game := models.Game{
		Title:       input.Title,
		MinPlayers:  input.MinPlayers,
		MaxPlayers:  input.MaxPlayers,
		PlayTime:    input.PlayTime,
		Complexity:  input.Complexity,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		ExternalURL: input.ExternalURL,
	}

	if err := database.DB.Create(&game).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, err.Error(), "Failed to create game", nil)
		return
	}

	respondData(c, http.StatusCreated, newGameResponse(game, nil), nil)
}

// UpdateGame godoc
// @Summary      Update a game
// @Description  Updates a catalog entry.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int       true  "Game ID"
// @Param        input body      GameInput true  "New Game Info"
// @Success      200   {object}  DataResponse{data=GameResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse "Game not found"
// @Router       /admin/games/{id} [put]
func UpdateGame(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var game models.Game
	if err := database.DB.First(&game, id).Error; err != nil {
		respondError(c, http.StatusNotFound, CodeNotFound, "game not found", "Game not found", nil)
		return
	}

	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error(), "Invalid game payload", nil)
		return
	}
	if details := input.validate(); details != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid game fields", "Invalid game payload", details)
		return
	}

	game.Title = input.Title
	game.MinPlayers = input.MinPlayers
	game.MaxPlayers = input.MaxPlayers
	game.PlayTime = input.PlayTime
	game.Complexity = input.Complexity
	game.Description = input.Description
	game.ImageURL = input.ImageURL
	game.ExternalURL = input.ExternalURL

	if err := database.DB.Save(&game).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, err.Error(), "Failed to update game", nil)
		return
	}

	respondData(c, http.StatusOK, newGameResponse(game, activeRentalFor(game.ID)), nil)
}

// DeleteGame godoc
// @Summary      Delete a game
// @Description  Deletes a game that has no active rental. Rental history is kept.
// @Tags         admin-games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} DataResponse
// @Failure      400 {object} ErrorResponse "Game has an active rental"
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /admin/games/{id} [delete]
func DeleteGame(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	deleted, err := guard.DeleteGame(uint(id))
	if err != nil {
		respondGuardError(c, err)
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, CodeNotFound, "game not found", "Game not found", nil)
		return
	}

	respondData(c, http.StatusOK, gin.H{"message": "Game deleted"}, nil)
}

// endregion

// region --- Public Handlers ---

// GetGameByID godoc
// @Summary      Get a single game by ID
// @Description  Retrieves a catalog entry with its availability.
// @Tags         games
// @Produce      json
// @Param        id path int true "Game ID"
// @Success      200 {object} DataResponse{data=GameResponse}
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id} [get]
func GetGameByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var game models.Game
	if err := database.DB.First(&game, id).Error; err != nil {
		respondError(c, http.StatusNotFound, CodeNotFound, "game not found", "Game not found", nil)
		return
	}

	respondData(c, http.StatusOK, newGameResponse(game, activeRentalFor(game.ID)), nil)
}

// gameSortColumns is the allow-list for the sort query param.
var gameSortColumns = map[string]string{
	"title":       "title",
	"min_players": "min_players",
	"max_players": "max_players",
	"play_time":   "play_time",
	"complexity":  "complexity",
	"created_at":  "created_at",
}

// GetGames godoc
// @Summary      List games
// @Description  Paginated catalog listing with filters on title, player count, play time, complexity and availability.
// @Tags         games
// @Produce      json
// @Param        q             query string false "Search query for game title"
// @Param        min_players   query int    false "Lower bound on min_players"
// @Param        max_players   query int    false "Upper bound on max_players"
// @Param        min_play_time query int    false "Lower bound on play_time"
// @Param        max_play_time query int    false "Upper bound on play_time"
// @Param        complexity    query string false "Complexity tier" Enums(low, medium, high)
// @Param        availability  query string false "Availability filter" Enums(available, rented)
// @Param        sort          query string false "Sort column" Enums(title, min_players, max_players, play_time, complexity, created_at)
// @Param        order         query string false "Sort direction" Enums(asc, desc)
// @Param        page          query int    false "Page number" default(1)
// @Param        limit         query int    false "Items per page" default(20)
// @Success      200 {object} DataResponse{data=[]GameResponse}
// @Failure      400 {object} ErrorResponse
// @Router       /games [get]
func GetGames(c *gin.Context) {
	page, limit := parsePaging(c)
	offset := (page - 1) * limit

	dbQuery := database.DB.Model(&models.Game{})

	if q := c.Query("q"); q != "" {
		dbQuery = dbQuery.Where("LOWER(title) LIKE LOWER(?)", "%"+q+"%")
	}
	if v := c.Query("min_players"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			dbQuery = dbQuery.Where("min_players >= ?", n)
		}
	}
	if v := c.Query("max_players"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			dbQuery = dbQuery.Where("max_players <= ?", n)
		}
	}
	if v := c.Query("min_play_time"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			dbQuery = dbQuery.Where("play_time >= ?", n)
		}
	}
	if v := c.Query("max_play_time"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			dbQuery = dbQuery.Where("play_time <= ?", n)
		}
	}
	if v := c.Query("complexity"); v != "" {
		if !models.ValidComplexity(v) {
			respondError(c, http.StatusBadRequest, CodeValidation, "invalid complexity filter",
				"Complexity must be one of low, medium, high", nil)
			return
		}
		dbQuery = dbQuery.Where("complexity = ?", v)
	}

	// Availability is derived from the rentals table, so it is expressed as
	// an EXISTS over active rentals rather than a column filter.
	const activeRentalExists = `EXISTS (SELECT 1 FROM rentals r WHERE r.game_id = games.id AND r.returned_at IS NULL)`
	switch c.Query("availability") {
	case "":
	case "rented":
		dbQuery = dbQuery.Where(activeRentalExists)
	case "available":
		dbQuery = dbQuery.Where("NOT " + activeRentalExists)
	default:
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid availability filter",
			"Availability must be available or rented", nil)
		return
	}

	sort := c.DefaultQuery("sort", "title")
	column, ok := gameSortColumns[sort]
	if !ok {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid sort column",
			"Unsupported sort column", nil)
		return
	}
	order := c.DefaultQuery("order", "asc")
	if order != "asc" && order != "desc" {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid sort direction",
			"Order must be asc or desc", nil)
		return
	}

	var totalItems int64
	if err := dbQuery.Count(&totalItems).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, err.Error(), "Failed to count games", nil)
		return
	}

	var games []models.Game
	err := dbQuery.Order(column + " " + order).Offset(offset).Limit(limit).Find(&games).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, err.Error(), "Failed to retrieve games", nil)
		return
	}

	active := activeRentalsByGame(games)
	response := make([]GameResponse, 0, len(games))
	for _, game := range games {
		response = append(response, newGameResponse(game, active[game.ID]))
	}

	respondData(c, http.StatusOK, response, NewPaginationMeta(totalItems, page, limit))
}

// activeRentalFor loads the game's active rental, or nil.
func activeRentalFor(gameID uint) *models.Rental {
	var r models.Rental
	err := database.DB.Where("game_id = ? AND returned_at IS NULL", gameID).First(&r).Error
	if err != nil {
		return nil
	}
	return &r
}

// activeRentalsByGame loads the active rentals for a page of games in one
// query, keyed by game id.
func activeRentalsByGame(games []models.Game) map[uint]*models.Rental {
	if len(games) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(games))
	for _, g := range games {
		ids = append(ids, g.ID)
	}

	var rentals []models.Rental
	database.DB.Where("game_id IN ? AND returned_at IS NULL", ids).Find(&rentals)

	active := make(map[uint]*models.Rental, len(rentals))
	for i := range rentals {
		active[rentals[i].GameID] = &rentals[i]
	}
	return active
}

// endregion
