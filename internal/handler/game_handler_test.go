package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gameshelf/backend/internal/database"
	"gameshelf/backend/internal/models"
	"gameshelf/backend/internal/rental"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHandlerTest(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	database.DB = db
	Init(rental.NewService(db, nil))
	return db
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  *Meta           `json:"meta"`
	Error *ErrorBody      `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func getRequest(t *testing.T, url string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", url, nil)
	return w, c
}

func jsonRequest(t *testing.T, method, url string, body interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, url, bytes.NewBuffer(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

func seedGame(t *testing.T, db *gorm.DB, title string, minPlayers, maxPlayers int) models.Game {
	t.Helper()
	game := models.Game{Title: title, MinPlayers: &minPlayers, MaxPlayers: &maxPlayers}
	require.NoError(t, db.Create(&game).Error)
	return game
}

func seedActiveRental(t *testing.T, db *gorm.DB, gameID uint, dueDate time.Time) models.Rental {
	t.Helper()
	r := models.Rental{
		GameID:   gameID,
		Name:     "Alice",
		Email:    "alice@example.com",
		RentedAt: dueDate.AddDate(0, 0, -14),
		DueDate:  dueDate,
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func TestCreateGameHandler(t *testing.T) {
	setupHandlerTest(t)

	w, c := jsonRequest(t, "POST", "/api/v1/admin/games", gin.H{
		"title":       "Azul",
		"min_players": 2,
		"max_players": 4,
		"complexity":  "low",
	})
	CreateGame(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	var game GameResponse
	require.NoError(t, json.Unmarshal(env.Data, &game))
	assert.Equal(t, "Azul", game.Title)
	assert.False(t, game.IsRented)
	assert.NotEmpty(t, env.Meta.Timestamp)
}

func TestCreateGameValidation(t *testing.T) {
	setupHandlerTest(t)

	w, c := jsonRequest(t, "POST", "/api/v1/admin/games", gin.H{
		"title":       "Broken",
		"min_players": 5,
		"max_players": 2,
	})
	CreateGame(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeValidation, env.Error.Code)

	details, ok := env.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, details, "min_players")
}

func TestCreateGameInvalidComplexity(t *testing.T) {
	setupHandlerTest(t)

	w, c := jsonRequest(t, "POST", "/api/v1/admin/games", gin.H{
		"title":      "Odd",
		"complexity": "extreme",
	})
	CreateGame(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeValidation, env.Error.Code)
}

func TestGetGameByIDWithAvailability(t *testing.T) {
	db := setupHandlerTest(t)
	game := seedGame(t, db, "Catan", 3, 4)
	seedActiveRental(t, db, game.ID, time.Date(2025, 11, 22, 0, 0, 0, 0, time.UTC))

	w, c := getRequest(t, "/api/v1/games/1")
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	GetGameByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	var resp GameResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.True(t, resp.IsRented)
	require.NotNil(t, resp.DueDate)
	assert.Equal(t, "2025-11-22", *resp.DueDate)
}

func TestGetGameByIDNotFound(t *testing.T) {
	setupHandlerTest(t)

	w, c := getRequest(t, "/api/v1/games/99")
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	GetGameByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeNotFound, env.Error.Code)
}

func TestGetGamesAvailabilityFilter(t *testing.T) {
	db := setupHandlerTest(t)
	rented := seedGame(t, db, "Gloomhaven", 1, 4)
	seedGame(t, db, "Wingspan", 1, 5)
	seedActiveRental(t, db, rented.ID, time.Date(2025, 11, 22, 0, 0, 0, 0, time.UTC))

	w, c := getRequest(t, "/api/v1/games?availability=rented")
	GetGames(c)
	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	var games []GameResponse
	require.NoError(t, json.Unmarshal(env.Data, &games))
	require.Len(t, games, 1)
	assert.Equal(t, "Gloomhaven", games[0].Title)
	assert.True(t, games[0].IsRented)

	w, c = getRequest(t, "/api/v1/games?availability=available")
	GetGames(c)
	env = decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &games))
	require.Len(t, games, 1)
	assert.Equal(t, "Wingspan", games[0].Title)
}

func TestGetGamesTitleAndSort(t *testing.T) {
	db := setupHandlerTest(t)
	seedGame(t, db, "Terraforming Mars", 1, 5)
	seedGame(t, db, "Terra Mystica", 2, 5)
	seedGame(t, db, "Azul", 2, 4)

	w, c := getRequest(t, "/api/v1/games?q=terra&sort=title&order=desc")
	GetGames(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	var games []GameResponse
	require.NoError(t, json.Unmarshal(env.Data, &games))
	require.Len(t, games, 2)
	assert.Equal(t, "Terraforming Mars", games[0].Title)
	assert.Equal(t, "Terra Mystica", games[1].Title)
	assert.Equal(t, int64(2), env.Meta.Pagination.TotalItems)
}

func TestGetGamesPagination(t *testing.T) {
	db := setupHandlerTest(t)
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		seedGame(t, db, title, 2, 4)
	}

	w, c := getRequest(t, "/api/v1/games?page=2&limit=2&sort=title")
	GetGames(c)

	env := decodeEnvelope(t, w)
	var games []GameResponse
	require.NoError(t, json.Unmarshal(env.Data, &games))
	require.Len(t, games, 2)
	assert.Equal(t, "C", games[0].Title)
	assert.Equal(t, int64(5), env.Meta.Pagination.TotalItems)
	assert.Equal(t, 3, env.Meta.Pagination.TotalPages)
	assert.Equal(t, 2, env.Meta.Pagination.CurrentPage)
}

func TestGetGamesRejectsUnknownSort(t *testing.T) {
	setupHandlerTest(t)

	w, c := getRequest(t, "/api/v1/games?sort=updated_at")
	GetGames(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeValidation, env.Error.Code)
}

func TestDeleteGameHandlerBlockedByActiveRental(t *testing.T) {
	db := setupHandlerTest(t)
	game := seedGame(t, db, "Everdell", 1, 4)
	seedActiveRental(t, db, game.ID, time.Date(2025, 11, 22, 0, 0, 0, 0, time.UTC))

	w, c := getRequest(t, "/api/v1/admin/games/1")
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	DeleteGame(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeInvalidOperation, env.Error.Code)

	var reloaded models.Game
	assert.NoError(t, db.First(&reloaded, game.ID).Error)
}

func TestDeleteGameHandlerNotFound(t *testing.T) {
	setupHandlerTest(t)

	w, c := getRequest(t, "/api/v1/admin/games/42")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	DeleteGame(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateGameHandler(t *testing.T) {
	db := setupHandlerTest(t)
	seedGame(t, db, "Azul", 2, 4)

	w, c := jsonRequest(t, "PUT", "/api/v1/admin/games/1", gin.H{
		"title":       "Azul: Summer Pavilion",
		"min_players": 2,
		"max_players": 4,
		"complexity":  "medium",
	})
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	UpdateGame(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	var resp GameResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "Azul: Summer Pavilion", resp.Title)
	require.NotNil(t, resp.Complexity)
	assert.Equal(t, "medium", *resp.Complexity)
}
