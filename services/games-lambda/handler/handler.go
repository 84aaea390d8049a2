package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/mm-booking-services/services/games-lambda/models"
	"github.com/mm-booking-services/services/games-lambda/repository"
	"github.com/mm-booking-services/services/games-lambda/usecase"
)

type GameHandler struct {
	repo    *repository.GameRepository
	scraper *usecase.Scraper
}

func NewGameHandler() *GameHandler {
	repo := repository.NewGameRepository()
	return &GameHandler{
		repo:    repo,
		scraper: usecase.NewScraper(repo),
	}
}

// HandleGetGames - GET /api/games?team= or /api/games?month=YYYY-MM
func (h *GameHandler) HandleGetGames(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	// The booking form asks for one month of games across both teams so
	// date conflicts show up while picking a date.
	if monthKey := request.QueryStringParameters["month"]; monthKey != "" {
		parsed, err := time.Parse("2006-01", monthKey)
		if err != nil {
			return createMessageResponse(http.StatusBadRequest, "Invalid month, expected YYYY-MM")
		}

		games, err := h.repo.GetGamesInMonth(ctx, parsed.Year(), int(parsed.Month()))
		if err != nil {
			return createMessageResponse(http.StatusInternalServerError, "Error loading games")
		}
		if games == nil {
			games = []models.FootballGame{}
		}
		return createJSONResponse(http.StatusOK, games)
	}

	team := models.Team(request.QueryStringParameters["team"])
	if team != models.TeamAuburn && team != models.TeamAlabama {
		return createMessageResponse(http.StatusBadRequest, "Unknown team")
	}

	games, err := h.repo.GetGamesByTeam(ctx, team)
	if err != nil {
		return createMessageResponse(http.StatusInternalServerError, "Error loading games")
	}

	if games == nil {
		games = []models.FootballGame{}
	}
	return createJSONResponse(http.StatusOK, games)
}

// HandleRefreshGames - POST /api/games/refresh
// Re-scrapes every followed team's schedule on demand.
func (h *GameHandler) HandleRefreshGames(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	role := request.Headers["X-User-Role"]
	if role != "ADMIN" {
		return createMessageResponse(http.StatusForbidden, "ADMIN role required")
	}

	if err := h.scraper.RefreshAll(ctx); err != nil {
		return createMessageResponse(http.StatusBadGateway, "Schedule refresh failed")
	}

	return createJSONResponse(http.StatusOK, map[string]bool{"success": true})
}

func createJSONResponse(statusCode int, data interface{}) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    defaultHeaders(),
			Body:       `{"message":"Failed to serialize response"}`,
		}, nil
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    defaultHeaders(),
		Body:       string(body),
	}, nil
}

func createMessageResponse(statusCode int, message string) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(map[string]string{"message": message})
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    defaultHeaders(),
		Body:       string(body),
	}, nil
}

func defaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                     "application/json;charset=UTF-8",
		"Access-Control-Allow-Origin":      "*",
		"Access-Control-Allow-Credentials": "true",
	}
}
