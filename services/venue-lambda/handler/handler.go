package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	apperrors "github.com/mm-booking-services/common/errors"
	"github.com/mm-booking-services/services/venue-lambda/models"
	"github.com/mm-booking-services/services/venue-lambda/usecase"
)

type VenueHandler struct {
	useCase *usecase.VenueUseCase
}

func NewVenueHandler() *VenueHandler {
	return &VenueHandler{
		useCase: usecase.NewVenueUseCase(),
	}
}

// HandleGetVenues - GET /api/venues
func (h *VenueHandler) HandleGetVenues(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	venues, err := h.useCase.GetAllVenues(ctx)
	if err != nil {
		return createMessageResponse(http.StatusInternalServerError, "Error loading venues")
	}

	if venues == nil {
		venues = []models.Venue{}
	}
	return createJSONResponse(http.StatusOK, venues)
}

// HandleCreateVenue - POST /api/venues
func (h *VenueHandler) HandleCreateVenue(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	role := request.Headers["X-User-Role"]
	if role != "ADMIN" {
		return createStatusResponse(http.StatusForbidden, "fail", "ADMIN role required")
	}

	var req models.CreateVenueRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createStatusResponse(http.StatusBadRequest, "fail", "Invalid request body")
	}

	if req.VenueName == "" {
		return createStatusResponse(http.StatusBadRequest, "fail", "Venue name is required")
	}

	if _, err := h.useCase.CreateVenue(ctx, req); err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			return createStatusResponse(appErr.HTTPStatus, "fail", appErr.Message)
		}
		return createStatusResponse(http.StatusInternalServerError, "fail", "Error creating venue")
	}

	return createStatusResponse(http.StatusCreated, "success", "Venue created successfully")
}

// HandleUpdateVenue - PUT /api/venues
func (h *VenueHandler) HandleUpdateVenue(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	role := request.Headers["X-User-Role"]
	if role != "ADMIN" {
		return createStatusResponse(http.StatusForbidden, "fail", "ADMIN role required")
	}

	var req models.UpdateVenueRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createStatusResponse(http.StatusBadRequest, "fail", "Invalid request body")
	}

	if req.VenueID == 0 {
		return createStatusResponse(http.StatusBadRequest, "fail", "Venue ID is required")
	}

	if err := h.useCase.UpdateVenue(ctx, req); err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			return createStatusResponse(appErr.HTTPStatus, "fail", appErr.Message)
		}
		return createStatusResponse(http.StatusInternalServerError, "fail", "Error updating venue")
	}

	return createStatusResponse(http.StatusOK, "success", "Venue updated successfully")
}

// HandleDeleteVenue - DELETE /api/venues?venueId=
// Removing a venue also removes every event booked there.
func (h *VenueHandler) HandleDeleteVenue(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	role := request.Headers["X-User-Role"]
	if role != "ADMIN" {
		return createStatusResponse(http.StatusForbidden, "fail", "ADMIN role required")
	}

	venueIDStr := request.QueryStringParameters["venueId"]
	if venueIDStr == "" {
		return createStatusResponse(http.StatusBadRequest, "fail", "Venue ID is required")
	}
	venueID, err := strconv.Atoi(venueIDStr)
	if err != nil {
		return createStatusResponse(http.StatusBadRequest, "fail", "Invalid venue ID")
	}

	if err := h.useCase.DeleteVenue(ctx, venueID); err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			return createStatusResponse(appErr.HTTPStatus, "fail", appErr.Message)
		}
		return createStatusResponse(http.StatusInternalServerError, "fail", "Error deleting venue")
	}

	return createStatusResponse(http.StatusOK, "success", "Venue deleted successfully")
}

// Helper functions
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

func createStatusResponse(statusCode int, status, message string) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(map[string]string{"status": status, "message": message})
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
