package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	apperrors "github.com/mm-booking-services/common/errors"
	"github.com/mm-booking-services/services/event-lambda/models"
	"github.com/mm-booking-services/services/event-lambda/usecase"
)

type EventHandler struct {
	useCase *usecase.EventUseCase
}

func NewEventHandler() *EventHandler {
	return &EventHandler{
		useCase: usecase.NewEventUseCase(),
	}
}

// HandleGetEvents - GET /api/events?month=YYYY-MM or ?venueId=
func (h *EventHandler) HandleGetEvents(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var evts []models.Event
	var err error

	if monthKey := request.QueryStringParameters["month"]; monthKey != "" {
		evts, err = h.useCase.GetEventsByMonth(ctx, monthKey)
	} else if venueIDStr := request.QueryStringParameters["venueId"]; venueIDStr != "" {
		venueID, parseErr := strconv.Atoi(venueIDStr)
		if parseErr != nil {
			return createStatusResponse(http.StatusBadRequest, "fail", "Invalid venueId")
		}
		evts, err = h.useCase.GetEventsByVenue(ctx, venueID)
	} else {
		return createStatusResponse(http.StatusBadRequest, "fail", "month or venueId is required")
	}

	if err != nil {
		return createMessageResponse(http.StatusInternalServerError, "Error loading events")
	}
	if evts == nil {
		evts = []models.Event{}
	}
	return createJSONResponse(http.StatusOK, evts)
}

// HandleCreateEvent - POST /api/events
func (h *EventHandler) HandleCreateEvent(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	role := request.Headers["X-User-Role"]
	if role != "ADMIN" {
		return createStatusResponse(http.StatusForbidden, "fail", "ADMIN role required")
	}

	var req models.CreateEventRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createStatusResponse(http.StatusBadRequest, "fail", "Invalid request body")
	}

	if req.ClientID == 0 {
		return createStatusResponse(http.StatusBadRequest, "fail", "Client ID is required")
	}
	if req.VenueID == 0 {
		return createStatusResponse(http.StatusBadRequest, "fail", "Venue ID is required")
	}

	if _, err := h.useCase.CreateEvent(ctx, req); err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			return createStatusResponse(appErr.HTTPStatus, "fail", appErr.Message)
		}
		return createStatusResponse(http.StatusInternalServerError, "fail", "Error creating event")
	}

	return createStatusResponse(http.StatusCreated, "success", "Event created successfully")
}

// HandleUpdateEvent - PUT /api/events
func (h *EventHandler) HandleUpdateEvent(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	role := request.Headers["X-User-Role"]
	if role != "ADMIN" {
		return createStatusResponse(http.StatusForbidden, "fail", "ADMIN role required")
	}

	var req models.UpdateEventRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createStatusResponse(http.StatusBadRequest, "fail", "Invalid request body")
	}

	if req.EventID == 0 {
		return createStatusResponse(http.StatusBadRequest, "fail", "Event ID is required")
	}

	if err := h.useCase.UpdateEvent(ctx, req); err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			return createStatusResponse(appErr.HTTPStatus, "fail", appErr.Message)
		}
		return createStatusResponse(http.StatusInternalServerError, "fail", "Error updating event")
	}

	return createStatusResponse(http.StatusOK, "success", "Event updated successfully")
}

// HandleDeleteEvent - DELETE /api/events?eventId=
func (h *EventHandler) HandleDeleteEvent(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	role := request.Headers["X-User-Role"]
	if role != "ADMIN" {
		return createStatusResponse(http.StatusForbidden, "fail", "ADMIN role required")
	}

	eventIDStr := request.QueryStringParameters["eventId"]
	if eventIDStr == "" {
		return createStatusResponse(http.StatusBadRequest, "fail", "Event ID is required")
	}
	eventID, err := strconv.Atoi(eventIDStr)
	if err != nil {
		return createStatusResponse(http.StatusBadRequest, "fail", "Invalid event ID")
	}

	if err := h.useCase.DeleteEvent(ctx, eventID); err != nil {
		return createStatusResponse(http.StatusInternalServerError, "fail", "Error deleting event")
	}

	return createStatusResponse(http.StatusOK, "success", "Event deleted successfully")
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
