package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	apperrors "github.com/mm-booking-services/common/errors"
	"github.com/mm-booking-services/services/client-lambda/models"
	"github.com/mm-booking-services/services/client-lambda/usecase"
)

type ClientHandler struct {
	useCase *usecase.ClientUseCase
}

func NewClientHandler() *ClientHandler {
	return &ClientHandler{
		useCase: usecase.NewClientUseCase(),
	}
}

// HandleGetClients - GET /api/clients
func (h *ClientHandler) HandleGetClients(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	clients, err := h.useCase.GetAllClients(ctx)
	if err != nil {
		return createMessageResponse(http.StatusInternalServerError, "Error loading clients")
	}

	if clients == nil {
		clients = []models.Client{}
	}
	return createJSONResponse(http.StatusOK, clients)
}

// HandleCreateClient - POST /api/clients
func (h *ClientHandler) HandleCreateClient(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	role := request.Headers["X-User-Role"]
	if role != "ADMIN" {
		return createStatusResponse(http.StatusForbidden, "fail", "ADMIN role required")
	}

	var req models.CreateClientRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createStatusResponse(http.StatusBadRequest, "fail", "Invalid request body")
	}

	if req.FullName == "" {
		return createStatusResponse(http.StatusBadRequest, "fail", "Client name is required")
	}

	if _, err := h.useCase.CreateClient(ctx, req); err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			return createStatusResponse(appErr.HTTPStatus, "fail", appErr.Message)
		}
		return createStatusResponse(http.StatusInternalServerError, "fail", "Error creating client")
	}

	return createStatusResponse(http.StatusCreated, "success", "Client created successfully")
}

// HandleUpdateClient - PUT /api/clients
func (h *ClientHandler) HandleUpdateClient(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	role := request.Headers["X-User-Role"]
	if role != "ADMIN" {
		return createStatusResponse(http.StatusForbidden, "fail", "ADMIN role required")
	}

	var req models.UpdateClientRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createStatusResponse(http.StatusBadRequest, "fail", "Invalid request body")
	}

	if req.ClientID == 0 {
		return createStatusResponse(http.StatusBadRequest, "fail", "Client ID is required")
	}

	if err := h.useCase.UpdateClient(ctx, req); err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			return createStatusResponse(appErr.HTTPStatus, "fail", appErr.Message)
		}
		return createStatusResponse(http.StatusInternalServerError, "fail", "Error updating client")
	}

	return createStatusResponse(http.StatusOK, "success", "Client updated successfully")
}

// HandleDeleteClient - DELETE /api/clients?clientId=
func (h *ClientHandler) HandleDeleteClient(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	role := request.Headers["X-User-Role"]
	if role != "ADMIN" {
		return createStatusResponse(http.StatusForbidden, "fail", "ADMIN role required")
	}

	clientIDStr := request.QueryStringParameters["clientId"]
	if clientIDStr == "" {
		return createStatusResponse(http.StatusBadRequest, "fail", "Client ID is required")
	}
	clientID, err := strconv.Atoi(clientIDStr)
	if err != nil {
		return createStatusResponse(http.StatusBadRequest, "fail", "Invalid client ID")
	}

	if err := h.useCase.DeleteClient(ctx, clientID); err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			return createStatusResponse(appErr.HTTPStatus, "fail", appErr.Message)
		}
		return createStatusResponse(http.StatusInternalServerError, "fail", "Error deleting client")
	}

	return createStatusResponse(http.StatusOK, "success", "Client deleted successfully")
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
