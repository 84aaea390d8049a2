package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	apperrors "github.com/mm-booking-services/common/errors"
	"github.com/mm-booking-services/services/auth-lambda/models"
	"github.com/mm-booking-services/services/auth-lambda/usecase"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	useCase *usecase.AuthUseCase
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		useCase: usecase.NewAuthUseCase(),
	}
}

// HandleLogin - POST /api/login
func (h *AuthHandler) HandleLogin(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.LoginRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createStatusResponse(http.StatusBadRequest, "fail", "Invalid request body")
	}

	resp, err := h.useCase.Login(ctx, req)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			return createStatusResponse(appErr.HTTPStatus, "fail", appErr.Message)
		}
		return createStatusResponse(http.StatusInternalServerError, "fail", "Login failed")
	}

	return createJSONResponse(http.StatusOK, resp)
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
