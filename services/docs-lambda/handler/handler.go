package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	apperrors "github.com/mm-booking-services/common/errors"
	"github.com/mm-booking-services/services/docs-lambda/models"
	"github.com/mm-booking-services/services/docs-lambda/usecase"
)

type DocsHandler struct {
	useCase *usecase.DocsUseCase
}

func NewDocsHandler(uc *usecase.DocsUseCase) *DocsHandler {
	return &DocsHandler{useCase: uc}
}

// HandleSendOne - POST /api/documents/send-one
// Generates, delivers, and stamps a single document.
func (h *DocsHandler) HandleSendOne(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.Headers["X-User-Role"] != "ADMIN" {
		return createErrorResponse(apperrors.AccessDenied())
	}

	var req models.SendOneRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(apperrors.ValidationError("Invalid request body"))
	}

	// Type is validated before anything else touches the database.
	docType, err := models.ParseDocType(req.Type)
	if err != nil {
		return createErrorResponse(err)
	}

	if docType.PerEvent() && req.EventID == 0 {
		return createErrorResponse(apperrors.MissingField("eventId"))
	}
	if !docType.PerEvent() && req.VenueID == 0 {
		return createErrorResponse(apperrors.MissingField("venueId"))
	}

	job := models.JobRequest{
		Type:    docType,
		EventID: req.EventID,
		VenueID: req.VenueID,
		Year:    req.Year,
		Month:   time.Month(req.Month),
	}

	if err := h.useCase.RunSingle(ctx, job); err != nil {
		return createErrorResponse(err)
	}

	return createSuccessResponse()
}

// HandleSendAll - POST /api/documents/send-all
// Runs a per-event document type for every event of one venue in one
// month. Individual job failures are logged server side; the batch
// itself reports success.
func (h *DocsHandler) HandleSendAll(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.Headers["X-User-Role"] != "ADMIN" {
		return createErrorResponse(apperrors.AccessDenied())
	}

	var req models.SendAllRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(apperrors.ValidationError("Invalid request body"))
	}

	docType, err := models.ParseDocType(req.Type)
	if err != nil {
		return createErrorResponse(err)
	}
	if req.VenueID == 0 {
		return createErrorResponse(apperrors.MissingField("venueId"))
	}

	if err := h.useCase.RunBulk(ctx, docType, req.VenueID, req.Year, time.Month(req.Month)); err != nil {
		return createErrorResponse(err)
	}

	return createSuccessResponse()
}

// Helper functions
func createSuccessResponse() (events.APIGatewayProxyResponse, error) {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    defaultHeaders(),
		Body:       `{"success":true}`,
	}, nil
}

func createErrorResponse(err error) (events.APIGatewayProxyResponse, error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal(err.Error())
	}

	body, _ := json.Marshal(appErr.ToJSON())
	return events.APIGatewayProxyResponse{
		StatusCode: appErr.HTTPStatus,
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
