package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/mm-booking-services/common/config"
	"github.com/mm-booking-services/common/drive"
	"github.com/mm-booking-services/common/email"
	"github.com/mm-booking-services/services/docs-lambda/handler"
	"github.com/mm-booking-services/services/docs-lambda/usecase"
)

// For AWS Lambda deployment
// This file is used when deploying to AWS Lambda
func main() {
	api, err := drive.NewAPI(context.Background())
	if err != nil {
		log.Fatalf("drive init failed: %v", err)
	}
	store := drive.NewStore(api, config.GetConfig().DocumentRootFolderID)

	uc := usecase.NewDocsUseCase(email.NewService(), store)
	docsHandler := handler.NewDocsHandler(uc)

	// Lambda handler for API Gateway events
	lambda.Start(docsHandler.HandleSendOne)
}
