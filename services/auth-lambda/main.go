package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/mm-booking-services/common/db"
	"github.com/mm-booking-services/services/auth-lambda/handler"
)

var authHandler *handler.AuthHandler

func init() {
	if err := db.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	authHandler = handler.NewAuthHandler()
}

func main() {
	lambda.Start(authHandler.HandleLogin)
}
