package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/joho/godotenv"

	"github.com/mm-booking-services/common/config"
	"github.com/mm-booking-services/common/db"
	"github.com/mm-booking-services/common/drive"
	"github.com/mm-booking-services/common/email"
	"github.com/mm-booking-services/common/jwt"
	"github.com/mm-booking-services/common/scheduler"
	authHandler "github.com/mm-booking-services/services/auth-lambda/handler"
	clientHandler "github.com/mm-booking-services/services/client-lambda/handler"
	docsHandler "github.com/mm-booking-services/services/docs-lambda/handler"
	docsUsecase "github.com/mm-booking-services/services/docs-lambda/usecase"
	eventHandler "github.com/mm-booking-services/services/event-lambda/handler"
	gameHandler "github.com/mm-booking-services/services/games-lambda/handler"
	gameRepository "github.com/mm-booking-services/services/games-lambda/repository"
	gameUsecase "github.com/mm-booking-services/services/games-lambda/usecase"
	venueHandler "github.com/mm-booking-services/services/venue-lambda/handler"
)

// Adapter converts http.Request to APIGatewayProxyRequest
func adaptRequest(r *http.Request) (events.APIGatewayProxyRequest, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}
	defer r.Body.Close()

	headers := make(map[string]string)
	for key, values := range r.Header {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	queryParams := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			queryParams[key] = values[0]
		}
	}

	return events.APIGatewayProxyRequest{
		HTTPMethod:            r.Method,
		Path:                  r.URL.Path,
		Headers:               headers,
		QueryStringParameters: queryParams,
		Body:                  string(body),
	}, nil
}

// writeResponse writes APIGatewayProxyResponse to http.ResponseWriter
func writeResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}

	w.WriteHeader(resp.StatusCode)
	w.Write([]byte(resp.Body))
}

// corsMiddleware handles CORS preflight requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// authMiddleware extracts the operator identity from the bearer token and
// forwards it to handlers through the X-User-* headers.
func authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token := authHeader[7:]
			claims, err := jwt.ValidateToken(token)
			if err != nil {
				log.Printf("[AUTH] token validation error: %v", err)
			}
			if claims != nil {
				r.Header.Set("X-User-Email", claims.Email)
				r.Header.Set("X-User-Role", claims.Role)
			}
		}

		next(w, r)
	})
}

func main() {
	// Load environment from .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	log.Println("Connecting to MySQL database...")
	if err := db.InitDB(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.CloseDB()
	log.Println("Database connected successfully!")

	cfg := config.GetConfig()

	// Document delivery wiring: one shared mailer, one Drive-backed store.
	driveAPI, err := drive.NewAPI(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize Drive client: %v", err)
	}
	docStore := drive.NewStore(driveAPI, cfg.DocumentRootFolderID)
	mailer := email.NewService()
	defer mailer.Close()
	docsUC := docsUsecase.NewDocsUseCase(mailer, docStore)

	gameRepo := gameRepository.NewGameRepository()
	gameScraper := gameUsecase.NewScraper(gameRepo)

	// Create handlers
	authH := authHandler.NewAuthHandler()
	eventH := eventHandler.NewEventHandler()
	clientH := clientHandler.NewClientHandler()
	venueH := venueHandler.NewVenueHandler()
	gameH := gameHandler.NewGameHandler()
	docsH := docsHandler.NewDocsHandler(docsUC)

	// ======================= AUTH ROUTES =======================
	http.HandleFunc("/api/login", corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		req, err := adaptRequest(r)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}

		resp, err := authH.HandleLogin(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeResponse(w, resp)
	}))

	// ======================= EVENT ROUTES =======================

	// /api/events - booking CRUD. Reads are open to any authenticated
	// operator; writes are ADMIN-gated inside the handler.
	http.HandleFunc("/api/events", authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		req, err := adaptRequest(r)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}

		var resp events.APIGatewayProxyResponse
		switch r.Method {
		case http.MethodGet:
			resp, err = eventH.HandleGetEvents(r.Context(), req)
		case http.MethodPost:
			resp, err = eventH.HandleCreateEvent(r.Context(), req)
		case http.MethodPut:
			resp, err = eventH.HandleUpdateEvent(r.Context(), req)
		case http.MethodDelete:
			resp, err = eventH.HandleDeleteEvent(r.Context(), req)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeResponse(w, resp)
	}))

	// ======================= CLIENT ROUTES =======================

	// /api/clients - performer roster CRUD. Deleting a client keeps its
	// display name on past bookings.
	http.HandleFunc("/api/clients", authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		req, err := adaptRequest(r)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}

		var resp events.APIGatewayProxyResponse
		switch r.Method {
		case http.MethodGet:
			resp, err = clientH.HandleGetClients(r.Context(), req)
		case http.MethodPost:
			resp, err = clientH.HandleCreateClient(r.Context(), req)
		case http.MethodPut:
			resp, err = clientH.HandleUpdateClient(r.Context(), req)
		case http.MethodDelete:
			resp, err = clientH.HandleDeleteClient(r.Context(), req)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeResponse(w, resp)
	}))

	// ======================= VENUE ROUTES =======================

	// /api/venues - venue CRUD including the four send-out-day thresholds.
	http.HandleFunc("/api/venues", authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		req, err := adaptRequest(r)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}

		var resp events.APIGatewayProxyResponse
		switch r.Method {
		case http.MethodGet:
			resp, err = venueH.HandleGetVenues(r.Context(), req)
		case http.MethodPost:
			resp, err = venueH.HandleCreateVenue(r.Context(), req)
		case http.MethodPut:
			resp, err = venueH.HandleUpdateVenue(r.Context(), req)
		case http.MethodDelete:
			resp, err = venueH.HandleDeleteVenue(r.Context(), req)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeResponse(w, resp)
	}))

	// ======================= DOCUMENT ROUTES =======================

	// POST /api/documents/send-one - send one document for one booking or venue
	http.HandleFunc("/api/documents/send-one", authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		req, err := adaptRequest(r)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}

		resp, err := docsH.HandleSendOne(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeResponse(w, resp)
	}))

	// POST /api/documents/send-all - staggered batch across every venue
	http.HandleFunc("/api/documents/send-all", authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		req, err := adaptRequest(r)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}

		resp, err := docsH.HandleSendAll(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeResponse(w, resp)
	}))

	// ======================= GAME ROUTES =======================

	// GET /api/games?team= - cached football schedule for the date picker
	http.HandleFunc("/api/games", corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		req, err := adaptRequest(r)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}

		resp, err := gameH.HandleGetGames(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeResponse(w, resp)
	}))

	// POST /api/games/refresh - force a schedule re-scrape (ADMIN)
	http.HandleFunc("/api/games/refresh", authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		req, err := adaptRequest(r)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}

		resp, err := gameH.HandleRefreshGames(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeResponse(w, resp)
	}))

	// ======================= PIPELINE CONFIG =======================

	// /api/admin/config - view or update pipeline settings (ADMIN).
	// Hour/zone changes take effect on the next process restart.
	http.HandleFunc("/api/admin/config", authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-User-Role") != "ADMIN" {
			http.Error(w, "ADMIN role required", http.StatusForbidden)
			return
		}

		w.Header().Set("Content-Type", "application/json;charset=UTF-8")
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(config.GetConfig())
		case http.MethodPost:
			updated := *config.GetConfig()
			if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}
			if err := config.SaveConfig(&updated); err != nil {
				http.Error(w, "Failed to save config", http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(&updated)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	// ======================= HEALTH CHECK =======================
	http.HandleFunc("/health", corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}))

	// ======================= START SCHEDULERS =======================
	// Daily send-out trigger: fires once a day in the configured zone and
	// dispatches every document whose venue threshold matches today.
	docScheduler, err := scheduler.NewDocSendoutScheduler(docsUC)
	if err != nil {
		log.Fatalf("Failed to create send-out scheduler: %v", err)
	}
	if err := docScheduler.Start(); err != nil {
		log.Fatalf("Failed to start send-out scheduler: %v", err)
	}
	defer docScheduler.Stop()
	log.Printf("Document send-out scheduler started (daily at %02d:00 %s)", cfg.SendOutHour, cfg.TimeZone)

	// Weekly football schedule refresh keeps the cached game tables warm.
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		log.Fatalf("Invalid time zone %q: %v", cfg.TimeZone, err)
	}
	gameScheduler := scheduler.NewGameRefreshScheduler(gameScraper, location)
	if err := gameScheduler.Start(); err != nil {
		log.Fatalf("Failed to start game refresh scheduler: %v", err)
	}
	defer gameScheduler.Stop()
	log.Println("Game schedule refresh scheduler started (Mondays at 05:00)")

	port := getEnv("PORT", "8080")
	log.Printf("Booking back end listening on http://localhost:%s", port)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
