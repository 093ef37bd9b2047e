package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/WeiViv/StudyBuddy/auth"
	"github.com/WeiViv/StudyBuddy/routes"
	"github.com/WeiViv/StudyBuddy/services"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Services
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	matchService := &services.MatchService{Dynamo: dynamoService}
	discoveryService := &services.DiscoveryService{
		Dynamo:   dynamoService,
		Profiles: userProfileService,
		Matches:  matchService,
	}
	mediaService, err := services.NewMediaService(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize media service: %v", err)
	}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to StudyBuddy")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterUserProfileRoutes(r, userProfileService)
	routes.RegisterMatchRoutes(r, matchService)
	routes.RegisterDiscoveryRoutes(r, discoveryService)
	routes.RegisterMediaRoutes(r, mediaService)

	var handler http.Handler = r

	// Token verification sits in front of /api when an issuer is configured;
	// local development runs open.
	if issuer := os.Getenv("OIDC_ISSUER"); issuer != "" {
		middleware, err := auth.NewMiddleware(context.Background(), issuer, os.Getenv("OIDC_CLIENT_ID"))
		if err != nil {
			log.Fatalf("Failed to initialize auth middleware: %v", err)
		}
		protected := middleware.RequireUser(r)
		handler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Path == "/" || req.URL.Path == "/health" {
				r.ServeHTTP(w, req)
				return
			}
			protected.ServeHTTP(w, req)
		})
		log.Printf("OIDC auth enabled for issuer %s", issuer)
	} else {
		log.Println("OIDC_ISSUER not set; running without authentication")
	}

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(handler)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
