package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"carbooking/internal/api"
	"carbooking/internal/auth"
	"carbooking/internal/repository"
	"carbooking/internal/service"
	"carbooking/internal/session"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := database.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	vehicleRepo := repository.NewVehicleRepository(database)
	reservationRepo := repository.NewReservationRepository(database)
	userRepo := repository.NewUserRepository(database)
	jobRepo := repository.NewJobRepository(database)

	inventory := service.NewInventoryService(vehicleRepo, reservationRepo)
	stripeSvc := service.NewStripeService(
		os.Getenv("STRIPE_SECRET_KEY"),
		os.Getenv("PAYMENT_SUCCESS_URL"),
		os.Getenv("PAYMENT_CANCEL_URL"),
	)
	notify := service.NewNotifyService()
	pending := session.NewPendingStore()
	payments := service.NewPaymentService(pending, inventory, stripeSvc, userRepo, inventory, notify)
	orchestrator := session.NewOrchestrator(inventory, pending, payments)
	payments.SetSessionFinisher(orchestrator)

	userHandler := api.NewUserHandler(inventory, userRepo)
	bookingHandler := api.NewBookingHandler(orchestrator)
	adminHandler := api.NewAdminHandler(inventory)
	stripeHandler := api.NewStripeWebhookHandler(os.Getenv("STRIPE_WEBHOOK_SECRET"), payments)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/users", userHandler.RegisterUser).Methods("POST")
	r.HandleFunc("/api/vehicles", userHandler.ListVehicles).Methods("GET")
	r.HandleFunc("/api/vehicles/{id}", userHandler.GetVehicle).Methods("GET")
	r.HandleFunc("/api/booking/browse", bookingHandler.Browse).Methods("POST")
	r.HandleFunc("/api/booking/select", bookingHandler.SelectVehicle).Methods("POST")
	r.HandleFunc("/api/booking/dates", bookingHandler.SubmitDates).Methods("POST")
	r.HandleFunc("/api/booking/confirm", bookingHandler.Confirm).Methods("POST")
	r.HandleFunc("/api/booking/cancel", bookingHandler.Cancel).Methods("POST")
	r.HandleFunc("/api/stripe/webhook", stripeHandler.HandleWebhook).Methods("POST")

	// Admin endpoints (protected by the static allow-list)
	allowList := auth.ParseAllowList(os.Getenv("ADMIN_IDS"))
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware(allowList))
	admin.HandleFunc("/vehicles", adminHandler.AddVehicle).Methods("POST")
	admin.HandleFunc("/vehicles/{id}", adminHandler.DeleteVehicle).Methods("DELETE")
	admin.HandleFunc("/reservations", adminHandler.ListReservations).Methods("GET")
	admin.HandleFunc("/reservations/{id}", adminHandler.CancelReservation).Methods("DELETE")

	pendingTTL := time.Duration(envInt("PENDING_TTL_MINUTES", 30)) * time.Minute
	retention := time.Duration(envInt("RESERVATION_RETENTION_DAYS", 30)) * 24 * time.Hour
	jobs := service.NewJobService(jobRepo, pending, orchestrator, pendingTTL, retention)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 10m", jobs.EvictStalePendingReservations); err != nil {
		log.Fatalf("Failed to schedule eviction job: %v", err)
	}
	if _, err := scheduler.AddFunc("@daily", func() {
		if err := jobs.PurgeInactiveReservations(); err != nil {
			log.Printf("%v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule purge job: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE"}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-User-ID"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, cors(r))))
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
