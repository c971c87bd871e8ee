package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"taskboard/handlers"
	"taskboard/logging"
	"taskboard/middleware"
	"taskboard/repositories"
	"taskboard/services"
	"taskboard/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func newBreaker(name string, timeout time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Taskboard...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoDBName == "" {
		mongoDBName = "taskboard"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer mongoClient.Disconnect(ctx)

	if err := mongoClient.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := mongoClient.Database(mongoDBName)

	userRepo, err := repositories.NewMongoUserRepository(ctx, db.Collection("users"))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: Failed to prepare users collection: %v", err)
	}
	groupRepo := repositories.NewMongoGroupRepository(db.Collection("groups"))
	taskRepo := repositories.NewMongoTaskRepository(db.Collection("tasks"))
	auditRepo := repositories.NewMongoAuditRepository(db.Collection("audit"))

	notificationRepo, err := repositories.NewCassandraNotificationRepository()
	if err != nil {
		logging.Logger.Fatalf("Event ID: CASS_CONNECTION_FAILED, Description: Cassandra connection failed: %v", err)
	}
	defer notificationRepo.CloseSession()

	mailer, err := utils.NewSMTPMailer()
	if err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: Mailer configuration invalid: %v", err)
	}

	mailBreaker := newBreaker("smtp-relay-cb", 5*time.Second)
	genaiBreaker := newBreaker("genai-cb", 2*time.Second)

	auditService := services.NewAuditService(auditRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, groupRepo)
	taskService := services.NewTaskService(taskRepo, groupRepo, auditService, notificationService)
	groupService := services.NewGroupService(groupRepo, taskRepo, userRepo)
	userService := services.NewUserService(userRepo, mailer, mailBreaker)
	aiService := services.NewAIService(&http.Client{Timeout: 30 * time.Second}, genaiBreaker)

	taskHandler := handlers.NewTaskHandler(taskService, auditService)
	groupHandler := handlers.NewGroupHandler(groupService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	loginHandler := handlers.NewLoginHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	aiHandler := handlers.NewAIHandler(aiService)

	r := mux.NewRouter()

	// Unauthenticated routes.
	r.HandleFunc("/api/auth/register", loginHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", loginHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", loginHandler.Logout).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/forgot-password", loginHandler.ForgotPassword).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/reset-password", loginHandler.ResetPassword).Methods(http.MethodPost)
	r.HandleFunc("/api/ai/generate-description", aiHandler.GenerateDescription).Methods(http.MethodPost)

	// Mark-one-read deliberately skips the auth gate.
	r.HandleFunc("/api/notifications/{id}/read", notificationHandler.MarkRead).Methods(http.MethodPut)

	// Everything below passes the access-control gate.
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(func(next http.Handler) http.Handler {
		return middleware.JWTAuthMiddleware(userRepo, next)
	})

	protected.HandleFunc("/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	protected.HandleFunc("/tasks", taskHandler.GetTasks).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id}", taskHandler.UpdateTask).Methods(http.MethodPut)
	protected.HandleFunc("/tasks/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	protected.HandleFunc("/tasks/{id}/audit", taskHandler.GetAuditTrail).Methods(http.MethodGet)

	protected.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/mark-all-read", notificationHandler.MarkAllRead).Methods(http.MethodPut)

	protected.HandleFunc("/groups", groupHandler.CreateGroup).Methods(http.MethodPost)
	protected.HandleFunc("/groups", groupHandler.GetGroups).Methods(http.MethodGet)
	protected.HandleFunc("/groups/{id}", groupHandler.GetGroup).Methods(http.MethodGet)
	protected.HandleFunc("/groups/{id}", groupHandler.RenameGroup).Methods(http.MethodPut)
	protected.HandleFunc("/groups/{id}", groupHandler.DeleteGroup).Methods(http.MethodDelete)
	protected.HandleFunc("/groups/{id}/members", groupHandler.AddMember).Methods(http.MethodPost)
	protected.HandleFunc("/groups/{id}/members/{userId}", groupHandler.RemoveMember).Methods(http.MethodDelete)
	protected.HandleFunc("/groups/{id}/transfer", groupHandler.TransferOwnership).Methods(http.MethodPut)

	protected.HandleFunc("/users/profile", userHandler.GetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/users/profile", userHandler.UpdateProfile).Methods(http.MethodPut)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: SERVER_PORT is not set in the environment variables.")
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, enableCORS(r)); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
