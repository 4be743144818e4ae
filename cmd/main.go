package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookvault/db"
	"bookvault/internal/auth"
	"bookvault/internal/book"
	"bookvault/internal/config"
	"bookvault/internal/session"
	"bookvault/internal/web"
	"bookvault/middleware"

	"go.mongodb.org/mongo-driver/mongo"
)

// Global loggers for different output streams
var (
	infoLogger  = log.New(os.Stdout, "", log.LstdFlags)
	errorLogger = log.New(os.Stderr, "", log.LstdFlags)
)

func main() {
	infoLogger.Printf("Starting bookvault - Process ID: %d", os.Getpid())

	cfg, err := config.LoadConfig()
	if err != nil {
		errorLogger.Fatalf("Failed to load configuration: %v", err)
	}

	var sqliteDB *sql.DB
	var mongoClient *mongo.Client

	switch cfg.DatabaseType {
	case config.SQLite:
		infoLogger.Println("Using SQLite database")
		sqliteDB, err = db.ConnectToSQLite(cfg.SQLitePath)
		if err != nil {
			errorLogger.Fatalf("Failed to connect to SQLite: %v", err)
		}
		if err := db.InitializeSchema(sqliteDB); err != nil {
			errorLogger.Fatalf("Failed to initialize database schema: %v", err)
		}
	case config.MongoDB:
		infoLogger.Println("Using MongoDB database")
		mongoClient, err = db.ConnectToMongo(cfg.MongoURI)
		if err != nil {
			errorLogger.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		if err := db.EnsureIndexes(mongoClient, cfg.DatabaseName); err != nil {
			errorLogger.Fatalf("Failed to ensure MongoDB indexes: %v", err)
		}
	}

	repoFactory := db.NewRepositoryFactory(sqliteDB, mongoClient, cfg.DatabaseName)
	userRepo := repoFactory.NewUserRepository()
	bookRepo := repoFactory.NewBookRepository()
	sessionRepo := repoFactory.NewSessionRepository()

	sessionManager := session.NewManager(sessionRepo, cfg.SessionSecret)
	authService := auth.NewService(userRepo, sessionManager, nil)
	bookService := book.NewBookService(bookRepo)
	tokenHandlers := auth.NewTokenHandlers(cfg, authService)

	// Periodically remove expired session rows.
	done := make(chan bool)
	go sessionManager.Sweep(10*time.Minute, done)

	webHandler, err := web.NewWebHandler(authService, bookService, tokenHandlers, sessionManager, cfg, "templates")
	if err != nil {
		errorLogger.Fatalf("Failed to initialize web handlers: %v", err)
	}

	mw := middleware.NewMiddleware(cfg, sessionManager)
	router := webHandler.SetupRoutes(mw)
	handler := middleware.RecoveryMiddleware(middleware.LoggingMiddleware(router))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		infoLogger.Printf("Server is starting on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errorLogger.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for a termination signal, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infoLogger.Println("Shutting down...")
	close(done)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		errorLogger.Printf("Server shutdown error: %v", err)
	}

	if sqliteDB != nil {
		sqliteDB.Close()
	}
	if mongoClient != nil {
		mongoClient.Disconnect(context.Background())
	}
	infoLogger.Println("Server stopped")
}
