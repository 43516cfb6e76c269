package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"strokify/database"
	"strokify/internal/controllers"
	"strokify/internal/middleware"
	"strokify/internal/ml"
	"strokify/internal/repository"
	"strokify/internal/stats"
	"strokify/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	database.ConnectDatabase()
	if err := database.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	database.MonitorDBConnections()

	// The model must be ready before the first request is served; a missing
	// or unreadable artifact triggers training from the source dataset.
	pipeline := loadOrTrainModel()

	predictionRepo := repository.NewPredictionRepository(database.DB)
	statsRepo := repository.NewStatsRepository(database.DB)
	aggregator := stats.NewAggregator(statsRepo)

	predictionController := controllers.NewPredictionController(predictionRepo, pipeline)
	dashboardController := controllers.NewDashboardController(aggregator)

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	router.Use(middleware.CORS())

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message":  "Strokify API is running",
			"version":  "1.0.0",
			"status":   "healthy",
			"model":    "in-process stroke risk pipeline",
			"database": "PostgreSQL",
		})
	})

	routes.RegisterPredictionRoutes(router, predictionController)
	routes.RegisterDashboardRoutes(router, dashboardController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:           ":" + port,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Printf("Server starting on port %s", port)
	log.Printf("Prediction endpoint: http://localhost:%s/predict", port)
	log.Printf("Dashboard data: http://localhost:%s/dashboard-data", port)

	if err := server.ListenAndServe(); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func loadOrTrainModel() *ml.Pipeline {
	modelPath := os.Getenv("MODEL_PATH")
	if modelPath == "" {
		modelPath = "model.json"
	}
	datasetPath := os.Getenv("DATASET_PATH")
	if datasetPath == "" {
		datasetPath = "healthcare-dataset-stroke-data.csv"
	}
	seed := int64(42)
	if raw := os.Getenv("SMOTE_SEED"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			seed = parsed
		}
	}

	pipeline, err := ml.Load(modelPath)
	if err == nil {
		log.Printf("Model loaded from %s", modelPath)
		return pipeline
	}
	if !errors.Is(err, ml.ErrArtifactNotFound) {
		log.Fatalf("Failed to load model: %v", err)
	}

	log.Printf("Model not found at %s, training from %s...", modelPath, datasetPath)
	records, labels, err := ml.LoadDataset(datasetPath)
	if err != nil {
		log.Fatalf("Cannot train fallback model: %v", err)
	}

	pipeline = ml.NewPipeline(seed)
	if err := pipeline.Fit(records, labels); err != nil {
		log.Fatalf("Model training failed: %v", err)
	}
	if err := pipeline.Save(modelPath); err != nil {
		log.Fatalf("Failed to persist trained model: %v", err)
	}
	log.Printf("Model trained on %d records and saved to %s", len(records), modelPath)
	return pipeline
}
