package main

import (
	"flag"
	"log"
	"os"

	"strokify/internal/ml"

	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found: %v", err)
		}
	}
}

func main() {
	dataPath := flag.String("data", envOr("DATASET_PATH", "healthcare-dataset-stroke-data.csv"), "Path to the training CSV")
	outPath := flag.String("out", envOr("MODEL_PATH", "model.json"), "Where to write the trained artifact")
	seed := flag.Int64("seed", 42, "Random seed for the resampler")
	flag.Parse()

	log.Printf("Loading dataset from %s...", *dataPath)
	records, labels, err := ml.LoadDataset(*dataPath)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	positives := 0
	for _, label := range labels {
		positives += label
	}
	log.Printf("Loaded %d records (%d positive)", len(records), positives)

	pipeline := ml.NewPipeline(*seed)
	log.Println("Training model...")
	if err := pipeline.Fit(records, labels); err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	if err := pipeline.Save(*outPath); err != nil {
		log.Fatalf("Failed to save artifact: %v", err)
	}
	log.Printf("Model trained and saved to %s", *outPath)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
