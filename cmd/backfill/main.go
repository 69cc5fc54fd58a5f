// Komanda backfill ručno pokreće employee pipeline jednom, za operativne
// popravke i backfill. Ispisuje broj snapshot dokumenata pre i posle.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"trello-project/microservices/analytics-service/logging"
	"trello-project/microservices/analytics-service/scheduler"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	logging.InitLogger()

	if err := godotenv.Load(".env"); err != nil {
		fmt.Println("Error loading .env file:", err)
		os.Exit(1)
	}

	operationalURI := os.Getenv("MONGO_URI")
	operationalDBName := os.Getenv("MONGO_DB_NAME")
	reportingURI := os.Getenv("REPORTING_MONGO_URI")
	reportingDBName := os.Getenv("REPORTING_DB_NAME")

	batchSize := 50
	if value := os.Getenv("EMPLOYEE_BATCH_SIZE"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			batchSize = parsed
		}
	}
	windowDays := 30
	if value := os.Getenv("AGGREGATION_WINDOW_DAYS"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			windowDays = parsed
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	operationalClient, err := mongo.Connect(ctx, options.Client().ApplyURI(operationalURI))
	if err != nil {
		fmt.Println("Operational database connection failed:", err)
		os.Exit(1)
	}
	defer operationalClient.Disconnect(context.Background())

	reportingClient, err := mongo.Connect(ctx, options.Client().ApplyURI(reportingURI))
	if err != nil {
		fmt.Println("Reporting database connection failed:", err)
		os.Exit(1)
	}
	defer reportingClient.Disconnect(context.Background())

	if err := operationalClient.Ping(ctx, nil); err != nil {
		fmt.Println("Operational MongoDB ping error:", err)
		os.Exit(1)
	}
	if err := reportingClient.Ping(ctx, nil); err != nil {
		fmt.Println("Reporting MongoDB ping error:", err)
		os.Exit(1)
	}

	operationalDB := operationalClient.Database(operationalDBName)
	reportingDB := reportingClient.Database(reportingDBName)
	performanceCollection := reportingDB.Collection("employee_performance")

	before, err := performanceCollection.CountDocuments(context.Background(), bson.M{})
	if err != nil {
		fmt.Println("Failed to count snapshots:", err)
		os.Exit(1)
	}
	fmt.Printf("Snapshots before run: %d\n", before)

	sched := scheduler.NewScheduler(operationalDB, reportingDB, batchSize, windowDays)

	started := time.Now()
	if err := sched.RunEmployeePipeline(context.Background()); err != nil {
		fmt.Println("Employee pipeline failed:", err)
		os.Exit(1)
	}

	after, err := performanceCollection.CountDocuments(context.Background(), bson.M{})
	if err != nil {
		fmt.Println("Failed to count snapshots:", err)
		os.Exit(1)
	}

	fmt.Printf("Snapshots after run: %d\n", after)
	fmt.Printf("Done in %s\n", time.Since(started))
}
