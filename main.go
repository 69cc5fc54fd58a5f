package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
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

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Analytics Service...")
	err := godotenv.Load(".env")
	if err != nil {
		logging.Logger.Fatalf("Event ID: ENV_LOAD_ERROR, Description: Error loading .env file: %v", err)
	}

	operationalURI := os.Getenv("MONGO_URI")
	operationalDBName := os.Getenv("MONGO_DB_NAME")
	reportingURI := os.Getenv("REPORTING_MONGO_URI")
	reportingDBName := os.Getenv("REPORTING_DB_NAME")

	workspaceCron := envOrDefault("WORKSPACE_CRON", "0 */2 * * *")
	employeeCron := envOrDefault("EMPLOYEE_CRON", "0 */6 * * *")
	batchSize := envIntOrDefault("EMPLOYEE_BATCH_SIZE", 50)
	windowDays := envIntOrDefault("AGGREGATION_WINDOW_DAYS", 30)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	operationalClient, err := mongo.Connect(ctx, options.Client().ApplyURI(operationalURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for operational MongoDB failed: %v", err)
	}
	defer operationalClient.Disconnect(context.Background())

	if err := operationalClient.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: Operational MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to operational MongoDB at %s.", operationalURI)

	reportingClient, err := mongo.Connect(ctx, options.Client().ApplyURI(reportingURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for reporting MongoDB failed: %v", err)
	}
	defer reportingClient.Disconnect(context.Background())

	if err := reportingClient.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: Reporting MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to reporting MongoDB at %s.", reportingURI)

	operationalDB := operationalClient.Database(operationalDBName)
	reportingDB := reportingClient.Database(reportingDBName)

	if err := ensureReportingIndexes(ctx, reportingDB); err != nil {
		logging.Logger.Fatalf("Event ID: INDEX_CREATE_FAILED, Description: %v", err)
	}

	sched := scheduler.NewScheduler(operationalDB, reportingDB, batchSize, windowDays)
	if err := sched.Start(workspaceCron, employeeCron); err != nil {
		logging.Logger.Fatalf("Event ID: SCHEDULER_START_FAILED, Description: %v", err)
	}

	// Čeka se signal za gašenje; run u toku se pušta da završi.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logging.Logger.Info("Event ID: SERVICE_STOPPING, Description: Shutdown signal received, stopping scheduler...")
	sched.Stop()
	logging.Logger.Info("Event ID: SERVICE_STOPPED, Description: Analytics Service stopped.")
}

// ensureReportingIndexes pravi jedinstvene indekse koji podupiru upsert
// semantiku: jedan snapshot po (userId, period, snapshotDate), jedan pregled
// po workspace-u, jedan leaderboard zapis po projektu.
func ensureReportingIndexes(ctx context.Context, reportingDB *mongo.Database) error {
	performanceIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "period", Value: 1}, {Key: "snapshotDate", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := reportingDB.Collection("employee_performance").Indexes().CreateOne(ctx, performanceIndex); err != nil {
		return fmt.Errorf("failed to create unique index on employee_performance: %v", err)
	}

	summaryIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "workspaceId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := reportingDB.Collection("workspace_summaries").Indexes().CreateOne(ctx, summaryIndex); err != nil {
		return fmt.Errorf("failed to create unique index on workspace_summaries: %v", err)
	}

	leaderboardIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "projectId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := reportingDB.Collection("project_leaderboard").Indexes().CreateOne(ctx, leaderboardIndex); err != nil {
		return fmt.Errorf("failed to create unique index on project_leaderboard: %v", err)
	}

	return nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Logger.Warnf("Event ID: CONFIG_INVALID, Description: Invalid value %q for %s, using default %d.", value, key, fallback)
		return fallback
	}
	return parsed
}
