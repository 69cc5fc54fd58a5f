package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"trello-project/microservices/analytics-service/logging"
	"trello-project/microservices/analytics-service/models"
	"trello-project/microservices/analytics-service/services"

	"github.com/robfig/cron/v3"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Scheduler pokreće dva nezavisna periodična pipeline-a: workspace/projekat
// agregaciju i employee agregaciju sa ranking prolazom. Svaki zakazani run je
// nezavisan: pad jednog run-a ne sme da spreči sledeći niti da obori proces.
type Scheduler struct {
	EmployeeAggregator    *services.EmployeeAggregator
	RankingService        *services.RankingService
	WorkspaceAggregator   *services.WorkspaceAggregator
	LeaderboardAggregator *services.LeaderboardAggregator

	UsersCollection *mongo.Collection

	BatchSize  int
	WindowDays int

	cron             *cron.Cron
	workspaceBreaker *gobreaker.CircuitBreaker
	employeeBreaker  *gobreaker.CircuitBreaker
}

func NewScheduler(operational, reporting *mongo.Database, batchSize, windowDays int) *Scheduler {
	if batchSize < 1 {
		batchSize = 50
	}
	if windowDays < 1 {
		windowDays = 30
	}
	return &Scheduler{
		EmployeeAggregator:    services.NewEmployeeAggregator(operational, reporting),
		RankingService:        services.NewRankingService(operational, reporting),
		WorkspaceAggregator:   services.NewWorkspaceAggregator(operational, reporting),
		LeaderboardAggregator: services.NewLeaderboardAggregator(operational, reporting),
		UsersCollection:       operational.Collection("users"),
		BatchSize:             batchSize,
		WindowDays:            windowDays,
		workspaceBreaker:      newPipelineBreaker("WorkspacePipelineCB"),
		employeeBreaker:       newPipelineBreaker("EmployeePipelineCB"),
	}
}

// newPipelineBreaker pravi circuit breaker sa istim podešavanjima kao ostali
// servisi: otvara se posle više od 3 uzastopna neuspeha.
func newPipelineBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     5 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

// Start registruje oba cron rasporeda i pokreće cron runner.
func (s *Scheduler) Start(workspaceSpec, employeeSpec string) error {
	s.cron = cron.New()

	if _, err := s.cron.AddFunc(workspaceSpec, s.scheduledWorkspaceRun); err != nil {
		return fmt.Errorf("failed to schedule workspace pipeline (%q): %v", workspaceSpec, err)
	}
	if _, err := s.cron.AddFunc(employeeSpec, s.scheduledEmployeeRun); err != nil {
		return fmt.Errorf("failed to schedule employee pipeline (%q): %v", employeeSpec, err)
	}

	s.cron.Start()
	logging.Logger.Infof("Event ID: SCHEDULER_STARTED, Description: Workspace pipeline on %q, employee pipeline on %q", workspaceSpec, employeeSpec)
	return nil
}

// Stop zaustavlja cron i čeka da run u toku završi.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	logging.Logger.Info("Event ID: SCHEDULER_STOPPED, Description: Scheduler stopped.")
}

func (s *Scheduler) scheduledWorkspaceRun() {
	defer recoverRun("WORKSPACE_PIPELINE")

	_, err := s.workspaceBreaker.Execute(func() (interface{}, error) {
		return nil, s.RunWorkspacePipeline(context.Background())
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: WORKSPACE_PIPELINE_FAILED, Description: Scheduled workspace pipeline run failed: %v", err)
	}
}

func (s *Scheduler) scheduledEmployeeRun() {
	defer recoverRun("EMPLOYEE_PIPELINE")

	_, err := s.employeeBreaker.Execute(func() (interface{}, error) {
		return nil, s.RunEmployeePipeline(context.Background())
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: EMPLOYEE_PIPELINE_FAILED, Description: Scheduled employee pipeline run failed: %v", err)
	}
}

// RunWorkspacePipeline pokreće workspace pregled pa projektni leaderboard,
// sekvencijalno.
func (s *Scheduler) RunWorkspacePipeline(ctx context.Context) error {
	started := time.Now()
	logging.Logger.Info("Event ID: WORKSPACE_PIPELINE_START, Description: Starting workspace/project aggregation run.")

	if err := s.WorkspaceAggregator.AggregateAll(ctx); err != nil {
		return fmt.Errorf("workspace aggregation failed: %v", err)
	}
	if err := s.LeaderboardAggregator.AggregateAll(ctx); err != nil {
		return fmt.Errorf("leaderboard aggregation failed: %v", err)
	}

	logging.Logger.Infof("Event ID: WORKSPACE_PIPELINE_DONE, Description: Workspace/project aggregation finished in %s.", time.Since(started))
	return nil
}

// RunEmployeePipeline agregira celu populaciju korisnika u batch-evima fiksne
// veličine (konkurentno unutar batch-a, batch-evi sekvencijalno), pa odmah
// pokreće ranking prolaz. Greška jednog zaposlenog ne prekida batch.
func (s *Scheduler) RunEmployeePipeline(ctx context.Context) error {
	started := time.Now()
	logging.Logger.Info("Event ID: EMPLOYEE_PIPELINE_START, Description: Starting employee aggregation run.")

	end := time.Now()
	start := end.AddDate(0, 0, -s.WindowDays)

	userIDs, err := s.fetchAllUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch user population: %v", err)
	}

	for offset := 0; offset < len(userIDs); offset += s.BatchSize {
		limit := offset + s.BatchSize
		if limit > len(userIDs) {
			limit = len(userIDs)
		}
		batch := userIDs[offset:limit]

		var wg sync.WaitGroup
		for _, userID := range batch {
			wg.Add(1)
			go func(id primitive.ObjectID) {
				defer wg.Done()
				defer recoverRun("EMPLOYEE_AGGREGATION")

				if err := s.EmployeeAggregator.AggregateEmployee(ctx, id, start, end); err != nil {
					logging.Logger.Errorf("Event ID: EMPLOYEE_AGGREGATION_FAILED, Description: Aggregation failed for user %s: %v", id.Hex(), err)
				}
			}(userID)
		}
		wg.Wait()
	}

	if err := s.RankingService.RankEmployees(ctx, start, end); err != nil {
		return fmt.Errorf("ranking pass failed: %v", err)
	}

	logging.Logger.Infof("Event ID: EMPLOYEE_PIPELINE_DONE, Description: Employee aggregation finished for %d users in %s.", len(userIDs), time.Since(started))
	return nil
}

func (s *Scheduler) fetchAllUserIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	cursor, err := s.UsersCollection.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %v", err)
	}

	ids := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func recoverRun(name string) {
	if r := recover(); r != nil {
		logging.Logger.Errorf("Event ID: %s_PANIC, Description: Recovered from panic: %v", name, r)
	}
}
