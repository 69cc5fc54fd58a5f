package services

import (
	"context"
	"fmt"
	"time"

	"trello-project/microservices/analytics-service/logging"
	"trello-project/microservices/analytics-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EmployeeAggregator računa i upisuje dnevni snapshot performansi za jednog
// zaposlenog. Čita operativne kolekcije, piše isključivo u izveštajnu bazu.
type EmployeeAggregator struct {
	TasksCollection       *mongo.Collection
	HistoryCollection     *mongo.Collection
	ProjectsCollection    *mongo.Collection
	UsersCollection       *mongo.Collection
	PerformanceCollection *mongo.Collection
}

func NewEmployeeAggregator(operational, reporting *mongo.Database) *EmployeeAggregator {
	return &EmployeeAggregator{
		TasksCollection:       operational.Collection("tasks"),
		HistoryCollection:     operational.Collection("task_history"),
		ProjectsCollection:    operational.Collection("projects"),
		UsersCollection:       operational.Collection("users"),
		PerformanceCollection: reporting.Collection("employee_performance"),
	}
}

// AggregateEmployee proizvodi tačno jedan snapshot za (userID, "daily",
// današnji dan). Ponovljeni pozivi za isti dan prepisuju isti dokument.
func (a *EmployeeAggregator) AggregateEmployee(ctx context.Context, userID primitive.ObjectID, start, end time.Time) error {
	tasks, err := a.fetchEmployeeTasks(ctx, userID, start, end)
	if err != nil {
		return fmt.Errorf("failed to fetch tasks for user %s: %v", userID.Hex(), err)
	}

	events, err := a.fetchTaskEvents(ctx, tasks, start, end)
	if err != nil {
		return fmt.Errorf("failed to fetch task history for user %s: %v", userID.Hex(), err)
	}

	metrics := CalculateMetrics(tasks, events)
	projects := a.projectBreakdown(ctx, tasks, events)

	// Neuspeh razrešavanja workspace-a ne sme da obori agregaciju zaposlenog.
	workspaceID := a.resolveHomeWorkspace(ctx, userID)

	snapshot := bson.M{
		"workspaceId":    workspaceID,
		"metrics":        metrics,
		"projects":       projects,
		"lastCalculated": time.Now(),
	}

	filter := bson.M{
		"userId":       userID,
		"period":       models.PeriodDaily,
		"snapshotDate": SnapshotDay(time.Now()),
	}

	_, err = a.PerformanceCollection.UpdateOne(ctx, filter, bson.M{"$set": snapshot}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert performance snapshot for user %s: %v", userID.Hex(), err)
	}

	return nil
}

// fetchEmployeeTasks vraća aktivne zadatke zaposlenog kojima bilo koji od tri
// vremenska pečata (created/updated/completed) upada u prozor [start, end].
func (a *EmployeeAggregator) fetchEmployeeTasks(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]models.Task, error) {
	filter := bson.M{
		"assigneeId": userID,
		"isActive":   true,
		"$or": []bson.M{
			{"createdAt": bson.M{"$gte": start, "$lte": end}},
			{"updatedAt": bson.M{"$gte": start, "$lte": end}},
			{"completedAt": bson.M{"$gte": start, "$lte": end}},
		},
	}

	cursor, err := a.TasksCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %v", err)
	}
	return tasks, nil
}

func (a *EmployeeAggregator) fetchTaskEvents(ctx context.Context, tasks []models.Task, start, end time.Time) ([]models.TaskHistory, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	taskIDs := make([]primitive.ObjectID, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}

	filter := bson.M{
		"taskId":    bson.M{"$in": taskIDs},
		"timestamp": bson.M{"$gte": start, "$lte": end},
	}

	cursor, err := a.HistoryCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.TaskHistory
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode task history: %v", err)
	}
	return events, nil
}

// projectBreakdown grupiše zadatke zaposlenog po projektu i računa učešće po
// projektu, sa approval rate-om izvedenim samo iz događaja tog projekta.
func (a *EmployeeAggregator) projectBreakdown(ctx context.Context, tasks []models.Task, events []models.TaskHistory) []models.ProjectInvolvement {
	type projectTally struct {
		assigned  int
		completed int
		taskIDs   map[primitive.ObjectID]bool
	}

	tallies := make(map[primitive.ObjectID]*projectTally)
	order := []primitive.ObjectID{}

	for _, t := range tasks {
		projectID, err := models.NormalizeID(t.ProjectID)
		if err != nil {
			logging.Logger.Warnf("Event ID: PROJECT_ID_INVALID, Description: Skipping task %s with malformed project id %q: %v", t.ID.Hex(), t.ProjectID, err)
			continue
		}
		tally, ok := tallies[projectID]
		if !ok {
			tally = &projectTally{taskIDs: make(map[primitive.ObjectID]bool)}
			tallies[projectID] = tally
			order = append(order, projectID)
		}
		tally.assigned++
		if t.Status == models.StatusDone {
			tally.completed++
		}
		tally.taskIDs[t.ID] = true
	}

	names := a.projectNames(ctx, order)

	involvements := make([]models.ProjectInvolvement, 0, len(order))
	for _, projectID := range order {
		tally := tallies[projectID]

		var approved, rejected int
		for _, e := range events {
			if !tally.taskIDs[e.TaskID] {
				continue
			}
			switch e.EventType {
			case models.EventApproved:
				approved++
			case models.EventRejected:
				rejected++
			}
		}

		involvements = append(involvements, models.ProjectInvolvement{
			ProjectID:      projectID,
			ProjectName:    names[projectID],
			AssignedTasks:  tally.assigned,
			CompletedTasks: tally.completed,
			ApprovalRate:   percentage(approved, approved+rejected),
		})
	}

	return involvements
}

func (a *EmployeeAggregator) projectNames(ctx context.Context, projectIDs []primitive.ObjectID) map[primitive.ObjectID]string {
	names := make(map[primitive.ObjectID]string)
	if len(projectIDs) == 0 {
		return names
	}

	cursor, err := a.ProjectsCollection.Find(ctx, bson.M{"_id": bson.M{"$in": projectIDs}})
	if err != nil {
		logging.Logger.Warnf("Event ID: PROJECT_NAMES_FETCH_FAILED, Description: Failed to fetch project names: %v", err)
		return names
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		logging.Logger.Warnf("Event ID: PROJECT_NAMES_DECODE_FAILED, Description: Failed to decode projects: %v", err)
		return names
	}

	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names
}

// resolveHomeWorkspace uzima prvi workspace iz liste članstava korisnika.
// Neispravan ili odsutan ID se loguje i vraća se nil, agregacija se nastavlja.
func (a *EmployeeAggregator) resolveHomeWorkspace(ctx context.Context, userID primitive.ObjectID) *primitive.ObjectID {
	var user models.User
	if err := a.UsersCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		logging.Logger.Warnf("Event ID: USER_FETCH_FAILED, Description: Failed to fetch user %s for workspace resolution: %v", userID.Hex(), err)
		return nil
	}

	if len(user.Workspaces) == 0 {
		return nil
	}

	workspaceID, err := models.NormalizeID(user.Workspaces[0])
	if err != nil {
		logging.Logger.Warnf("Event ID: WORKSPACE_ID_INVALID, Description: User %s has malformed workspace reference %q: %v", userID.Hex(), user.Workspaces[0], err)
		return nil
	}
	return &workspaceID
}

// SnapshotDay normalizuje vreme na ponoć (UTC), ključ dnevnog snapshot-a.
func SnapshotDay(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), t.UTC().Month(), t.UTC().Day(), 0, 0, 0, 0, time.UTC)
}
