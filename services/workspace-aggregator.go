package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"trello-project/microservices/analytics-service/logging"
	"trello-project/microservices/analytics-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WorkspaceAggregator računa pregled po workspace-u: ukupan completion rate,
// listu aktivnih projekata i raspodelu otvorenih zadataka po članovima.
type WorkspaceAggregator struct {
	WorkspacesCollection *mongo.Collection
	ProjectsCollection   *mongo.Collection
	TasksCollection      *mongo.Collection
	UsersCollection      *mongo.Collection
	SummariesCollection  *mongo.Collection
}

func NewWorkspaceAggregator(operational, reporting *mongo.Database) *WorkspaceAggregator {
	return &WorkspaceAggregator{
		WorkspacesCollection: operational.Collection("workspaces"),
		ProjectsCollection:   operational.Collection("projects"),
		TasksCollection:      operational.Collection("tasks"),
		UsersCollection:      operational.Collection("users"),
		SummariesCollection:  reporting.Collection("workspace_summaries"),
	}
}

// AggregateAll obrađuje sve nearhivirane workspace-ove, jedan po jedan.
// Greška na jednom workspace-u se loguje i prelazi se na sledeći.
func (s *WorkspaceAggregator) AggregateAll(ctx context.Context) error {
	cursor, err := s.WorkspacesCollection.Find(ctx, bson.M{"isArchived": false})
	if err != nil {
		return fmt.Errorf("failed to fetch workspaces: %v", err)
	}
	defer cursor.Close(ctx)

	var workspaces []models.Workspace
	if err := cursor.All(ctx, &workspaces); err != nil {
		return fmt.Errorf("failed to decode workspaces: %v", err)
	}

	for _, ws := range workspaces {
		if err := s.aggregateWorkspace(ctx, ws); err != nil {
			logging.Logger.Errorf("Event ID: WORKSPACE_AGGREGATION_FAILED, Description: Aggregation failed for workspace %s (%s): %v", ws.ID.Hex(), ws.Name, err)
		}
	}

	return nil
}

func (s *WorkspaceAggregator) aggregateWorkspace(ctx context.Context, ws models.Workspace) error {
	projects, err := s.fetchActiveProjects(ctx, ws.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch projects: %v", err)
	}

	activeProjects := make([]models.ProjectRef, 0, len(projects))
	projectIDs := make([]string, 0, len(projects))
	for _, p := range projects {
		activeProjects = append(activeProjects, models.ProjectRef{ProjectID: p.ID, Name: p.Name})
		projectIDs = append(projectIDs, p.ID.Hex())
	}

	var tasks []models.Task
	if len(projectIDs) > 0 {
		cursor, err := s.TasksCollection.Find(ctx, bson.M{
			"projectId": bson.M{"$in": projectIDs},
			"isActive":  true,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch tasks: %v", err)
		}
		defer cursor.Close(ctx)

		if err := cursor.All(ctx, &tasks); err != nil {
			return fmt.Errorf("failed to decode tasks: %v", err)
		}
	}

	var completed int
	for _, t := range tasks {
		if t.Status == models.StatusDone {
			completed++
		}
	}

	names := s.resolveAssigneeNames(ctx, tasks)

	// Workspace bez zadataka ili bez dodeljenih izvršilaca i dalje dobija
	// pregled, prazna raspodela nije greška.
	summary := bson.M{
		"workspaceName":        ws.Name,
		"completionRate":       completionPercentage(completed, len(tasks)),
		"activeProjects":       activeProjects,
		"workloadDistribution": buildWorkloadDistribution(tasks, names),
		"lastUpdated":          time.Now(),
	}

	_, err = s.SummariesCollection.UpdateOne(ctx, bson.M{"workspaceId": ws.ID}, bson.M{"$set": summary}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert workspace summary: %v", err)
	}

	return nil
}

func (s *WorkspaceAggregator) fetchActiveProjects(ctx context.Context, workspaceID primitive.ObjectID) ([]models.Project, error) {
	cursor, err := s.ProjectsCollection.Find(ctx, bson.M{"workspaceId": workspaceID, "isActive": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %v", err)
	}
	return projects, nil
}

// resolveAssigneeNames dohvata imena svih izvršilaca jednim $in upitom.
func (s *WorkspaceAggregator) resolveAssigneeNames(ctx context.Context, tasks []models.Task) map[primitive.ObjectID]string {
	names := make(map[primitive.ObjectID]string)

	assigneeIDs := make([]primitive.ObjectID, 0)
	seen := make(map[primitive.ObjectID]bool)
	for _, t := range tasks {
		if t.AssigneeID == nil || seen[*t.AssigneeID] {
			continue
		}
		seen[*t.AssigneeID] = true
		assigneeIDs = append(assigneeIDs, *t.AssigneeID)
	}
	if len(assigneeIDs) == 0 {
		return names
	}

	cursor, err := s.UsersCollection.Find(ctx, bson.M{"_id": bson.M{"$in": assigneeIDs}})
	if err != nil {
		logging.Logger.Warnf("Event ID: ASSIGNEE_FETCH_FAILED, Description: Failed to fetch assignees: %v", err)
		return names
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		logging.Logger.Warnf("Event ID: ASSIGNEE_DECODE_FAILED, Description: Failed to decode assignees: %v", err)
		return names
	}

	for i := range users {
		names[users[i].ID] = users[i].DisplayName()
	}
	return names
}

// buildWorkloadDistribution broji otvorene zadatke (nisu done) po izvršiocu i
// sortira opadajuće po broju; izjednačeni zadržavaju redosled pojavljivanja.
func buildWorkloadDistribution(tasks []models.Task, names map[primitive.ObjectID]string) []models.WorkloadEntry {
	counts := make(map[primitive.ObjectID]int)
	order := []primitive.ObjectID{}

	for _, t := range tasks {
		if t.Status == models.StatusDone || t.AssigneeID == nil {
			continue
		}
		if _, ok := counts[*t.AssigneeID]; !ok {
			order = append(order, *t.AssigneeID)
		}
		counts[*t.AssigneeID]++
	}

	entries := make([]models.WorkloadEntry, 0, len(order))
	for _, userID := range order {
		name := names[userID]
		if name == "" {
			name = "Unknown"
		}
		entries = append(entries, models.WorkloadEntry{
			UserID:    userID,
			Name:      name,
			OpenTasks: counts[userID],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OpenTasks > entries[j].OpenTasks
	})

	return entries
}

func completionPercentage(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
