package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"trello-project/microservices/analytics-service/logging"
	"trello-project/microservices/analytics-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LeaderboardAggregator računa completion procenat i izvedeni status za svaki
// aktivan projekat u nearhiviranim workspace-ovima.
type LeaderboardAggregator struct {
	WorkspacesCollection  *mongo.Collection
	ProjectsCollection    *mongo.Collection
	TasksCollection       *mongo.Collection
	UsersCollection       *mongo.Collection
	LeaderboardCollection *mongo.Collection
}

func NewLeaderboardAggregator(operational, reporting *mongo.Database) *LeaderboardAggregator {
	return &LeaderboardAggregator{
		WorkspacesCollection:  operational.Collection("workspaces"),
		ProjectsCollection:    operational.Collection("projects"),
		TasksCollection:       operational.Collection("tasks"),
		UsersCollection:       operational.Collection("users"),
		LeaderboardCollection: reporting.Collection("project_leaderboard"),
	}
}

// AggregateAll obrađuje projekte sekvencijalno; greška na jednom projektu se
// loguje i ne prekida ostale.
func (s *LeaderboardAggregator) AggregateAll(ctx context.Context) error {
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
		projCursor, err := s.ProjectsCollection.Find(ctx, bson.M{"workspaceId": ws.ID, "isActive": true})
		if err != nil {
			logging.Logger.Errorf("Event ID: LEADERBOARD_PROJECTS_FETCH_FAILED, Description: Failed to fetch projects for workspace %s: %v", ws.ID.Hex(), err)
			continue
		}

		var projects []models.Project
		err = projCursor.All(ctx, &projects)
		projCursor.Close(ctx)
		if err != nil {
			logging.Logger.Errorf("Event ID: LEADERBOARD_PROJECTS_DECODE_FAILED, Description: Failed to decode projects for workspace %s: %v", ws.ID.Hex(), err)
			continue
		}

		for _, p := range projects {
			if err := s.aggregateProject(ctx, p); err != nil {
				logging.Logger.Errorf("Event ID: LEADERBOARD_PROJECT_FAILED, Description: Leaderboard aggregation failed for project %s (%s): %v", p.ID.Hex(), p.Name, err)
			}
		}
	}

	return nil
}

func (s *LeaderboardAggregator) aggregateProject(ctx context.Context, project models.Project) error {
	cursor, err := s.TasksCollection.Find(ctx, bson.M{"projectId": project.ID.Hex(), "isActive": true})
	if err != nil {
		return fmt.Errorf("failed to fetch tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return fmt.Errorf("failed to decode tasks: %v", err)
	}

	var completed int
	for _, t := range tasks {
		if t.Status == models.StatusDone {
			completed++
		}
	}
	completion := completionPercentage(completed, len(tasks))

	entry := bson.M{
		"projectName":          project.Name,
		"workspaceId":          project.WorkspaceID,
		"completionPercentage": completion,
		"status":               DeriveProjectStatus(completion, project.DueDate),
		"headName":             s.resolveHeadName(ctx, project.HeadID),
		"dueDate":              project.DueDate,
		"lastUpdated":          time.Now(),
	}

	_, err = s.LeaderboardCollection.UpdateOne(ctx, bson.M{"projectId": project.ID}, bson.M{"$set": entry}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert leaderboard entry: %v", err)
	}

	return nil
}

func (s *LeaderboardAggregator) resolveHeadName(ctx context.Context, headID *primitive.ObjectID) string {
	if headID == nil {
		return "Unknown"
	}

	var user models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": *headID}).Decode(&user); err != nil {
		logging.Logger.Warnf("Event ID: PROJECT_HEAD_FETCH_FAILED, Description: Failed to fetch project head %s: %v", headID.Hex(), err)
		return "Unknown"
	}
	return user.DisplayName()
}

// DeriveProjectStatus klasifikuje projekat; prvo pravilo koje se poklopi
// pobeđuje: 100% → Completed; prošao rok → Off Track; >50% ili rok dalji od 7
// dana → On Track; 25–50% uz rok u narednih 7 dana → At Risk; inače Off Track.
func DeriveProjectStatus(completionPercentage int, dueDate *time.Time) models.ProjectStatus {
	if completionPercentage >= 100 {
		return models.ProjectCompleted
	}

	// Projekat bez roka ne može da probije rok.
	daysUntilDue := math.MaxInt32
	if dueDate != nil {
		daysUntilDue = int(math.Floor(time.Until(*dueDate).Hours() / 24))
	}

	if daysUntilDue < 0 {
		return models.ProjectOffTrack
	}
	if completionPercentage > 50 || daysUntilDue > 7 {
		return models.ProjectOnTrack
	}
	if completionPercentage >= 25 && completionPercentage <= 50 && daysUntilDue <= 7 {
		return models.ProjectAtRisk
	}
	return models.ProjectOffTrack
}
