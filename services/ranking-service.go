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
)

// RankingService upisuje rank i percentil u dnevne snapshot-e, po workspace-u.
// Članstvo u workspace-u se izvodi iz skorašnje aktivnosti na zadacima, ne iz
// liste članstava korisnika. Za korisnika u više workspace-ova ta dva izvora
// mogu da se ne slažu, a poslednji upis pobeđuje na njegovom snapshot-u.
type RankingService struct {
	TasksCollection       *mongo.Collection
	ProjectsCollection    *mongo.Collection
	PerformanceCollection *mongo.Collection
}

func NewRankingService(operational, reporting *mongo.Database) *RankingService {
	return &RankingService{
		TasksCollection:       operational.Collection("tasks"),
		ProjectsCollection:    operational.Collection("projects"),
		PerformanceCollection: reporting.Collection("employee_performance"),
	}
}

// RankEmployees izvodi članstvo po workspace-u iz zadataka ažuriranih u
// prozoru, pa za svaki workspace sortira dnevne snapshot-e članova opadajuće
// po productivity score-u i upisuje rankings blok. Greška na jednom
// workspace-u ne prekida ostale.
func (s *RankingService) RankEmployees(ctx context.Context, start, end time.Time) error {
	memberships, err := s.inferWorkspaceMembers(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to infer workspace membership: %v", err)
	}

	for workspaceID, memberIDs := range memberships {
		if err := s.rankWorkspace(ctx, workspaceID, memberIDs); err != nil {
			logging.Logger.Errorf("Event ID: RANKING_WORKSPACE_FAILED, Description: Ranking failed for workspace %s: %v", workspaceID.Hex(), err)
		}
	}

	return nil
}

// inferWorkspaceMembers mapira workspace → skup korisnika, preko projekata
// zadataka koji su ažurirani u prozoru agregacije.
func (s *RankingService) inferWorkspaceMembers(ctx context.Context, start, end time.Time) (map[primitive.ObjectID][]primitive.ObjectID, error) {
	filter := bson.M{
		"isActive":   true,
		"assigneeId": bson.M{"$ne": nil},
		"updatedAt":  bson.M{"$gte": start, "$lte": end},
	}

	cursor, err := s.TasksCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %v", err)
	}

	projectIDs := make([]primitive.ObjectID, 0)
	seenProjects := make(map[primitive.ObjectID]bool)
	for _, t := range tasks {
		projectID, err := models.NormalizeID(t.ProjectID)
		if err != nil {
			continue
		}
		if !seenProjects[projectID] {
			seenProjects[projectID] = true
			projectIDs = append(projectIDs, projectID)
		}
	}

	projectWorkspace := make(map[primitive.ObjectID]primitive.ObjectID)
	if len(projectIDs) > 0 {
		projCursor, err := s.ProjectsCollection.Find(ctx, bson.M{"_id": bson.M{"$in": projectIDs}})
		if err != nil {
			return nil, err
		}
		defer projCursor.Close(ctx)

		var projects []models.Project
		if err := projCursor.All(ctx, &projects); err != nil {
			return nil, fmt.Errorf("failed to decode projects: %v", err)
		}
		for _, p := range projects {
			projectWorkspace[p.ID] = p.WorkspaceID
		}
	}

	memberships := make(map[primitive.ObjectID][]primitive.ObjectID)
	seenMembers := make(map[primitive.ObjectID]map[primitive.ObjectID]bool)
	for _, t := range tasks {
		if t.AssigneeID == nil {
			continue
		}
		projectID, err := models.NormalizeID(t.ProjectID)
		if err != nil {
			continue
		}
		workspaceID, ok := projectWorkspace[projectID]
		if !ok {
			continue
		}
		if seenMembers[workspaceID] == nil {
			seenMembers[workspaceID] = make(map[primitive.ObjectID]bool)
		}
		if !seenMembers[workspaceID][*t.AssigneeID] {
			seenMembers[workspaceID][*t.AssigneeID] = true
			memberships[workspaceID] = append(memberships[workspaceID], *t.AssigneeID)
		}
	}

	return memberships, nil
}

func (s *RankingService) rankWorkspace(ctx context.Context, workspaceID primitive.ObjectID, memberIDs []primitive.ObjectID) error {
	filter := bson.M{
		"userId":       bson.M{"$in": memberIDs},
		"period":       models.PeriodDaily,
		"snapshotDate": SnapshotDay(time.Now()),
	}

	cursor, err := s.PerformanceCollection.Find(ctx, filter)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var snapshots []models.EmployeePerformance
	if err := cursor.All(ctx, &snapshots); err != nil {
		return fmt.Errorf("failed to decode snapshots: %v", err)
	}

	if len(snapshots) == 0 {
		return nil
	}

	ranked := rankSnapshots(snapshots, workspaceID)
	for _, snap := range ranked {
		// Patch-uje se samo rankings pod-blok, ostatak snapshot-a ostaje.
		update := bson.M{"$set": bson.M{"rankings": snap.Rankings}}
		if _, err := s.PerformanceCollection.UpdateOne(ctx, bson.M{"_id": snap.ID}, update); err != nil {
			logging.Logger.Errorf("Event ID: RANKING_UPDATE_FAILED, Description: Failed to update rankings for snapshot %s: %v", snap.ID.Hex(), err)
		}
	}

	return nil
}

// rankSnapshots sortira snapshot-e stabilno, opadajuće po productivity
// score-u, i popunjava rankings blok: rank je 1-bazirana pozicija, percentil
// je round(rank/total×100). Izjednačeni zadržavaju ulazni redosled.
func rankSnapshots(snapshots []models.EmployeePerformance, workspaceID primitive.ObjectID) []models.EmployeePerformance {
	ranked := make([]models.EmployeePerformance, len(snapshots))
	copy(ranked, snapshots)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Metrics.ProductivityScore > ranked[j].Metrics.ProductivityScore
	})

	total := len(ranked)
	for i := range ranked {
		rank := i + 1
		ranked[i].Rankings = models.Rankings{
			WorkspaceID:    &workspaceID,
			TotalEmployees: total,
			Rank:           rank,
			Percentile:     math.Round(float64(rank) / float64(total) * 100),
		}
	}

	return ranked
}
