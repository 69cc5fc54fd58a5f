package services

import (
	"testing"

	"trello-project/microservices/analytics-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func openTaskFor(userID primitive.ObjectID) models.Task {
	return models.Task{ID: primitive.NewObjectID(), AssigneeID: &userID, Status: models.StatusInProgress, IsActive: true}
}

func TestBuildWorkloadDistributionSortsDescending(t *testing.T) {
	busy := primitive.NewObjectID()
	idle := primitive.NewObjectID()

	tasks := []models.Task{
		openTaskFor(idle),
		openTaskFor(busy),
		openTaskFor(busy),
		openTaskFor(busy),
	}
	names := map[primitive.ObjectID]string{
		busy: "Marko Markovic",
		idle: "Jana Janic",
	}

	entries := buildWorkloadDistribution(tasks, names)

	require.Len(t, entries, 2)
	assert.Equal(t, "Marko Markovic", entries[0].Name)
	assert.Equal(t, 3, entries[0].OpenTasks)
	assert.Equal(t, "Jana Janic", entries[1].Name)
	assert.Equal(t, 1, entries[1].OpenTasks)
}

func TestBuildWorkloadDistributionTiesKeepEncounterOrder(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	tasks := []models.Task{
		openTaskFor(first),
		openTaskFor(second),
	}

	entries := buildWorkloadDistribution(tasks, nil)

	require.Len(t, entries, 2)
	assert.Equal(t, first, entries[0].UserID)
	assert.Equal(t, second, entries[1].UserID)
}

func TestBuildWorkloadDistributionIgnoresDoneAndUnassigned(t *testing.T) {
	userID := primitive.NewObjectID()

	done := models.Task{ID: primitive.NewObjectID(), AssigneeID: &userID, Status: models.StatusDone}
	unassigned := models.Task{ID: primitive.NewObjectID(), Status: models.StatusInProgress}

	entries := buildWorkloadDistribution([]models.Task{done, unassigned}, nil)

	// Sve nedodeljeno ili završeno: prazna raspodela, ne greška.
	assert.Empty(t, entries)
}

func TestBuildWorkloadDistributionUnknownNameFallback(t *testing.T) {
	userID := primitive.NewObjectID()

	entries := buildWorkloadDistribution([]models.Task{openTaskFor(userID)}, nil)

	require.Len(t, entries, 1)
	assert.Equal(t, "Unknown", entries[0].Name)
}

func TestCompletionPercentage(t *testing.T) {
	assert.Equal(t, 0, completionPercentage(0, 0))
	assert.Equal(t, 0, completionPercentage(0, 7))
	assert.Equal(t, 50, completionPercentage(1, 2))
	assert.Equal(t, 67, completionPercentage(2, 3))
	assert.Equal(t, 100, completionPercentage(5, 5))
}
