package services

import (
	"testing"

	"trello-project/microservices/analytics-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func snapshotWithScore(score float64) models.EmployeePerformance {
	return models.EmployeePerformance{
		ID:      primitive.NewObjectID(),
		UserID:  primitive.NewObjectID(),
		Period:  models.PeriodDaily,
		Metrics: models.PerformanceMetrics{ProductivityScore: score},
	}
}

func TestRankSnapshotsRanksAndPercentiles(t *testing.T) {
	workspaceID := primitive.NewObjectID()
	snapshots := []models.EmployeePerformance{
		snapshotWithScore(90),
		snapshotWithScore(70),
		snapshotWithScore(70),
		snapshotWithScore(50),
	}

	ranked := rankSnapshots(snapshots, workspaceID)
	require.Len(t, ranked, 4)

	for i, snap := range ranked {
		assert.Equal(t, i+1, snap.Rankings.Rank)
		assert.Equal(t, 4, snap.Rankings.TotalEmployees)
		require.NotNil(t, snap.Rankings.WorkspaceID)
		assert.Equal(t, workspaceID, *snap.Rankings.WorkspaceID)
	}

	assert.Equal(t, float64(25), ranked[0].Rankings.Percentile)
	assert.Equal(t, float64(50), ranked[1].Rankings.Percentile)
	assert.Equal(t, float64(75), ranked[2].Rankings.Percentile)
	assert.Equal(t, float64(100), ranked[3].Rankings.Percentile)
}

func TestRankSnapshotsTiesKeepInputOrder(t *testing.T) {
	workspaceID := primitive.NewObjectID()
	first := snapshotWithScore(70)
	second := snapshotWithScore(70)

	ranked := rankSnapshots([]models.EmployeePerformance{first, second}, workspaceID)

	assert.Equal(t, first.UserID, ranked[0].UserID)
	assert.Equal(t, second.UserID, ranked[1].UserID)
}

func TestRankSnapshotsDoesNotMutateInput(t *testing.T) {
	workspaceID := primitive.NewObjectID()
	snapshots := []models.EmployeePerformance{
		snapshotWithScore(10),
		snapshotWithScore(90),
	}

	rankSnapshots(snapshots, workspaceID)

	assert.Equal(t, float64(10), snapshots[0].Metrics.ProductivityScore)
	assert.Equal(t, 0, snapshots[0].Rankings.Rank)
}

func TestRankSnapshotsSingleMember(t *testing.T) {
	workspaceID := primitive.NewObjectID()

	ranked := rankSnapshots([]models.EmployeePerformance{snapshotWithScore(42)}, workspaceID)

	require.Len(t, ranked, 1)
	assert.Equal(t, 1, ranked[0].Rankings.Rank)
	assert.Equal(t, float64(100), ranked[0].Rankings.Percentile)
}
