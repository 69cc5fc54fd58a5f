package services

import (
	"testing"
	"time"

	"trello-project/microservices/analytics-service/models"

	"github.com/stretchr/testify/assert"
)

func daysFromNow(days int) *time.Time {
	t := time.Now().Add(time.Duration(days) * 24 * time.Hour)
	return &t
}

func TestDeriveProjectStatusCompleted(t *testing.T) {
	assert.Equal(t, models.ProjectCompleted, DeriveProjectStatus(100, daysFromNow(20)))
	// Completed ima prednost i kad je rok odavno prošao.
	assert.Equal(t, models.ProjectCompleted, DeriveProjectStatus(100, daysFromNow(-30)))
	assert.Equal(t, models.ProjectCompleted, DeriveProjectStatus(100, nil))
}

func TestDeriveProjectStatusPastDueBeatsCompletion(t *testing.T) {
	// 60% završeno ali rok prošao pre 3 dana: pravilo roka pobedjuje.
	assert.Equal(t, models.ProjectOffTrack, DeriveProjectStatus(60, daysFromNow(-3)))
}

func TestDeriveProjectStatusOnTrack(t *testing.T) {
	assert.Equal(t, models.ProjectOnTrack, DeriveProjectStatus(80, daysFromNow(20)))
	// Nizak procenat, ali rok je dalji od 7 dana.
	assert.Equal(t, models.ProjectOnTrack, DeriveProjectStatus(10, daysFromNow(20)))
	// Bez roka nema probijanja roka.
	assert.Equal(t, models.ProjectOnTrack, DeriveProjectStatus(10, nil))
}

func TestDeriveProjectStatusAtRisk(t *testing.T) {
	assert.Equal(t, models.ProjectAtRisk, DeriveProjectStatus(30, daysFromNow(3)))
	assert.Equal(t, models.ProjectAtRisk, DeriveProjectStatus(25, daysFromNow(7)))
	assert.Equal(t, models.ProjectAtRisk, DeriveProjectStatus(50, daysFromNow(2)))
}

func TestDeriveProjectStatusOffTrack(t *testing.T) {
	// Ispod 25% sa bliskim rokom.
	assert.Equal(t, models.ProjectOffTrack, DeriveProjectStatus(10, daysFromNow(3)))
	assert.Equal(t, models.ProjectOffTrack, DeriveProjectStatus(0, daysFromNow(1)))
}
