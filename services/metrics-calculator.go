package services

import (
	"time"

	"trello-project/microservices/analytics-service/models"

	"github.com/montanaflynn/stats"
)

// CalculateMetrics računa kompletan blok metrika za jednog zaposlenog iz
// njegovih zadataka i istorije događaja u okviru jednog perioda. Čista
// funkcija, bez I/O: sve što joj treba dobija u memoriji.
func CalculateMetrics(tasks []models.Task, events []models.TaskHistory) models.PerformanceMetrics {
	m := models.PerformanceMetrics{}
	now := time.Now()

	m.TotalTasks = len(tasks)
	for _, t := range tasks {
		switch t.Status {
		case models.StatusDone:
			m.CompletedTasks++
		case models.StatusInProgress:
			m.InProgressTasks++
		case models.StatusNotStarted:
			m.NotStartedTasks++
		}
		if t.DueDate != nil && t.DueDate.Before(now) && t.Status != models.StatusDone {
			m.OverdueTasks++
		}
		if t.ApprovalStatus == models.ApprovalPending {
			m.PendingApprovalCount++
		}
	}

	var submittedCount, reassignedCount int
	for _, e := range events {
		switch e.EventType {
		case models.EventApproved:
			m.ApprovedCount++
		case models.EventRejected:
			m.RejectedCount++
		case models.EventSubmitted:
			submittedCount++
		case models.EventReassigned:
			reassignedCount++
		}
	}

	m.ApprovalRate = percentage(m.ApprovedCount, m.ApprovedCount+m.RejectedCount)
	// Aproksimacija: ne uparuje pojedinačne submission→outcome parove.
	m.FirstTimeApprovalRate = percentage(m.ApprovedCount, submittedCount)
	if m.TotalTasks > 0 {
		m.AvgRejectionsPerTask = roundTwo(float64(m.RejectedCount) / float64(m.TotalTasks))
	}

	m.AvgTimeToStart, m.AvgTimeToComplete, m.AvgTimeToApproval, m.TotalActiveTime = timingAverages(tasks, events)

	m.ReworkRate = percentage(reassignedCount, m.TotalTasks)

	var completed, onTime int
	for _, t := range tasks {
		if t.Status != models.StatusDone {
			continue
		}
		completed++
		if t.CompletedAt != nil && t.DueDate != nil && !t.CompletedAt.After(*t.DueDate) {
			onTime++
		}
	}
	m.OnTimeCompletionRate = percentage(onTime, completed)

	m.ProductivityScore = productivityScore(m)

	return m
}

// timingAverages računa prosečna trajanja između parova sidro-događaja, u
// satima. Zadatak ulazi u prosek samo ako ima oba događaja iz para.
func timingAverages(tasks []models.Task, events []models.TaskHistory) (toStart, toComplete, toApproval, active float64) {
	firstSeen := make(map[string]time.Time)
	for _, e := range events {
		key := e.TaskID.Hex() + "/" + string(e.EventType)
		if existing, ok := firstSeen[key]; !ok || e.Timestamp.Before(existing) {
			firstSeen[key] = e.Timestamp
		}
	}

	pairHours := func(taskID string, from, to models.TaskEventType) (float64, bool) {
		start, okFrom := firstSeen[taskID+"/"+string(from)]
		end, okTo := firstSeen[taskID+"/"+string(to)]
		if !okFrom || !okTo {
			return 0, false
		}
		return end.Sub(start).Hours(), true
	}

	var toStartSamples, toCompleteSamples, toApprovalSamples, activeSamples []float64
	for _, t := range tasks {
		id := t.ID.Hex()
		if h, ok := pairHours(id, models.EventCreated, models.EventStarted); ok {
			toStartSamples = append(toStartSamples, h)
		}
		if h, ok := pairHours(id, models.EventCreated, models.EventCompleted); ok {
			toCompleteSamples = append(toCompleteSamples, h)
		}
		if h, ok := pairHours(id, models.EventSubmitted, models.EventApproved); ok {
			toApprovalSamples = append(toApprovalSamples, h)
		}
		if h, ok := pairHours(id, models.EventStarted, models.EventCompleted); ok {
			activeSamples = append(activeSamples, h)
		}
	}

	return meanHours(toStartSamples), meanHours(toCompleteSamples), meanHours(toApprovalSamples), meanHours(activeSamples)
}

// productivityScore je heuristički kompozit: 40% approval rate, 30% on-time
// rate, 20% broj završenih zadataka (proxy za brzinu, nenormalizovan), 10%
// kvalitet izveden iz prosečnog broja odbijanja. Uvek u [0, 100].
func productivityScore(m models.PerformanceMetrics) float64 {
	quality := 100 - 10*m.AvgRejectionsPerTask
	score := 0.4*m.ApprovalRate + 0.3*m.OnTimeCompletionRate + 0.2*float64(m.CompletedTasks) + 0.1*quality
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return roundTwo(score)
}

func percentage(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return roundTwo(float64(numerator) / float64(denominator) * 100)
}

func meanHours(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	mean, err := stats.Mean(samples)
	if err != nil {
		return 0
	}
	return roundTwo(mean)
}

func roundTwo(v float64) float64 {
	rounded, err := stats.Round(v, 2)
	if err != nil {
		return 0
	}
	return rounded
}
