package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectStatus je izvedena klasifikacija napretka projekta.
type ProjectStatus string

const (
	ProjectCompleted ProjectStatus = "Completed"
	ProjectOnTrack   ProjectStatus = "On Track"
	ProjectAtRisk    ProjectStatus = "At Risk"
	ProjectOffTrack  ProjectStatus = "Off Track"
)

// ProjectLeaderboardEntry je izveštajni dokument jednog projekta, jedinstven
// po projectId i u celosti zamenjen pri svakom prolazu.
type ProjectLeaderboardEntry struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID            primitive.ObjectID `json:"projectId" bson:"projectId"`
	ProjectName          string             `json:"projectName" bson:"projectName"`
	WorkspaceID          primitive.ObjectID `json:"workspaceId" bson:"workspaceId"`
	CompletionPercentage int                `json:"completionPercentage" bson:"completionPercentage"`
	Status               ProjectStatus      `json:"status" bson:"status"`
	HeadName             string             `json:"headName" bson:"headName"`
	DueDate              *time.Time         `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	LastUpdated          time.Time          `json:"lastUpdated" bson:"lastUpdated"`
}
