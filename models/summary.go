package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectRef struct {
	ProjectID primitive.ObjectID `json:"projectId" bson:"projectId"`
	Name      string             `json:"name" bson:"name"`
}

// WorkloadEntry je broj otvorenih zadataka jednog člana workspace-a.
type WorkloadEntry struct {
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Name      string             `json:"name" bson:"name"`
	OpenTasks int                `json:"openTasks" bson:"openTasks"`
}

// WorkspaceSummary je izveštajni dokument jednog workspace-a, jedinstven po
// workspaceId i u celosti zamenjen pri svakom prolazu.
type WorkspaceSummary struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	WorkspaceID          primitive.ObjectID `json:"workspaceId" bson:"workspaceId"`
	WorkspaceName        string             `json:"workspaceName" bson:"workspaceName"`
	CompletionRate       int                `json:"completionRate" bson:"completionRate"`
	ActiveProjects       []ProjectRef       `json:"activeProjects" bson:"activeProjects"`
	WorkloadDistribution []WorkloadEntry    `json:"workloadDistribution" bson:"workloadDistribution"`
	LastUpdated          time.Time          `json:"lastUpdated" bson:"lastUpdated"`
}
