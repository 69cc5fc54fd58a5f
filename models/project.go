package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Project struct {
	ID          primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	WorkspaceID primitive.ObjectID  `json:"workspaceId" bson:"workspaceId"`
	Name        string              `json:"name" bson:"name"`
	HeadID      *primitive.ObjectID `json:"headId,omitempty" bson:"headId,omitempty"`
	IsActive    bool                `json:"isActive" bson:"isActive"`
	DueDate     *time.Time          `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
}
