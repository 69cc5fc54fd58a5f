package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkspaceMember struct {
	UserID   primitive.ObjectID `json:"userId" bson:"userId"`
	Role     string             `json:"role" bson:"role"`
	JoinedAt time.Time          `json:"joinedAt" bson:"joinedAt"`
}

type Workspace struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	IsArchived bool               `json:"isArchived" bson:"isArchived"`
	ArchivedAt *time.Time         `json:"archivedAt,omitempty" bson:"archivedAt,omitempty"`
	Members    []WorkspaceMember  `json:"members" bson:"members"`
}
