package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not-started"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

type ApprovalStatus string

const (
	ApprovalNone     ApprovalStatus = ""
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Rejection je jedan zapis iz istorije odbijanja zadatka.
type Rejection struct {
	RejectedBy primitive.ObjectID `json:"rejectedBy" bson:"rejectedBy"`
	Reason     string             `json:"reason" bson:"reason"`
	RejectedAt time.Time          `json:"rejectedAt" bson:"rejectedAt"`
}

type Task struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	ProjectID      string              `json:"projectId" bson:"projectId"`
	AssigneeID     *primitive.ObjectID `json:"assigneeId,omitempty" bson:"assigneeId,omitempty"`
	Title          string              `json:"title" bson:"title"`
	Description    string              `json:"description" bson:"description"`
	Status         TaskStatus          `json:"status" bson:"status"`
	IsActive       bool                `json:"isActive" bson:"isActive"`
	ApprovalStatus ApprovalStatus      `json:"approvalStatus,omitempty" bson:"approvalStatus,omitempty"`
	Rejections     []Rejection         `json:"rejections,omitempty" bson:"rejections,omitempty"`
	DueDate        *time.Time          `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	CreatedAt      time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt" bson:"updatedAt"`
	CompletedAt    *time.Time          `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}
