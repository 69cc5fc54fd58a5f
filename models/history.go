package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskEventType je tip lifecycle prelaza zabeleženog u istoriji zadatka.
type TaskEventType string

const (
	EventCreated        TaskEventType = "created"
	EventAssigned       TaskEventType = "assigned"
	EventReassigned     TaskEventType = "reassigned"
	EventStarted        TaskEventType = "started"
	EventCompleted      TaskEventType = "completed"
	EventSubmitted      TaskEventType = "submitted_for_approval"
	EventApproved       TaskEventType = "approved"
	EventRejected       TaskEventType = "rejected"
	EventReopened       TaskEventType = "reopened"
	EventStatusChanged  TaskEventType = "status_changed"
	EventDueDateChanged TaskEventType = "due_date_changed"
	EventPriorityChange TaskEventType = "priority_changed"
)

// TaskHistory je append-only zapis jednog prelaza u životnom ciklusu zadatka.
// Zapisi se nikada ne menjaju niti brišu.
type TaskHistory struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	TaskID    primitive.ObjectID  `json:"taskId" bson:"taskId"`
	EventType TaskEventType       `json:"eventType" bson:"eventType"`
	ActorID   *primitive.ObjectID `json:"actorId,omitempty" bson:"actorId,omitempty"`
	Timestamp time.Time           `json:"timestamp" bson:"timestamp"`
	OldValue  string              `json:"oldValue,omitempty" bson:"oldValue,omitempty"`
	NewValue  string              `json:"newValue,omitempty" bson:"newValue,omitempty"`
	Metadata  bson.M              `json:"metadata,omitempty" bson:"metadata,omitempty"`
}
