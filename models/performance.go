package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Period granularnosti agregacije. Trenutno se proizvodi samo PeriodDaily.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// PerformanceMetrics je blok izračunatih metrika jednog zaposlenog za jedan period.
type PerformanceMetrics struct {
	TotalTasks      int `json:"totalTasks" bson:"totalTasks"`
	CompletedTasks  int `json:"completedTasks" bson:"completedTasks"`
	NotStartedTasks int `json:"notStartedTasks" bson:"notStartedTasks"`
	InProgressTasks int `json:"inProgressTasks" bson:"inProgressTasks"`
	OverdueTasks    int `json:"overdueTasks" bson:"overdueTasks"`

	ApprovedCount        int     `json:"approvedCount" bson:"approvedCount"`
	RejectedCount        int     `json:"rejectedCount" bson:"rejectedCount"`
	PendingApprovalCount int     `json:"pendingApprovalCount" bson:"pendingApprovalCount"`
	ApprovalRate         float64 `json:"approvalRate" bson:"approvalRate"`
	// FirstTimeApprovalRate je aproksimacija: broj approved događaja kroz broj
	// submitted događaja, bez uparivanja pojedinačnih submission→outcome parova.
	FirstTimeApprovalRate float64 `json:"firstTimeApprovalRate" bson:"firstTimeApprovalRate"`
	AvgRejectionsPerTask  float64 `json:"avgRejectionsPerTask" bson:"avgRejectionsPerTask"`

	AvgTimeToStart    float64 `json:"avgTimeToStart" bson:"avgTimeToStart"`       // sati, created→started
	AvgTimeToComplete float64 `json:"avgTimeToComplete" bson:"avgTimeToComplete"` // sati, created→completed
	AvgTimeToApproval float64 `json:"avgTimeToApproval" bson:"avgTimeToApproval"` // sati, submitted→approved
	TotalActiveTime   float64 `json:"totalActiveTime" bson:"totalActiveTime"`     // sati, started→completed

	ReworkRate           float64 `json:"reworkRate" bson:"reworkRate"`
	OnTimeCompletionRate float64 `json:"onTimeCompletionRate" bson:"onTimeCompletionRate"`

	ProductivityScore float64 `json:"productivityScore" bson:"productivityScore"`
}

// ProjectInvolvement je učešće zaposlenog na jednom projektu unutar perioda.
type ProjectInvolvement struct {
	ProjectID      primitive.ObjectID `json:"projectId" bson:"projectId"`
	ProjectName    string             `json:"projectName" bson:"projectName"`
	AssignedTasks  int                `json:"assignedTasks" bson:"assignedTasks"`
	CompletedTasks int                `json:"completedTasks" bson:"completedTasks"`
	ApprovalRate   float64            `json:"approvalRate" bson:"approvalRate"`
}

// Rankings je pozicija zaposlenog unutar workspace-a za taj snapshot.
type Rankings struct {
	WorkspaceID    *primitive.ObjectID `json:"workspaceId,omitempty" bson:"workspaceId,omitempty"`
	TotalEmployees int                 `json:"totalEmployees" bson:"totalEmployees"`
	Rank           int                 `json:"rank" bson:"rank"`
	Percentile     float64             `json:"percentile" bson:"percentile"`
}

// EmployeePerformance je jedan dnevni snapshot performansi zaposlenog.
// Jedinstven je po (userId, period, snapshotDate) i prepisuje se pri svakom
// agregacionom prolazu za taj dan.
type EmployeePerformance struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	UserID         primitive.ObjectID   `json:"userId" bson:"userId"`
	Period         string               `json:"period" bson:"period"`
	SnapshotDate   time.Time            `json:"snapshotDate" bson:"snapshotDate"`
	WorkspaceID    *primitive.ObjectID  `json:"workspaceId,omitempty" bson:"workspaceId,omitempty"`
	Metrics        PerformanceMetrics   `json:"metrics" bson:"metrics"`
	Projects       []ProjectInvolvement `json:"projects" bson:"projects"`
	Rankings       Rankings             `json:"rankings" bson:"rankings"`
	LastCalculated time.Time            `json:"lastCalculated" bson:"lastCalculated"`
}
