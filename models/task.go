package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityGroup   Visibility = "group"
	VisibilityPublic  Visibility = "public"
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

type TaskType string

const (
	TypeTask      TaskType = "task"
	TypeUserStory TaskType = "user-story"
	TypeEpic      TaskType = "epic"
	TypeSubtask   TaskType = "subtask"
	TypeBug       TaskType = "bug"
)

// Lifecycle stages for the six Kanban columns.
const (
	StatusRequirementGathering = 1
	StatusInDiscussion         = 2
	StatusInProgress           = 3
	StatusInTesting            = 4
	StatusInReview             = 5
	StatusDone                 = 6
)

// PersonRef is an unvalidated identity reference supplied by the client for
// the assignment fields. It is compared as an opaque string and must never be
// conflated with a validated session user id.
type PersonRef string

type Task struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	ResourceLink string             `bson:"resourceLink,omitempty" json:"resourceLink,omitempty"`
	Tags         string             `bson:"tags,omitempty" json:"tags,omitempty"`
	Visibility   Visibility         `bson:"visibility" json:"visibility"`
	Status       int                `bson:"status" json:"status"`
	// Completed is written as supplied by the client; the store does not
	// re-derive it from Status even though the two are expected to agree
	// (Completed true exactly when Status is 6).
	Completed     bool               `bson:"completed" json:"completed"`
	GroupID       string             `bson:"groupId,omitempty" json:"groupId,omitempty"`
	OwnerID       primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	AssignedBy    PersonRef          `bson:"assignedBy,omitempty" json:"assignedBy,omitempty"`
	AssignedTo    PersonRef          `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	Priority      Priority           `bson:"priority,omitempty" json:"priority,omitempty"`
	DueDate       *time.Time         `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Type          TaskType           `bson:"type,omitempty" json:"type,omitempty"`
	LinkedTaskIDs []string           `bson:"linkedTaskIds,omitempty" json:"linkedTaskIds,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// Snapshot returns the task's field values as a flat map, used for the audit
// trail on create and delete.
func (t *Task) Snapshot() map[string]interface{} {
	snap := map[string]interface{}{
		"title":       t.Title,
		"description": t.Description,
		"visibility":  string(t.Visibility),
		"status":      t.Status,
		"completed":   t.Completed,
		"group":       t.GroupID,
		"owner":       t.OwnerID.Hex(),
		"assignedBy":  string(t.AssignedBy),
		"assignedTo":  string(t.AssignedTo),
		"priority":    string(t.Priority),
		"type":        string(t.Type),
	}
	if t.ResourceLink != "" {
		snap["resourceLink"] = t.ResourceLink
	}
	if t.Tags != "" {
		snap["tags"] = t.Tags
	}
	if t.DueDate != nil {
		snap["dueDate"] = t.DueDate.Format(time.RFC3339)
	}
	if len(t.LinkedTaskIDs) > 0 {
		snap["linkedTasks"] = t.LinkedTaskIDs
	}
	return snap
}
