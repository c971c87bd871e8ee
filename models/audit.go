package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
)

// AuditRecord is an append-only change record for a task mutation. Records
// are never edited or deleted by the application.
type AuditRecord struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	TaskID    string                 `bson:"taskId" json:"taskId"`
	Action    AuditAction            `bson:"action" json:"action"`
	ChangedBy string                 `bson:"changedBy" json:"changedBy"`
	Changes   map[string]interface{} `bson:"changes" json:"changes"`
	Timestamp time.Time              `bson:"timestamp" json:"timestamp"`
}

// AuditEntry is the read-side shape of an audit record, joined with the
// display name of the user who made the change.
type AuditEntry struct {
	AuditRecord
	ChangedByName string `json:"changedByName"`
}
