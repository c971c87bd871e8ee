package models

import "time"

type NotificationKind string

const (
	NotifyAssignment NotificationKind = "assignment"
	NotifyUpdate     NotificationKind = "update"
	NotifyDeleted    NotificationKind = "deleted"
)

type Notification struct {
	ID        string           `cassandra:"id" json:"id"`
	UserID    string           `cassandra:"user_id" json:"userId"`
	TaskID    string           `cassandra:"task_id" json:"taskId,omitempty"`
	Message   string           `cassandra:"message" json:"message"`
	Kind      NotificationKind `cassandra:"kind" json:"kind"`
	CreatedAt time.Time        `cassandra:"created_at" json:"createdAt"`
	IsRead    bool             `cassandra:"is_read" json:"isRead"`
}
