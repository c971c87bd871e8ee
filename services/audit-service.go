package services

import (
	"context"
	"time"

	"taskboard/models"
	"taskboard/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditService struct {
	repo  repositories.AuditRepository
	users repositories.UserRepository
}

func NewAuditService(repo repositories.AuditRepository, users repositories.UserRepository) *AuditService {
	return &AuditService{
		repo:  repo,
		users: users,
	}
}

// Record appends one immutable change record for a task mutation.
func (as *AuditService) Record(ctx context.Context, taskID string, action models.AuditAction, actorID primitive.ObjectID, changes map[string]interface{}) error {
	record := &models.AuditRecord{
		TaskID:    taskID,
		Action:    action,
		ChangedBy: actorID.Hex(),
		Changes:   changes,
		Timestamp: time.Now(),
	}
	return as.repo.Insert(ctx, record)
}

// Trail returns the task's audit records newest first, each joined with the
// display name of the user who made the change.
func (as *AuditService) Trail(ctx context.Context, taskID string) ([]models.AuditEntry, error) {
	records, err := as.repo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	entries := make([]models.AuditEntry, 0, len(records))
	for _, record := range records {
		name, ok := names[record.ChangedBy]
		if !ok {
			name = as.lookupName(ctx, record.ChangedBy)
			names[record.ChangedBy] = name
		}
		entries = append(entries, models.AuditEntry{
			AuditRecord:   record,
			ChangedByName: name,
		})
	}
	return entries, nil
}

func (as *AuditService) lookupName(ctx context.Context, id string) string {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ""
	}
	user, err := as.users.GetByID(ctx, objectID)
	if err != nil {
		return ""
	}
	return user.Name
}

// UpdateChanges computes the audit diff for a task update. Only the title and
// group fields are compared; changes to any other field are not recorded.
func UpdateChanges(old, updated *models.Task) map[string]interface{} {
	changes := map[string]interface{}{}
	if updated.Title != old.Title {
		changes["title"] = updated.Title
	}
	if updated.GroupID != old.GroupID {
		changes["group"] = updated.GroupID
	}
	return changes
}
