package services

import (
	"context"
	"fmt"
	"time"

	"taskboard/logging"
	"taskboard/models"
	"taskboard/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskService owns the task lifecycle. Every successful mutation is followed
// synchronously by an audit append and a notification fan-out, in that order.
// Both are best-effort: a failure is logged and swallowed, and the mutation
// is still reported as successful to the caller.
type TaskService struct {
	tasks         repositories.TaskRepository
	groups        repositories.GroupRepository
	audit         *AuditService
	notifications *NotificationService
}

func NewTaskService(tasks repositories.TaskRepository, groups repositories.GroupRepository, audit *AuditService, notifications *NotificationService) *TaskService {
	return &TaskService{
		tasks:         tasks,
		groups:        groups,
		audit:         audit,
		notifications: notifications,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, task *models.Task, actorID primitive.ObjectID) (*models.Task, error) {
	task.OwnerID = actorID
	task.CreatedAt = time.Now()
	if task.Visibility == "" {
		task.Visibility = models.VisibilityPrivate
	}
	if task.Status == 0 {
		task.Status = models.StatusRequirementGathering
	}

	id, err := s.tasks.Insert(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}
	task.ID = id

	s.recordAudit(ctx, task.ID.Hex(), models.AuditCreate, actorID, task.Snapshot())
	s.dispatchNotifications(ctx, task, models.NotifyAssignment, actorID)

	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

// UpdateTask replaces the stored task with the supplied fields. Any
// authenticated caller may update any task; ownership is not checked.
func (s *TaskService) UpdateTask(ctx context.Context, id primitive.ObjectID, updated *models.Task, actorID primitive.ObjectID) (*models.Task, error) {
	old, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated.ID = id
	updated.OwnerID = old.OwnerID
	updated.CreatedAt = old.CreatedAt

	if err := s.tasks.Update(ctx, updated); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, id.Hex(), models.AuditUpdate, actorID, UpdateChanges(old, updated))
	s.dispatchNotifications(ctx, updated, models.NotifyUpdate, actorID)

	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id primitive.ObjectID, actorID primitive.ObjectID) error {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	s.recordAudit(ctx, id.Hex(), models.AuditDelete, actorID, task.Snapshot())
	s.dispatchNotifications(ctx, task, models.NotifyDeleted, actorID)

	return nil
}

// ListVisibleTasks returns every task the user may read. The predicate is
// re-evaluated on each call against current group membership; nothing is
// cached or materialized. Result ordering is unspecified.
func (s *TaskService) ListVisibleTasks(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	all, err := s.tasks.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	memberGroups, err := s.groups.ListForMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	memberOf := make(map[string]bool, len(memberGroups))
	for _, g := range memberGroups {
		memberOf[g.ID.Hex()] = true
	}

	visible := []models.Task{}
	for _, task := range all {
		if visibleTo(&task, userID, memberOf) {
			visible = append(visible, task)
		}
	}
	return visible, nil
}

// visibleTo is the visibility predicate: owner, assignment references (opaque
// string comparison against the requesting id), public scope, or membership
// in the task's group.
func visibleTo(task *models.Task, userID primitive.ObjectID, memberOf map[string]bool) bool {
	if task.OwnerID == userID {
		return true
	}
	hex := userID.Hex()
	if string(task.AssignedBy) == hex || string(task.AssignedTo) == hex {
		return true
	}
	switch task.Visibility {
	case models.VisibilityPublic:
		return true
	case models.VisibilityGroup:
		return task.GroupID != "" && memberOf[task.GroupID]
	}
	return false
}

func (s *TaskService) recordAudit(ctx context.Context, taskID string, action models.AuditAction, actorID primitive.ObjectID, changes map[string]interface{}) {
	if err := s.audit.Record(ctx, taskID, action, actorID, changes); err != nil {
		logging.Logger.Errorf("Event ID: AUDIT_WRITE_FAILED, Description: Failed to record %s audit for task %s: %v", action, taskID, err)
	}
}

func (s *TaskService) dispatchNotifications(ctx context.Context, task *models.Task, kind models.NotificationKind, actorID primitive.ObjectID) {
	if err := s.notifications.Notify(ctx, task, kind, actorID); err != nil {
		logging.Logger.Errorf("Event ID: NOTIFY_FAILED, Description: Failed to send %s notifications for task %s: %v", kind, task.ID.Hex(), err)
	}
}
