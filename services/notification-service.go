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

// FeedLimit caps how many notifications a single feed read returns.
const FeedLimit = 30

type NotificationService struct {
	repo   repositories.NotificationRepository
	users  repositories.UserRepository
	groups repositories.GroupRepository
}

func NewNotificationService(repo repositories.NotificationRepository, users repositories.UserRepository, groups repositories.GroupRepository) *NotificationService {
	return &NotificationService{
		repo:   repo,
		users:  users,
		groups: groups,
	}
}

// ResolveRecipients computes who gets notified for an event on the task:
// the assignee, the owner when different, and every member of the task's
// group when its visibility is group scoped. The result is deduplicated.
func (ns *NotificationService) ResolveRecipients(ctx context.Context, task *models.Task) []string {
	seen := make(map[string]bool)
	var recipients []string

	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		recipients = append(recipients, id)
	}

	add(string(task.AssignedTo))
	if !task.OwnerID.IsZero() {
		add(task.OwnerID.Hex())
	}

	if task.Visibility == models.VisibilityGroup && task.GroupID != "" {
		groupID, err := primitive.ObjectIDFromHex(task.GroupID)
		if err != nil {
			logging.Logger.Warnf("Event ID: NOTIFY_BAD_GROUP_ID, Description: Task %s has malformed group id %q", task.ID.Hex(), task.GroupID)
			return recipients
		}
		group, err := ns.groups.GetByID(ctx, groupID)
		if err != nil {
			logging.Logger.Warnf("Event ID: NOTIFY_GROUP_LOOKUP_FAILED, Description: Failed to resolve group %s for task %s: %v", task.GroupID, task.ID.Hex(), err)
			return recipients
		}
		for _, member := range group.Members {
			add(member.Hex())
		}
	}

	return recipients
}

// Notify fans one notification out to every recipient of the task event. All
// records share the same message text and kind and start unread.
func (ns *NotificationService) Notify(ctx context.Context, task *models.Task, kind models.NotificationKind, actorID primitive.ObjectID) error {
	recipients := ns.ResolveRecipients(ctx, task)
	if len(recipients) == 0 {
		return nil
	}

	message := ns.composeMessage(ctx, task, kind, actorID)
	now := time.Now()

	for _, recipient := range recipients {
		notification := &models.Notification{
			UserID:    recipient,
			TaskID:    task.ID.Hex(),
			Message:   message,
			Kind:      kind,
			CreatedAt: now,
			IsRead:    false,
		}
		if err := ns.repo.Insert(notification); err != nil {
			return fmt.Errorf("failed to notify user %s: %v", recipient, err)
		}
	}

	logging.Logger.Infof("Event ID: NOTIFICATIONS_SENT, Description: Sent %d %s notifications for task %s", len(recipients), kind, task.ID.Hex())
	return nil
}

func (ns *NotificationService) composeMessage(ctx context.Context, task *models.Task, kind models.NotificationKind, actorID primitive.ObjectID) string {
	actorName := ns.displayName(ctx, actorID.Hex())
	if actorName == "" {
		actorName = "Someone"
	}

	title := task.Title
	if title == "" {
		title = "a task"
	}

	switch kind {
	case models.NotifyAssignment:
		assigneeName := ns.displayName(ctx, string(task.AssignedTo))
		if assigneeName == "" {
			assigneeName = "someone"
		}
		return fmt.Sprintf("%s created a task %q for %s.", actorName, title, assigneeName)
	case models.NotifyDeleted:
		return fmt.Sprintf("%s deleted the task %q.", actorName, title)
	default:
		return fmt.Sprintf("%s updated the task %q.", actorName, title)
	}
}

// displayName resolves a user id to its display name, returning "" when the
// id is empty, malformed or unknown. Assignment references are client
// supplied and may not resolve at all.
func (ns *NotificationService) displayName(ctx context.Context, id string) string {
	if id == "" {
		return ""
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ""
	}
	user, err := ns.users.GetByID(ctx, objectID)
	if err != nil {
		return ""
	}
	return user.Name
}

// Feed returns the user's newest notifications, capped at FeedLimit.
func (ns *NotificationService) Feed(userID string) ([]models.Notification, error) {
	notifications, err := ns.repo.ListByUser(userID, FeedLimit)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

// MarkRead flips a single notification to read. Already-read and missing
// notifications are treated as success.
func (ns *NotificationService) MarkRead(notificationID string) error {
	return ns.repo.MarkRead(notificationID)
}

// MarkAllRead flips every unread notification owned by the user.
func (ns *NotificationService) MarkAllRead(userID string) error {
	return ns.repo.MarkAllRead(userID)
}
