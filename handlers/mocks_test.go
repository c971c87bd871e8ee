package handlers

import (
	"context"
	"sort"
	"time"

	"taskboard/models"
	"taskboard/repositories"
	"taskboard/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Minimal in-memory repositories for exercising handlers over real services.

type stubUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *stubUserRepo) add(name string) *models.User {
	user := &models.User{ID: primitive.NewObjectID(), Name: name, Username: name + "@example.com"}
	r.users[user.ID] = user
	return user
}

func (r *stubUserRepo) Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
	return user.ID, nil
}

func (r *stubUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (r *stubUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *stubUserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, username string) error {
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Name = name
	user.Username = username
	return nil
}

func (r *stubUserRepo) SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return nil
}

func (r *stubUserRepo) SetResetCode(ctx context.Context, id primitive.ObjectID, code string, expiry time.Time) error {
	return nil
}

type stubGroupRepo struct {
	groups map[primitive.ObjectID]*models.Group
}

func newStubGroupRepo() *stubGroupRepo {
	return &stubGroupRepo{groups: make(map[primitive.ObjectID]*models.Group)}
}

func (r *stubGroupRepo) Insert(ctx context.Context, group *models.Group) (primitive.ObjectID, error) {
	if group.ID.IsZero() {
		group.ID = primitive.NewObjectID()
	}
	r.groups[group.ID] = group
	return group.ID, nil
}

func (r *stubGroupRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	group, ok := r.groups[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return group, nil
}

func (r *stubGroupRepo) Update(ctx context.Context, group *models.Group) error {
	if _, ok := r.groups[group.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.groups[group.ID] = group
	return nil
}

func (r *stubGroupRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.groups[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.groups, id)
	return nil
}

func (r *stubGroupRepo) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	var result []models.Group
	for _, group := range r.groups {
		if group.OwnerID == userID || group.HasMember(userID) {
			result = append(result, *group)
		}
	}
	return result, nil
}

func (r *stubGroupRepo) ListForMember(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	var result []models.Group
	for _, group := range r.groups {
		if group.HasMember(userID) {
			result = append(result, *group)
		}
	}
	return result, nil
}

type stubTaskRepo struct {
	tasks map[primitive.ObjectID]*models.Task
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[primitive.ObjectID]*models.Task)}
}

func (r *stubTaskRepo) Insert(ctx context.Context, task *models.Task) (primitive.ObjectID, error) {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	copied := *task
	r.tasks[task.ID] = &copied
	return task.ID, nil
}

func (r *stubTaskRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *task
	return &copied, nil
}

func (r *stubTaskRepo) Update(ctx context.Context, task *models.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *stubTaskRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.tasks[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *stubTaskRepo) GetAll(ctx context.Context) ([]models.Task, error) {
	var result []models.Task
	for _, task := range r.tasks {
		result = append(result, *task)
	}
	return result, nil
}

func (r *stubTaskRepo) DeleteByGroup(ctx context.Context, groupID string) (int64, error) {
	var deleted int64
	for id, task := range r.tasks {
		if task.GroupID == groupID {
			delete(r.tasks, id)
			deleted++
		}
	}
	return deleted, nil
}

type stubAuditRepo struct {
	records []models.AuditRecord
}

func (r *stubAuditRepo) Insert(ctx context.Context, record *models.AuditRecord) error {
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	r.records = append(r.records, *record)
	return nil
}

func (r *stubAuditRepo) ListByTask(ctx context.Context, taskID string) ([]models.AuditRecord, error) {
	var result []models.AuditRecord
	for _, record := range r.records {
		if record.TaskID == taskID {
			result = append(result, record)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result, nil
}

type stubNotificationRepo struct {
	notifications []models.Notification
}

func (r *stubNotificationRepo) Insert(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = primitive.NewObjectID().Hex()
	}
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *stubNotificationRepo) ListByUser(userID string, limit int) ([]models.Notification, error) {
	var result []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *stubNotificationRepo) MarkRead(notificationID string) error {
	for i := range r.notifications {
		if r.notifications[i].ID == notificationID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *stubNotificationRepo) MarkAllRead(userID string) error {
	for i := range r.notifications {
		if r.notifications[i].UserID == userID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

type handlerEnv struct {
	users         *stubUserRepo
	groups        *stubGroupRepo
	tasks         *stubTaskRepo
	audit         *stubAuditRepo
	notifications *stubNotificationRepo

	taskHandler         *TaskHandler
	groupHandler        *GroupHandler
	notificationHandler *NotificationHandler
}

func newHandlerEnv() *handlerEnv {
	users := newStubUserRepo()
	groups := newStubGroupRepo()
	tasks := newStubTaskRepo()
	audit := &stubAuditRepo{}
	notifications := &stubNotificationRepo{}

	auditService := services.NewAuditService(audit, users)
	notificationService := services.NewNotificationService(notifications, users, groups)
	taskService := services.NewTaskService(tasks, groups, auditService, notificationService)
	groupService := services.NewGroupService(groups, tasks, users)

	return &handlerEnv{
		users:               users,
		groups:              groups,
		tasks:               tasks,
		audit:               audit,
		notifications:       notifications,
		taskHandler:         NewTaskHandler(taskService, auditService),
		groupHandler:        NewGroupHandler(groupService),
		notificationHandler: NewNotificationHandler(notificationService),
	}
}
