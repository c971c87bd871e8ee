package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"taskboard/models"
	"taskboard/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes standing in for the Mongo and Cassandra repositories.
// Failure flags let tests exercise the best-effort paths.

var errStoreDown = errors.New("store unavailable")

type memUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *memUserRepo) add(name string) *models.User {
	user := &models.User{ID: primitive.NewObjectID(), Name: name, Username: name + "@example.com"}
	r.users[user.ID] = user
	return user
}

func (r *memUserRepo) Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	copied := *user
	r.users[user.ID] = &copied
	return user.ID, nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, username string) error {
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Name = name
	user.Username = username
	return nil
}

func (r *memUserRepo) SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Password = passwordHash
	user.ResetCode = ""
	user.ResetExpiry = time.Time{}
	return nil
}

func (r *memUserRepo) SetResetCode(ctx context.Context, id primitive.ObjectID, code string, expiry time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.ResetCode = code
	user.ResetExpiry = expiry
	return nil
}

type memGroupRepo struct {
	groups map[primitive.ObjectID]*models.Group
}

func newMemGroupRepo() *memGroupRepo {
	return &memGroupRepo{groups: make(map[primitive.ObjectID]*models.Group)}
}

func (r *memGroupRepo) add(owner primitive.ObjectID, members ...primitive.ObjectID) *models.Group {
	group := &models.Group{ID: primitive.NewObjectID(), Name: "group", OwnerID: owner, Members: members}
	r.groups[group.ID] = group
	return group
}

func (r *memGroupRepo) Insert(ctx context.Context, group *models.Group) (primitive.ObjectID, error) {
	if group.ID.IsZero() {
		group.ID = primitive.NewObjectID()
	}
	copied := *group
	r.groups[group.ID] = &copied
	return group.ID, nil
}

func (r *memGroupRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	group, ok := r.groups[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *group
	return &copied, nil
}

func (r *memGroupRepo) Update(ctx context.Context, group *models.Group) error {
	if _, ok := r.groups[group.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *group
	r.groups[group.ID] = &copied
	return nil
}

func (r *memGroupRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.groups[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.groups, id)
	return nil
}

func (r *memGroupRepo) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	var result []models.Group
	for _, group := range r.groups {
		if group.OwnerID == userID || group.HasMember(userID) {
			result = append(result, *group)
		}
	}
	return result, nil
}

func (r *memGroupRepo) ListForMember(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	var result []models.Group
	for _, group := range r.groups {
		if group.HasMember(userID) {
			result = append(result, *group)
		}
	}
	return result, nil
}

type memTaskRepo struct {
	tasks map[primitive.ObjectID]*models.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[primitive.ObjectID]*models.Task)}
}

func (r *memTaskRepo) Insert(ctx context.Context, task *models.Task) (primitive.ObjectID, error) {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	copied := *task
	r.tasks[task.ID] = &copied
	return task.ID, nil
}

func (r *memTaskRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *task
	return &copied, nil
}

func (r *memTaskRepo) Update(ctx context.Context, task *models.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *memTaskRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.tasks[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *memTaskRepo) GetAll(ctx context.Context) ([]models.Task, error) {
	var result []models.Task
	for _, task := range r.tasks {
		result = append(result, *task)
	}
	return result, nil
}

func (r *memTaskRepo) DeleteByGroup(ctx context.Context, groupID string) (int64, error) {
	var deleted int64
	for id, task := range r.tasks {
		if task.GroupID == groupID {
			delete(r.tasks, id)
			deleted++
		}
	}
	return deleted, nil
}

type memAuditRepo struct {
	records    []models.AuditRecord
	failInsert bool
}

func newMemAuditRepo() *memAuditRepo { return &memAuditRepo{} }

func (r *memAuditRepo) Insert(ctx context.Context, record *models.AuditRecord) error {
	if r.failInsert {
		return errStoreDown
	}
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	r.records = append(r.records, *record)
	return nil
}

func (r *memAuditRepo) ListByTask(ctx context.Context, taskID string) ([]models.AuditRecord, error) {
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

func (r *memAuditRepo) forTask(taskID string) []models.AuditRecord {
	records, _ := r.ListByTask(context.Background(), taskID)
	return records
}

type memNotificationRepo struct {
	notifications []models.Notification
	failInsert    bool
}

func newMemNotificationRepo() *memNotificationRepo { return &memNotificationRepo{} }

func (r *memNotificationRepo) Insert(notification *models.Notification) error {
	if r.failInsert {
		return errStoreDown
	}
	if notification.ID == "" {
		notification.ID = primitive.NewObjectID().Hex()
	}
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *memNotificationRepo) ListByUser(userID string, limit int) ([]models.Notification, error) {
	var result []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *memNotificationRepo) MarkRead(notificationID string) error {
	for i := range r.notifications {
		if r.notifications[i].ID == notificationID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *memNotificationRepo) MarkAllRead(userID string) error {
	for i := range r.notifications {
		if r.notifications[i].UserID == userID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *memNotificationRepo) forUser(userID string) []models.Notification {
	all, _ := r.ListByUser(userID, 0)
	return all
}

type fakeMailer struct {
	welcomes []string
	resets   []string
	fail     bool
}

func (m *fakeMailer) SendWelcomeEmail(to, name string) error {
	if m.fail {
		return errStoreDown
	}
	m.welcomes = append(m.welcomes, to)
	return nil
}

func (m *fakeMailer) SendResetCodeEmail(to, code string) error {
	if m.fail {
		return errStoreDown
	}
	m.resets = append(m.resets, code)
	return nil
}
