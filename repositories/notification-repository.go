package repositories

import (
	"os"
	"time"

	"taskboard/logging"
	"taskboard/models"

	"github.com/gocql/gocql"
)

type NotificationRepository interface {
	Insert(notification *models.Notification) error
	ListByUser(userID string, limit int) ([]models.Notification, error)
	MarkRead(notificationID string) error
	MarkAllRead(userID string) error
}

type CassandraNotificationRepository struct {
	session *gocql.Session
}

// NewCassandraNotificationRepository connects to Cassandra, bootstrapping the
// taskboard keyspace and notifications table if they do not exist.
func NewCassandraNotificationRepository() (*CassandraNotificationRepository, error) {
	db := os.Getenv("CASS_DB")
	if db == "" {
		db = "127.0.0.1"
	}

	cluster := gocql.NewCluster(db)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		logging.Logger.Errorf("Event ID: CASS_CONNECT_FAILED, Description: Cassandra connection failed: %v", err)
		return nil, err
	}

	err = session.Query(
		`CREATE KEYSPACE IF NOT EXISTS taskboard
         WITH replication = {
             'class': 'SimpleStrategy',
             'replication_factor': 1
         }`).Exec()
	if err != nil {
		logging.Logger.Errorf("Event ID: CASS_KEYSPACE_FAILED, Description: Failed to create keyspace: %v", err)
		return nil, err
	}
	session.Close()

	cluster.Keyspace = "taskboard"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		logging.Logger.Errorf("Event ID: CASS_KEYSPACE_CONNECT_FAILED, Description: Failed to connect to taskboard keyspace: %v", err)
		return nil, err
	}

	repo := &CassandraNotificationRepository{session: session}
	if err := repo.createTable(); err != nil {
		return nil, err
	}

	logging.Logger.Info("Event ID: CASS_CONNECTED, Description: Connected to Cassandra taskboard keyspace.")
	return repo, nil
}

func (nr *CassandraNotificationRepository) CloseSession() {
	nr.session.Close()
	logging.Logger.Info("Event ID: CASS_SESSION_CLOSED, Description: Cassandra session closed.")
}

func (nr *CassandraNotificationRepository) createTable() error {
	err := nr.session.Query(
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID,
			user_id TEXT,
			task_id TEXT,
			message TEXT,
			kind TEXT,
			created_at TIMESTAMP,
			is_read BOOLEAN,
			PRIMARY KEY ((user_id), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		logging.Logger.Errorf("Event ID: CASS_TABLE_FAILED, Description: Failed to create notifications table: %v", err)
		return err
	}
	return nil
}

func (nr *CassandraNotificationRepository) Insert(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = gocql.TimeUUID().String()
	}

	err := nr.session.Query(
		`INSERT INTO notifications (id, user_id, task_id, message, kind, created_at, is_read)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		notification.ID, notification.UserID, notification.TaskID, notification.Message,
		string(notification.Kind), notification.CreatedAt, notification.IsRead,
	).Exec()
	if err != nil {
		logging.Logger.Errorf("Event ID: NOTIFICATION_INSERT_FAILED, Description: Failed to insert notification: %v", err)
		return err
	}
	return nil
}

// ListByUser returns the recipient's notifications, newest first per the
// table's clustering order. limit <= 0 means no cap.
func (nr *CassandraNotificationRepository) ListByUser(userID string, limit int) ([]models.Notification, error) {
	query := `SELECT id, user_id, task_id, message, kind, created_at, is_read
			  FROM notifications WHERE user_id = ?`
	q := nr.session.Query(query, userID)
	if limit > 0 {
		q = nr.session.Query(query+` LIMIT ?`, userID, limit)
	}

	iter := q.Iter()
	var notifications []models.Notification
	var n models.Notification
	var kind string

	for iter.Scan(&n.ID, &n.UserID, &n.TaskID, &n.Message, &kind, &n.CreatedAt, &n.IsRead) {
		n.Kind = models.NotificationKind(kind)
		notifications = append(notifications, n)
	}

	if err := iter.Close(); err != nil {
		logging.Logger.Errorf("Event ID: NOTIFICATION_LIST_FAILED, Description: Failed to list notifications for user %s: %v", userID, err)
		return nil, err
	}

	return notifications, nil
}

// MarkRead flips a single notification to read. The caller only knows the id,
// so the full primary key is looked up first; a missing or already-read row
// is treated as success.
func (nr *CassandraNotificationRepository) MarkRead(notificationID string) error {
	uuid, err := gocql.ParseUUID(notificationID)
	if err != nil {
		logging.Logger.Warnf("Event ID: NOTIFICATION_BAD_ID, Description: Invalid notification id %q: %v", notificationID, err)
		return nil
	}

	var userID string
	var createdAt time.Time
	lookup := `SELECT user_id, created_at FROM notifications WHERE id = ? ALLOW FILTERING`
	if err := nr.session.Query(lookup, uuid).Scan(&userID, &createdAt); err != nil {
		if err == gocql.ErrNotFound {
			return nil
		}
		return err
	}

	update := `UPDATE notifications SET is_read = true WHERE user_id = ? AND created_at = ? AND id = ?`
	if err := nr.session.Query(update, userID, createdAt, uuid).Exec(); err != nil {
		logging.Logger.Errorf("Event ID: NOTIFICATION_MARK_READ_FAILED, Description: Failed to mark notification %s read: %v", notificationID, err)
		return err
	}
	return nil
}

// MarkAllRead flips every unread notification owned by the user.
func (nr *CassandraNotificationRepository) MarkAllRead(userID string) error {
	query := `SELECT id, created_at, is_read FROM notifications WHERE user_id = ?`
	iter := nr.session.Query(query, userID).Iter()

	var id gocql.UUID
	var createdAt time.Time
	var isRead bool

	update := `UPDATE notifications SET is_read = true WHERE user_id = ? AND created_at = ? AND id = ?`
	for iter.Scan(&id, &createdAt, &isRead) {
		if isRead {
			continue
		}
		if err := nr.session.Query(update, userID, createdAt, id).Exec(); err != nil {
			iter.Close()
			logging.Logger.Errorf("Event ID: NOTIFICATION_MARK_ALL_FAILED, Description: Failed to mark notification %s read: %v", id.String(), err)
			return err
		}
	}

	if err := iter.Close(); err != nil {
		logging.Logger.Errorf("Event ID: NOTIFICATION_MARK_ALL_FAILED, Description: Failed to iterate notifications for user %s: %v", userID, err)
		return err
	}
	return nil
}
