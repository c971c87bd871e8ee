package repositories

import (
	"context"
	"fmt"

	"taskboard/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AuditRepository interface {
	Insert(ctx context.Context, record *models.AuditRecord) error
	ListByTask(ctx context.Context, taskID string) ([]models.AuditRecord, error)
}

type MongoAuditRepository struct {
	collection *mongo.Collection
}

func NewMongoAuditRepository(collection *mongo.Collection) *MongoAuditRepository {
	return &MongoAuditRepository{collection: collection}
}

func (r *MongoAuditRepository) Insert(ctx context.Context, record *models.AuditRecord) error {
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert audit record: %v", err)
	}
	return nil
}

// ListByTask returns the task's audit trail, newest first.
func (r *MongoAuditRepository) ListByTask(ctx context.Context, taskID string) ([]models.AuditRecord, error) {
	opts := options.Find().SetSort(bson.M{"timestamp": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"taskId": taskID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve audit records: %v", err)
	}
	defer cursor.Close(ctx)

	var records []models.AuditRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode audit records: %v", err)
	}
	return records, nil
}
