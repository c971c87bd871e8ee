package repositories

import (
	"context"
	"fmt"

	"taskboard/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type GroupRepository interface {
	Insert(ctx context.Context, group *models.Group) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error)
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error)
	ListForMember(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error)
}

type MongoGroupRepository struct {
	collection *mongo.Collection
}

func NewMongoGroupRepository(collection *mongo.Collection) *MongoGroupRepository {
	return &MongoGroupRepository{collection: collection}
}

func (r *MongoGroupRepository) Insert(ctx context.Context, group *models.Group) (primitive.ObjectID, error) {
	if group.ID.IsZero() {
		group.ID = primitive.NewObjectID()
	}
	if group.Members == nil {
		group.Members = []primitive.ObjectID{}
	}
	result, err := r.collection.InsertOne(ctx, group)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert group: %v", err)
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *MongoGroupRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	var group models.Group
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&group)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// Update replaces the stored document with the given group.
func (r *MongoGroupRepository) Update(ctx context.Context, group *models.Group) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": group.ID}, group)
	if err != nil {
		return fmt.Errorf("failed to update group: %v", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoGroupRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete group: %v", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForUser returns every group the user owns or belongs to.
func (r *MongoGroupRepository) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	filter := bson.M{"$or": []bson.M{
		{"ownerId": userID},
		{"members": userID},
	}}
	return r.find(ctx, filter)
}

// ListForMember returns only the groups whose member list contains the user.
// Ownership alone does not qualify.
func (r *MongoGroupRepository) ListForMember(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	return r.find(ctx, bson.M{"members": userID})
}

func (r *MongoGroupRepository) find(ctx context.Context, filter bson.M) ([]models.Group, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve groups: %v", err)
	}
	defer cursor.Close(ctx)

	var groups []models.Group
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode groups: %v", err)
	}
	return groups, nil
}
