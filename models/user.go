package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Username    string             `bson:"username" json:"username"`
	Password    string             `bson:"password" json:"-"`
	ResetCode   string             `bson:"resetCode,omitempty" json:"-"`
	ResetExpiry time.Time          `bson:"resetExpiry,omitempty" json:"-"`
}
