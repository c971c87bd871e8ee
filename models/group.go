package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Group struct {
	ID      primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name    string               `bson:"name" json:"name"`
	OwnerID primitive.ObjectID   `bson:"ownerId" json:"ownerId"`
	Members []primitive.ObjectID `bson:"members" json:"members"`
}

// HasMember reports whether userID is in the member list. The owner is not
// implicitly a member.
func (g *Group) HasMember(userID primitive.ObjectID) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
