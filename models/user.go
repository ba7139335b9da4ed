package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Email     string               `bson:"email" json:"email"`
	Name      string               `bson:"name" json:"name"`
	Password  string               `bson:"password" json:"-"`
	Favorites []primitive.ObjectID `bson:"favorites" json:"favorites"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// UserRef is the projection of a populated user reference: only the fields
// a listing or recommendation exposes about another user.
type UserRef struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}
