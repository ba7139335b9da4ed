package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Recommendation struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PropertyID primitive.ObjectID `bson:"propertyId" json:"propertyId"`
	FromUserID primitive.ObjectID `bson:"fromUserId" json:"fromUserId"`
	ToUserID   primitive.ObjectID `bson:"toUserId" json:"toUserId"`
	Message    string             `bson:"message,omitempty" json:"message,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`

	// Populated projections, filled on read.
	Property *Property `bson:"property,omitempty" json:"property,omitempty"`
	From     *UserRef  `bson:"from,omitempty" json:"from,omitempty"`
}
