package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is the identity record. Password holds the bcrypt hash and is never
// serialized into responses.
type User struct {
	ID        bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string        `json:"name" bson:"name"`
	Email     string        `json:"email" bson:"email"`
	Avatar    string        `json:"avatar" bson:"avatar"`
	Password  string        `json:"-" bson:"password"`
	Confirmed bool          `json:"confirmed" bson:"confirmed"`
	Date      time.Time     `json:"date" bson:"date"`
}
