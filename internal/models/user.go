package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// RoleAdmin is the only elevated role; every other value (or a missing role
// field entirely) means a regular user.
const RoleAdmin = "admin"

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Education string             `bson:"education,omitempty" json:"education,omitempty"`
	District  string             `bson:"district,omitempty" json:"district,omitempty"`
	Role      string             `bson:"role,omitempty" json:"role,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
