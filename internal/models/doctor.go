package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Doctor struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Specialty string             `bson:"specialty,omitempty" json:"specialty,omitempty"`
	Image     string             `bson:"img,omitempty" json:"img,omitempty"`
}
