package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Booking is a patient's claim on one slot of one treatment on one date.
// At most one booking may exist per (treatment, date, patient); the slot is
// deliberately not part of that key.
type Booking struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Treatment   string             `bson:"treatment" json:"treatment"`
	Date        string             `bson:"date" json:"date"`
	Slot        string             `bson:"slot" json:"slot"`
	Patient     string             `bson:"patient" json:"patient"`
	PatientName string             `bson:"patientName,omitempty" json:"patientName,omitempty"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
}
