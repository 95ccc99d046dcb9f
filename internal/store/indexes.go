package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureBookingIndexes creates the unique compound index backing the
// one-booking-per-(treatment, date, patient) invariant, so a lost race
// between two concurrent create calls surfaces as a duplicate-key error
// instead of a second document.
func EnsureBookingIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("booking").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "treatment", Value: 1},
			{Key: "date", Value: 1},
			{Key: "patient", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("treatment_date_patient_unique"),
	})
	return err
}
