package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Service is a bookable treatment with its full menu of time slots.
// On the /available route the Slots field is rewritten to hold only
// the slots still free for the requested date.
type Service struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name  string             `bson:"name" json:"name"`
	Slots []string           `bson:"slots,omitempty" json:"slots"`
}

// RemainingSlots returns the slots of svc that are not claimed by any of the
// given bookings. Only bookings whose treatment matches svc.Name count; the
// caller is expected to have filtered bookings to a single date already.
// Order of the original slot list is preserved.
func RemainingSlots(svc Service, bookings []Booking) []string {
	booked := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		if b.Treatment == svc.Name {
			booked[b.Slot] = struct{}{}
		}
	}

	remaining := make([]string, 0, len(svc.Slots))
	for _, slot := range svc.Slots {
		if _, taken := booked[slot]; !taken {
			remaining = append(remaining, slot)
		}
	}
	return remaining
}
