package booking

import "fmt"

// Booking is a patient's reservation of one slot of one treatment on one date.
type Booking struct {
	ID              string  `json:"_id" bson:"_id,omitempty"`
	AppointmentDate string  `json:"appointmentDate" bson:"appointmentDate"`
	Treatment       string  `json:"treatment" bson:"treatment"`
	Patient         string  `json:"patient,omitempty" bson:"patient,omitempty"`
	Slot            string  `json:"slot" bson:"slot"`
	Email           string  `json:"email" bson:"email"`
	Phone           string  `json:"phone,omitempty" bson:"phone,omitempty"`
	Price           float64 `json:"price" bson:"price"`
	Paid            bool    `json:"paid" bson:"paid"`
	TransactionID   string  `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
}

// Admission is the response to a booking request. A rejected request has
// Acknowledged false and a Message; an accepted one carries the new id.
type Admission struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId,omitempty"`
	Message      string `json:"message,omitempty"`
}

// DuplicateMessage is shown to a patient who already holds a booking for the
// same treatment on date. The trailing space is what existing clients expect.
func DuplicateMessage(date string) string {
	return fmt.Sprintf("You already have a booking on %s. ", date)
}
