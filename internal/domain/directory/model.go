package directory

// User is a registered portal account. Role is "admin" or empty.
type User struct {
	ID    string `json:"_id" bson:"_id,omitempty"`
	Email string `json:"email" bson:"email"`
	Name  string `json:"name,omitempty" bson:"name,omitempty"`
	Role  string `json:"role,omitempty" bson:"role,omitempty"`
}

type Doctor struct {
	ID             string   `json:"_id" bson:"_id,omitempty"`
	Name           string   `json:"name" bson:"name"`
	Email          string   `json:"email,omitempty" bson:"email,omitempty"`
	Specialty      string   `json:"specialty" bson:"specialty"`
	Image          string   `json:"image,omitempty" bson:"image,omitempty"`
	AvailableSlots []string `json:"availableSlots" bson:"availableSlots"`
}

type AdminStatus struct {
	IsAdmin bool `json:"isAdmin"`
}

// TokenResponse carries an access token. An empty AccessToken is the soft
// denial for unknown emails.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}
