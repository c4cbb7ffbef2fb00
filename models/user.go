package models

// User holds the structure for the user collection in mongo
type User struct {
	ID      string      `json:"_id" bson:"_id"`
	Details UserDetails `json:"user" bson:"user"`
	Version int32       `json:"__v" bson:"__v"`
}

// UserDetails holds the structure for the inner user structure as defined in
// the user collection in mongo
type UserDetails struct {
	Name      string      `json:"name" bson:"name"`
	Email     string      `json:"email" bson:"email"`
	Password  string      `json:"password,omitempty" bson:"password"`
	Phone     string      `json:"phone" bson:"phone"`
	StudentID string      `json:"studentId" bson:"studentId"`
	IsAdmin   bool        `json:"isAdmin" bson:"isAdmin"`
	CreatedAt interface{} `json:"createdAt" bson:"createdAt"`
	UpdatedAt interface{} `json:"updatedAt" bson:"updatedAt"`
}

// Identity is a resolved caller identity supplied by the authentication
// layer. The core trusts it and does not authenticate.
type Identity struct {
	UserID string
	Admin  bool
}
