package model

// User is the persisted profile of a registered player
type User struct {
	Username          string  `json:"username" bson:"_id"`
	PreferredUsername string  `json:"preferredUsername" bson:"preferredUsername"`
	Email             string  `json:"email" bson:"email"`
	ProfilePicture    string  `json:"profilePicture" bson:"profilePicture"` // Media object key
	Elo               float64 `json:"elo" bson:"elo"`
	PreferredLanguage string  `json:"preferredLanguage" bson:"preferredLanguage"`
}

// Profile is the roster decoration shown next to an occupant
type Profile struct {
	Username string `json:"username"`
	Pfp      string `json:"pfp"`
	Elo      string `json:"elo"`
}
