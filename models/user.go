package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User nosi samo polja koja su analitici potrebna; ostatak dokumenta
// pripada users servisu.
type User struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name     string             `json:"name" bson:"name"`
	LastName string             `json:"lastName" bson:"lastName"`
	Username string             `json:"username" bson:"username"`
	Email    string             `json:"email" bson:"email"`
	// Workspaces se u bazi čuva kao lista hex ID stringova.
	Workspaces []string `json:"workspaces,omitempty" bson:"workspaces,omitempty"`
}

// DisplayName vraća ime za prikaz, sa fallback-om na email pa na "Unknown".
func (u *User) DisplayName() string {
	if u.Name != "" {
		if u.LastName != "" {
			return u.Name + " " + u.LastName
		}
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return "Unknown"
}
