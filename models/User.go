package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name                string         `json:"name"`
	Email               string         `json:"email" gorm:"uniqueIndex"`
	PhoneNumber         string         `json:"phoneNumber"`
	Password            string         `json:"-"`
	City                string         `json:"city"`
	AvatarURL           string         `json:"avatarURL"`
	Venues              []Venue        `json:"venues,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
	PushTokens          datatypes.JSON `json:"pushTokens"`
	AllowsNotifications *bool          `json:"allowsNotifications"`
	Role                string         `json:"role" gorm:"type:varchar(20);default:player;index"` // player, owner, admin
}

// Custom JSON marshaling to handle JSON fields properly
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		PushTokens []string `json:"pushTokens,omitempty"`
		*Alias
	}{
		PushTokens: []string{},
		Alias:      (*Alias)(u),
	}

	// Parse PushTokens JSON
	if u.PushTokens != nil {
		var pushTokens []string
		if err := json.Unmarshal(u.PushTokens, &pushTokens); err == nil {
			aux.PushTokens = pushTokens
		}
	}

	// Note: Venues field is excluded to prevent circular reference

	return json.Marshal(aux)
}
