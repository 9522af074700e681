package domain

import "errors"

var ErrUserNotFound = errors.New("user not found")

type User struct {
	UserID         string  `json:"user_id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	Pfp            int     `json:"pfp"`
	Country        string  `json:"country"`
	Transportation string  `json:"transportation"`
	CarbonEmission float64 `json:"carbonEmission"`
	NotiFlag       bool    `json:"notiFlag"`
	FCMToken       string  `json:"fcm_token,omitempty"`
}

// UserPatch is a partial update; nil fields are left untouched.
type UserPatch struct {
	Name           *string  `json:"name"`
	Email          *string  `json:"email"`
	Password       *string  `json:"password"`
	Pfp            *int     `json:"pfp"`
	Country        *string  `json:"country"`
	Transportation *string  `json:"transportation"`
	CarbonEmission *float64 `json:"carbonEmission"`
	NotiFlag       *bool    `json:"notiFlag"`
	FCMToken       *string  `json:"fcm_token"`
}
