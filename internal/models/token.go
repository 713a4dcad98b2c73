package models

import "time"

// UserToken is the signed bearer credential returned by login.
// Not persisted, the token itself carries identity and roles.
type UserToken struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
}
