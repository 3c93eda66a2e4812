package models

import "time"

type Session struct {
	Token   string    // Opaque session token
	UserID  int       // Owner
	Expires time.Time // Expiry moment
	Created time.Time // Creation moment
}
