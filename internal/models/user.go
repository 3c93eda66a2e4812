package models

import "time"

type User struct {
	ID       int       // Unique identifier
	Username string    // Login name, unique
	Email    string    // Optional contact address
	Password []byte    // bcrypt hash
	Created  time.Time // Registration date
}
