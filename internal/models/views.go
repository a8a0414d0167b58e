package models

import "time"

// AccountView is the read-optimised projection of an account.
// It never exposes PasswordHash or SecurityQuestion.
type AccountView struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	UserName     string    `json:"userName"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobileNumber"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"createdTimestamp"`
	UpdatedAt    time.Time `json:"updatedTimestamp"`
}

// Credentials is the bridge handed to the token layer during authentication.
// It carries exactly what credential verification needs and nothing else.
type Credentials struct {
	UserName     string
	PasswordHash string
	Enabled      bool
	Authorities  []string
}
