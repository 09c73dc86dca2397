package model

import "time"

type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	DisplayName   string    `json:"displayName"`
	Year          string    `json:"year,omitempty"`
	Major         string    `json:"major,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Year options offered by the profile form.
var YearOptions = []string{"Freshman", "Sophomore", "Junior", "Senior", "Graduate"}
