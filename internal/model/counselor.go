package model

import "time"

type Counselor struct {
	ID              int64     `json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	IsAvailable     bool      `json:"is_available"`
	Specializations []string  `json:"specializations"`
	HourlyRate      float64   `json:"hourly_rate"`
	Currency        string    `json:"currency"`
	AverageRating   float64   `json:"average_rating"`
	CreatedAt       time.Time `json:"created_at"`
}
