package model

import "time"

// PushSubscription is a browser push endpoint registered by a person.
type PushSubscription struct {
	ID        int64     `json:"id"`
	PersonID  int64     `json:"person_id"`
	Endpoint  string    `json:"endpoint"`
	P256dhKey string    `json:"-"`
	AuthKey   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
