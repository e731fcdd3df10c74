package store

import (
	"database/sql"
	"fmt"

	"github.com/petravell/choreboard/internal/model"
)

type PushStore struct {
	db *sql.DB
}

func NewPushStore(db *sql.DB) *PushStore {
	return &PushStore{db: db}
}

const pushCols = `id, person_id, endpoint, p256dh_key, auth_key, created_at`

func scanSubscription(scanner interface{ Scan(...any) error }) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	err := scanner.Scan(&sub.ID, &sub.PersonID, &sub.Endpoint, &sub.P256dhKey, &sub.AuthKey, &sub.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create registers a push endpoint for a person. Re-registering the
// same endpoint moves it to the new person.
func (s *PushStore) Create(personID int64, endpoint, p256dhKey, authKey string) (*model.PushSubscription, error) {
	_, err := s.db.Exec(
		`INSERT INTO push_subscriptions (person_id, endpoint, p256dh_key, auth_key)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (endpoint) DO UPDATE SET
			person_id = excluded.person_id,
			p256dh_key = excluded.p256dh_key,
			auth_key = excluded.auth_key`,
		personID, endpoint, p256dhKey, authKey,
	)
	if err != nil {
		return nil, fmt.Errorf("insert subscription: %w", wrapStorage(err))
	}

	row := s.db.QueryRow(`SELECT `+pushCols+` FROM push_subscriptions WHERE endpoint = ?`, endpoint)
	sub, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("read subscription: %w", wrapStorage(err))
	}
	return sub, nil
}

func (s *PushStore) ListByPerson(personID int64) ([]model.PushSubscription, error) {
	rows, err := s.db.Query(`SELECT `+pushCols+` FROM push_subscriptions WHERE person_id = ?`, personID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", wrapStorage(err))
	}
	defer rows.Close()
	return collectSubscriptions(rows)
}

// ListByRole returns subscriptions for every person holding the role.
func (s *PushStore) ListByRole(role model.Role) ([]model.PushSubscription, error) {
	rows, err := s.db.Query(
		`SELECT s.id, s.person_id, s.endpoint, s.p256dh_key, s.auth_key, s.created_at
		 FROM push_subscriptions s
		 JOIN people p ON p.id = s.person_id
		 WHERE p.role = ?`,
		role,
	)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions by role: %w", wrapStorage(err))
	}
	defer rows.Close()
	return collectSubscriptions(rows)
}

func (s *PushStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM push_subscriptions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", wrapStorage(err))
	}
	return nil
}

// DeleteByEndpoint removes a subscription the push service reported as
// expired.
func (s *PushStore) DeleteByEndpoint(endpoint string) error {
	_, err := s.db.Exec(`DELETE FROM push_subscriptions WHERE endpoint = ?`, endpoint)
	if err != nil {
		return fmt.Errorf("delete subscription by endpoint: %w", wrapStorage(err))
	}
	return nil
}

func collectSubscriptions(rows *sql.Rows) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", wrapStorage(err))
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}
