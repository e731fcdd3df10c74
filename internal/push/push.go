// Package push delivers web push notifications for the review
// workflow: parents hear about completions waiting on them, children
// hear back when a review lands.
package push

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/petravell/choreboard/internal/model"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// ErrExpired marks a subscription the push service reported gone.
// Callers should delete the stored subscription and move on.
var ErrExpired = errors.New("push subscription expired")

// Payload is the notification body the service worker renders. Tag
// lets the browser collapse repeats of the same event kind.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

const (
	// Push services hold undelivered notifications this long. A chore
	// notice older than a day is stale anyway.
	defaultTTL = 86400

	defaultSubscriber = "mailto:noreply@choreboard.app"
)

// Service signs and sends notifications with the household's VAPID
// key pair.
type Service struct {
	publicKey  string
	privateKey string
	subscriber string
	ttl        int
}

func NewService(publicKey, privateKey string) *Service {
	return &Service{
		publicKey:  publicKey,
		privateKey: privateKey,
		subscriber: defaultSubscriber,
		ttl:        defaultTTL,
	}
}

// VAPIDPublicKey is handed to browsers when they subscribe.
func (s *Service) VAPIDPublicKey() string {
	return s.publicKey
}

// Send pushes one payload to one subscription. A 410 from the push
// service comes back as ErrExpired so the subscription gets pruned.
func (s *Service) Send(sub *model.PushSubscription, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := webpush.SendNotification(body, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dhKey,
			Auth:   sub.AuthKey,
		},
	}, &webpush.Options{
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		Subscriber:      s.subscriber,
		TTL:             s.ttl,
	})
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		return ErrExpired
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("push service returned %d", resp.StatusCode)
	}

	return nil
}

// GenerateVAPIDKeys mints a P-256 key pair in the base64url form
// browsers expect. Generate once and persist both halves; rotating
// the pair invalidates every stored subscription.
func GenerateVAPIDKeys() (publicKey, privateKey string, err error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("generate ECDSA key: %w", err)
	}

	pubBytes := elliptic.Marshal(elliptic.P256(), key.PublicKey.X, key.PublicKey.Y)
	publicKey = base64.RawURLEncoding.EncodeToString(pubBytes)
	privateKey = base64.RawURLEncoding.EncodeToString(key.D.Bytes())

	return publicKey, privateKey, nil
}
