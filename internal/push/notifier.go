package push

import (
	"fmt"
	"log/slog"

	"github.com/petravell/choreboard/internal/model"
	"github.com/petravell/choreboard/internal/store"
)

// Notifier fans lifecycle events out to push subscriptions. A completion
// notifies every parent that a review is waiting; a review notifies the
// person whose work was judged. Send failures are logged, never
// propagated, and expired endpoints are pruned as they surface.
type Notifier struct {
	service *Service
	subs    *store.PushStore
	logger  *slog.Logger
}

func NewNotifier(service *Service, subs *store.PushStore, logger *slog.Logger) *Notifier {
	return &Notifier{service: service, subs: subs, logger: logger}
}

// CompletionRecorded tells the parents a completion is awaiting review.
func (n *Notifier) CompletionRecorded(personName, task string) {
	subs, err := n.subs.ListByRole(model.RoleParent)
	if err != nil {
		n.logger.Error("list parent subscriptions", "error", err)
		return
	}

	who := personName
	if who == "" {
		who = "Someone"
	}
	n.sendAll(subs, Payload{
		Title: "Chore completed",
		Body:  fmt.Sprintf("%s finished %q and it needs review", who, task),
		Tag:   "pending-review",
		URL:   "/reviews",
	})
}

// ReviewRecorded tells the assignee how their completion was judged.
func (n *Notifier) ReviewRecorded(personID *int64, task string, approved bool) {
	if personID == nil {
		return
	}
	subs, err := n.subs.ListByPerson(*personID)
	if err != nil {
		n.logger.Error("list person subscriptions", "person_id", *personID, "error", err)
		return
	}

	verdict := "approved"
	if !approved {
		verdict = "sent back"
	}
	n.sendAll(subs, Payload{
		Title: "Chore reviewed",
		Body:  fmt.Sprintf("Your work on %q was %s", task, verdict),
		Tag:   "review-result",
	})
}

func (n *Notifier) sendAll(subs []model.PushSubscription, payload Payload) {
	for i := range subs {
		sub := &subs[i]
		err := n.service.Send(sub, payload)
		if err == ErrExpired {
			if delErr := n.subs.DeleteByEndpoint(sub.Endpoint); delErr != nil {
				n.logger.Error("delete expired subscription", "error", delErr)
			}
			continue
		}
		if err != nil {
			n.logger.Error("send push", "subscription_id", sub.ID, "error", err)
		}
	}
}
