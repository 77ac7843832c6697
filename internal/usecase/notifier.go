package usecase

import "context"

// Notifier fans a message out to a league's subscribers. Delivery is owned by
// an external collaborator; the engine only publishes.
type Notifier interface {
	Publish(ctx context.Context, leagueID, msgType, title, body string, data map[string]any) error
}

// NopNotifier drops every message. Used when no push collaborator is wired.
type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, string, string, string, string, map[string]any) error {
	return nil
}
