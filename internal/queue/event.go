// Package queue publishes and consumes feed reload notifications over
// RabbitMQ. The broker is strictly optional: the feed service falls back
// to nothing (the dashboard still polls) when no URL is configured or
// the broker is down.
package queue

// QueueName is the durable queue carrying FeedReloadedEvent messages.
const QueueName = "feed.reloaded"

// FeedReloadedEvent is published after a CSV file has been re-parsed and
// its snapshot swapped. Consumers use it to refresh ahead of their next
// poll tick; Generation lets them drop stale or duplicate notifications.
type FeedReloadedEvent struct {
	Feed       string `json:"feed"`
	Generation uint64 `json:"generation"`
	Rows       int    `json:"rows"`
	ReloadedAt string `json:"reloaded_at"`
}
