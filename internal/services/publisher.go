package services

// EventPublisher publishes order lifecycle events. Publishing is best-effort:
// services log failures and never fail the operation over them. A nil
// publisher disables events entirely.
type EventPublisher interface {
	Publish(routingKey string, payload interface{}) error
}
