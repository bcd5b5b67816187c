package domain

import "context"

// Deliverer is the messaging-transport primitive this core consumes:
// "deliver content to user X". The concrete transport (bot gateway) lives in
// infrastructure; failures surface as errors and never panic the relay.
type Deliverer interface {
	Deliver(ctx context.Context, userID int, content string) error
}
