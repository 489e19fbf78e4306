// Package eventbus provides publish/subscribe plumbing for domain
// events. The write path publishes after a successful commit; handlers
// run synchronously in subscription order.
package eventbus

import (
	"context"

	"github.com/pennywiseapp/pennywise/pkg/domain"
)

// EventBus defines the contract for publishing and subscribing to
// domain events.
type EventBus interface {
	Publish(ctx context.Context, event domain.Event) error
	Subscribe(eventType string, handler func(context.Context, domain.Event))
}
