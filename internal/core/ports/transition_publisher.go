package ports

import "fulfillment/internal/core/domain/model/order"

// TransitionPublisher announces durably committed order transitions. The
// ledger publishes only after the write has committed, so subscribers never
// observe a transition that later rolled back.
type TransitionPublisher interface {
	PublishTransition(event order.TransitionOccurred)
}

// TransitionSubscriber receives committed transitions. Handlers run outside
// the ledger's transaction; failures here never roll the transition back.
type TransitionSubscriber interface {
	OnTransition(event order.TransitionOccurred)
}
