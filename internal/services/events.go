package services

import (
	"context"
	"log"
)

// Event names published after successful mutations.
const (
	EventProductCreated  = "product.created"
	EventProductUpdated  = "product.updated"
	EventProductDeleted  = "product.deleted"
	EventStoreCreated    = "store.created"
	EventStoreUpdated    = "store.updated"
	EventStoreDeleted    = "store.deleted"
	EventProductAttached = "store.product.attached"
	EventProductDetached = "store.product.detached"
)

// EventPublisher sends inventory events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload interface{}) error
}

// StoreProductEvent is the payload of attach/detach events.
type StoreProductEvent struct {
	StoreID   int64 `json:"storeId"`
	ProductID int64 `json:"productId"`
}

// publish never fails the caller: the mutation has already been committed.
func publish(ctx context.Context, publisher EventPublisher, event string, payload interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event, payload); err != nil {
		log.Printf("Failed to publish %s event: %v", event, err)
	}
}
