// Package events declares the lead desk domain events. The bus itself lives
// in platform/events; the aliases here keep call sites on one import.
package events

import (
	platformevents "filmleads_backend/platform/events"
	"filmleads_backend/platform/logger"
)

// InMemoryBus is a type alias to the platform InMemoryBus
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
