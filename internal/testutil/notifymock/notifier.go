package notifymock

import (
	"context"
	"sync"

	"scrapgate/internal/domain/notification"
)

var _ notification.Notifier = (*Notifier)(nil)

// Notifier records dispatched events; set Err to simulate delivery failure.
type Notifier struct {
	mu     sync.Mutex
	Events []notification.InspectionEvent
	Err    error
}

func (m *Notifier) NotifyInspection(_ context.Context, ev notification.InspectionEvent) error {
	m.mu.Lock()
	m.Events = append(m.Events, ev)
	m.mu.Unlock()
	return m.Err
}

func (m *Notifier) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Events)
}
