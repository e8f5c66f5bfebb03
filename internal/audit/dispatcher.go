package audit

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-engine/internal/logging"
)

type Event struct {
	TenantID uuid.UUID
	UserID   *uuid.UUID
	Action   string
	Entity   string
	EntityID *uuid.UUID
	Metadata any
}

// Sink persists one audit event.
type Sink interface {
	Write(ev Event) error
}

type Dispatcher struct {
	sink   Sink
	logger *zap.Logger
	queue  chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(sink Sink, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:   sink,
		logger: logging.OrNop(logger),
		queue:  make(chan Event, 100), // buffer seguro
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.sink.Write(ev); err != nil {
			d.logger.Error("audit error",
				zap.String("action", ev.Action),
				zap.String("tenant_id", ev.TenantID.String()),
				zap.Error(err),
			)
		}
	}
}

// Dispatch never blocks the request path. A nil dispatcher drops events.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos audit (nunca quebrar API)
		d.logger.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}
