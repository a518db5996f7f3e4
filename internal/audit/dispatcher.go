package audit

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/queue"
)

type Event struct {
	ShopID   *uuid.UUID
	UserID   *uuid.UUID
	Action   string
	Entity   string
	EntityID *uuid.UUID
	Metadata any
}

type writer interface {
	Log(ev Event) error
}

type Dispatcher struct {
	queue *queue.Queue[Event]
}

func NewDispatcher(logger writer) *Dispatcher {
	return &Dispatcher{
		queue: queue.New("audit", 100, func(ev Event) {
			if err := logger.Log(ev); err != nil {
				log.Error().Err(err).Str("action", ev.Action).Msg("audit write failed")
			}
		}),
	}
}

// Dispatch never blocks the request: a full queue drops the event.
func (d *Dispatcher) Dispatch(ev Event) {
	d.queue.Push(ev)
}

// Close stops accepting events and waits for the queued ones to be written.
func (d *Dispatcher) Close() {
	d.queue.Close()
}
