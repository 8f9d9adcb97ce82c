// Package notify implementa el colaborador de notificaciones: los eventos se encolan y un
// worker los despacha fuera de la transacción que los originó.
package notify

import (
	"sync"

	"github.com/jhoicas/Inventario-ledger/internal/application/ports"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

var _ ports.Notifier = (*AsyncNotifier)(nil)

// Sink entrega un evento. Un error se registra y se descarta.
type Sink func(event string, payload map[string]any) error

type message struct {
	event   string
	payload map[string]any
}

// AsyncNotifier cola acotada con un worker. Si la cola está llena el evento se descarta.
type AsyncNotifier struct {
	log   *logger.Logger
	sink  Sink
	queue chan message
	wg    sync.WaitGroup
	once  sync.Once
	mu    sync.RWMutex
	done  bool
}

// NewAsyncNotifier arranca el worker. sink nil = solo registrar el evento en el log.
func NewAsyncNotifier(log *logger.Logger, buffer int, sink Sink) *AsyncNotifier {
	if buffer <= 0 {
		buffer = 256
	}
	n := &AsyncNotifier{log: log, sink: sink, queue: make(chan message, buffer)}
	n.wg.Add(1)
	go n.run()
	return n
}

// Notify encola el evento sin bloquear.
func (n *AsyncNotifier) Notify(event string, payload map[string]any) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.done {
		return
	}
	select {
	case n.queue <- message{event: event, payload: payload}:
	default:
		n.log.Warn().Str("event", event).Msg("cola de notificaciones llena; evento descartado")
	}
}

// Close deja de aceptar eventos y espera a que el worker vacíe la cola.
func (n *AsyncNotifier) Close() {
	n.once.Do(func() {
		n.mu.Lock()
		n.done = true
		close(n.queue)
		n.mu.Unlock()
		n.wg.Wait()
	})
}

func (n *AsyncNotifier) run() {
	defer n.wg.Done()
	for msg := range n.queue {
		ev := n.log.Info().Str("event", msg.event)
		for _, k := range []string{"ticket_id", "code", "status", "actor_id"} {
			if v, ok := msg.payload[k]; ok {
				ev = ev.Interface(k, v)
			}
		}
		ev.Msg("notificación")
		if n.sink == nil {
			continue
		}
		if err := n.sink(msg.event, msg.payload); err != nil {
			n.log.Error().Err(err).Str("event", msg.event).Msg("entrega de notificación fallida")
		}
	}
}
