package ports

// Notifier define el puerto de salida hacia el colaborador de notificaciones.
// Es fire-and-forget: el motor nunca observa el resultado de la entrega, y se invoca
// siempre después de confirmar la transacción que originó el evento.
type Notifier interface {
	Notify(event string, payload map[string]any)
}

// Eventos emitidos por el motor de tickets.
const (
	EventTicketCreated      = "ticket.created"
	EventTicketSubmitted    = "ticket.submitted"
	EventTicketAdvanced     = "ticket.advanced"
	EventTicketApplied      = "ticket.applied"
	EventTicketRejected     = "ticket.rejected"
	EventTicketCancelled    = "ticket.cancelled"
	EventTicketAutoRejected = "ticket.auto_rejected"
)

// NopNotifier descarta todos los eventos.
type NopNotifier struct{}

func (NopNotifier) Notify(string, map[string]any) {}
