package repository

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Stock     StockRepository
	Movements MovementRepository
	Tickets   TicketRepository
	Items     ItemRepository
	Locations LocationRepository
	Workflows WorkflowRepository
}
