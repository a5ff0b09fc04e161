package statistics

import "context"

// API es de solo lectura: el servicio de estadísticas no acepta escrituras.
type API interface {
	Summary(ctx context.Context) (Summary, error)
	Dashboard(ctx context.Context) (Dashboard, error)
	AppointmentsPerMonth(ctx context.Context) ([]MonthCount, error)
}
