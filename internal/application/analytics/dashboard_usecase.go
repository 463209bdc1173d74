package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// DashboardRecorder registra la latencia de cada consulta del dashboard.
// Lo implementa el paquete de métricas; nil desactiva el registro.
type DashboardRecorder interface {
	ObserveDashboard(d time.Duration, err error)
}

// DashboardUseCase genera el resumen de facturación.
//
// Fuente de datos: StatsEngine (consultas read-only).
// No accede directamente a la tabla de facturas; delega todo en el motor.
type DashboardUseCase struct {
	engine   *StatsEngine
	now      func() time.Time
	recorder DashboardRecorder
}

// NewDashboardUseCase construye el caso de uso. now permite fijar el "año en curso" en tests.
func NewDashboardUseCase(engine *StatsEngine, now func() time.Time, recorder DashboardRecorder) *DashboardUseCase {
	if now == nil {
		now = time.Now
	}
	return &DashboardUseCase{engine: engine, now: now, recorder: recorder}
}

// GetDashboard construye el DashboardDTO.
//
// Tres consultas en paralelo:
//  1. AlltimeStats(clientes)
//  2. AlltimeStats(proveedores)
//  3. MonthlyStats(clientes, año en curso)
//
// Si alguna falla se devuelve el error; nunca se informa un resultado vacío en su lugar.
func (uc *DashboardUseCase) GetDashboard(ctx context.Context) (_ *dto.DashboardDTO, err error) {
	start := time.Now()
	if uc.recorder != nil {
		defer func() { uc.recorder.ObserveDashboard(time.Since(start), err) }()
	}

	year := uc.now().UTC().Year()

	type statsResult struct {
		stats PartyStats
		err   error
	}
	type monthlyResult struct {
		months []MonthStats
		err    error
	}

	customersCh := make(chan statsResult, 1)
	suppliersCh := make(chan statsResult, 1)
	monthlyCh := make(chan monthlyResult, 1)

	go func() {
		s, err := uc.engine.AlltimeStats(ctx, entity.PartyCustomer)
		customersCh <- statsResult{s, err}
	}()
	go func() {
		s, err := uc.engine.AlltimeStats(ctx, entity.PartySupplier)
		suppliersCh <- statsResult{s, err}
	}()
	go func() {
		m, err := uc.engine.MonthlyStats(ctx, entity.PartyCustomer, year)
		monthlyCh <- monthlyResult{m, err}
	}()

	customers := <-customersCh
	suppliers := <-suppliersCh
	monthly := <-monthlyCh

	if customers.err != nil {
		return nil, customers.err
	}
	if suppliers.err != nil {
		return nil, suppliers.err
	}
	if monthly.err != nil {
		return nil, monthly.err
	}

	months := make(dto.MonthlyStatsMap, 0, len(monthly.months))
	for _, m := range monthly.months {
		months = append(months, dto.MonthStatsEntry{
			Key: m.Key(),
			Stats: dto.MonthStatsDTO{
				Count: m.Count,
				Sum:   dto.NewAmount(m.Sum),
				Avg:   dto.NewAmount(m.Avg),
			},
		})
	}

	return &dto.DashboardDTO{
		MonthlyInvoiceStats:  months,
		AlltimeStats:         toPartyStatsDTO(customers.stats),
		AlltimeSupplierStats: toPartyStatsDTO(suppliers.stats),
		AlltimeProfit:        dto.NewAmount(Profit(customers.stats, suppliers.stats)),
	}, nil
}

func toPartyStatsDTO(s PartyStats) dto.PartyStatsDTO {
	return dto.PartyStatsDTO{Count: s.Count, Sum: dto.NullableAmount(s.Sum)}
}
