package dto

import (
	"bytes"
	"encoding/json"
)

// DashboardDTO respuesta de GET /dashboard.
type DashboardDTO struct {
	// Facturas de cliente del año en curso agrupadas por mes ("MM-YYYY").
	MonthlyInvoiceStats MonthlyStatsMap `json:"monthly_invoice_stats" swaggertype:"object"`

	// Acumulados históricos de cada flujo; sum es null si no hay facturas.
	AlltimeStats         PartyStatsDTO `json:"alltime_stats"`
	AlltimeSupplierStats PartyStatsDTO `json:"alltime_supplier_stats"`

	// Suma de clientes menos suma de proveedores (sumas nulas cuentan como 0).
	AlltimeProfit Amount `json:"alltime_profit" swaggertype:"number"`
}

// PartyStatsDTO conteo y suma de un flujo.
type PartyStatsDTO struct {
	Count int64   `json:"count"`
	Sum   *Amount `json:"sum" swaggertype:"number"`
}

// MonthStatsDTO métricas de un mes.
type MonthStatsDTO struct {
	Count int64  `json:"count"`
	Sum   Amount `json:"sum" swaggertype:"number"`
	Avg   Amount `json:"avg" swaggertype:"number"`
}

// MonthStatsEntry una entrada del mapa mensual.
type MonthStatsEntry struct {
	Key   string // "MM-YYYY"
	Stats MonthStatsDTO
}

// MonthlyStatsMap se serializa como objeto JSON conservando el orden de inserción
// (ascendente por fecha). Un mapa vacío se emite como {}.
type MonthlyStatsMap []MonthStatsEntry

// MarshalJSON escribe las claves en el orden del slice.
func (m MonthlyStatsMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(e.Stats)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get busca una entrada por clave.
func (m MonthlyStatsMap) Get(key string) (MonthStatsDTO, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Stats, true
		}
	}
	return MonthStatsDTO{}, false
}
