package dto_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
)

func amount(s string) dto.Amount { return dto.NewAmount(decimal.RequireFromString(s)) }

func TestDashboardDTO_JSON(t *testing.T) {
	d := dto.DashboardDTO{
		MonthlyInvoiceStats: dto.MonthlyStatsMap{
			{Key: "02-2026", Stats: dto.MonthStatsDTO{Count: 1, Sum: amount("5"), Avg: amount("5")}},
			{Key: "01-2026", Stats: dto.MonthStatsDTO{Count: 3, Sum: amount("60"), Avg: amount("20")}},
		},
		AlltimeStats:         dto.PartyStatsDTO{Count: 4, Sum: dto.NullableAmount(decimal.NewNullDecimal(decimal.RequireFromString("65")))},
		AlltimeSupplierStats: dto.PartyStatsDTO{Count: 0, Sum: dto.NullableAmount(decimal.NullDecimal{})},
		AlltimeProfit:        amount("65"),
	}

	b, err := json.Marshal(d)
	require.NoError(t, err)

	// El orden del slice se conserva aunque no sea lexicográfico.
	assert.JSONEq(t, `{
		"monthly_invoice_stats": {
			"02-2026": {"count": 1, "sum": 5.00, "avg": 5.00},
			"01-2026": {"count": 3, "sum": 60.00, "avg": 20.00}
		},
		"alltime_stats": {"count": 4, "sum": 65.00},
		"alltime_supplier_stats": {"count": 0, "sum": null},
		"alltime_profit": 65.00
	}`, string(b))
	assert.Less(t, strings.Index(string(b), "02-2026"), strings.Index(string(b), "01-2026"))
}

func TestMonthlyStatsMap_Vacio(t *testing.T) {
	b, err := json.Marshal(dto.MonthlyStatsMap(nil))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
}

func TestMonthlyStatsMap_Get(t *testing.T) {
	m := dto.MonthlyStatsMap{{Key: "03-2026", Stats: dto.MonthStatsDTO{Count: 2}}}
	s, ok := m.Get("03-2026")
	require.True(t, ok)
	assert.Equal(t, int64(2), s.Count)
	_, ok = m.Get("04-2026")
	assert.False(t, ok)
}

func TestAmount_JSON(t *testing.T) {
	b, err := json.Marshal(amount("12.5"))
	require.NoError(t, err)
	assert.Equal(t, "12.50", string(b))

	var fromNumber, fromString dto.Amount
	require.NoError(t, json.Unmarshal([]byte(`19.99`), &fromNumber))
	require.NoError(t, json.Unmarshal([]byte(`"19.99"`), &fromString))
	assert.True(t, fromNumber.Equal(decimal.RequireFromString("19.99")))
	assert.True(t, fromString.Equal(fromNumber.Decimal))
}

func TestOptionalString(t *testing.T) {
	var body struct {
		A dto.OptionalString `json:"a"`
		B dto.OptionalString `json:"b"`
		C dto.OptionalString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "x", "b": null}`), &body))

	assert.True(t, body.A.Set)
	require.NotNil(t, body.A.Value)
	assert.Equal(t, "x", *body.A.Value)
	assert.True(t, body.B.Set)
	assert.Nil(t, body.B.Value)
	assert.False(t, body.C.Set)

	current := "old"
	assert.Equal(t, "x", *body.A.Apply(&current))
	assert.Nil(t, body.B.Apply(&current))
	assert.Equal(t, &current, body.C.Apply(&current))
}

func TestPageRequest_DefaultPage(t *testing.T) {
	p := dto.PageRequest{Limit: 0, Offset: -3}
	p.DefaultPage()
	assert.Equal(t, dto.DefaultPageLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)

	p = dto.PageRequest{Limit: 1000}
	p.DefaultPage()
	assert.Equal(t, dto.MaxPageLimit, p.Limit)
}
