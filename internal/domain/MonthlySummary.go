package domain

import (
	"fmt"
	"time"
)

// WeeklySummaryEntry é uma entrada do detalhamento semanal persistido,
// sempre ordenado de forma crescente pela semana
type WeeklySummaryEntry struct {
	Week            int     `json:"week"`
	Revenue         float64 `json:"revenue"`
	Orders          int     `json:"orders"`
	ProductsSold    int     `json:"productsSold"`
	ActiveCustomers int     `json:"activeCustomers"`
}

// MonthlySummary é o registro de resumo mensal persistido por loja e mês.
// A chave é determinística ({storeId}_{yearMonth}), então reprocessar o
// mesmo ledger produz exatamente os mesmos registros.
type MonthlySummary struct {
	ID                string               `json:"id"`
	StoreID           string               `json:"storeId"`
	Month             string               `json:"month"` // formato YYYY-MM
	TotalRevenue      float64              `json:"totalRevenue"`
	TotalOrders       int                  `json:"totalOrders"`
	TotalProductsSold int                  `json:"totalProductsSold"`
	ActiveCustomers   int                  `json:"activeCustomers"`
	Weekly            []WeeklySummaryEntry `json:"weekly"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// MonthlySummaryID monta a chave determinística de um resumo mensal
func MonthlySummaryID(storeID, month string) string {
	return fmt.Sprintf("%s_%s", storeID, month)
}
