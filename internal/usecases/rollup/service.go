// Package rollup implementa o recálculo periódico dos resumos mensais e
// semanais de receita a partir do ledger de pedidos.
package rollup

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-analytics-api/infrastructure/repository"
	"github.com/vfg2006/sales-analytics-api/internal/config"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/pkg/utils"
)

// RevenueRoller executa o pipeline completo: ler ledger, agregar, persistir
type RevenueRoller interface {
	Run(ctx context.Context) (*RunResult, error)
}

// RunResult resume uma execução do pipeline
type RunResult struct {
	OrdersProcessed int
	OrdersSkipped   int
	Summaries       int
	Duration        time.Duration
}

type Service struct {
	orderRepo   repository.OrderRepository
	summaryRepo repository.MonthlySummaryRepository
	location    *time.Location
}

func NewService(
	cfg *config.Config,
	orderRepo repository.OrderRepository,
	summaryRepo repository.MonthlySummaryRepository,
) (*Service, error) {
	location, err := time.LoadLocation(cfg.RevenueRollupSync.Timezone)
	if err != nil {
		return nil, fmt.Errorf("fuso horário inválido %q: %w", cfg.RevenueRollupSync.Timezone, err)
	}

	return &Service{
		orderRepo:   orderRepo,
		summaryRepo: summaryRepo,
		location:    location,
	}, nil
}

// Run executa o pipeline como uma unidade: qualquer falha de leitura ou de
// escrita aborta a execução inteira sem commit parcial. Reprocessar um
// ledger inalterado produz exatamente os mesmos registros.
func (s *Service) Run(ctx context.Context) (*RunResult, error) {
	startTime := time.Now()

	orders, err := s.orderRepo.ListOrdersWithItems()
	if err != nil {
		return nil, fmt.Errorf("%w: leitura do ledger: %v", ErrDataAccess, err)
	}

	stats, skipped := s.Aggregate(orders)
	summaries := BuildSummaries(stats)

	if err := s.summaryRepo.SaveAll(ctx, summaries); err != nil {
		return nil, fmt.Errorf("%w: gravação dos resumos: %v", ErrDataAccess, err)
	}

	result := &RunResult{
		OrdersProcessed: len(orders) - skipped,
		OrdersSkipped:   skipped,
		Summaries:       len(summaries),
		Duration:        time.Since(startTime),
	}

	logrus.WithFields(logrus.Fields{
		"orders_processed": result.OrdersProcessed,
		"orders_skipped":   result.OrdersSkipped,
		"summaries":        result.Summaries,
		"duration":         result.Duration.String(),
	}).Info("Rollup de receita mensal concluído")

	return result, nil
}

// Aggregate acumula o snapshot do ledger em MonthlyStats por (loja, mês).
// Pedidos sem loja, sem cliente ou sem preço são ignorados silenciosamente:
// é tolerância de qualidade de dados, não erro. Todas as operações são
// comutativas (soma e união de conjuntos), então a ordem dos pedidos não
// afeta o resultado.
func (s *Service) Aggregate(orders []*domain.OrderWithItems) (map[string]*domain.MonthlyStats, int) {
	stats := make(map[string]*domain.MonthlyStats)
	skipped := 0

	for _, entry := range orders {
		order := entry.Order

		if order.StoreID == nil || *order.StoreID == "" ||
			order.UserID == nil || *order.UserID == "" ||
			order.TotalPrice == nil {
			skipped++
			continue
		}

		// Normaliza a data de criação para o fuso de referência do provedor
		localDate := order.CreatedAt.In(s.location)
		month := localDate.Format("2006-01")
		week := weekOfMonth(localDate.Day())

		key := domain.MonthlySummaryID(*order.StoreID, month)
		m, ok := stats[key]
		if !ok {
			m = domain.NewMonthlyStats(*order.StoreID, month)
			stats[key] = m
		}

		m.Add(week, *order.UserID, *order.TotalPrice, entry.UnitsSold())
	}

	return stats, skipped
}

// weekOfMonth devolve ceil(dia/7), ou seja, semanas de largura fixa de 7
// dias (1..5). NÃO é semana ISO: a quinta "semana" pode ter de 1 a 3 dias.
// A aproximação é intencional e consumidores dependem desses buckets.
func weekOfMonth(day int) int {
	return (day + 6) / 7
}

// BuildSummaries converte os acumuladores em registros persistíveis, com o
// detalhamento semanal ordenado de forma crescente pela semana. O total de
// clientes ativos do mês é a cardinalidade da união dos conjuntos semanais
// (o conjunto mensal é montado pedido a pedido), nunca a soma das
// cardinalidades semanais.
func BuildSummaries(stats map[string]*domain.MonthlyStats) []*domain.MonthlySummary {
	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	summaries := make([]*domain.MonthlySummary, 0, len(stats))
	for _, key := range keys {
		m := stats[key]

		weeks := make([]int, 0, len(m.Weekly))
		for week := range m.Weekly {
			weeks = append(weeks, week)
		}
		sort.Ints(weeks)

		weekly := make([]domain.WeeklySummaryEntry, 0, len(weeks))
		for _, week := range weeks {
			w := m.Weekly[week]
			weekly = append(weekly, domain.WeeklySummaryEntry{
				Week:            week,
				Revenue:         utils.RoundWithTwoDecimalPlace(w.Revenue),
				Orders:          w.Orders,
				ProductsSold:    w.ProductsSold,
				ActiveCustomers: len(w.Customers),
			})
		}

		summaries = append(summaries, &domain.MonthlySummary{
			ID:                key,
			StoreID:           m.StoreID,
			Month:             m.Month,
			TotalRevenue:      utils.RoundWithTwoDecimalPlace(m.Revenue),
			TotalOrders:       m.Orders,
			TotalProductsSold: m.ProductsSold,
			ActiveCustomers:   len(m.Customers),
			Weekly:            weekly,
		})
	}

	return summaries
}
