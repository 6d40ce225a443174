package rollup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-analytics-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestWeekOfMonth(t *testing.T) {
	tests := []struct {
		name     string
		day      int
		expected int
	}{
		{name: "Dia 1 cai na semana 1", day: 1, expected: 1},
		{name: "Dia 7 cai na semana 1", day: 7, expected: 1},
		{name: "Dia 8 cai na semana 2", day: 8, expected: 2},
		{name: "Dia 14 cai na semana 2", day: 14, expected: 2},
		{name: "Dia 15 cai na semana 3", day: 15, expected: 3},
		{name: "Dia 21 cai na semana 3", day: 21, expected: 3},
		{name: "Dia 22 cai na semana 4", day: 22, expected: 4},
		{name: "Dia 28 cai na semana 4", day: 28, expected: 4},
		{name: "Dia 29 cai na semana 5", day: 29, expected: 5},
		{name: "Dia 31 cai na semana 5", day: 31, expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, weekOfMonth(tt.day))
		})
	}
}

func TestService_Aggregate(t *testing.T) {
	service := &Service{location: time.UTC}

	tests := []struct {
		name     string
		orders   []*domain.OrderWithItems
		validate func(t *testing.T, stats map[string]*domain.MonthlyStats, skipped int)
	}{
		{
			name: "Dois pedidos do mesmo cliente em semanas diferentes",
			orders: []*domain.OrderWithItems{
				order("ORD001", "STORE_S", "USER_A", 10.0, date(2024, 3, 3), 2),
				order("ORD002", "STORE_S", "USER_A", 20.0, date(2024, 3, 10), 3),
			},
			validate: func(t *testing.T, stats map[string]*domain.MonthlyStats, skipped int) {
				assert.Equal(t, 0, skipped)
				require.Len(t, stats, 1)

				m := stats["STORE_S_2024-03"]
				require.NotNil(t, m)
				assert.Equal(t, 30.0, m.Revenue)
				assert.Equal(t, 2, m.Orders)
				assert.Equal(t, 5, m.ProductsSold)
				// Mesmo cliente nas duas semanas: a união conta 1, não 2
				assert.Len(t, m.Customers, 1)

				require.Len(t, m.Weekly, 2)
				assert.Equal(t, 10.0, m.Weekly[1].Revenue)
				assert.Equal(t, 1, m.Weekly[1].Orders)
				assert.Equal(t, 2, m.Weekly[1].ProductsSold)
				assert.Len(t, m.Weekly[1].Customers, 1)
				assert.Equal(t, 20.0, m.Weekly[2].Revenue)
				assert.Equal(t, 1, m.Weekly[2].Orders)
				assert.Equal(t, 3, m.Weekly[2].ProductsSold)
				assert.Len(t, m.Weekly[2].Customers, 1)
			},
		},
		{
			name: "Pedidos incompletos são ignorados sem abortar a execução",
			orders: []*domain.OrderWithItems{
				order("ORD001", "STORE_S", "USER_A", 50.0, date(2024, 1, 5), 1),
				{Order: domain.Order{ID: "ORD002", UserID: stringPtr("USER_B"), TotalPrice: floatPtr(10), CreatedAt: date(2024, 1, 6)}},
				{Order: domain.Order{ID: "ORD003", StoreID: stringPtr(""), UserID: stringPtr("USER_B"), TotalPrice: floatPtr(10), CreatedAt: date(2024, 1, 6)}},
				{Order: domain.Order{ID: "ORD004", StoreID: stringPtr("STORE_S"), TotalPrice: floatPtr(10), CreatedAt: date(2024, 1, 6)}},
				{Order: domain.Order{ID: "ORD005", StoreID: stringPtr("STORE_S"), UserID: stringPtr("USER_B"), CreatedAt: date(2024, 1, 6)}},
			},
			validate: func(t *testing.T, stats map[string]*domain.MonthlyStats, skipped int) {
				assert.Equal(t, 4, skipped)
				require.Len(t, stats, 1)
				assert.Equal(t, 50.0, stats["STORE_S_2024-01"].Revenue)
				assert.Equal(t, 1, stats["STORE_S_2024-01"].Orders)
			},
		},
		{
			name: "Lojas e meses diferentes geram acumuladores separados",
			orders: []*domain.OrderWithItems{
				order("ORD001", "STORE_S", "USER_A", 10.0, date(2024, 3, 1), 1),
				order("ORD002", "STORE_T", "USER_A", 20.0, date(2024, 3, 1), 1),
				order("ORD003", "STORE_S", "USER_A", 30.0, date(2024, 4, 1), 1),
			},
			validate: func(t *testing.T, stats map[string]*domain.MonthlyStats, skipped int) {
				assert.Equal(t, 0, skipped)
				require.Len(t, stats, 3)
				assert.Equal(t, 10.0, stats["STORE_S_2024-03"].Revenue)
				assert.Equal(t, 20.0, stats["STORE_T_2024-03"].Revenue)
				assert.Equal(t, 30.0, stats["STORE_S_2024-04"].Revenue)
			},
		},
		{
			name: "Pedido sem itens conta zero produtos vendidos",
			orders: []*domain.OrderWithItems{
				{Order: domain.Order{ID: "ORD001", StoreID: stringPtr("STORE_S"), UserID: stringPtr("USER_A"), TotalPrice: floatPtr(15), CreatedAt: date(2024, 5, 31)}},
			},
			validate: func(t *testing.T, stats map[string]*domain.MonthlyStats, skipped int) {
				assert.Equal(t, 0, skipped)
				m := stats["STORE_S_2024-05"]
				require.NotNil(t, m)
				assert.Equal(t, 0, m.ProductsSold)
				// Dia 31 cai na quinta semana
				require.NotNil(t, m.Weekly[5])
				assert.Equal(t, 15.0, m.Weekly[5].Revenue)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, skipped := service.Aggregate(tt.orders)
			tt.validate(t, stats, skipped)
		})
	}
}

func TestService_Aggregate_OrderIndependent(t *testing.T) {
	service := &Service{location: time.UTC}

	orders := []*domain.OrderWithItems{
		order("ORD001", "STORE_S", "USER_A", 10.0, date(2024, 3, 3), 2),
		order("ORD002", "STORE_S", "USER_B", 20.0, date(2024, 3, 10), 3),
		order("ORD003", "STORE_T", "USER_A", 5.5, date(2024, 3, 29), 1),
	}
	reversed := []*domain.OrderWithItems{orders[2], orders[1], orders[0]}

	statsForward, _ := service.Aggregate(orders)
	statsReversed, _ := service.Aggregate(reversed)

	assert.Equal(t, BuildSummaries(statsForward), BuildSummaries(statsReversed))
}

func TestBuildSummaries(t *testing.T) {
	service := &Service{location: time.UTC}

	t.Run("Exemplo completo com detalhamento semanal ordenado", func(t *testing.T) {
		stats, skipped := service.Aggregate([]*domain.OrderWithItems{
			order("ORD002", "STORE_S", "USER_A", 20.0, date(2024, 3, 10), 3),
			order("ORD001", "STORE_S", "USER_A", 10.0, date(2024, 3, 3), 2),
		})
		require.Equal(t, 0, skipped)

		summaries := BuildSummaries(stats)
		require.Len(t, summaries, 1)

		s := summaries[0]
		assert.Equal(t, "STORE_S_2024-03", s.ID)
		assert.Equal(t, "STORE_S", s.StoreID)
		assert.Equal(t, "2024-03", s.Month)
		assert.Equal(t, 30.0, s.TotalRevenue)
		assert.Equal(t, 2, s.TotalOrders)
		assert.Equal(t, 5, s.TotalProductsSold)
		assert.Equal(t, 1, s.ActiveCustomers)

		require.Len(t, s.Weekly, 2)
		assert.Equal(t, domain.WeeklySummaryEntry{Week: 1, Revenue: 10.0, Orders: 1, ProductsSold: 2, ActiveCustomers: 1}, s.Weekly[0])
		assert.Equal(t, domain.WeeklySummaryEntry{Week: 2, Revenue: 20.0, Orders: 1, ProductsSold: 3, ActiveCustomers: 1}, s.Weekly[1])
	})

	t.Run("Resumos saem ordenados por chave", func(t *testing.T) {
		stats, _ := service.Aggregate([]*domain.OrderWithItems{
			order("ORD001", "STORE_Z", "USER_A", 1.0, date(2024, 3, 1), 1),
			order("ORD002", "STORE_A", "USER_A", 1.0, date(2024, 3, 1), 1),
			order("ORD003", "STORE_A", "USER_A", 1.0, date(2024, 2, 1), 1),
		})

		summaries := BuildSummaries(stats)
		require.Len(t, summaries, 3)
		assert.Equal(t, "STORE_A_2024-02", summaries[0].ID)
		assert.Equal(t, "STORE_A_2024-03", summaries[1].ID)
		assert.Equal(t, "STORE_Z_2024-03", summaries[2].ID)
	})

	t.Run("Receita arredondada para duas casas decimais", func(t *testing.T) {
		stats, _ := service.Aggregate([]*domain.OrderWithItems{
			order("ORD001", "STORE_S", "USER_A", 0.1, date(2024, 3, 1), 1),
			order("ORD002", "STORE_S", "USER_A", 0.2, date(2024, 3, 2), 1),
		})

		summaries := BuildSummaries(stats)
		require.Len(t, summaries, 1)
		assert.Equal(t, 0.3, summaries[0].TotalRevenue)
	})
}

func TestService_Run(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(orderRepo *mocks.MockOrderRepository, summaryRepo *mocks.MockMonthlySummaryRepository)
		validate func(t *testing.T, result *RunResult, err error)
	}{
		{
			name: "Pipeline completo com persistência dos resumos",
			setup: func(orderRepo *mocks.MockOrderRepository, summaryRepo *mocks.MockMonthlySummaryRepository) {
				orderRepo.EXPECT().ListOrdersWithItems().Return([]*domain.OrderWithItems{
					order("ORD001", "STORE_S", "USER_A", 10.0, date(2024, 3, 3), 2),
					order("ORD002", "STORE_S", "USER_A", 20.0, date(2024, 3, 10), 3),
					{Order: domain.Order{ID: "ORD003", CreatedAt: date(2024, 3, 11)}},
				}, nil)

				summaryRepo.EXPECT().
					SaveAll(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, summaries []*domain.MonthlySummary) error {
						assert.Len(t, summaries, 1)
						assert.Equal(t, "STORE_S_2024-03", summaries[0].ID)
						assert.Equal(t, 30.0, summaries[0].TotalRevenue)
						return nil
					})
			},
			validate: func(t *testing.T, result *RunResult, err error) {
				assert.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, 2, result.OrdersProcessed)
				assert.Equal(t, 1, result.OrdersSkipped)
				assert.Equal(t, 1, result.Summaries)
			},
		},
		{
			name: "Falha de leitura do ledger aborta sem gravar nada",
			setup: func(orderRepo *mocks.MockOrderRepository, summaryRepo *mocks.MockMonthlySummaryRepository) {
				orderRepo.EXPECT().ListOrdersWithItems().Return(nil, assert.AnError)
			},
			validate: func(t *testing.T, result *RunResult, err error) {
				assert.ErrorIs(t, err, ErrDataAccess)
				assert.Nil(t, result)
			},
		},
		{
			name: "Falha de gravação aborta a execução",
			setup: func(orderRepo *mocks.MockOrderRepository, summaryRepo *mocks.MockMonthlySummaryRepository) {
				orderRepo.EXPECT().ListOrdersWithItems().Return([]*domain.OrderWithItems{
					order("ORD001", "STORE_S", "USER_A", 10.0, date(2024, 3, 3), 2),
				}, nil)
				summaryRepo.EXPECT().SaveAll(gomock.Any(), gomock.Any()).Return(assert.AnError)
			},
			validate: func(t *testing.T, result *RunResult, err error) {
				assert.ErrorIs(t, err, ErrDataAccess)
				assert.Nil(t, result)
			},
		},
		{
			name: "Ledger vazio grava lote vazio e processa zero pedidos",
			setup: func(orderRepo *mocks.MockOrderRepository, summaryRepo *mocks.MockMonthlySummaryRepository) {
				orderRepo.EXPECT().ListOrdersWithItems().Return([]*domain.OrderWithItems{}, nil)
				summaryRepo.EXPECT().SaveAll(gomock.Any(), gomock.Len(0)).Return(nil)
			},
			validate: func(t *testing.T, result *RunResult, err error) {
				assert.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, 0, result.OrdersProcessed)
				assert.Equal(t, 0, result.Summaries)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockOrderRepo := mocks.NewMockOrderRepository(ctrl)
			mockSummaryRepo := mocks.NewMockMonthlySummaryRepository(ctrl)

			service := &Service{
				orderRepo:   mockOrderRepo,
				summaryRepo: mockSummaryRepo,
				location:    time.UTC,
			}

			tt.setup(mockOrderRepo, mockSummaryRepo)

			result, err := service.Run(context.Background())
			tt.validate(t, result, err)
		})
	}
}

func order(id, storeID, userID string, price float64, createdAt time.Time, quantity int) *domain.OrderWithItems {
	return &domain.OrderWithItems{
		Order: domain.Order{
			ID:         id,
			StoreID:    &storeID,
			UserID:     &userID,
			TotalPrice: &price,
			Status:     domain.OrderStatusPending,
			CreatedAt:  createdAt,
		},
		Items: []domain.OrderItem{
			{ID: id + "-item", OrderID: id, Quantity: &quantity},
		},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func stringPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}
