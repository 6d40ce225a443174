package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/sales-analytics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

const (
	monthlySummariesTable = "monthly_revenue_summaries mrs"
)

// MonthlySummaryRepository persiste os resumos mensais de receita. SaveAll
// grava todos os resumos de uma execução em uma única transação: ou o lote
// inteiro entra, ou nada entra.
type MonthlySummaryRepository interface {
	SaveAll(ctx context.Context, summaries []*domain.MonthlySummary) error
	GetByID(id string) (*domain.MonthlySummary, error)
	ListByStore(storeID string) ([]*domain.MonthlySummary, error)
}

type monthlySummaryRepository struct {
	conn *postgres.Connection
}

func NewMonthlySummaryRepository(conn *postgres.Connection) MonthlySummaryRepository {
	return &monthlySummaryRepository{
		conn: conn,
	}
}

// SaveAll faz merge-upsert de cada resumo dentro de uma única transação.
// O merge sobrescreve apenas os campos calculados pela execução atual e
// renova o updated_at; campos não relacionados do registro são preservados.
func (r *monthlySummaryRepository) SaveAll(ctx context.Context, summaries []*domain.MonthlySummary) error {
	if len(summaries) == 0 {
		return nil
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, summary := range summaries {
			weeklyJSON, err := json.Marshal(summary.Weekly)
			if err != nil {
				return fmt.Errorf("erro ao serializar detalhamento semanal para JSON: %w", err)
			}

			query := squirrel.StatementBuilder.
				Insert("monthly_revenue_summaries").
				Columns(
					"id",
					"store_id",
					"month",
					"total_revenue",
					"total_orders",
					"total_products_sold",
					"active_customers",
					"weekly",
				).
				Values(
					summary.ID,
					summary.StoreID,
					summary.Month,
					summary.TotalRevenue,
					summary.TotalOrders,
					summary.TotalProductsSold,
					summary.ActiveCustomers,
					weeklyJSON,
				).
				Suffix(`
					ON CONFLICT (id) DO UPDATE SET
						total_revenue = EXCLUDED.total_revenue,
						total_orders = EXCLUDED.total_orders,
						total_products_sold = EXCLUDED.total_products_sold,
						active_customers = EXCLUDED.active_customers,
						weekly = EXCLUDED.weekly,
						updated_at = NOW()
				`).
				PlaceholderFormat(squirrel.Dollar)

			sqlQuery, args, err := query.ToSql()
			if err != nil {
				return fmt.Errorf("erro ao construir a query: %w", err)
			}

			if _, err := tx.Exec(sqlQuery, args...); err != nil {
				if pqErr, ok := err.(*pq.Error); ok {
					return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
				}
				return fmt.Errorf("erro ao executar a query: %w", err)
			}
		}

		return nil
	})
}

func (r *monthlySummaryRepository) GetByID(id string) (*domain.MonthlySummary, error) {
	query, args, err := squirrel.
		Select("mrs.id, mrs.store_id, mrs.month, mrs.total_revenue, mrs.total_orders, mrs.total_products_sold, mrs.active_customers, mrs.weekly, mrs.created_at, mrs.updated_at").
		From(monthlySummariesTable).
		Where(squirrel.Eq{"mrs.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	summary, err := r.scanSummaryRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear resumo mensal: %w", err)
	}

	return summary, nil
}

func (r *monthlySummaryRepository) ListByStore(storeID string) ([]*domain.MonthlySummary, error) {
	query, args, err := squirrel.
		Select("mrs.id, mrs.store_id, mrs.month, mrs.total_revenue, mrs.total_orders, mrs.total_products_sold, mrs.active_customers, mrs.weekly, mrs.created_at, mrs.updated_at").
		From(monthlySummariesTable).
		Where(squirrel.Eq{"mrs.store_id": storeID}).
		OrderBy("mrs.month ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	summaries := make([]*domain.MonthlySummary, 0)
	for rows.Next() {
		summary, err := r.scanSummaryRows(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear resumos mensais: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return summaries, nil
}

func (r *monthlySummaryRepository) scanSummaryRow(row *sql.Row) (*domain.MonthlySummary, error) {
	summary := &domain.MonthlySummary{}
	var weeklyJSON []byte

	err := row.Scan(
		&summary.ID,
		&summary.StoreID,
		&summary.Month,
		&summary.TotalRevenue,
		&summary.TotalOrders,
		&summary.TotalProductsSold,
		&summary.ActiveCustomers,
		&weeklyJSON,
		&summary.CreatedAt,
		&summary.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if weeklyJSON != nil {
		if err := json.Unmarshal(weeklyJSON, &summary.Weekly); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de weekly: %w", err)
		}
	}

	return summary, nil
}

func (r *monthlySummaryRepository) scanSummaryRows(rows *sql.Rows) (*domain.MonthlySummary, error) {
	summary := &domain.MonthlySummary{}
	var weeklyJSON []byte

	err := rows.Scan(
		&summary.ID,
		&summary.StoreID,
		&summary.Month,
		&summary.TotalRevenue,
		&summary.TotalOrders,
		&summary.TotalProductsSold,
		&summary.ActiveCustomers,
		&weeklyJSON,
		&summary.CreatedAt,
		&summary.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if weeklyJSON != nil {
		if err := json.Unmarshal(weeklyJSON, &summary.Weekly); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de weekly: %w", err)
		}
	}

	return summary, nil
}
