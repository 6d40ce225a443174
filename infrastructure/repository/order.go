package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/sales-analytics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

const (
	ordersTable     = "orders o"
	orderItemsTable = "order_items oi"
)

// OrderRepository é o leitor do ledger de pedidos e o único ponto que muda
// o status de pagamento de um pedido
type OrderRepository interface {
	ListOrdersWithItems() ([]*domain.OrderWithItems, error)
	GetByID(orderID string) (*domain.Order, error)
	MarkPaid(orderID string, paidAt time.Time) error
}

type orderRepository struct {
	conn *postgres.Connection
}

func NewOrderRepository(conn *postgres.Connection) OrderRepository {
	return &orderRepository{
		conn: conn,
	}
}

// ListOrdersWithItems devolve o snapshot completo do ledger: todos os
// pedidos com seus itens. Uma leitura nova é sempre um snapshot novo, não
// há cursor para retomar no meio.
func (r *orderRepository) ListOrdersWithItems() ([]*domain.OrderWithItems, error) {
	query, args, err := squirrel.
		Select("o.id, o.store_id, o.user_id, o.total_price, o.status, o.paid_at, o.created_at, o.updated_at").
		From(ordersTable).
		OrderBy("o.created_at ASC").
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

	orders := make([]*domain.OrderWithItems, 0)
	byID := make(map[string]*domain.OrderWithItems)

	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear pedido: %w", err)
		}

		entry := &domain.OrderWithItems{Order: *order}
		orders = append(orders, entry)
		byID[order.ID] = entry
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	if err := r.attachItems(byID); err != nil {
		return nil, err
	}

	return orders, nil
}

// attachItems busca os itens de todos os pedidos em uma única query e
// agrupa por pedido em memória
func (r *orderRepository) attachItems(byID map[string]*domain.OrderWithItems) error {
	if len(byID) == 0 {
		return nil
	}

	query, args, err := squirrel.
		Select("oi.id, oi.order_id, oi.quantity").
		From(orderItemsTable).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := domain.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.Quantity); err != nil {
			return fmt.Errorf("erro ao escanear item de pedido: %w", err)
		}

		// Itens órfãos (pedido removido entre as duas queries) são ignorados
		if entry, ok := byID[item.OrderID]; ok {
			entry.Items = append(entry.Items, item)
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return nil
}

func (r *orderRepository) GetByID(orderID string) (*domain.Order, error) {
	query, args, err := squirrel.
		Select("o.id, o.store_id, o.user_id, o.total_price, o.status, o.paid_at, o.created_at, o.updated_at").
		From(ordersTable).
		Where(squirrel.Eq{"o.id": orderID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	order, err := r.scanOrderRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear pedido: %w", err)
	}

	return order, nil
}

// MarkPaid marca o pedido como pago via merge-upsert. A operação é
// idempotente: reaplicar o mesmo evento mantém o paid_at original e não
// produz efeito colateral duplicado.
func (r *orderRepository) MarkPaid(orderID string, paidAt time.Time) error {
	query := squirrel.StatementBuilder.
		Insert("orders").
		Columns("id", "status", "paid_at").
		Values(orderID, domain.OrderStatusPaid, paidAt).
		Suffix(`
			ON CONFLICT (id) DO UPDATE SET
				status = EXCLUDED.status,
				paid_at = COALESCE(orders.paid_at, EXCLUDED.paid_at),
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *orderRepository) scanOrder(rows *sql.Rows) (*domain.Order, error) {
	order := &domain.Order{}
	err := rows.Scan(
		&order.ID,
		&order.StoreID,
		&order.UserID,
		&order.TotalPrice,
		&order.Status,
		&order.PaidAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) scanOrderRow(row *sql.Row) (*domain.Order, error) {
	order := &domain.Order{}
	err := row.Scan(
		&order.ID,
		&order.StoreID,
		&order.UserID,
		&order.TotalPrice,
		&order.Status,
		&order.PaidAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}
