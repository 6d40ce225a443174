package domain

import "time"

// Status de pagamento de um pedido no ledger
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

// Order representa um pedido do ledger. Campos opcionais são ponteiros:
// pedidos antigos podem não ter loja, cliente ou preço preenchidos e o
// rollup apenas os ignora (ver usecases/rollup).
type Order struct {
	ID         string      `json:"id"`
	StoreID    *string     `json:"store_id"`
	UserID     *string     `json:"user_id"`
	TotalPrice *float64    `json:"total_price"`
	Status     OrderStatus `json:"status"`
	PaidAt     *time.Time  `json:"paid_at"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// OrderWithItems é o par pedido + itens devolvido pela leitura do ledger
type OrderWithItems struct {
	Order Order
	Items []OrderItem
}

// UnitsSold soma as quantidades dos itens do pedido (quantidade ausente conta como 0)
func (o OrderWithItems) UnitsSold() int {
	total := 0
	for _, item := range o.Items {
		if item.Quantity != nil {
			total += *item.Quantity
		}
	}
	return total
}
