package domain

// OrderItem é um item de um pedido. Pertence sempre a um único pedido e
// nunca é alterado pelo núcleo de analytics.
type OrderItem struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Quantity *int   `json:"quantity"`
}
