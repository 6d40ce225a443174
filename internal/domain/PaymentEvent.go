package domain

// PaymentEventTypeSucceeded é o único tipo de evento que altera estado;
// qualquer outro tipo é reconhecido e ignorado
const PaymentEventTypeSucceeded = "payment_intent.succeeded"

// PaymentEvent é o evento assinado entregue pelo provedor de pagamento.
// Transiente: nada além da mutação idempotente do pedido é persistido.
type PaymentEvent struct {
	ID      string           `json:"id"`
	Type    string           `json:"type"`
	Created int64            `json:"created"`
	Data    PaymentEventData `json:"data"`
}

type PaymentEventData struct {
	Object PaymentIntent `json:"object"`
}

// PaymentIntent é o subconjunto do objeto do provedor que interessa ao
// reconciliador: o ID do pedido vem nos metadados
type PaymentIntent struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

// OrderID devolve o pedido referenciado pelo evento, se houver
func (e PaymentEvent) OrderID() string {
	return e.Data.Object.Metadata["orderId"]
}
