package reconciling

import "errors"

// Erros devolvidos ao entregador do evento. Assinatura e payload são
// problemas do cliente (4xx); falha de aplicação é erro do servidor (5xx)
// para que o provedor reenvie o evento.
var (
	ErrMissingSignature = errors.New("assinatura ou secret de verificação ausente")
	ErrInvalidSignature = errors.New("assinatura do evento inválida")
	ErrMalformedPayload = errors.New("payload do evento malformado")
	ErrApplyFailed      = errors.New("falha ao aplicar a transição de pagamento")
)
