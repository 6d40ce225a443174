package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/reconciling"
	"github.com/vfg2006/sales-analytics-api/pkg/apiErrors"
	"github.com/vfg2006/sales-analytics-api/pkg/utils"
)

// signatureHeader é o cabeçalho de assinatura enviado pelo provedor
const signatureHeader = "Stripe-Signature"

// WebhookAck é o corpo de resposta para eventos processados (ou ignorados)
type WebhookAck struct {
	Received bool `json:"received"`
}

// HandlePaymentWebhook recebe eventos assinados do provedor de pagamento.
// A verificação acontece sobre o corpo BRUTO da requisição: qualquer
// reserialização antes do HMAC invalidaria a assinatura.
func HandlePaymentWebhook(service reconciling.Reconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao ler o corpo da requisição", nil)
			return
		}
		defer r.Body.Close()

		outcome, err := service.HandleEvent(payload, r.Header.Get(signatureHeader))
		if err != nil {
			handleWebhookError(w, err)
			return
		}

		logrus.Debug("Evento de pagamento processado: ", utils.PrettyJson(outcome))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(WebhookAck{Received: true})
	}
}

// handleWebhookError converte erros do reconciliador em códigos HTTP:
// problemas de assinatura/payload são do cliente (400); falha de aplicação
// é do servidor (500), e o provedor reenvia o evento
func handleWebhookError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reconciling.ErrMissingSignature):
		apiErrors.WriteError(w, apiErrors.ErrMissingSignature, "Assinatura ou secret de verificação ausente", nil)

	case errors.Is(err, reconciling.ErrInvalidSignature):
		logrus.WithError(err).Warn("Webhook com assinatura inválida rejeitado")
		apiErrors.WriteError(w, apiErrors.ErrInvalidSignature, "Assinatura do evento inválida", nil)

	case errors.Is(err, reconciling.ErrMalformedPayload):
		apiErrors.WriteError(w, apiErrors.ErrMalformedPayload, "Payload do evento inválido", nil)

	default:
		logrus.WithError(err).Error("Falha ao aplicar evento de pagamento")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao processar evento de pagamento", nil)
	}
}
