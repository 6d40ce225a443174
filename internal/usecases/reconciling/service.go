// Package reconciling aplica eventos de pagamento do provedor externo aos
// pedidos do ledger, exatamente uma vez, apesar da entrega at-least-once.
package reconciling

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-analytics-api/infrastructure/repository"
	"github.com/vfg2006/sales-analytics-api/internal/config"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

// Reconciler processa um evento assinado do provedor de pagamento
type Reconciler interface {
	HandleEvent(payload []byte, signatureHeader string) (*Outcome, error)
}

// Outcome descreve o que o reconciliador fez com o evento. Eventos de tipo
// não tratado ou sem pedido associado são reconhecidos sem ação (Applied
// falso), o que não é um erro.
type Outcome struct {
	EventID   string
	EventType string
	OrderID   string
	Applied   bool
}

type Service struct {
	orderRepo repository.OrderRepository
	secrets   config.SecretStorage
	cfg       *config.Config
	now       func() time.Time
}

func NewService(
	cfg *config.Config,
	orderRepo repository.OrderRepository,
	secrets config.SecretStorage,
) *Service {
	return &Service{
		orderRepo: orderRepo,
		secrets:   secrets,
		cfg:       cfg,
		now:       time.Now,
	}
}

// HandleEvent verifica a autenticidade do payload e aplica a transição
// pending → paid ao pedido referenciado. Os dois secrets do provedor são
// resolvidos do secret store a cada invocação; nada fica em cache entre
// chamadas. A aplicação é idempotente, então o provedor pode reentregar o
// mesmo evento quantas vezes quiser.
func (s *Service) HandleEvent(payload []byte, signatureHeader string) (*Outcome, error) {
	if signatureHeader == "" {
		return nil, ErrMissingSignature
	}

	apiKey, err := s.secrets.GetSecret(s.cfg.Render.ServiceID, s.cfg.Payment.APIKeySecretName)
	if err != nil || apiKey == "" {
		logrus.WithError(err).Error("Chave de API do provedor de pagamento indisponível no secret store")
		return nil, ErrMissingSignature
	}

	webhookSecret, err := s.secrets.GetSecret(s.cfg.Render.ServiceID, s.cfg.Payment.WebhookSecretSecretName)
	if err != nil || webhookSecret == "" {
		logrus.WithError(err).Error("Secret de assinatura do webhook indisponível no secret store")
		return nil, ErrMissingSignature
	}

	tolerance := time.Duration(s.cfg.Payment.SignatureToleranceSecs) * time.Second
	if err := verifySignature(payload, signatureHeader, webhookSecret, tolerance, s.now()); err != nil {
		return nil, err
	}

	var event domain.PaymentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	outcome := &Outcome{
		EventID:   event.ID,
		EventType: event.Type,
		OrderID:   event.OrderID(),
	}

	// Tipos fora do conjunto tratado são reconhecidos e ignorados
	if event.Type != domain.PaymentEventTypeSucceeded {
		logrus.WithFields(logrus.Fields{
			"event_id":   event.ID,
			"event_type": event.Type,
		}).Debug("Evento de pagamento de tipo não tratado, ignorando")
		return outcome, nil
	}

	if outcome.OrderID == "" {
		logrus.WithField("event_id", event.ID).Warn("Evento de pagamento sem orderId nos metadados, ignorando")
		return outcome, nil
	}

	if err := s.orderRepo.MarkPaid(outcome.OrderID, s.now()); err != nil {
		return nil, fmt.Errorf("%w: pedido %s: %v", ErrApplyFailed, outcome.OrderID, err)
	}

	outcome.Applied = true

	logrus.WithFields(logrus.Fields{
		"event_id": event.ID,
		"order_id": outcome.OrderID,
	}).Info("Pedido marcado como pago")

	return outcome, nil
}
