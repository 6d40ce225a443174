package reconciling

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-analytics-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-analytics-api/internal/config"
	configmocks "github.com/vfg2006/sales-analytics-api/internal/config/mocks"
	"go.uber.org/mock/gomock"
)

const (
	testServiceID     = "srv-test"
	testAPIKey        = "pk_test_123"
	testWebhookSecret = "whsec_test_secret"
)

var referenceTime = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Render: config.Render{ServiceID: testServiceID},
		Payment: config.Payment{
			APIKeySecretName:        "payment_api_key",
			WebhookSecretSecretName: "payment_webhook_secret",
			SignatureToleranceSecs:  300,
		},
	}
}

func eventPayload(eventType, orderID string) []byte {
	metadata := ""
	if orderID != "" {
		metadata = fmt.Sprintf(`"orderId": %q`, orderID)
	}
	return []byte(fmt.Sprintf(`{
		"id": "evt_001",
		"type": %q,
		"created": %d,
		"data": {
			"object": {
				"id": "pi_001",
				"amount": 3000,
				"currency": "brl",
				"metadata": {%s}
			}
		}
	}`, eventType, referenceTime.Unix(), metadata))
}

func expectSecrets(secrets *configmocks.MockSecretStorage) {
	secrets.EXPECT().GetSecret(testServiceID, "payment_api_key").Return(testAPIKey, nil)
	secrets.EXPECT().GetSecret(testServiceID, "payment_webhook_secret").Return(testWebhookSecret, nil)
}

func TestService_HandleEvent(t *testing.T) {
	tests := []struct {
		name      string
		payload   []byte
		signature func(payload []byte) string
		setup     func(orderRepo *mocks.MockOrderRepository, secrets *configmocks.MockSecretStorage)
		validate  func(t *testing.T, outcome *Outcome, err error)
	}{
		{
			name:      "Cabeçalho de assinatura ausente rejeita sem consultar secrets",
			payload:   eventPayload("payment_intent.succeeded", "ORD001"),
			signature: func([]byte) string { return "" },
			setup:     func(*mocks.MockOrderRepository, *configmocks.MockSecretStorage) {},
			validate: func(t *testing.T, outcome *Outcome, err error) {
				assert.ErrorIs(t, err, ErrMissingSignature)
				assert.Nil(t, outcome)
			},
		},
		{
			name:    "Secret de assinatura indisponível rejeita o evento",
			payload: eventPayload("payment_intent.succeeded", "ORD001"),
			signature: func(payload []byte) string {
				return signPayload(payload, testWebhookSecret, referenceTime)
			},
			setup: func(_ *mocks.MockOrderRepository, secrets *configmocks.MockSecretStorage) {
				secrets.EXPECT().GetSecret(testServiceID, "payment_api_key").Return(testAPIKey, nil)
				secrets.EXPECT().GetSecret(testServiceID, "payment_webhook_secret").Return("", assert.AnError)
			},
			validate: func(t *testing.T, outcome *Outcome, err error) {
				assert.ErrorIs(t, err, ErrMissingSignature)
				assert.Nil(t, outcome)
			},
		},
		{
			name:    "Assinatura com secret errado rejeita sem tocar o pedido",
			payload: eventPayload("payment_intent.succeeded", "ORD001"),
			signature: func(payload []byte) string {
				return signPayload(payload, "whsec_outro_secret", referenceTime)
			},
			setup: func(_ *mocks.MockOrderRepository, secrets *configmocks.MockSecretStorage) {
				expectSecrets(secrets)
			},
			validate: func(t *testing.T, outcome *Outcome, err error) {
				assert.ErrorIs(t, err, ErrInvalidSignature)
				assert.Nil(t, outcome)
			},
		},
		{
			name:    "Timestamp fora da tolerância rejeita o evento",
			payload: eventPayload("payment_intent.succeeded", "ORD001"),
			signature: func(payload []byte) string {
				return signPayload(payload, testWebhookSecret, referenceTime.Add(-time.Hour))
			},
			setup: func(_ *mocks.MockOrderRepository, secrets *configmocks.MockSecretStorage) {
				expectSecrets(secrets)
			},
			validate: func(t *testing.T, outcome *Outcome, err error) {
				assert.ErrorIs(t, err, ErrInvalidSignature)
				assert.Nil(t, outcome)
			},
		},
		{
			name:    "Payload assinado mas malformado devolve erro de payload",
			payload: []byte(`{"id": "evt_001",`),
			signature: func(payload []byte) string {
				return signPayload(payload, testWebhookSecret, referenceTime)
			},
			setup: func(_ *mocks.MockOrderRepository, secrets *configmocks.MockSecretStorage) {
				expectSecrets(secrets)
			},
			validate: func(t *testing.T, outcome *Outcome, err error) {
				assert.ErrorIs(t, err, ErrMalformedPayload)
				assert.Nil(t, outcome)
			},
		},
		{
			name:    "Evento válido marca o pedido como pago",
			payload: eventPayload("payment_intent.succeeded", "ORD001"),
			signature: func(payload []byte) string {
				return signPayload(payload, testWebhookSecret, referenceTime)
			},
			setup: func(orderRepo *mocks.MockOrderRepository, secrets *configmocks.MockSecretStorage) {
				expectSecrets(secrets)
				orderRepo.EXPECT().MarkPaid("ORD001", referenceTime).Return(nil)
			},
			validate: func(t *testing.T, outcome *Outcome, err error) {
				assert.NoError(t, err)
				require.NotNil(t, outcome)
				assert.True(t, outcome.Applied)
				assert.Equal(t, "evt_001", outcome.EventID)
				assert.Equal(t, "ORD001", outcome.OrderID)
			},
		},
		{
			name:    "Tipo de evento não tratado é reconhecido sem ação",
			payload: eventPayload("payment_intent.created", "ORD001"),
			signature: func(payload []byte) string {
				return signPayload(payload, testWebhookSecret, referenceTime)
			},
			setup: func(_ *mocks.MockOrderRepository, secrets *configmocks.MockSecretStorage) {
				expectSecrets(secrets)
			},
			validate: func(t *testing.T, outcome *Outcome, err error) {
				assert.NoError(t, err)
				require.NotNil(t, outcome)
				assert.False(t, outcome.Applied)
				assert.Equal(t, "payment_intent.created", outcome.EventType)
			},
		},
		{
			name:    "Evento sem orderId nos metadados é reconhecido sem ação",
			payload: eventPayload("payment_intent.succeeded", ""),
			signature: func(payload []byte) string {
				return signPayload(payload, testWebhookSecret, referenceTime)
			},
			setup: func(_ *mocks.MockOrderRepository, secrets *configmocks.MockSecretStorage) {
				expectSecrets(secrets)
			},
			validate: func(t *testing.T, outcome *Outcome, err error) {
				assert.NoError(t, err)
				require.NotNil(t, outcome)
				assert.False(t, outcome.Applied)
				assert.Empty(t, outcome.OrderID)
			},
		},
		{
			name:    "Falha na gravação devolve erro de aplicação",
			payload: eventPayload("payment_intent.succeeded", "ORD001"),
			signature: func(payload []byte) string {
				return signPayload(payload, testWebhookSecret, referenceTime)
			},
			setup: func(orderRepo *mocks.MockOrderRepository, secrets *configmocks.MockSecretStorage) {
				expectSecrets(secrets)
				orderRepo.EXPECT().MarkPaid("ORD001", referenceTime).Return(assert.AnError)
			},
			validate: func(t *testing.T, outcome *Outcome, err error) {
				assert.ErrorIs(t, err, ErrApplyFailed)
				assert.Nil(t, outcome)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockOrderRepo := mocks.NewMockOrderRepository(ctrl)
			mockSecrets := configmocks.NewMockSecretStorage(ctrl)

			service := &Service{
				orderRepo: mockOrderRepo,
				secrets:   mockSecrets,
				cfg:       testConfig(),
				now:       func() time.Time { return referenceTime },
			}

			tt.setup(mockOrderRepo, mockSecrets)

			outcome, err := service.HandleEvent(tt.payload, tt.signature(tt.payload))
			tt.validate(t, outcome, err)
		})
	}
}

func TestService_HandleEvent_DuplicateDelivery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockOrderRepo := mocks.NewMockOrderRepository(ctrl)
	mockSecrets := configmocks.NewMockSecretStorage(ctrl)

	service := &Service{
		orderRepo: mockOrderRepo,
		secrets:   mockSecrets,
		cfg:       testConfig(),
		now:       func() time.Time { return referenceTime },
	}

	payload := eventPayload("payment_intent.succeeded", "ORD001")
	signature := signPayload(payload, testWebhookSecret, referenceTime)

	// O provedor pode reentregar o mesmo evento: cada entrega resolve os
	// secrets de novo e reaplica a mesma mutação idempotente
	expectSecrets(mockSecrets)
	expectSecrets(mockSecrets)
	mockOrderRepo.EXPECT().MarkPaid("ORD001", referenceTime).Return(nil).Times(2)

	first, err := service.HandleEvent(payload, signature)
	require.NoError(t, err)
	second, err := service.HandleEvent(payload, signature)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, second.Applied)
}
