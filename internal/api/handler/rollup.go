package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/internal/scheduler"
	"github.com/vfg2006/sales-analytics-api/pkg/apiErrors"
	"github.com/vfg2006/sales-analytics-api/pkg/middleware"
)

// RunRevenueRollup executa o rollup de receita de forma síncrona e responde
// com texto de status: 200 em caso de sucesso, 500 em caso de falha
func RunRevenueRollup(service *scheduler.RevenueRollupSyncService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunRevenueRollup")

		// Apenas administradores podem disparar o recálculo manualmente
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != middleware.RoleAdmin {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas administradores podem executar o rollup manualmente", nil)
			return
		}

		if err := service.RunNow(r.Context()); err != nil {
			logrus.WithError(err).Error("Falha no rollup manual de receita")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Erro durante o recálculo de receita."))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Recálculo manual de receita concluído."))
	}
}

// GetRollupStatus retorna o status do agendador do rollup
func GetRollupStatus(service *scheduler.RevenueRollupSyncService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetRollupStatus")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.GetStatus())
	}
}
