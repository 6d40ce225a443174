package handler

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-analytics-api/infrastructure/repository"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/pkg/apiErrors"
)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ListStoreSummaries lista todos os resumos mensais de uma loja
func ListStoreSummaries(summaryRepo repository.MonthlySummaryRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if storeID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da loja não informado", nil)
			return
		}

		summaries, err := summaryRepo.ListByStore(storeID)
		if err != nil {
			logrus.WithError(err).Error("Erro ao listar resumos mensais da loja")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar resumos mensais", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summaries); err != nil {
			logrus.WithError(err).Error("Erro ao enviar resposta de resumos mensais")
		}
	}
}

// GetMonthlySummary busca o resumo de uma loja em um mês (formato YYYY-MM)
func GetMonthlySummary(summaryRepo repository.MonthlySummaryRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := httprouter.ParamsFromContext(r.Context())
		storeID := params.ByName("id")
		month := params.ByName("month")

		if storeID == "" || month == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Loja e mês são obrigatórios", nil)
			return
		}

		if !monthPattern.MatchString(month) {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Mês deve estar no formato YYYY-MM", nil)
			return
		}

		summary, err := summaryRepo.GetByID(domain.MonthlySummaryID(storeID, month))
		if err != nil {
			logrus.WithError(err).Error("Erro ao buscar resumo mensal")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar resumo mensal", nil)
			return
		}

		if summary == nil {
			apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Resumo não encontrado para a loja e mês informados", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summary); err != nil {
			logrus.WithError(err).Error("Erro ao enviar resposta de resumo mensal")
		}
	}
}
