package handler

import (
	"net/http"

	"github.com/vfg2006/sales-analytics-api/infrastructure/repository"
	"github.com/vfg2006/sales-analytics-api/internal/api/handler/router"
	"github.com/vfg2006/sales-analytics-api/internal/scheduler"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/reconciling"
	"github.com/vfg2006/sales-analytics-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id/change-password",
			Method:      http.MethodPost,
			Handler:     ChangePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

// RevenueRollup retorna as rotas de disparo e status do rollup de receita
func RevenueRollup(service *scheduler.RevenueRollupSyncService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/rollup/run",
			Method:      http.MethodPost,
			Handler:     RunRevenueRollup(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/rollup/status",
			Method:      http.MethodGet,
			Handler:     GetRollupStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}

func Summaries(summaryRepo repository.MonthlySummaryRepository) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/stores/:id/summaries",
			Method:      http.MethodGet,
			Handler:     ListStoreSummaries(summaryRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stores/:id/summaries/:month",
			Method:      http.MethodGet,
			Handler:     GetMonthlySummary(summaryRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

// PaymentWebhook é público: a autenticidade vem da assinatura do payload,
// não de token de usuário
func PaymentWebhook(service reconciling.Reconciler) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/webhooks/payment",
			Method:  http.MethodPost,
			Handler: HandlePaymentWebhook(service),
		},
	}
}
