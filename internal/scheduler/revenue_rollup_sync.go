// Package scheduler contém os serviços de agendamento para recálculo dos
// resumos de receita
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-analytics-api/internal/config"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/rollup"
)

// RevenueRollupSyncConfig representa a configuração do agendador do rollup
type RevenueRollupSyncConfig struct {
	CronSchedule string
	Timezone     string
	SyncEnabled  bool
}

// RevenueRollupSyncService agenda e executa o pipeline de rollup de
// receita. Uma execução por disparo; disparos sobrepostos são ignorados,
// então nunca há duas execuções concorrentes partindo deste processo.
type RevenueRollupSyncService struct {
	scheduler           *gocron.Scheduler
	config              RevenueRollupSyncConfig
	roller              rollup.RevenueRoller
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       string
}

// NewRevenueRollupSyncService cria uma nova instância do serviço de
// sincronização do rollup de receita
func NewRevenueRollupSyncService(
	roller rollup.RevenueRoller,
	appConfig *config.Config,
) (*RevenueRollupSyncService, error) {
	rollupConfig := RevenueRollupSyncConfig{
		CronSchedule: appConfig.RevenueRollupSync.CronSchedule,
		Timezone:     appConfig.RevenueRollupSync.Timezone,
		SyncEnabled:  appConfig.RevenueRollupSync.Enabled,
	}

	// O cron dispara no fuso de referência do provedor, não no do host
	location, err := time.LoadLocation(rollupConfig.Timezone)
	if err != nil {
		return nil, fmt.Errorf("fuso horário inválido %q: %w", rollupConfig.Timezone, err)
	}

	scheduler := gocron.NewScheduler(location)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": rollupConfig.CronSchedule,
		"timezone":      rollupConfig.Timezone,
		"sync_enabled":  rollupConfig.SyncEnabled,
	}).Info("Configuração do agendador do rollup de receita carregada")

	return &RevenueRollupSyncService{
		scheduler: scheduler,
		config:    rollupConfig,
		roller:    roller,
	}, nil
}

// Start inicia o agendador
func (s *RevenueRollupSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Rollup de receita desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador do rollup de receita")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runRollup(context.Background())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar rollup de receita: %w", err)
	}

	// Executar o agendador em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do agendador quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador do rollup de receita")
		s.scheduler.Stop()
	}()

	return nil
}

// runRollup executa o pipeline completo com proteção contra sobreposição
func (s *RevenueRollupSyncService) runRollup(ctx context.Context) error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Rollup de receita já em andamento, ignorando")
		return nil
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	logrus.Info("Iniciando rollup de receita mensal")

	result, err := s.roller.Run(ctx)
	if err != nil {
		// Falha de execução é registrada e não derruba o processo; o
		// próximo disparo recomeça do zero sobre um snapshot novo
		logrus.WithError(err).Error("Erro na execução do rollup de receita")
		s.syncMutex.Lock()
		s.lastSyncError = err.Error()
		s.syncMutex.Unlock()
		return err
	}

	s.syncMutex.Lock()
	s.lastSyncError = ""
	s.syncMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"orders_processed": result.OrdersProcessed,
		"orders_skipped":   result.OrdersSkipped,
		"summaries":        result.Summaries,
		"duration":         result.Duration.String(),
	}).Info("Rollup de receita finalizado com sucesso")

	return nil
}

// RunNow executa o rollup de forma síncrona (usado pelo endpoint manual)
func (s *RevenueRollupSyncService) RunNow(ctx context.Context) error {
	logrus.Info("Execução manual síncrona do rollup de receita")
	return s.runRollup(ctx)
}

// TriggerManualSync inicia manualmente um rollup em background
func (s *RevenueRollupSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Rollup de receita já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando rollup manual de receita")
	go s.runRollup(context.Background())
}

// GetStatus retorna o status atual do agendador
func (s *RevenueRollupSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_timezone":          s.config.Timezone,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_error":        s.lastSyncError,
	}
}
