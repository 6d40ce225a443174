package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-analytics-api/internal/config"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/rollup"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/rollup/mocks"
	"go.uber.org/mock/gomock"
)

func testAppConfig(enabled bool) *config.Config {
	return &config.Config{
		RevenueRollupSync: config.RevenueRollupSync{
			CronSchedule: "0 2 * * *",
			Timezone:     "America/Los_Angeles",
			Enabled:      enabled,
		},
	}
}

func TestNewRevenueRollupSyncService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("Configuração válida", func(t *testing.T) {
		service, err := NewRevenueRollupSyncService(mocks.NewMockRevenueRoller(ctrl), testAppConfig(true))
		require.NoError(t, err)
		require.NotNil(t, service)
		assert.Equal(t, "0 2 * * *", service.config.CronSchedule)
		assert.Equal(t, "America/Los_Angeles", service.config.Timezone)
		assert.True(t, service.config.SyncEnabled)
	})

	t.Run("Fuso horário inválido", func(t *testing.T) {
		cfg := testAppConfig(true)
		cfg.RevenueRollupSync.Timezone = "Marte/Olympus_Mons"

		service, err := NewRevenueRollupSyncService(mocks.NewMockRevenueRoller(ctrl), cfg)
		assert.Error(t, err)
		assert.Nil(t, service)
	})
}

func TestRevenueRollupSyncService_runRollup(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(roller *mocks.MockRevenueRoller)
		validate func(t *testing.T, service *RevenueRollupSyncService, err error)
	}{
		{
			name: "Execução bem-sucedida limpa o último erro",
			setup: func(roller *mocks.MockRevenueRoller) {
				roller.EXPECT().Run(gomock.Any()).Return(&rollup.RunResult{
					OrdersProcessed: 10,
					Summaries:       3,
					Duration:        time.Second,
				}, nil)
			},
			validate: func(t *testing.T, service *RevenueRollupSyncService, err error) {
				assert.NoError(t, err)

				status := service.GetStatus()
				assert.Equal(t, "", status["last_sync_error"])
				assert.Equal(t, false, status["sync_running"])
				assert.NotZero(t, status["last_sync_started_at"])
				assert.NotZero(t, status["last_sync_completed_at"])
			},
		},
		{
			name: "Falha do pipeline é registrada no status",
			setup: func(roller *mocks.MockRevenueRoller) {
				roller.EXPECT().Run(gomock.Any()).Return(nil, assert.AnError)
			},
			validate: func(t *testing.T, service *RevenueRollupSyncService, err error) {
				assert.Error(t, err)

				status := service.GetStatus()
				assert.Equal(t, assert.AnError.Error(), status["last_sync_error"])
				assert.Equal(t, false, status["sync_running"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRoller := mocks.NewMockRevenueRoller(ctrl)
			service, err := NewRevenueRollupSyncService(mockRoller, testAppConfig(true))
			require.NoError(t, err)

			tt.setup(mockRoller)

			runErr := service.runRollup(context.Background())
			tt.validate(t, service, runErr)
		})
	}
}

func TestRevenueRollupSyncService_runRollup_OverlapGuard(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRoller := mocks.NewMockRevenueRoller(ctrl)
	service, err := NewRevenueRollupSyncService(mockRoller, testAppConfig(true))
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})

	// Uma única chamada ao pipeline: o segundo disparo encontra syncRunning
	// verdadeiro e retorna sem executar
	mockRoller.EXPECT().Run(gomock.Any()).DoAndReturn(func(context.Context) (*rollup.RunResult, error) {
		close(started)
		<-release
		return &rollup.RunResult{}, nil
	})

	done := make(chan error, 1)
	go func() {
		done <- service.runRollup(context.Background())
	}()

	<-started
	assert.NoError(t, service.runRollup(context.Background()))

	close(release)
	require.NoError(t, <-done)
}

func TestRevenueRollupSyncService_RunNow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRoller := mocks.NewMockRevenueRoller(ctrl)
	service, err := NewRevenueRollupSyncService(mockRoller, testAppConfig(true))
	require.NoError(t, err)

	mockRoller.EXPECT().Run(gomock.Any()).Return(&rollup.RunResult{Summaries: 1}, nil)

	assert.NoError(t, service.RunNow(context.Background()))
}

func TestRevenueRollupSyncService_Start_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Com o sync desabilitado nada é agendado e o roller nunca é chamado
	mockRoller := mocks.NewMockRevenueRoller(ctrl)
	service, err := NewRevenueRollupSyncService(mockRoller, testAppConfig(false))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.NoError(t, service.Start(ctx))
}

func TestRevenueRollupSyncService_GetStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, err := NewRevenueRollupSyncService(mocks.NewMockRevenueRoller(ctrl), testAppConfig(true))
	require.NoError(t, err)

	status := service.GetStatus()

	assert.Equal(t, true, status["sync_enabled"])
	assert.Equal(t, "0 2 * * *", status["sync_cron"])
	assert.Equal(t, "America/Los_Angeles", status["sync_timezone"])
	assert.Equal(t, false, status["sync_running"])
	assert.Equal(t, "", status["last_sync_error"])
}
