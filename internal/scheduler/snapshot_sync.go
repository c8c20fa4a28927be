package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/metric-imager/infrastructure/accounts"
	"github.com/vfg2006/metric-imager/infrastructure/trafficspec"
	"github.com/vfg2006/metric-imager/internal/config"
	"github.com/vfg2006/metric-imager/internal/usecases/imaging"
)

// SnapshotSyncConfig holds the scheduling knobs for the periodic snapshot.
type SnapshotSyncConfig struct {
	CronSchedule string
	Enabled      bool
}

// SnapshotParams are the file paths and query parameters reused on every
// tick. Account and traffic files are re-read each run so edits are picked
// up without a restart.
type SnapshotParams struct {
	AccountsPath    string
	TrafficSpecPath string
	Run             imaging.RunParams
}

// SnapshotSyncService schedules and executes the periodic metric snapshot.
type SnapshotSyncService struct {
	scheduler           *gocron.Scheduler
	config              SnapshotSyncConfig
	params              SnapshotParams
	imagingService      *imaging.Service
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewSnapshotSyncService(
	imagingService *imaging.Service,
	params SnapshotParams,
	appConfig *config.Config,
) *SnapshotSyncService {
	syncConfig := SnapshotSyncConfig{
		CronSchedule: appConfig.Snapshot.CronSchedule,
		Enabled:      appConfig.Snapshot.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"enabled":       syncConfig.Enabled,
	}).Info("Snapshot scheduler configuration loaded")

	return &SnapshotSyncService{
		scheduler:      scheduler,
		config:         syncConfig,
		params:         params,
		imagingService: imagingService,
	}
}

// Start schedules the snapshot job and runs the scheduler in the
// background. Canceling the context stops it.
func (s *SnapshotSyncService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Periodic snapshot disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Starting snapshot scheduler")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runSnapshot(ctx)
	})
	if err != nil {
		return fmt.Errorf("scheduling snapshot: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping snapshot scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerManualSync runs one snapshot immediately, unless one is already in
// progress.
func (s *SnapshotSyncService) TriggerManualSync(ctx context.Context) {
	s.runSnapshot(ctx)
}

func (s *SnapshotSyncService) runSnapshot(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Snapshot already in progress, skipping")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	s.lastSyncStartedAt = time.Now()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	runParams, err := s.loadRunParams()
	if err != nil {
		logrus.WithError(err).Error("Failed to load snapshot inputs")
		return
	}

	report, err := s.imagingService.Run(ctx, runParams)
	if err != nil {
		logrus.WithError(err).Error("Snapshot run failed")
		return
	}

	logrus.WithFields(logrus.Fields{
		"run_id":   report.RunID,
		"rendered": report.Rendered,
		"failed":   report.Failed,
		"duration": time.Since(s.lastSyncStartedAt).String(),
	}).Info("Periodic snapshot completed")

	s.lastSyncCompletedAt = time.Now()
}

// loadRunParams re-reads the accounts and traffic files so each tick sees
// their current contents.
func (s *SnapshotSyncService) loadRunParams() (imaging.RunParams, error) {
	runParams := s.params.Run

	accountConfigs, err := accounts.Load(s.params.AccountsPath)
	if err != nil {
		return imaging.RunParams{}, err
	}
	runParams.Accounts = accountConfigs

	specs, err := trafficspec.Load(s.params.TrafficSpecPath)
	if err != nil {
		return imaging.RunParams{}, err
	}
	runParams.Specs = specs

	// Every tick resolves its own window against the tick's wall clock.
	runParams.Now = time.Time{}

	return runParams, nil
}
