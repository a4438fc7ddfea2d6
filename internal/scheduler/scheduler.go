package scheduler

import (
	"sync"
	"time"

	"f2g/internal/providers"
	"f2g/internal/scheduler/interfaces"
	"f2g/internal/storage"
	"f2g/internal/structures"

	"github.com/roylee0704/gron"
)

// Scheduler runs the periodic store maintenance: expiring keys, trimming idle
// rate limiters and, for the memory store, writing snapshots.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	store       storage.Store
	fileManager *storage.FileManager
	limiter     providers.RateLimiterInterface
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Storage.EvictInterval), s.Sweep)
	if s.fileManager.Enabled() {
		s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
			if err := s.save(); err != nil {
				return
			}
			s.logger.Debugf(providers.TypeApp, "Persisted store to file %s", s.config.Persistence.FilePath)
		})
	}

	s.cron.Start()
}

// Sweep drops expired keys and forgets clients idle for a full eviction
// interval.
func (s *Scheduler) Sweep() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	evicted, err := s.store.EvictExpired()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while evicting expired keys: %s", err)
		return
	}
	idle := s.limiter.RemoveIdle(s.config.Storage.EvictInterval)
	s.metrics.SetStoredKeys(s.store.Len())
	if evicted > 0 || idle > 0 {
		s.logger.Infof(providers.TypeApp, "Evicted %d expired keys, %d idle clients", evicted, idle)
	}
}

func (s *Scheduler) save() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
	}
	return err
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	if !s.fileManager.Enabled() {
		return nil
	}
	if err := s.fileManager.LoadFromFile(s.config.Persistence.FilePath); err != nil {
		return err
	}
	s.metrics.SetStoredKeys(s.store.Len())
	return nil
}

func (s *Scheduler) Persist() error {
	if !s.fileManager.Enabled() {
		return nil
	}
	s.logger.Infof(providers.TypeApp, "Persisting store to file...")
	return s.save()
}

func NewScheduler(config *structures.Config, logger providers.Logger, store storage.Store, fileManager *storage.FileManager, limiter providers.RateLimiterInterface, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		store:       store,
		fileManager: fileManager,
		limiter:     limiter,
		metrics:     metrics,
	}
}
