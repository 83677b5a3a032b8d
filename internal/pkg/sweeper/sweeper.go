package sweeper

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/MwizaSimbeye/StreamKick/internal/pkg/database"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/env"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/supporter"
	"github.com/gofiber/fiber/v2/log"
)

// Manager runs the supporter-tier expiry sweep in the background. The
// payment pipeline writes supporter_expires_at; this sweep is the only thing
// that lapses tiers, so nothing downgrades a user mid-request.
type Manager struct {
	svc          *supporter.Service
	expiryTicker *time.Ticker
	stopCh       chan struct{}
	wg           sync.WaitGroup
	mu           sync.Mutex
	running      bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global sweeper manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		globalManager = &Manager{
			svc:    supporter.NewServiceFromDB(database.GetDB()),
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// Start starts the background expiry sweep
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so the manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[Sweeper] Starting supporter expiry sweep")

	interval := 15 * time.Minute
	if v, err := strconv.Atoi(env.GetEnv("SUPPORTER_SWEEP_INTERVAL_MINUTES", "")); err == nil && v > 0 {
		interval = time.Duration(v) * time.Minute
	}

	m.expiryTicker = time.NewTicker(interval)
	m.wg.Add(1)
	go m.expiryWorker()

	log.Infof("[Sweeper] Started successfully (interval: %s)", interval)
}

// Stop stops the background expiry sweep
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[Sweeper] Stopping supporter expiry sweep...")

	if m.expiryTicker != nil {
		m.expiryTicker.Stop()
	}

	close(m.stopCh)
	m.running = false

	m.wg.Wait()

	log.Info("[Sweeper] Stopped successfully")
}

func (m *Manager) expiryWorker() {
	defer m.wg.Done()

	for {
		select {
		case <-m.stopCh:
			log.Info("[Sweeper] Expiry worker stopping")
			return
		case <-m.expiryTicker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, err := m.svc.ExpireLapsedTiers(ctx); err != nil {
				log.Errorf("[Sweeper] Expiry sweep error: %v", err)
			}
			cancel()
		}
	}
}
