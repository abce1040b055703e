package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/trendboard/internal/common"
	"github.com/ternarybob/trendboard/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db           *BadgerDB
	jobLog       interfaces.JobLogStorage
	rawSignal    interfaces.RawSignalStorage
	trend        interfaces.TrendStorage
	platformStat interfaces.PlatformStatStorage
	logger       arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:           db,
		jobLog:       NewJobLogStorage(db, logger),
		rawSignal:    NewRawSignalStorage(db, logger),
		trend:        NewTrendStorage(db, logger),
		platformStat: NewPlatformStatStorage(db, logger),
		logger:       logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// JobLogStorage returns the BatchJobLog storage interface
func (m *Manager) JobLogStorage() interfaces.JobLogStorage {
	return m.jobLog
}

// RawSignalStorage returns the raw signal storage interface
func (m *Manager) RawSignalStorage() interfaces.RawSignalStorage {
	return m.rawSignal
}

// TrendStorage returns the TrendRecord storage interface
func (m *Manager) TrendStorage() interfaces.TrendStorage {
	return m.trend
}

// PlatformStatStorage returns the PlatformStat storage interface
func (m *Manager) PlatformStatStorage() interfaces.PlatformStatStorage {
	return m.platformStat
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
