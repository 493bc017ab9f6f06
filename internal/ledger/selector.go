package ledger

import (
	"log/slog"
	"sync"

	"certledger/internal/platform/prefs"
)

// Selector holds the process-wide ledger mode and hands out the matching
// implementation. The mode is initialized from the persisted preference at
// startup, changed only by an explicit toggle, and persisted on every change.
//
// The testing-mode and real-mode backing stores are disjoint: switching modes
// never migrates records between them.
type Selector struct {
	mu      sync.RWMutex
	mode    Mode
	testing Ledger
	real    Ledger
	prefs   *prefs.Store
	logger  *slog.Logger
}

// NewSelector builds a selector over the two implementations. When prefStore
// is non-nil, a persisted preference overrides defaultReal.
func NewSelector(testing, real Ledger, defaultReal bool, prefStore *prefs.Store, logger *slog.Logger) *Selector {
	realMode := defaultReal
	if prefStore != nil {
		realMode = prefStore.Bool(prefs.RealLedgerKey, defaultReal)
	}

	mode := ModeTesting
	if realMode {
		mode = ModeReal
	}
	return &Selector{
		mode:    mode,
		testing: testing,
		real:    real,
		prefs:   prefStore,
		logger:  logger,
	}
}

// Mode returns the current ledger mode.
func (s *Selector) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Active returns the ledger implementation for the current mode.
func (s *Selector) Active() Ledger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.mode == ModeReal {
		return s.real
	}
	return s.testing
}

// SetMode switches the active ledger and persists the preference. Switching
// is idempotent; a persistence failure keeps the new in-memory mode and is
// reported to the caller.
func (s *Selector) SetMode(mode Mode) error {
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("ledger mode changed", "mode", mode.String())
	}
	if s.prefs == nil {
		return nil
	}
	return s.prefs.SetBool(prefs.RealLedgerKey, mode == ModeReal)
}
