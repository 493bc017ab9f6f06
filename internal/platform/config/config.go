package config

import (
	"os"
	"time"

	"certledger/pkg/platform/strutil"
)

// Server captures process-level configuration for the verification engine.
type Server struct {
	Addr string

	// RealLedger is the default ledger mode when no persisted preference
	// exists: false selects the simulated ledger, true the remote one.
	RealLedger bool

	// LedgerBaseURL is the remote ledger gateway endpoint used in real mode.
	LedgerBaseURL string

	// ReceiptSigningKey signs shareable verification receipts.
	ReceiptSigningKey string

	// PrefsPath is the file holding the persisted ledger-mode preference.
	PrefsPath string

	// SimulatedDelay is the artificial latency applied by the simulated
	// ledger so both modes feel the same to the UI.
	SimulatedDelay time.Duration

	// ExtraAdmins and ExtraTeachers extend the seeded allow-lists with
	// operator-supplied wallet addresses.
	ExtraAdmins   []string
	ExtraTeachers []string
}

// SimulatedDelay is the default artificial latency for testing mode.
var SimulatedDelay = 400 * time.Millisecond

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CERTLEDGER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	ledgerBaseURL := os.Getenv("CERTLEDGER_LEDGER_URL")

	delay := SimulatedDelay
	if delayStr := os.Getenv("CERTLEDGER_SIM_DELAY"); delayStr != "" {
		if d, err := time.ParseDuration(delayStr); err == nil {
			delay = d
		}
	}

	signingKey := os.Getenv("CERTLEDGER_RECEIPT_KEY")
	if signingKey == "" {
		// Use a default for development - should be overridden in production
		signingKey = "dev-receipt-key-change-in-production"
	}

	prefsPath := os.Getenv("CERTLEDGER_PREFS_PATH")
	if prefsPath == "" {
		prefsPath = "certledger-prefs.json"
	}

	return Server{
		Addr:              addr,
		RealLedger:        os.Getenv("CERTLEDGER_REAL_LEDGER") == "true",
		LedgerBaseURL:     ledgerBaseURL,
		ReceiptSigningKey: signingKey,
		PrefsPath:         prefsPath,
		SimulatedDelay:    delay,
		ExtraAdmins:       strutil.SplitList(os.Getenv("CERTLEDGER_ADMINS")),
		ExtraTeachers:     strutil.SplitList(os.Getenv("CERTLEDGER_TEACHERS")),
	}
}
