package oneclick

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Swap settlement statuses reported by the 1Click service.
const (
	StatusPendingDeposit    = "PENDING_DEPOSIT"
	StatusProcessing        = "PROCESSING"
	StatusIncompleteDeposit = "INCOMPLETE_DEPOSIT"
	StatusSuccess           = "SUCCESS"
	StatusRefunded          = "REFUNDED"
	StatusFailed            = "FAILED"
)

const (
	// DefaultPollInterval is the fixed wait between status polls. Polling is
	// not backed off; the settlement service expects steady, cheap reads.
	DefaultPollInterval = 5 * time.Second
	// DefaultMaxAttempts bounds a polling run at 5 minutes.
	DefaultMaxAttempts = 60
)

// SwapStatus is one observation of a swap's settlement progress.
type SwapStatus struct {
	Status              string
	UpdatedAt           time.Time
	AmountInFormatted   string
	AmountOutFormatted  string
	OriginTxHashes      []string
	DestinationTxHashes []string
	// TimedOut marks a synthetic result returned when polling exhausted its
	// attempts without reaching a terminal status. Not a failure.
	TimedOut bool
}

// Terminal reports whether polling should stop at this status.
func (s *SwapStatus) Terminal() bool {
	switch s.Status {
	case StatusSuccess, StatusRefunded, StatusFailed:
		return true
	}
	return false
}

// StatusFunc fetches the current status for a deposit address.
type StatusFunc func(ctx context.Context, depositAddress string) (*SwapStatus, error)

// Poller runs a bounded-retry polling loop against the settlement service.
type Poller struct {
	fetch       StatusFunc
	Interval    time.Duration
	MaxAttempts int
	log         *zap.Logger
}

// NewPoller creates a poller with the default interval and attempt bound.
func NewPoller(fetch StatusFunc, log *zap.Logger) *Poller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{
		fetch:       fetch,
		Interval:    DefaultPollInterval,
		MaxAttempts: DefaultMaxAttempts,
		log:         log,
	}
}

// Poll polls until a terminal status, the attempt bound, or context
// cancellation. A transport error on a single attempt is swallowed and counted
// as one attempt. Exhausting the bound returns a synthetic PROCESSING result
// with TimedOut set; callers must not treat that as failure.
func (p *Poller) Poll(ctx context.Context, depositAddress string, onUpdate func(*SwapStatus)) (*SwapStatus, error) {
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		status, err := p.fetch(ctx, depositAddress)
		if err != nil {
			p.log.Debug("status poll attempt failed",
				zap.String("deposit_address", depositAddress),
				zap.Int("attempt", attempt),
				zap.Error(err))
		} else {
			if onUpdate != nil {
				onUpdate(status)
			}
			if status.Terminal() {
				return status, nil
			}
		}

		if attempt == p.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.Interval):
		}
	}

	p.log.Info("status polling exhausted without terminal status",
		zap.String("deposit_address", depositAddress),
		zap.Int("attempts", p.MaxAttempts))

	return &SwapStatus{Status: StatusProcessing, TimedOut: true}, nil
}
