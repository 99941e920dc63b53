package oneclick

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoller_StopsAtTerminalStatus(t *testing.T) {
	sequence := []string{StatusPendingDeposit, StatusProcessing, StatusSuccess}
	calls := 0
	fetch := func(_ context.Context, _ string) (*SwapStatus, error) {
		status := &SwapStatus{Status: sequence[calls]}
		calls++
		return status, nil
	}

	p := NewPoller(fetch, nil)
	p.Interval = time.Millisecond

	var seen []string
	final, err := p.Poll(context.Background(), "addr", func(s *SwapStatus) {
		seen = append(seen, s.Status)
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, final.Status)
	assert.False(t, final.TimedOut)
	assert.Equal(t, sequence, seen)
	assert.Equal(t, 3, calls)
}

func TestPoller_RefundedIsTerminal(t *testing.T) {
	fetch := func(_ context.Context, _ string) (*SwapStatus, error) {
		return &SwapStatus{Status: StatusRefunded}, nil
	}

	p := NewPoller(fetch, nil)
	p.Interval = time.Millisecond

	final, err := p.Poll(context.Background(), "addr", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusRefunded, final.Status)
}

func TestPoller_ExhaustionReturnsSyntheticProcessing(t *testing.T) {
	calls := 0
	fetch := func(_ context.Context, _ string) (*SwapStatus, error) {
		calls++
		return &SwapStatus{Status: StatusProcessing}, nil
	}

	p := NewPoller(fetch, nil)
	p.Interval = time.Millisecond
	p.MaxAttempts = 5

	final, err := p.Poll(context.Background(), "addr", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, final.Status)
	assert.True(t, final.TimedOut, "exhaustion is a timeout, not a failure")
	assert.Equal(t, 5, calls)
}

func TestPoller_TransportErrorsCountAsAttempts(t *testing.T) {
	calls := 0
	fetch := func(_ context.Context, _ string) (*SwapStatus, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("connection reset")
		}
		return &SwapStatus{Status: StatusSuccess}, nil
	}

	p := NewPoller(fetch, nil)
	p.Interval = time.Millisecond
	p.MaxAttempts = 5

	final, err := p.Poll(context.Background(), "addr", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, final.Status)
	assert.Equal(t, 3, calls)
}

func TestPoller_AllErrorsStillTimeOut(t *testing.T) {
	fetch := func(_ context.Context, _ string) (*SwapStatus, error) {
		return nil, errors.New("connection reset")
	}

	p := NewPoller(fetch, nil)
	p.Interval = time.Millisecond
	p.MaxAttempts = 3

	final, err := p.Poll(context.Background(), "addr", nil)
	require.NoError(t, err, "transport errors are swallowed")
	assert.True(t, final.TimedOut)
}

func TestPoller_ContextCancellation(t *testing.T) {
	fetch := func(_ context.Context, _ string) (*SwapStatus, error) {
		return &SwapStatus{Status: StatusProcessing}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPoller(fetch, nil)
	p.Interval = time.Minute

	_, err := p.Poll(ctx, "addr", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSwapStatus_Terminal(t *testing.T) {
	assert.True(t, (&SwapStatus{Status: StatusSuccess}).Terminal())
	assert.True(t, (&SwapStatus{Status: StatusRefunded}).Terminal())
	assert.True(t, (&SwapStatus{Status: StatusFailed}).Terminal())
	assert.False(t, (&SwapStatus{Status: StatusPendingDeposit}).Terminal())
	assert.False(t, (&SwapStatus{Status: StatusProcessing}).Terminal())
	assert.False(t, (&SwapStatus{Status: StatusIncompleteDeposit}).Terminal())
}
