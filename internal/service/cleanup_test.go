package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/shop-api/internal/logging"
)

func TestExpiredRowsCleaner_Sweep(t *testing.T) {
	codes := new(MockAuthCodeRepository)
	sessions := new(MockSessionRepository)
	codes.On("DeleteExpired", mock.Anything, issueTime.Unix()).Return(int64(4), nil)
	sessions.On("DeleteExpired", mock.Anything, issueTime.Unix()).Return(int64(2), nil)

	cleaner := NewExpiredRowsCleaner(codes, sessions, logging.Discard())
	cleaner.now = func() time.Time { return issueTime }

	nCodes, nSessions, err := cleaner.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), nCodes)
	assert.Equal(t, int64(2), nSessions)
}

func TestExpiredRowsCleaner_SweepContinuesAfterError(t *testing.T) {
	codes := new(MockAuthCodeRepository)
	sessions := new(MockSessionRepository)
	codes.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))
	sessions.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(1), nil)

	_, nSessions, err := NewExpiredRowsCleaner(codes, sessions, logging.Discard()).Sweep(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth codes")
	assert.Equal(t, int64(1), nSessions)
	sessions.AssertExpectations(t)
}

func TestExpiredRowsCleaner_RunStopsOnCancel(t *testing.T) {
	codes := new(MockAuthCodeRepository)
	sessions := new(MockSessionRepository)
	swept := make(chan struct{}, 1)
	codes.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(0), nil)
	sessions.On("DeleteExpired", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		select {
		case swept <- struct{}{}:
		default:
		}
	}).Return(int64(0), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewExpiredRowsCleaner(codes, sessions, logging.Discard()).Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	select {
	case <-swept:
	case <-time.After(2 * time.Second):
		t.Fatal("очистка не запустилась")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run не остановился после отмены контекста")
	}
}

func TestExpiredRowsCleaner_RunDisabled(t *testing.T) {
	codes := new(MockAuthCodeRepository)
	sessions := new(MockSessionRepository)

	NewExpiredRowsCleaner(codes, sessions, logging.Discard()).Run(context.Background(), 0)

	codes.AssertNotCalled(t, "DeleteExpired", mock.Anything, mock.Anything)
}
