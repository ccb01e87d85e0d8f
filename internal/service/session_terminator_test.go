package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/shop-api/internal/logging"
)

func TestSessionTerminator_Logout(t *testing.T) {
	sessions := new(MockSessionRepository)
	sessions.On("Delete", mock.Anything, "abc").Return(nil).Once()

	NewSessionTerminator(sessions, logging.Discard()).Logout(context.Background(), " abc ")

	sessions.AssertExpectations(t)
}

func TestSessionTerminator_EmptySIDIsNoop(t *testing.T) {
	sessions := new(MockSessionRepository)

	NewSessionTerminator(sessions, logging.Discard()).Logout(context.Background(), "")

	sessions.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSessionTerminator_StoreErrorIsSwallowed(t *testing.T) {
	var buf bytes.Buffer
	sessions := new(MockSessionRepository)
	sessions.On("Delete", mock.Anything, "abc").Return(errors.New("db down"))

	term := NewSessionTerminator(sessions, logging.New(&buf, logging.Config{}))
	assert.NotPanics(t, func() { term.Logout(context.Background(), "abc") })
	assert.Contains(t, buf.String(), "failed to delete session on logout")
}

func TestSessionTerminator_NilStore(t *testing.T) {
	term := NewSessionTerminator(nil, logging.Discard())
	assert.NotPanics(t, func() { term.Logout(context.Background(), "abc") })
}
