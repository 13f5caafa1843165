package preview

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
)

// Token bir decode işinin iptal belirteci.
// Cancel senkron olarak işaretler ve işin context'ini iptal eder.
type Token struct {
	id        string
	cancelled atomic.Bool
	ctx       context.Context
	cancel    context.CancelFunc
}

func newToken(parent context.Context) *Token {
	ctx, cancel := context.WithCancel(parent)
	return &Token{
		id:     uuid.NewString(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// ID işin benzersiz kimliği
func (t *Token) ID() string {
	return t.id
}

// Cancel işi iptal eder. Birden fazla çağrı güvenlidir.
func (t *Token) Cancel() {
	t.cancelled.Store(true)
	t.cancel()
}

// Cancelled iptal edilip edilmediğini döner
func (t *Token) Cancelled() bool {
	return t.cancelled.Load()
}

func (t *Token) release() {
	t.cancel()
}
