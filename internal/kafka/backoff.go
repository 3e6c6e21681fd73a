package kafka

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// backoff — экспоненциальные задержки с equal-jitter.
type backoff struct {
	initial time.Duration
	max     time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

func newBackoff(initial, max time.Duration) *backoff {
	if initial <= 0 {
		initial = 1 * time.Second
	}
	if max < initial {
		max = initial
	}
	return &backoff{
		initial: initial,
		max:     max,
		// источник случайности, чтобы рассинхронизировать повторы разных консьюмеров
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// next возвращает следующее время ожидания повтора с учетом max.
func (b *backoff) next(current time.Duration) time.Duration {
	current *= 2
	if current > b.max {
		return b.max
	}
	return current
}

// forAttempt — задержка перед повтором номер attempt (1, 2, ...).
func (b *backoff) forAttempt(attempt int) time.Duration {
	d := b.initial
	for i := 1; i < attempt && d < b.max; i++ {
		d = b.next(d)
	}
	return minDuration(d, b.max)
}

// withJitterEqual — половина задержки фиксирована, вторая половина случайна.
func (b *backoff) withJitterEqual(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2

	b.mu.Lock()
	jitter := time.Duration(b.rnd.Int63n(int64(d-half) + 1))
	b.mu.Unlock()

	return half + jitter
}

// sleepWithBackoff ждет d или останавливается по контексту.
func sleepWithBackoff(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// minDuration возвращает минимальное время из двух.
func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
