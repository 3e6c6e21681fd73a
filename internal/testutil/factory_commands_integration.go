//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/command_router/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakeTenant — включённый тенант с уникальным id.
func MakeTenant(opts ...func(*domain.Tenant)) domain.Tenant {
	t := domain.Tenant{
		ID:        "tenant-" + UniqSuffix(),
		Enabled:   true,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Disabled — опция для MakeTenant.
func Disabled() func(*domain.Tenant) {
	return func(t *domain.Tenant) { t.Enabled = false }
}

// MakeCommands — n команд cmd_0..cmd_{n-1} одному устройству, как их публикует бизнес-приложение.
func MakeCommands(deviceID string, n int) []kafka.Message {
	msgs := make([]kafka.Message, 0, n)
	for i := 0; i < n; i++ {
		msgs = append(msgs, kafka.Message{
			Key:   []byte(deviceID),
			Value: []byte(fmt.Sprintf("cmd_%d", i)),
			Headers: []kafka.Header{
				{Key: domain.HeaderDeviceID, Value: []byte(deviceID)},
				{Key: domain.HeaderSubject, Value: []byte("setValue")},
				{Key: domain.HeaderCorrelationID, Value: []byte(fmt.Sprintf("corr-%d", i))},
			},
		})
	}
	return msgs
}
