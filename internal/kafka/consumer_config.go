package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// ConsumerConfig — параметры подписки на один топик.
type ConsumerConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	StartOffset string // first|last; применяется, только если у группы нет закоммиченного оффсета

	ProcessTimeout   time.Duration
	RetryInitial     time.Duration
	RetryMax         time.Duration
	MaxFetchFailures int // после стольких ошибок подряд подписка считается потерянной (0 — никогда)

	ErrorLogger kafka.Logger
}

// ReaderConfig — конфигурация kafka.Reader с ручным коммитом оффсетов.
func (c *ConsumerConfig) ReaderConfig() kafka.ReaderConfig {
	rc := kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.GroupID,
		Topic:          c.Topic,
		CommitInterval: 0,
		MaxWait:        500 * time.Millisecond,
		ErrorLogger:    c.ErrorLogger,
	}

	// без закоммиченного оффсета читаем с начала; "last" — только явно
	switch strings.ToLower(strings.TrimSpace(c.StartOffset)) {
	case "last":
		rc.StartOffset = kafka.LastOffset
	default:
		rc.StartOffset = kafka.FirstOffset
	}

	return rc
}
