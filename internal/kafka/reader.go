package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=reader.go -destination=./mocks/mock_reader.go -package=mocks

// reader — минимальный контракт над источником (kafka.Reader),
// чтобы легко подменять его моками в тестах.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// committer — часть reader, нужная пайплайну: фиксация оффсетов.
type committer interface {
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// messageWriter — контракт над kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// topicAdmin — проверка/создание топика тенанта перед подпиской.
type topicAdmin interface {
	EnsureTopic(ctx context.Context, topic string) error
}
