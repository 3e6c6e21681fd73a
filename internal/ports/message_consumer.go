package ports

import "context"

// MessageConsumer — фоновый консьюмер с циклом Run и закрытием ресурсов.
type MessageConsumer interface {
	Run(ctx context.Context) error
	Close() error
}
