package ports

import "context"

// CommandConsumerFactory — реестр консьюмеров команд по тенантам.
type CommandConsumerFactory interface {
	CreateCommandConsumer(ctx context.Context, tenantID string) error
	StopCommandConsumer(ctx context.Context, tenantID string) error
	Tenants() []string
	// Health — тенанты с неисправным пайплайном и причина.
	Health() map[string]string
}
