package domain

import (
	"errors"
	"time"
)

var (
	// ErrTenantNotFound — тенант неизвестен реестру или отключён.
	ErrTenantNotFound = errors.New("tenant not found")
	// ErrTargetNotFound — для устройства нет адаптера, обрабатывающего команды.
	ErrTargetNotFound = errors.New("command target not found")
	// ErrResolveTimeout — поиск адаптера не уложился в таймаут.
	ErrResolveTimeout = errors.New("command target resolution timed out")
	// ErrUnroutableCommand — в записи нет ни заголовка device_id, ни ключа.
	ErrUnroutableCommand = errors.New("command has no device id")
)

// Header — заголовок записи Kafka (порядок заголовков сохраняется).
type Header struct {
	Key   string
	Value []byte
}

// CommandRecord — команда, прочитанная из топика тенанта.
// После построения не изменяется.
type CommandRecord struct {
	Topic         string
	Partition     int
	Offset        int64
	TenantID      string
	DeviceID      string
	Subject       string
	CorrelationID string
	Key           []byte
	Payload       []byte
	Headers       []Header
	Timestamp     time.Time
}

// Target — адаптер, к которому подключено устройство.
// GatewayID заполнен, если устройство подключено через шлюз.
type Target struct {
	AdapterInstanceID string
	GatewayID         string
}

// ViaGateway — команда должна уйти через шлюз.
func (t Target) ViaGateway() bool { return t.GatewayID != "" }

// ResolvedCommand — команда вместе с найденным адаптером; вход для форвардера.
type ResolvedCommand struct {
	Record *CommandRecord
	Target Target
}

// Tenant — запись реестра тенантов.
type Tenant struct {
	ID        string    `json:"id"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}
