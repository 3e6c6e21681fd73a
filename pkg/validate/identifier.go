package validate

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrInvalidIdentifier — базовая (sentinel error) ошибка валидации идентификаторов.
var ErrInvalidIdentifier = errors.New("identifier validation failed")

// Ограничения Kafka на имя топика: не длиннее 249 символов, только [a-zA-Z0-9._-].
const (
	maxTopicLen = 249
	maxIDLen    = 200
)

// TenantID — идентификатор тенанта входит в имя топика, поэтому проверяется по правилам Kafka.
func TenantID(id string) error {
	return topicSegment("tenant_id", id)
}

// AdapterInstanceID — идентификатор экземпляра адаптера (тоже часть имени топика).
func AdapterInstanceID(id string) error {
	return topicSegment("adapter_instance_id", id)
}

// DeviceID — идентификатор устройства передаётся только в заголовках и ключе записи.
func DeviceID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: device_id обязателен", ErrInvalidIdentifier)
	}
	if len(id) > maxIDLen {
		return fmt.Errorf("%w: device_id длиннее %d", ErrInvalidIdentifier, maxIDLen)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return fmt.Errorf("%w: device_id содержит недопустимый символ %q", ErrInvalidIdentifier, r)
		}
	}
	return nil
}

// TopicName — полная проверка имени топика.
func TopicName(topic string) error {
	if topic == "" || topic == "." || topic == ".." {
		return fmt.Errorf("%w: некорректное имя топика %q", ErrInvalidIdentifier, topic)
	}
	if len(topic) > maxTopicLen {
		return fmt.Errorf("%w: имя топика длиннее %d", ErrInvalidIdentifier, maxTopicLen)
	}
	for _, r := range topic {
		if !isTopicRune(r) {
			return fmt.Errorf("%w: имя топика содержит недопустимый символ %q", ErrInvalidIdentifier, r)
		}
	}
	return nil
}

func topicSegment(field, id string) error {
	if id == "" {
		return fmt.Errorf("%w: %s обязателен", ErrInvalidIdentifier, field)
	}
	if len(id) > maxIDLen {
		return fmt.Errorf("%w: %s длиннее %d", ErrInvalidIdentifier, field, maxIDLen)
	}
	for _, r := range id {
		if !isTopicRune(r) {
			return fmt.Errorf("%w: %s содержит недопустимый символ %q", ErrInvalidIdentifier, field, r)
		}
	}
	return nil
}

func isTopicRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-':
		return true
	}
	return false
}
