package domain

import "strings"

// DefaultTopicPrefix — префикс топиков платформы.
const DefaultTopicPrefix = "hono"

// Заголовки записей команд.
const (
	HeaderDeviceID      = "device_id"
	HeaderTenantID      = "tenant_id"
	HeaderSubject       = "subject"
	HeaderCorrelationID = "correlation-id"
	HeaderVia           = "via"
)

const (
	commandEndpoint         = "command"
	internalCommandEndpoint = "command_internal"
)

// CommandTopic — топик команд тенанта: <prefix>.command.<tenant>.
func CommandTopic(prefix, tenantID string) string {
	return topicName(prefix, commandEndpoint, tenantID)
}

// InternalCommandTopic — внутренний топик экземпляра адаптера: <prefix>.command_internal.<instance>.
func InternalCommandTopic(prefix, adapterInstanceID string) string {
	return topicName(prefix, internalCommandEndpoint, adapterInstanceID)
}

// TenantFromCommandTopic — обратное преобразование для CommandTopic.
func TenantFromCommandTopic(prefix, topic string) (string, bool) {
	head := normalizePrefix(prefix) + "." + commandEndpoint + "."
	if !strings.HasPrefix(topic, head) || len(topic) == len(head) {
		return "", false
	}
	return topic[len(head):], true
}

func topicName(prefix, endpoint, id string) string {
	return normalizePrefix(prefix) + "." + endpoint + "." + id
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		return DefaultTopicPrefix
	}
	return prefix
}

// HeaderValue — значение первого заголовка с ключом key.
func HeaderValue(headers []Header, key string) (string, bool) {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value), true
		}
	}
	return "", false
}
