package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/command_router/pkg/validate"
)

// ErrTopicNotFound — топика нет, а автосоздание выключено.
var ErrTopicNotFound = errors.New("topic not found")

// TopicConfig — параметры создания топиков тенантов.
type TopicConfig struct {
	AutoCreate        bool
	NumPartitions     int
	ReplicationFactor int
	ReadyTimeout      time.Duration
}

// kafkaTopicAdmin проверяет топик и при необходимости создаёт его через контроллер кластера.
type kafkaTopicAdmin struct {
	brokers []string
	cfg     TopicConfig
	dialer  *kafka.Dialer
}

func newTopicAdmin(brokers []string, cfg TopicConfig) *kafkaTopicAdmin {
	if cfg.NumPartitions <= 0 {
		cfg.NumPartitions = 1
	}
	if cfg.ReplicationFactor <= 0 {
		cfg.ReplicationFactor = 1
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = 5 * time.Second
	}
	return &kafkaTopicAdmin{
		brokers: brokers,
		cfg:     cfg,
		dialer:  &kafka.Dialer{Timeout: 10 * time.Second},
	}
}

// EnsureTopic — топик существует (или создан) и виден в метаданных.
func (a *kafkaTopicAdmin) EnsureTopic(ctx context.Context, topic string) error {
	if err := validate.TopicName(topic); err != nil {
		return err
	}
	if len(a.brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}

	// подключаемся к любому брокеру
	conn, err := a.dialer.DialContext(ctx, "tcp", firstBootstrap(a.brokers[0]))
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer conn.Close()
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}

	if parts, perr := conn.ReadPartitions(topic); perr == nil && len(parts) > 0 {
		return nil
	}
	if !a.cfg.AutoCreate {
		return fmt.Errorf("%w: %s", ErrTopicNotFound, topic)
	}

	// находим контроллер кластера и открываем admin-коннект к нему
	ctrl, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("find controller: %w", err)
	}
	admin, err := a.dialer.DialContext(ctx, "tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer admin.Close()

	// создаём топик (если уже есть — это не ошибка)
	err = admin.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     a.cfg.NumPartitions,
		ReplicationFactor: a.cfg.ReplicationFactor,
	})
	if err != nil && !isTopicExists(err) {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}

	// ждём появления в метаданных
	return a.waitTopicReady(ctx, topic)
}

// EnsureTopics — разовая проверка/создание нескольких топиков вне фабрики.
func EnsureTopics(ctx context.Context, brokers []string, cfg TopicConfig, topics ...string) error {
	admin := newTopicAdmin(brokers, cfg)
	for _, topic := range topics {
		if err := admin.EnsureTopic(ctx, topic); err != nil {
			return err
		}
	}
	return nil
}

func (a *kafkaTopicAdmin) waitTopicReady(ctx context.Context, topic string) error {
	deadline := time.Now().Add(a.cfg.ReadyTimeout)
	for {
		c, err := a.dialer.DialContext(ctx, "tcp", firstBootstrap(a.brokers[0]))
		if err == nil {
			parts, perr := c.ReadPartitions(topic)
			_ = c.Close()
			if perr == nil && len(parts) > 0 {
				return nil
			}
			err = perr
		}

		if time.Now().After(deadline) {
			if err != nil {
				return fmt.Errorf("topic %q not ready: %w", topic, err)
			}
			return fmt.Errorf("topic %q not ready", topic)
		}
		if !sleepWithBackoff(ctx, 200*time.Millisecond) {
			return ctx.Err()
		}
	}
}

func isTopicExists(err error) bool {
	if errors.Is(err, kafka.TopicAlreadyExists) {
		return true
	}
	// В разных кластерах формулировка может отличаться — проверяем подстроку.
	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}

// firstBootstrap берёт первый адрес из bootstrap-строки,
// а также снимает схему вида "PLAINTEXT://".
func firstBootstrap(raw string) string {
	parts := strings.Split(raw, ",")
	first := strings.TrimSpace(parts[0])

	if strings.Contains(first, "://") {
		if u, err := url.Parse(first); err == nil && u.Host != "" {
			return u.Host
		}
	}
	return first
}
