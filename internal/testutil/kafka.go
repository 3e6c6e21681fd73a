//go:build integration

package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/command_router/internal/domain"
	ikafka "github.com/Gunvolt24/command_router/internal/kafka"
)

// TenantTopics — пара топиков одного сценария: команды тенанта и внутренний топик адаптера.
type TenantTopics struct {
	Command  string
	Internal string
}

// UniqueGroup — consumer group, не пересекающаяся с группами прошлых прогонов на том же брокере.
func UniqueGroup(base string) string {
	return fmt.Sprintf("%s-%s-%s", base, time.Now().UTC().Format("20060102T150405"), UniqSuffix())
}

// EnsureTenantTopics — создаёт топики тенанта и экземпляра адаптера тем же админом,
// что и фабрика консьюмеров. partitions > 1 нужны сценариям с несколькими партициями.
func EnsureTenantTopics(ctx context.Context, brokers []string, prefix, tenantID, instanceID string, partitions int) (TenantTopics, error) {
	topics := TenantTopics{
		Command:  domain.CommandTopic(prefix, tenantID),
		Internal: domain.InternalCommandTopic(prefix, instanceID),
	}
	cfg := ikafka.TopicConfig{
		AutoCreate:        true,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
		ReadyTimeout:      10 * time.Second,
	}
	if err := ikafka.EnsureTopics(ctx, brokers, cfg, topics.Command, topics.Internal); err != nil {
		return TenantTopics{}, fmt.Errorf("ensure tenant topics: %w", err)
	}
	return topics, nil
}
