package usecase

import (
	"context"

	"github.com/Gunvolt24/command_router/internal/domain"
	"github.com/Gunvolt24/command_router/internal/ports"
)

// Проверка, что CommandAudit годится как обработчик внутреннего топика.
var _ ports.InternalCommandHandler = (*CommandAudit)(nil)

// CommandAudit — обработчик зеркального консьюмера внутреннего топика:
// журналирует команды, дошедшие до экземпляра адаптера.
type CommandAudit struct {
	log ports.Logger
}

func NewCommandAudit(log ports.Logger) *CommandAudit { return &CommandAudit{log: log} }

func (a *CommandAudit) HandleCommand(ctx context.Context, cmd *domain.CommandRecord) error {
	via, _ := domain.HeaderValue(cmd.Headers, domain.HeaderVia)
	a.log.Infof(ctx, "command delivered tenant=%s device=%s subject=%s correlation_id=%s via=%s offset=%d bytes=%d",
		cmd.TenantID, cmd.DeviceID, cmd.Subject, cmd.CorrelationID, via, cmd.Offset, len(cmd.Payload))
	return nil
}
