package ports

import (
	"context"

	"github.com/Gunvolt24/command_router/internal/domain"
)

// InternalCommandForwarder — публикация команд во внутренние топики адаптеров.
// Ошибка → повтор всего батча; часть батча при этом может быть уже опубликована,
// поэтому доставка — at-least-once. Forward должен учитывать отмену ctx; пайплайн,
// остановленный по дедлайну, его возврата не ждёт и результат не коммитит.
type InternalCommandForwarder interface {
	Forward(ctx context.Context, cmds ...domain.ResolvedCommand) error
}

// InternalCommandHandler — получатель команд из внутреннего топика адаптера.
type InternalCommandHandler interface {
	HandleCommand(ctx context.Context, cmd *domain.CommandRecord) error
}
