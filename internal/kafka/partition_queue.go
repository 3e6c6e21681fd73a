package kafka

import (
	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/command_router/internal/domain"
)

type unitState int

const (
	stateReceived unitState = iota
	stateResolving
	stateResolved
	stateFailed // резолв завершился ошибкой: не форвардим, но оффсет продвигаем
	stateForwarding
	stateCommitted
	stateAbandoned
)

func (s unitState) String() string {
	switch s {
	case stateReceived:
		return "received"
	case stateResolving:
		return "resolving"
	case stateResolved:
		return "resolved"
	case stateFailed:
		return "failed"
	case stateForwarding:
		return "forwarding"
	case stateCommitted:
		return "committed"
	case stateAbandoned:
		return "abandoned"
	}
	return "unknown"
}

// pendingUnit — команда внутри пайплайна. Поля меняет только цикл пайплайна.
type pendingUnit struct {
	msg      kafka.Message
	record   *domain.CommandRecord
	state    unitState
	target   domain.Target
	attempts int
	cause    error
	release  func() // освобождает слот очереди партиции
}

// partitionQueue — упорядоченная очередь одной партиции (голова — самый старый оффсет).
type partitionQueue struct {
	partition int
	units     []*pendingUnit

	// Батч, отправленный в форвардер (префикс units); nil — форвард не идёт.
	inFlight        []*pendingUnit
	retryPending    bool
	forwardFailures int

	highWater int64          // максимальный полученный оффсет
	toCommit  *kafka.Message // последний отправленный, ещё не закоммиченный
	committed int64          // последний закоммиченный оффсет записи (-1 — не было)
}

func newPartitionQueue(partition int) *partitionQueue {
	return &partitionQueue{partition: partition, highWater: -1, committed: -1}
}

func (q *partitionQueue) push(u *pendingUnit) {
	q.units = append(q.units, u)
	if u.msg.Offset > q.highWater {
		q.highWater = u.msg.Offset
	}
}

func (q *partitionQueue) len() int { return len(q.units) }

// readyPrefix — самый длинный префикс головы, в котором резолв завершён.
func (q *partitionQueue) readyPrefix(limit int) []*pendingUnit {
	n := 0
	for n < len(q.units) && (limit <= 0 || n < limit) {
		st := q.units[n].state
		if st != stateResolved && st != stateFailed {
			break
		}
		n++
	}
	prefix := make([]*pendingUnit, n)
	copy(prefix, q.units[:n])
	return prefix
}

// popN снимает n юнитов с головы.
func (q *partitionQueue) popN(n int) []*pendingUnit {
	if n > len(q.units) {
		n = len(q.units)
	}
	popped := make([]*pendingUnit, n)
	copy(popped, q.units[:n])
	for i := 0; i < n; i++ {
		q.units[i] = nil
	}
	q.units = q.units[n:]
	if len(q.units) == 0 {
		q.units = nil
	}
	return popped
}

// drainAll снимает всё, что осталось (при остановке).
func (q *partitionQueue) drainAll() []*pendingUnit {
	return q.popN(len(q.units))
}
