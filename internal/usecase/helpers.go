package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iho/gobooks/internal/domain"
)

// runInTx executes fn inside one transaction bounded by DefaultTransactionTimeout.
// The whole transaction is re-run by retrier on transient failures.
func runInTx(ctx context.Context, txManager TransactionManager, retrier Retrier, fn func(ctx context.Context, tx Transaction) error) error {
	run := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := fn(txCtx, tx); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	}

	if retrier == nil {
		return run()
	}
	return retrier.Retry(ctx, run)
}

func requireActor(actor *domain.Actor, allowed func(domain.Role) bool, required domain.Role) error {
	if actor == nil || actor.ID == "" {
		return domain.ErrMissingActor
	}
	if allowed != nil && !allowed(actor.Role) {
		return domain.WithDetails(domain.ErrInsufficientRole, map[string]any{
			"role":          string(actor.Role),
			"required_role": string(required),
		})
	}
	return nil
}

func requireWriter(actor *domain.Actor) error {
	return requireActor(actor, domain.Role.CanWrite, domain.RoleAccountant)
}

func requireAdmin(actor *domain.Actor, allowed func(domain.Role) bool) error {
	return requireActor(actor, allowed, domain.RoleAdmin)
}

func newOutboxEvent(companyID, aggregateType, aggregateID, eventType string, payload map[string]any, now time.Time) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            uuid.NewString(),
		CompanyID:     companyID,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
		Published:     false,
	}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func wrapValidation(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
}
