package application

import (
	"context"
	"log/slog"

	"crowdfund/contexts/crowdfunding/campaign-registry/domain/entities"
	"crowdfund/contexts/crowdfunding/campaign-registry/ports"
)

// Notify hands change to notifier after the mutation is committed. A
// delivery failure is logged and never reaches the caller.
func Notify(ctx context.Context, notifier ports.ChangeNotifier, logger *slog.Logger, change entities.Change) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(ctx, change); err != nil {
		ResolveLogger(logger).Warn("campaign change notification failed",
			"event", "campaign_change_notify_failed",
			"module", "crowdfunding/campaign-registry",
			"layer", "application",
			"change_type", change.ChangeType(),
			"owner", change.PartitionOwner(),
			"error", err.Error(),
		)
	}
}

// LockOwner serializes the caller against other mutations for owner. A nil
// locker is a no-op.
func LockOwner(locker ports.OwnerLocker, owner string) func() {
	if locker == nil {
		return func() {}
	}
	return locker.Lock(owner)
}
