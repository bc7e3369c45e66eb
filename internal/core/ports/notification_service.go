package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// NotificationService pushes messages to a driver's phone.
type NotificationService interface {
	SendPush(ctx context.Context, driverID kernel.UUID, title, body string) error
}
