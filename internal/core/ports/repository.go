package ports

import (
	"context"

	"github.com/ewilliams-labs/songle/internal/core/domain"
)

type SnapshotRepository interface {
	Save(ctx context.Context, s domain.Snapshot) error
	GetByID(ctx context.Context, id string) (domain.Snapshot, error)
	ListBySongURL(ctx context.Context, songURL string) ([]domain.Snapshot, error)
}
