package repositories

import (
	"context"
	"time"

	"github.com/civicpulse/backend/internal/domain/entities"
)

// ReportRepository defines read access to citizen reports
type ReportRepository interface {
	// ListCreatedSince returns reports created at or after since, oldest first
	ListCreatedSince(ctx context.Context, since time.Time) ([]*entities.Report, error)
}
