package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/civicpulse/backend/internal/domain/entities"
	"github.com/civicpulse/backend/internal/domain/repositories"
	"github.com/civicpulse/backend/internal/infrastructure/clients/postgres"
	"github.com/civicpulse/backend/internal/infrastructure/observability"
	apperrors "github.com/civicpulse/backend/pkg/errors"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

var reportColumns = []interface{}{
	"id", "type", "status", "latitude", "longitude", "created_at",
	"ai_priority", "assigned_service", "assigned_user_id", "assigned_priority", "assigned_due_at",
}

// ReportAdapter implements the ReportRepository interface
type ReportAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
}

// NewReportAdapter creates a new report adapter. metrics may be nil.
func NewReportAdapter(client *postgres.Client, metrics *observability.Metrics) repositories.ReportRepository {
	return &ReportAdapter{
		client:  client,
		db:      goqu.New("postgres", client.DB()),
		metrics: metrics,
	}
}

// ListCreatedSince returns reports created at or after since, oldest first
func (a *ReportAdapter) ListCreatedSince(ctx context.Context, since time.Time) ([]*entities.Report, error) {
	query, args, err := a.db.Select(reportColumns...).
		From("reports").
		Where(goqu.C("created_at").Gte(since)).
		Order(goqu.C("created_at").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build reports query", err)
	}

	start := time.Now()
	defer func() { observability.RecordDBMetric(ctx, a.metrics, "reports.list_created_since", time.Since(start)) }()

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reports", err)
	}
	defer rows.Close()

	reports := []*entities.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan report", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating reports", err)
	}

	return reports, nil
}

func scanReport(rows *sql.Rows) (*entities.Report, error) {
	var (
		report                            entities.Report
		reportType, status, aiPriority    sql.NullString
		service, userID, assignedPriority sql.NullString
		lat, lon                          sql.NullFloat64
		createdAt, dueAt                  sql.NullTime
	)
	if err := rows.Scan(
		&report.ID,
		&reportType,
		&status,
		&lat,
		&lon,
		&createdAt,
		&aiPriority,
		&service,
		&userID,
		&assignedPriority,
		&dueAt,
	); err != nil {
		return nil, err
	}

	report.Type = reportType.String
	report.Status = status.String
	report.AIPriority = aiPriority.String
	report.AssignedService = service.String
	report.AssignedUserID = userID.String
	report.AssignedPriority = assignedPriority.String
	if createdAt.Valid {
		report.CreatedAt = createdAt.Time
	}
	if lat.Valid {
		v := lat.Float64
		report.Latitude = &v
	}
	if lon.Valid {
		v := lon.Float64
		report.Longitude = &v
	}
	if dueAt.Valid {
		v := dueAt.Time
		report.AssignedDueAt = &v
	}
	return &report, nil
}
