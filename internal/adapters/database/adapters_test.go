package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/civicpulse/backend/internal/adapters/database"
	"github.com/civicpulse/backend/internal/domain/entities"
	"github.com/civicpulse/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/civicpulse/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockClient(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return postgres.NewClientFromDB(db), mock
}

func TestReportAdapter_ListCreatedSince(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewReportAdapter(client, nil)

	since := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	created := since.Add(48 * time.Hour)
	due := since.Add(72 * time.Hour)

	rows := sqlmock.NewRows([]string{
		"id", "type", "status", "latitude", "longitude", "created_at",
		"ai_priority", "assigned_service", "assigned_user_id", "assigned_priority", "assigned_due_at",
	}).
		AddRow("r1", "VOIRIE", "NOUVEAU", 9.53, -13.68, created, "HIGH", "TRAVAUX", "u1", "MEDIUM", due).
		AddRow("r2", nil, nil, nil, nil, nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery(`SELECT .* FROM "reports" WHERE \("created_at" >= \$1\) ORDER BY "created_at" ASC`).
		WithArgs(since).
		WillReturnRows(rows)

	reports, err := adapter.ListCreatedSince(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	r1 := reports[0]
	assert.Equal(t, "VOIRIE", r1.Type)
	require.NotNil(t, r1.Latitude)
	assert.Equal(t, 9.53, *r1.Latitude)
	assert.Equal(t, created, r1.CreatedAt)
	require.NotNil(t, r1.AssignedDueAt)
	assert.Equal(t, "TRAVAUX", r1.AssignedService)

	r2 := reports[1]
	assert.False(t, r2.HasTimestamp())
	assert.Nil(t, r2.Latitude)
	assert.Nil(t, r2.AssignedDueAt)
	assert.Empty(t, r2.Type)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportAdapter_ListCreatedSince_QueryError(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewReportAdapter(client, nil)

	mock.ExpectQuery(`SELECT .* FROM "reports"`).WillReturnError(errors.New("relation does not exist"))

	_, err := adapter.ListCreatedSince(context.Background(), time.Now())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}

func TestPOIAdapter_ListActiveAndCount(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewPOIAdapter(client, nil)

	mock.ExpectQuery(`SELECT .* FROM "pois" WHERE \("status" = \$1\) ORDER BY "name" ASC`).
		WithArgs(entities.POIStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "category", "address", "phone", "description",
			"latitude", "longitude", "status", "source", "external_id",
		}).
			AddRow("p1", "Pharmacie du Port", "PHARMACIE", "Kaloum", "+224620000000", nil, 9.51, -13.71, "ACTIF", "osm", "node/1").
			AddRow("p2", "Mairie", "MAIRIE", nil, nil, nil, nil, nil, "ACTIF", nil, nil))

	pois, err := adapter.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, pois, 2)
	assert.Equal(t, "Kaloum", pois[0].Address)
	require.NotNil(t, pois[0].Longitude)
	assert.Nil(t, pois[1].Latitude)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "pois" WHERE \("status" = \$1\)`).
		WithArgs(entities.POIStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))

	count, err := adapter.CountActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 17, count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPOIAdapter_Upsert(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewPOIAdapter(client, nil)

	lat, lon := 9.5, -13.7
	pois := []*entities.PointOfInterest{
		{ID: "a", Name: "Banque", Category: "BANQUE", Latitude: &lat, Longitude: &lon, Status: "ACTIF", Source: "osm", ExternalID: "node/1"},
		{ID: "b", Name: "Gare", Category: "TRANSPORT", Status: "ACTIF", Source: "osm", ExternalID: "node/2"},
	}

	mock.ExpectExec(`INSERT INTO "pois" .* ON CONFLICT \(source, external_id\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := adapter.Upsert(context.Background(), pois)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = adapter.Upsert(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileAdapter_GetByID(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewProfileAdapter(client)

	mock.ExpectQuery(`SELECT "id", "role", "is_active", "full_name" FROM "profiles" WHERE \("id" = \$1\)`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "role", "is_active", "full_name"}).AddRow("user-1", "agent", true, "Awa Camara"))

	profile, err := adapter.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, entities.RoleAgent, profile.Role)
	assert.True(t, profile.IsActive)

	mock.ExpectQuery(`FROM "profiles"`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "role", "is_active", "full_name"}))

	_, err = adapter.GetByID(context.Background(), "ghost")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}
