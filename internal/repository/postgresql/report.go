package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/thikabizhub/bizhub-backend/internal/domain/business"
	"github.com/thikabizhub/bizhub-backend/internal/domain/report"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/database"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
)

var reportKeyset = keyset{
	from: `reports r
		JOIN businesses b ON b.id = r.business_id
		JOIN users u ON u.id = r.reporter_id`,
	selects: `r.id, r.business_id, b.name, r.reporter_id, u.email, r.reason, r.description, r.status, r.created_at`,
	idExpr:  "r.id",
	columns: map[string]column{
		"created_at":  {expr: "r.created_at", pgType: "timestamptz", orderable: true},
		"status":      {expr: "r.status", pgType: "text"},
		"reason":      {expr: "r.reason", pgType: "text"},
		"business_id": {expr: "r.business_id", pgType: "uuid"},
	},
}

func scanReport(row pgx.Row) (report.Report, error) {
	var rp report.Report
	err := row.Scan(
		&rp.ID, &rp.BusinessID, &rp.BusinessName, &rp.ReporterID, &rp.ReporterEmail,
		&rp.Reason, &rp.Description, &rp.Status, &rp.CreatedAt,
	)
	return rp, err
}

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

func (r *reportRepositoryImpl) Create(ctx context.Context, rp report.Report) (report.Report, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO reports (business_id, reporter_id, reason, description)
			VALUES ($1, $2, $3, $4)
			RETURNING *
		)
		SELECT r.id, r.business_id, b.name, r.reporter_id, u.email, r.reason, r.description, r.status, r.created_at
		FROM inserted r
		JOIN businesses b ON b.id = r.business_id
		JOIN users u ON u.id = r.reporter_id
	`
	created, err := scanReport(q.QueryRow(ctx, query, rp.BusinessID, rp.ReporterID, rp.Reason, rp.Description))
	if err != nil {
		if isForeignKeyViolation(err) || errors.Is(err, pgx.ErrNoRows) {
			return report.Report{}, business.ErrBusinessNotFound
		}
		return report.Report{}, fmt.Errorf("failed to create report: %w", err)
	}
	return created, nil
}

func (r *reportRepositoryImpl) Fetch(ctx context.Context, q pagination.Query) ([]report.Report, error) {
	return fetchPage(ctx, GetQuerier(ctx, r.db), reportKeyset, q, scanReport)
}

func (r *reportRepositoryImpl) Count(ctx context.Context, filters []pagination.Filter) (int64, error) {
	return countRows(ctx, GetQuerier(ctx, r.db), reportKeyset, filters)
}

func (r *reportRepositoryImpl) CursorOf(rp report.Report, _ string) pagination.Cursor {
	return pagination.Cursor{Value: timeCursor(rp.CreatedAt), ID: rp.ID}
}
