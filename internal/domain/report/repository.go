package report

import (
	"context"

	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
)

type ReportRepository interface {
	pagination.Source[Report]

	Create(ctx context.Context, r Report) (Report, error)
}
