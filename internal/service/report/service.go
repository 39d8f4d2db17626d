package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thikabizhub/bizhub-backend/internal/domain/report"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
)

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
}

func NewReportService(reportRepo report.ReportRepository) *ReportServiceImpl {
	return &ReportServiceImpl{
		reportRepo: reportRepo,
	}
}

// Create files a pending report against a business.
func (s *ReportServiceImpl) Create(ctx context.Context, reporterID string, req report.CreateReportRequest) (report.ReportResponse, error) {
	created, err := s.reportRepo.Create(ctx, report.Report{
		BusinessID:  req.BusinessID,
		ReporterID:  reporterID,
		Reason:      req.Reason,
		Description: req.Description,
		Status:      report.StatusPending,
	})
	if err != nil {
		return report.ReportResponse{}, err
	}

	slog.Info("Business reported", "report_id", created.ID, "business_id", created.BusinessID, "reason", created.Reason)
	return report.NewReportResponse(created), nil
}

// List pages through reports for moderators, newest first by default.
func (s *ReportServiceImpl) List(ctx context.Context, req pagination.Request) (pagination.Page[report.ReportResponse], error) {
	page, err := pagination.Paginate(ctx, s.reportRepo, req)
	if err != nil {
		return pagination.Page[report.ReportResponse]{}, fmt.Errorf("failed to list reports: %w", err)
	}

	items := make([]report.ReportResponse, len(page.Items))
	for i, r := range page.Items {
		items[i] = report.NewReportResponse(r)
	}
	return pagination.Page[report.ReportResponse]{
		Items:      items,
		NextCursor: page.NextCursor,
		PrevCursor: page.PrevCursor,
		HasNext:    page.HasNext,
		HasPrev:    page.HasPrev,
	}, nil
}
