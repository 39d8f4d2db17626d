package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thikabizhub/bizhub-backend/internal/domain/business"
	"github.com/thikabizhub/bizhub-backend/internal/domain/report"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
)

type fakeRepo struct {
	items []report.Report
	query pagination.Query
}

func (f *fakeRepo) Create(_ context.Context, r report.Report) (report.Report, error) {
	if r.BusinessID == "missing" {
		return report.Report{}, business.ErrBusinessNotFound
	}
	r.ID = "report-1"
	f.items = append(f.items, r)
	return r, nil
}

func (f *fakeRepo) Fetch(_ context.Context, q pagination.Query) ([]report.Report, error) {
	f.query = q
	return f.items, nil
}

func (f *fakeRepo) Count(context.Context, []pagination.Filter) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *fakeRepo) CursorOf(r report.Report, _ string) pagination.Cursor {
	return pagination.Cursor{ID: r.ID}
}

func TestCreate_IsPending(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewReportService(repo)

	resp, err := svc.Create(context.Background(), "user-1", report.CreateReportRequest{BusinessID: "biz-1", Reason: "spam"})
	require.NoError(t, err)
	assert.Equal(t, report.StatusPending, resp.Status)
	assert.Equal(t, "user-1", resp.ReporterID)

	_, err = svc.Create(context.Background(), "user-1", report.CreateReportRequest{BusinessID: "missing", Reason: "spam"})
	assert.ErrorIs(t, err, business.ErrBusinessNotFound)
}

func TestList_PassesFilters(t *testing.T) {
	repo := &fakeRepo{items: []report.Report{{ID: "r1"}, {ID: "r2"}}}
	svc := NewReportService(repo)

	page, err := svc.List(context.Background(), pagination.Request{
		PageSize: 1,
		Filters:  []pagination.Filter{pagination.Eq("status", "pending")},
	})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.True(t, page.HasNext)
	assert.Equal(t, 2, repo.query.Limit)
	assert.Equal(t, []pagination.Filter{pagination.Eq("status", "pending")}, repo.query.Filters)
}
