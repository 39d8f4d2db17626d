package report

import (
	"context"
	"strings"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/validator"
)

type CreateReportRequest struct {
	BusinessID  string `json:"business_id"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

func (r *CreateReportRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Reason = strings.ToLower(strings.TrimSpace(r.Reason))
	r.Description = strings.TrimSpace(r.Description)

	if validator.IsEmpty(r.BusinessID) {
		errs.Add("business_id", "business_id is required")
	} else if !validator.IsValidUUID(r.BusinessID) {
		errs.Add("business_id", "business_id must be a valid UUID")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if !validator.IsInSlice(r.Reason, Reasons) {
		errs.Add("reason", "reason must be one of: "+strings.Join(Reasons, ", "))
	}
	if len(r.Description) > 1000 {
		errs.Add("description", "description must not exceed 1000 characters")
	}

	return errs.Err()
}

type ReportResponse struct {
	ID            string    `json:"id"`
	BusinessID    string    `json:"business_id"`
	BusinessName  string    `json:"business_name,omitempty"`
	ReporterID    string    `json:"reporter_id"`
	ReporterEmail string    `json:"reporter_email,omitempty"`
	Reason        string    `json:"reason"`
	Description   string    `json:"description,omitempty"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewReportResponse(r Report) ReportResponse {
	return ReportResponse{
		ID:            r.ID,
		BusinessID:    r.BusinessID,
		BusinessName:  r.BusinessName,
		ReporterID:    r.ReporterID,
		ReporterEmail: r.ReporterEmail,
		Reason:        r.Reason,
		Description:   r.Description,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
	}
}

type ReportService interface {
	Create(ctx context.Context, reporterID string, req CreateReportRequest) (ReportResponse, error)
	List(ctx context.Context, req pagination.Request) (pagination.Page[ReportResponse], error)
}
