package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/thikabizhub/bizhub-backend/internal/domain/auth"
	"github.com/thikabizhub/bizhub-backend/internal/domain/business"
	"github.com/thikabizhub/bizhub-backend/internal/domain/deal"
	"github.com/thikabizhub/bizhub-backend/internal/domain/invite"
	"github.com/thikabizhub/bizhub-backend/internal/domain/notification"
	"github.com/thikabizhub/bizhub-backend/internal/domain/proof"
	"github.com/thikabizhub/bizhub-backend/internal/domain/referral"
	"github.com/thikabizhub/bizhub-backend/internal/domain/review"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/oauth"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/storage"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRefreshTokenRevoked),
		errors.Is(err, auth.ErrInvalidOAuthState):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrPasswordLoginNotSet):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, auth.ErrGoogleLoginDisabled):
		NotFound(w, err.Error())
	case errors.Is(err, oauth.ErrEmailNotVerified):
		Forbidden(w, err.Error())

	// Users
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, err.Error())
	case errors.Is(err, user.ErrAdminPrivilegeNeeded):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrCannotChangeOwnRole),
		errors.Is(err, user.ErrInvalidRole):
		BadRequest(w, err.Error(), nil)

	// Invites
	case errors.Is(err, invite.ErrInviteNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, invite.ErrInviteExpired):
		DomainError(w, "EXPIRED", err.Error())
	case errors.Is(err, invite.ErrAlreadyProcessed):
		DomainError(w, "ALREADY_PROCESSED", err.Error())
	case errors.Is(err, invite.ErrDuplicateInvite):
		DomainError(w, "DUPLICATE_INVITE", err.Error())
	case errors.Is(err, invite.ErrEmailMismatch):
		DomainError(w, "EMAIL_MISMATCH", err.Error())
	case errors.Is(err, invite.ErrCannotInviteSelf):
		BadRequest(w, err.Error(), nil)

	// Referrals
	case errors.Is(err, referral.ErrInvalidCode):
		DomainError(w, "INVALID_CODE", err.Error())
	case errors.Is(err, referral.ErrAlreadyReferred):
		DomainError(w, "ALREADY_REFERRED", err.Error())
	case errors.Is(err, referral.ErrSelfReferral):
		DomainError(w, "SELF_REFERRAL", err.Error())

	// Directory
	case errors.Is(err, business.ErrBusinessNotFound),
		errors.Is(err, deal.ErrDealNotFound),
		errors.Is(err, proof.ErrProofNotFound),
		errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, business.ErrNotOwner):
		Forbidden(w, err.Error())
	case errors.Is(err, business.ErrAlreadyApproved),
		errors.Is(err, proof.ErrAlreadyApproved):
		DomainError(w, "ALREADY_PROCESSED", err.Error())
	case errors.Is(err, review.ErrAlreadyReviewed):
		Conflict(w, err.Error())
	case errors.Is(err, business.ErrTooManyImages),
		errors.Is(err, proof.ErrImageRequired),
		errors.Is(err, storage.ErrUnsupportedContent):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, proof.ErrImageTooLarge):
		RequestEntityTooLarge(w, err.Error())

	// Pagination
	case errors.Is(err, pagination.ErrInvalidPageSize),
		errors.Is(err, pagination.ErrInvalidCursor),
		errors.Is(err, pagination.ErrInvalidDirection),
		errors.Is(err, pagination.ErrInvalidOperator),
		errors.Is(err, pagination.ErrUnknownField):
		BadRequest(w, err.Error(), nil)

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
