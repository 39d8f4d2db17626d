package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/database"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
)

const userColumns = `id, email, password_hash, display_name, phone, role, oauth_provider, oauth_provider_id,
	business_role, invited_to_business, joined_business_at, invited_by, joined_via_invite,
	referral_code, used_referral_code, referred_by, created_at, updated_at`

var userKeyset = keyset{
	from:    "users",
	selects: userColumns,
	idExpr:  "id",
	columns: map[string]column{
		"created_at":   {expr: "created_at", pgType: "timestamptz", orderable: true},
		"email":        {expr: "email", pgType: "text", orderable: true},
		"display_name": {expr: "display_name", pgType: "text", orderable: true},
		"role":         {expr: "role", pgType: "text"},
	},
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.DisplayName,
		&u.Phone,
		&u.Role,
		&u.OAuthProvider,
		&u.OAuthProviderID,
		&u.BusinessRole,
		&u.InvitedToBusiness,
		&u.JoinedBusinessAt,
		&u.InvitedBy,
		&u.JoinedViaInvite,
		&u.ReferralCode,
		&u.UsedReferralCode,
		&u.ReferredBy,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) queryOne(ctx context.Context, query string, args ...any) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	u, err := scanUser(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	query := `
		INSERT INTO users (email, password_hash, display_name, phone, role, oauth_provider, oauth_provider_id)
		VALUES (lower($1), $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	created, err := r.queryOne(ctx, query,
		newUser.Email,
		newUser.PasswordHash,
		newUser.DisplayName,
		newUser.Phone,
		newUser.Role,
		newUser.OAuthProvider,
		newUser.OAuthProviderID,
	)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *userRepositoryImpl) GetByReferralCode(ctx context.Context, code string) (user.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE referral_code = $1`, code)
}

func (r *userRepositoryImpl) CountAll(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)
	var n int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *userRepositoryImpl) UpdateProfile(ctx context.Context, id string, req user.UpdateProfileRequest) (user.User, error) {
	query := `
		UPDATE users
		SET display_name = COALESCE($2, display_name),
		    phone = CASE WHEN $3::text IS NULL THEN phone ELSE NULLIF($3::text, '') END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return r.queryOne(ctx, query, id, req.DisplayName, req.Phone)
}

func (r *userRepositoryImpl) exec(ctx context.Context, query string, args ...any) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *userRepositoryImpl) UpdateRole(ctx context.Context, id string, role user.Role) error {
	return r.exec(ctx, `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`, id, role)
}

func (r *userRepositoryImpl) LinkGoogleAccount(ctx context.Context, id, googleID string) (user.User, error) {
	query := `
		UPDATE users
		SET oauth_provider = 'google', oauth_provider_id = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return r.queryOne(ctx, query, id, googleID)
}

func (r *userRepositoryImpl) AssignReferralCode(ctx context.Context, id, code string) (string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET referral_code = COALESCE(referral_code, $2), updated_at = NOW()
		WHERE id = $1
		RETURNING referral_code
	`
	var assigned string
	err := q.QueryRow(ctx, query, id, code).Scan(&assigned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", user.ErrUserNotFound
		}
		if isUniqueViolation(err, "users_referral_code_key") {
			return "", user.ErrReferralCodeTaken
		}
		return "", fmt.Errorf("assign referral code: %w", err)
	}
	return assigned, nil
}

func (r *userRepositoryImpl) SetReferredBy(ctx context.Context, id, referrerID, code string) error {
	return r.exec(ctx, `
		UPDATE users
		SET referred_by = $2, used_referral_code = $3, updated_at = NOW()
		WHERE id = $1`, id, referrerID, code)
}

func (r *userRepositoryImpl) GrantBusinessRole(ctx context.Context, id, businessName string, at time.Time) error {
	return r.exec(ctx, `
		UPDATE users
		SET business_role = $2, invited_to_business = $3, joined_business_at = $4, updated_at = NOW()
		WHERE id = $1`, id, user.BusinessRoleMember, businessName, at)
}

func (r *userRepositoryImpl) MarkJoinedViaInvite(ctx context.Context, id, inviterID string) error {
	return r.exec(ctx, `
		UPDATE users
		SET joined_via_invite = TRUE, invited_by = $2, updated_at = NOW()
		WHERE id = $1`, id, inviterID)
}

func (r *userRepositoryImpl) Fetch(ctx context.Context, q pagination.Query) ([]user.User, error) {
	return fetchPage(ctx, GetQuerier(ctx, r.db), userKeyset, q, scanUser)
}

func (r *userRepositoryImpl) Count(ctx context.Context, filters []pagination.Filter) (int64, error) {
	return countRows(ctx, GetQuerier(ctx, r.db), userKeyset, filters)
}

func (r *userRepositoryImpl) CursorOf(u user.User, orderField string) pagination.Cursor {
	switch orderField {
	case "email":
		return pagination.Cursor{Value: u.Email, ID: u.ID}
	case "display_name":
		return pagination.Cursor{Value: u.DisplayName, ID: u.ID}
	default:
		return pagination.Cursor{Value: timeCursor(u.CreatedAt), ID: u.ID}
	}
}
