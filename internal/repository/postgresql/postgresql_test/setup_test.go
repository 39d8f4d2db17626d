package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thikabizhub/bizhub-backend/internal/domain/business"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/database"
	"github.com/thikabizhub/bizhub-backend/internal/repository/postgresql"
)

var tables = []string{
	"notifications",
	"referrals",
	"invites",
	"proofs",
	"deals",
	"reports",
	"reviews",
	"favorites",
	"businesses",
	"refresh_tokens",
	"users",
}

// newTestDB connects to TEST_DATABASE_URL, migrates it and empties every
// table. Tests are skipped when the variable is not set.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	require.NoError(t, database.MigrateUp("pgx5"+strings.TrimPrefix(dsn, "postgres")))

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", ")))
	require.NoError(t, err)
	return db
}

func createUser(t *testing.T, db *database.DB, email string) user.User {
	t.Helper()
	hash := "$2a$10$abcdefghijklmnopqrstuv"
	u, err := postgresql.NewUserRepository(db).Create(context.Background(), user.User{
		Email:        email,
		PasswordHash: &hash,
		DisplayName:  strings.Split(email, "@")[0],
		Role:         user.RoleUser,
	})
	require.NoError(t, err)
	return u
}

func createBusiness(t *testing.T, db *database.DB, ownerID, name string) business.Business {
	t.Helper()
	b, err := postgresql.NewBusinessRepository(db).Create(context.Background(), business.Business{
		OwnerID:  ownerID,
		Name:     name,
		Category: "Salon",
		County:   "Kiambu",
		Town:     "Thika",
	})
	require.NoError(t, err)
	return b
}
