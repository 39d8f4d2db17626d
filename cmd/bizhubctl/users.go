package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/database"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/validator"
	"github.com/thikabizhub/bizhub-backend/internal/repository/postgresql"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var setRoleCmd = &cobra.Command{
	Use:     "set-role <email> <user|admin>",
	Short:   "Change the platform role of an account",
	Example: "  bizhubctl users set-role owner@example.com admin",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := validator.NormalizeEmail(args[0])
		role := user.Role(args[1])
		if !role.Valid() {
			return user.ErrInvalidRole
		}

		ctx := cmd.Context()
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return err
		}
		defer db.Close()

		users := postgresql.NewUserRepository(db)
		u, err := users.GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("%s: %w", email, err)
		}
		if u.Role == role {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already has role %s\n", email, role)
			return nil
		}
		if err := users.UpdateRole(ctx, u.ID, role); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", email, u.Role, role)
		return nil
	},
}

func init() {
	usersCmd.AddCommand(setRoleCmd)
}
