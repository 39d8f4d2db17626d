package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/database"
	"github.com/thikabizhub/bizhub-backend/internal/repository/postgresql"
	"github.com/thikabizhub/bizhub-backend/internal/seed"
)

var seedOpts seed.Options

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with fake users, businesses, reviews and deals",
	Long: `seed creates development data. Every seeded account uses the password
"` + seed.DefaultPassword + `". Refuses to run when APP_ENV=production.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.App.Env == "production" {
			return fmt.Errorf("refusing to seed a production database")
		}

		ctx := cmd.Context()
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return err
		}
		defer db.Close()

		seeder := seed.NewSeeder(
			postgresql.NewUserRepository(db),
			postgresql.NewBusinessRepository(db),
			postgresql.NewReviewRepository(db),
			postgresql.NewDealRepository(db),
		)
		summary, err := seeder.Run(ctx, seedOpts)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d users, %d businesses (%d approved), %d reviews, %d deals\n",
			summary.Users, summary.Businesses, summary.Approved, summary.Reviews, summary.Deals)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedOpts.Users, "users", 20, "Number of accounts")
	seedCmd.Flags().IntVar(&seedOpts.Businesses, "businesses", 40, "Number of businesses")
	seedCmd.Flags().IntVar(&seedOpts.Reviews, "reviews", 120, "Number of reviews to attempt")
	seedCmd.Flags().IntVar(&seedOpts.Deals, "deals", 10, "Number of deals")
	seedCmd.Flags().Float64Var(&seedOpts.ApprovedRatio, "approved-ratio", 0.75, "Share of businesses seeded as approved")
	seedCmd.Flags().Uint64Var(&seedOpts.Seed, "seed", 0, "Random seed, 0 picks one from the clock")
}
