package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qs-lzh/movie-booking/internal/database"
	"github.com/qs-lzh/movie-booking/internal/seed"
)

func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the starter catalog and the admin account if missing",
		Long: `Insert the starter catalog when the movies table is empty and create the
"admin" user with ADMIN_PASSWORD when it does not exist. Running it again
inserts nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(rootOpts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := openDatabase(cfg, logger)
			if err != nil {
				return err
			}
			defer closeDatabase(db, logger)

			if err := database.Migrate(db); err != nil {
				return err
			}
			res, err := seed.Run(cmd.Context(), db, cfg.AdminPassword, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "movies inserted: %d, admin created: %t\n", res.MoviesInserted, res.AdminCreated)
			return nil
		},
	}
}
