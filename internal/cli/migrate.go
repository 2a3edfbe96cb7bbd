package cli

import (
	"github.com/spf13/cobra"

	"github.com/qs-lzh/movie-booking/internal/database"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
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
			logger.Info("schema migrated")
			return nil
		},
	}
}
