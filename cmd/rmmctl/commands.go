package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ratemymusic/rmm-api/internal/app"
	"github.com/ratemymusic/rmm-api/internal/config"
	"github.com/ratemymusic/rmm-api/internal/logger"
	"github.com/ratemymusic/rmm-api/internal/seed"
	"github.com/ratemymusic/rmm-api/internal/store"
)

// cli holds what every subcommand needs once the root command has run.
type cli struct {
	cfg    *config.Config
	log    *logger.Logger
	driver string
	dsn    string
}

func newRootCommand() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "rmmctl",
		Short:         "Administer a RateMyMusic database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.cfg = config.Load()
			if c.driver != "" {
				c.cfg.DBDriver = c.driver
			}
			if c.dsn != "" {
				c.cfg.DBDSN = c.dsn
			}
			if err := c.cfg.Validate(); err != nil {
				return err
			}
			c.log = logger.NewWithWriter(logger.Config{Level: c.cfg.LogLevel, Format: c.cfg.LogFormat}, cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.driver, "driver", "", "database driver (sqlite or postgres), overrides DB_DRIVER")
	root.PersistentFlags().StringVar(&c.dsn, "dsn", "", "database DSN, overrides DB_DSN")

	root.AddCommand(c.newMigrateCommand())
	root.AddCommand(c.newGenresCommand())
	root.AddCommand(c.newUsersCommand())
	return root
}

func (c *cli) open() (*store.DB, *app.Services, error) {
	db, err := store.Open(c.cfg.DBDriver, c.cfg.DBDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return db, app.NewServices(db, app.NewPasswordHasher(c.cfg.PasswordIterations), c.log), nil
}

func (c *cli) newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema and seed the deleted-account rater",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := c.open()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date (%s).\n", db.Driver())
			return nil
		},
	}
}

func (c *cli) newGenresCommand() *cobra.Command {
	genres := &cobra.Command{
		Use:   "genres",
		Short: "Manage the genre catalogue",
	}

	var file string
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert missing genres from a YAML file",
		Example: `  rmmctl genres seed                      # embedded default list
  rmmctl genres seed --file genres.yaml   # custom list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := seed.LoadGenres(file)
			if err != nil {
				return err
			}
			db, services, err := c.open()
			if err != nil {
				return err
			}
			defer db.Close()

			added, err := services.Genres.Seed(cmd.Context(), names)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d of %d genres.\n", added, len(names))
			return nil
		},
	}
	seedCmd.Flags().StringVarP(&file, "file", "f", "", "YAML genre list (defaults to the embedded list)")

	genres.AddCommand(seedCmd)
	return genres
}

func (c *cli) newUsersCommand() *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}
	users.AddCommand(&cobra.Command{
		Use:   "delete <username>",
		Short: "Delete an account, handing its content to the deleted-account rater",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, services, err := c.open()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := services.Auth.DeleteUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s.\n", args[0])
			return nil
		},
	})
	return users
}
