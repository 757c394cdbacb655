package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	campaignregistry "crowdfund/contexts/crowdfunding/campaign-registry"
	campaignpostgres "crowdfund/contexts/crowdfunding/campaign-registry/adapters/postgres"
	identitydirectory "crowdfund/contexts/crowdfunding/identity-directory"
	identitypostgres "crowdfund/contexts/crowdfunding/identity-directory/adapters/postgres"
	identityhttp "crowdfund/contexts/crowdfunding/identity-directory/transport/http"
	"crowdfund/internal/platform/config"
	"crowdfund/internal/platform/db"

	"github.com/spf13/cobra"
)

func RootCommand() *cobra.Command {
	var dsn string
	rootCmd := &cobra.Command{
		Use:           "crowdfundctl",
		Short:         "Operate the crowdfund campaign registry database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Postgres DSN (defaults to POSTGRES_DSN)")

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "create or update the registry tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pg, logger, err := connect(dsn, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer pg.Close()

			models := append(identitypostgres.Models(), campaignpostgres.Models()...)
			if err := pg.Migrate(cmd.Context(), models...); err != nil {
				return err
			}
			logger.Info("schema migrated",
				"event", "crowdfundctl_migrated",
				"module", "cmd/crowdfundctl",
				"layer", "platform",
				"models", len(models),
			)
			return nil
		},
	}
	rootCmd.AddCommand(migrate)

	register := &cobra.Command{
		Use:   "register <identity> <display-name> <contact>",
		Short: "register or re-register an identity",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, logger, err := connect(dsn, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer pg.Close()

			module := identitydirectory.NewModule(identitydirectory.Dependencies{
				Profiles: identitypostgres.NewRepository(pg.DB, logger),
				Clock:    identitypostgres.SystemClock{},
				Logger:   logger,
			})
			resp, err := module.Handler.RegisterHandler(cmd.Context(), args[0], identityhttp.RegisterRequest{
				DisplayName: args[1],
				Contact:     args[2],
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	rootCmd.AddCommand(register)

	var (
		owner    string
		page     int
		pageSize int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "page through campaigns, globally or for one owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pg, logger, err := connect(dsn, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer pg.Close()

			repo := campaignpostgres.NewRepository(pg.DB, logger)
			module := campaignregistry.NewModule(campaignregistry.Dependencies{
				Campaigns: repo,
				Reader:    repo,
				Clock:     campaignpostgres.SystemClock{},
				Logger:    logger,
			})
			resp, err := module.Handler.ListCampaignsHandler(cmd.Context(), owner, page, pageSize)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	list.Flags().StringVar(&owner, "owner", "", "only list this owner's campaigns")
	list.Flags().IntVar(&page, "page", 1, "1-based page number")
	list.Flags().IntVar(&pageSize, "page-size", 20, "page size")
	rootCmd.AddCommand(list)

	return rootCmd
}

func connect(dsn string, logOutput io.Writer) (*db.Postgres, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(dsn) == "" {
		dsn = cfg.PostgresDSN
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, errors.New("postgres dsn is required: pass --dsn or set POSTGRES_DSN")
	}

	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: cfg.LogLevel}))
	pg, err := db.Connect(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	return pg, logger, nil
}

func printJSON(out io.Writer, payload any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
