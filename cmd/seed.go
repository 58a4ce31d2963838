package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Dosada05/tournament-manager/config"
	"github.com/Dosada05/tournament-manager/db"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/services"
)

var demoTeams = []string{"Lions", "Tigers", "Eagles", "Wolves"}

func seedCmd(logger *slog.Logger) *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the admin account and optionally a demo league",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.StorageDriver != config.StorageDriverPostgres {
				return fmt.Errorf("seed requires STORAGE_DRIVER=%s", config.StorageDriverPostgres)
			}
			if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
				return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD are required")
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := db.Migrate(ctx, a.db, logger); err != nil {
				return err
			}

			admin, err := a.authService.RegisterAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
			if err != nil {
				return fmt.Errorf("failed to seed admin: %w", err)
			}
			logger.Info("admin seeded", slog.Int("user_id", admin.ID), slog.String("email", admin.Email))
			if !demo {
				return nil
			}

			tournament, err := a.tournamentService.CreateTournament(ctx, services.CreateTournamentInput{Name: "Demo League"})
			if err != nil {
				return fmt.Errorf("failed to seed tournament: %w", err)
			}
			actor := services.Actor{UserID: admin.ID, Role: models.RoleAdmin}
			for i, name := range demoTeams {
				_, err := a.teamService.CreateTeam(ctx, actor, tournament.ID, services.CreateTeamInput{
					Name:         name,
					ManagerName:  name + " Manager",
					ManagerEmail: fmt.Sprintf("manager%d@demo.local", i+1),
				})
				if err != nil {
					return fmt.Errorf("failed to seed team %s: %w", name, err)
				}
			}
			logger.Info("demo league seeded", slog.Int("tournament_id", tournament.ID), slog.Int("teams", len(demoTeams)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "Also create a demo tournament with four teams")
	return cmd
}
