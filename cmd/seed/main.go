package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/ajo-backend/internal/audit"
	"github.com/BruksfildServices01/ajo-backend/internal/config"
	dbpkg "github.com/BruksfildServices01/ajo-backend/internal/db"
	"github.com/BruksfildServices01/ajo-backend/internal/domain/access"
	domainUser "github.com/BruksfildServices01/ajo-backend/internal/domain/user"
	infraRepo "github.com/BruksfildServices01/ajo-backend/internal/infra/repository"
	"github.com/BruksfildServices01/ajo-backend/internal/logger"
	ucUser "github.com/BruksfildServices01/ajo-backend/internal/usecase/user"
)

var (
	adminName     string
	adminUsername string
	adminEmail    string
	adminPassword string
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the roles and the first admin account",
	Long: `seed migrates the schema, inserts the fixed roles and creates the
primordial admin user. Running it again leaves an existing admin untouched.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&adminName, "name", "Administrator", "admin display name")
	rootCmd.Flags().StringVar(&adminUsername, "username", "admin", "admin username")
	rootCmd.Flags().StringVar(&adminEmail, "email", "admin@ajo.local", "admin email")
	rootCmd.Flags().StringVar(&adminPassword, "password", "", "admin password (required)")
	_ = rootCmd.MarkFlagRequired("password")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})
	roles := access.DefaultRoles()

	db, err := dbpkg.NewDB(cfg, roles)
	if err != nil {
		return err
	}

	adminRoleID, ok := roles.ID(access.RoleAdmin)
	if !ok {
		return errors.New("admin role missing from role map")
	}

	repo := infraRepo.NewUserGormRepository(db)
	ctx := cmd.Context()

	existing, err := repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(adminEmail)))
	switch {
	case err == nil:
		log.Info().Uint("user_id", existing.ID).Msg("admin already present")
		return nil
	case !errors.Is(err, domainUser.ErrNotFound):
		return err
	}

	create := ucUser.NewCreateUser(repo, audit.New(repo.AuditLogs(), log))
	u, err := create.Execute(ctx, ucUser.CreateInput{
		Name:     adminName,
		Username: adminUsername,
		Email:    adminEmail,
		Password: adminPassword,
		RoleID:   adminRoleID,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	log.Info().Uint("user_id", u.ID).Str("email", u.Email).Msg("admin created")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
