// barberctl runs maintenance tasks against the barbershop database.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"barberia/internal/config"
	"barberia/internal/infra"
	"barberia/internal/repository"
	"barberia/internal/service"
	"barberia/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	adminNombre   string
	adminEmail    string
	adminPassword string
)

var rootCmd = &cobra.Command{
	Use:   "barberctl",
	Short: "Barberia admin tooling",
	Long:  `Migrations, seeding, password hashing and e-mail DLQ maintenance for the barbershop console.`,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and seed the built-in roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := abrirDB()
		if err != nil {
			return err
		}
		if err := infra.RunMigrations(db); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		if err := service.SembrarRoles(cmd.Context(), repository.NewStore(db)); err != nil {
			return fmt.Errorf("roles: %w", err)
		}
		log.Info().Msg("schema up to date")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the bootstrap administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := abrirDB()
		if err != nil {
			return err
		}
		store := repository.NewStore(db)
		if err := service.SembrarRoles(cmd.Context(), store); err != nil {
			return fmt.Errorf("roles: %w", err)
		}
		creado, err := service.SembrarAdministrador(cmd.Context(), store, adminNombre, adminEmail, adminPassword)
		if err != nil {
			return err
		}
		if creado {
			log.Info().Str("email", adminEmail).Msg("administrator created")
		} else {
			log.Info().Str("email", adminEmail).Msg("administrator password reset")
		}
		return nil
	},
}

var hashCmd = &cobra.Command{
	Use:   "hash <password>",
	Short: "Print the bcrypt hash of a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := service.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), h)
		return nil
	},
}

var dlqLimite int64

var dlqCmd = &cobra.Command{
	Use:   "dlq",
	Short: "Inspect or replay dead e-mail jobs",
}

var dlqListarCmd = &cobra.Command{
	Use:   "listar",
	Short: "Print the newest dead e-mail jobs as JSON lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		rdb, err := abrirRedis()
		if err != nil {
			return err
		}
		defer rdb.Close()
		entradas, err := worker.ListarDLQ(cmd.Context(), rdb, worker.QueueEmail, dlqLimite)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, e := range entradas {
			if err := enc.Encode(e); err != nil {
				return err
			}
		}
		log.Info().Int("entradas", len(entradas)).Msg("dlq listed")
		return nil
	},
}

var dlqReencolarCmd = &cobra.Command{
	Use:   "reencolar",
	Short: "Move every dead e-mail job back to the live queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		rdb, err := abrirRedis()
		if err != nil {
			return err
		}
		defer rdb.Close()
		movidos, err := worker.ReencolarDLQ(cmd.Context(), rdb, worker.QueueEmail)
		if err != nil {
			return err
		}
		log.Info().Int("movidos", movidos).Msg("dlq replayed")
		return nil
	},
}

func abrirRedis() (*redis.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL no configurada")
	}
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return rdb, nil
}

func abrirDB() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("database (%s): %w", cfg.DBDriver, err)
	}
	return db, nil
}

func init() {
	seedCmd.Flags().StringVar(&adminNombre, "nombre", "Administrador", "Display name of the account")
	seedCmd.Flags().StringVar(&adminEmail, "email", "admin@barberia.local", "Login e-mail")
	seedCmd.Flags().StringVar(&adminPassword, "password", "", "Login password (min 8 characters)")
	_ = seedCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(hashCmd)

	dlqListarCmd.Flags().Int64Var(&dlqLimite, "limite", 50, "Maximum entries to print")
	dlqCmd.AddCommand(dlqListarCmd, dlqReencolarCmd)
	rootCmd.AddCommand(dlqCmd)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
