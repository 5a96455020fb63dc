package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hugohenrick/vex-core/internal/infrastructure/database"
	"github.com/hugohenrick/vex-core/pkg/logger"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var dir string

	root := &cobra.Command{
		Use:          "migration",
		Short:        "Aplica ou desfaz as migrações do banco",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&dir, "dir", database.DefaultMigrationsDir, "diretório das migrações")

	root.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica todas as migrações pendentes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbURL := database.NewPostgresConfigFromEnv().MigrationURL()
			return database.RunMigrations(dbURL, dir, logger.NewLogger())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "down [passos]",
		Short: "Desfaz as últimas migrações (padrão 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("número de passos inválido: %q", args[0])
				}
				steps = n
			}
			dbURL := database.NewPostgresConfigFromEnv().MigrationURL()
			return database.RollbackMigrations(dbURL, dir, steps, logger.NewLogger())
		},
	})

	return root
}
