package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/hugohenrick/vex-core/internal/config"
	"github.com/hugohenrick/vex-core/pkg/logger"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Erro ao criar logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Criar aplicação
	app, err := NewApp(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Erro ao iniciar aplicação", "error", err.Error())
		os.Exit(1)
	}
	defer app.Close()

	// Iniciar o servidor
	if err := app.Run(ctx); err != nil {
		appLogger.Error("Servidor encerrado com erro", "error", err.Error())
		os.Exit(1)
	}
	appLogger.Info("Servidor encerrado")
}
