package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/hugohenrick/vex-core/docs"
	"github.com/hugohenrick/vex-core/internal/adapter/api/controller"
	"github.com/hugohenrick/vex-core/internal/adapter/api/route"
	"github.com/hugohenrick/vex-core/internal/adapter/repository"
	"github.com/hugohenrick/vex-core/internal/adapter/repository/memory"
	"github.com/hugohenrick/vex-core/internal/config"
	domain "github.com/hugohenrick/vex-core/internal/domain/assistant"
	"github.com/hugohenrick/vex-core/internal/domain/invitation"
	"github.com/hugohenrick/vex-core/internal/domain/module"
	"github.com/hugohenrick/vex-core/internal/domain/passwordreset"
	"github.com/hugohenrick/vex-core/internal/domain/setting"
	"github.com/hugohenrick/vex-core/internal/domain/user"
	"github.com/hugohenrick/vex-core/internal/infrastructure/database"
	"github.com/hugohenrick/vex-core/internal/infrastructure/metrics"
	"github.com/hugohenrick/vex-core/internal/infrastructure/telemetry"
	"github.com/hugohenrick/vex-core/pkg/assistant"
	"github.com/hugohenrick/vex-core/pkg/assistant/audit"
	"github.com/hugohenrick/vex-core/pkg/assistant/dialogue"
	"github.com/hugohenrick/vex-core/pkg/assistant/policy"
	"github.com/hugohenrick/vex-core/pkg/assistant/remote"
	"github.com/hugohenrick/vex-core/pkg/assistant/summary"
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
	"github.com/hugohenrick/vex-core/pkg/assistant/toolkit"
	"github.com/hugohenrick/vex-core/pkg/assistant/tools/core"
	"github.com/hugohenrick/vex-core/pkg/assistant/tools/crm"
	"github.com/hugohenrick/vex-core/pkg/assistant/tools/stock"
	"github.com/hugohenrick/vex-core/pkg/auth"
	"github.com/hugohenrick/vex-core/pkg/logger"
)

// stores reúne os repositórios do driver escolhido
type stores struct {
	questions     domain.QuestionRepository
	confirmations domain.ConfirmationRepository
	audit         domain.AuditRepository
	users         user.Repository
	invites       invitation.Repository
	resets        passwordreset.Repository
	modules       module.Repository
	settings      setting.Repository
	pinger        controller.Pinger
}

// App representa a aplicação e suas dependências
type App struct {
	cfg      *config.Config
	log      logger.Logger
	router   *gin.Engine
	db       *pgxpool.Pool
	shutdown telemetry.Shutdown
}

// NewApp cria uma nova instância do aplicativo
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	app := &App{cfg: cfg, log: log}

	shutdown, err := telemetry.Setup(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	app.shutdown = shutdown

	st, err := app.openStores(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	manager, err := buildManager(cfg, log, st, metrics.New(prometheus.DefaultRegisterer))
	if err != nil {
		app.Close()
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.JWTSecret, 0)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.router = newRouter(cfg, log, routeDeps{
		assistant: controller.NewAssistantController(manager, log),
		modules:   controller.NewModuleController(st.modules, log),
		health:    controller.NewHealthController(st.pinger),
		jwt:       jwtService,
		gate:      policy.NewGate(cfg.Superadmins),
		limiter:   auth.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst),
	})
	return app, nil
}

// openStores abre o driver configurado. Em postgres aplica as migrações quando
// habilitado e detecta as colunas opcionais uma única vez.
func (a *App) openStores(ctx context.Context) (*stores, error) {
	if a.cfg.Store == config.StoreMemory {
		a.log.Warn("Usando armazenamento em memória; o estado não sobrevive a reinícios")
		return &stores{
			questions:     memory.NewQuestionRepository(),
			confirmations: memory.NewConfirmationRepository(),
			audit:         memory.NewAuditRepository(),
			users:         memory.NewUserRepository(),
			invites:       memory.NewInvitationRepository(),
			resets:        memory.NewPasswordResetRepository(),
			modules:       memory.NewModuleRepository(),
			settings:      memory.NewSettingRepository(),
		}, nil
	}

	dbCfg := database.NewPostgresConfigFromEnv()
	if a.cfg.AutoMigrate {
		if err := database.RunMigrations(dbCfg.MigrationURL(), a.cfg.MigrationsDir, a.log); err != nil {
			return nil, err
		}
	}

	pool, err := database.NewPostgresDB(ctx, dbCfg)
	if err != nil {
		return nil, err
	}
	a.db = pool

	caps, err := database.ProbeCapabilities(ctx, pool)
	if err != nil {
		return nil, err
	}
	a.log.Info("Banco de dados conectado", "invitation_resent_at", caps.InvitationResentAt)

	return &stores{
		questions:     repository.NewQuestionRepository(pool),
		confirmations: repository.NewConfirmationRepository(pool),
		audit:         repository.NewAuditRepository(pool),
		users:         repository.NewUserRepository(pool),
		invites:       repository.NewInvitationRepository(pool, caps.InvitationResentAt),
		resets:        repository.NewPasswordResetRepository(pool),
		modules:       repository.NewModuleRepository(pool),
		settings:      repository.NewSettingRepository(pool),
		pinger:        pool,
	}, nil
}

// buildManager registra as ferramentas e monta o orquestrador
func buildManager(cfg *config.Config, log logger.Logger, st *stores, m *metrics.Assistant) (*assistant.Manager, error) {
	backend := &toolkit.Backend{
		Resolver: remote.NewLocator(st.settings, log),
		Client:   remote.NewClient(cfg.RemoteTimeout).WithObserver(m.ObserveRemote),
		Debug:    cfg.Debug,
	}

	coreTools := core.New(st.users, st.invites, st.resets, core.NewNotifier(cfg.RemoteTimeout), core.Config{
		InviteWebhookURL:    cfg.InviteWebhookURL,
		InviteWebhookSecret: cfg.InviteWebhookSecret,
		ResetWebhookURL:     cfg.ResetWebhookURL,
		ResetWebhookSecret:  cfg.ResetWebhookSecret,
		ResetURLBase:        cfg.ResetURLBase,
		ResetTTL:            cfg.ResetTTL(),
	}, log)

	var descriptors []tool.Descriptor
	descriptors = append(descriptors, coreTools.Descriptors()...)
	descriptors = append(descriptors, crm.New(backend).Descriptors()...)
	descriptors = append(descriptors, stock.New(backend).Descriptors()...)

	registry, err := tool.NewRegistry(descriptors...)
	if err != nil {
		return nil, err
	}
	if err := registry.RequireAll(tool.AllNames); err != nil {
		return nil, err
	}

	return assistant.NewManager(assistant.Deps{
		Registry: registry,
		Gate:     policy.NewGate(cfg.Superadmins),
		Dialogue: dialogue.New(st.questions, st.confirmations, dialogue.Config{
			ConfirmTTL:  cfg.ConfirmTTL(),
			QuestionTTL: cfg.QuestionTTL(),
		}),
		Audit:     audit.NewWriter(st.audit, cfg.AuditMaxLen, log),
		Modules:   module.NewChecker(st.modules),
		Summaries: summary.NewService(backend, log),
		Logger:    log,
		Recorder:  m,
		Debug:     cfg.Debug,
	})
}

type routeDeps struct {
	assistant *controller.AssistantController
	modules   *controller.ModuleController
	health    *controller.HealthController
	jwt       *auth.JWTService
	gate      *policy.Gate
	limiter   *auth.RateLimiter
}

func newRouter(cfg *config.Config, log logger.Logger, d routeDeps) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	docs.SwaggerInfo.BasePath = cfg.BasePath

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-ID")
	corsCfg.ExposeHeaders = []string{"X-Request-ID"}
	if len(cfg.CORSOrigins) == 0 || (len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}
	router.Use(cors.New(corsCfg))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group(cfg.BasePath)
	route.SetupHealthRoutes(api, d.health)
	route.SetupAssistantRoutes(api, d.assistant, d.jwt, d.limiter)
	route.SetupModuleRoutes(api, d.modules, d.jwt, d.gate)

	return router
}

// requestLogger registra cada requisição no logger estruturado
func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if strings.HasPrefix(c.Request.URL.Path, "/metrics") {
			return
		}
		log.Debug("Requisição HTTP",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed_ms", time.Since(start).Milliseconds())
	}
}

// Run inicia o servidor e encerra com graceful shutdown quando ctx é cancelado
func (a *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Servidor HTTP iniciado", "addr", a.cfg.Addr(), "store", a.cfg.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("erro no servidor HTTP: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		a.log.Info("Encerrando servidor HTTP")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// Router retorna o router da aplicação
func (a *App) Router() *gin.Engine {
	return a.router
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.shutdown(ctx); err != nil {
			a.log.Warn("Erro ao encerrar telemetria", "error", err.Error())
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
