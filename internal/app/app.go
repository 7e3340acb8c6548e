package app

import (
	"net/http"

	"gorm.io/gorm"

	"family-planner-go/internal/config"
	"family-planner-go/internal/db"
	aiimportdomain "family-planner-go/internal/domain/aiimport"
	calendardomain "family-planner-go/internal/domain/calendar"
	notesdomain "family-planner-go/internal/domain/notes"
	plannerdomain "family-planner-go/internal/domain/planner"
	scheduledomain "family-planner-go/internal/domain/schedule"
	userdomain "family-planner-go/internal/domain/user"
	"family-planner-go/internal/drive"
	"family-planner-go/internal/llm"
	calendarrepo "family-planner-go/internal/repository/postgres/calendar"
	notesrepo "family-planner-go/internal/repository/postgres/notes"
	plannerrepo "family-planner-go/internal/repository/postgres/planner"
	schedulerepo "family-planner-go/internal/repository/postgres/schedule"
	userrepo "family-planner-go/internal/repository/postgres/user"
	"family-planner-go/internal/transport/httpserver"
	"family-planner-go/internal/transport/httpserver/handler"
	"family-planner-go/pkg/logger"
	"family-planner-go/pkg/token"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	retry := db.NewRetryPolicy(cfg.DB.RetryAttempts, cfg.DB.RetryBackoff)
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	users := userdomain.NewService(userrepo.NewPostgres(dbConn, retry), tokens)
	schedule := scheduledomain.NewService(schedulerepo.NewPostgres(dbConn, retry))
	planner := plannerdomain.NewService(plannerrepo.NewPostgres(dbConn, retry))
	calendar := calendardomain.NewService(calendarrepo.NewPostgres(dbConn, retry))

	driveClient := drive.NewClient(cfg.Drive, log)
	notes := notesdomain.NewService(notesrepo.NewPostgres(dbConn, retry), driveClient, cfg.Drive.RootFolderID, log)

	llmClient := llm.NewClient(cfg.LLM, log)
	importer := aiimportdomain.NewService(llmClient, schedule, parseActivities, cfg.Import.StrictUnknownParticipants, log)

	log.Info("app: initializing router")
	handlers := handler.New(users, schedule, planner, calendar, notes, importer, log)
	router := httpserver.NewRouter(cfg, handlers, tokens, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func parseActivities(text string) ([]aiimportdomain.RawActivity, error) {
	items, err := llm.ParseActivityArray(text)
	if err != nil {
		return nil, err
	}
	return aiimportdomain.DecodeRawActivities(items), nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
