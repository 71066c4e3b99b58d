package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/almaghboub/FixerUpper/internal/config"
	"github.com/almaghboub/FixerUpper/internal/handler"
	"github.com/almaghboub/FixerUpper/internal/repository"
	"github.com/almaghboub/FixerUpper/internal/service"
	"github.com/almaghboub/FixerUpper/pkg/logger"
)

type Server struct {
	httpServer *http.Server
	db         *pgxpool.Pool
	cfg        *config.Config
	log        *zap.Logger
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	db, err := repository.NewPostgresPool(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	images, err := repository.NewImageRepository(ctx, db, cfg.Database.AutoCreate, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create image repository: %w", err)
	}

	s3Repo, err := repository.NewS3Repository(&cfg.S3, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create S3 repository: %w", err)
	}

	imageService := service.NewImageService(s3Repo, images, &cfg.App, log)
	h := handler.NewHandler(imageService, cfg, log)

	server := &Server{
		httpServer: &http.Server{
			Addr:           cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:        NewRouter(h, log),
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		db:  db,
		cfg: cfg,
		log: log,
	}

	log.Info("Server created successfully",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port))

	return server, nil
}

func NewRouter(h *handler.Handler, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Gin(log))

	h.Register(router)
	return router
}

func (s *Server) Run() error {
	s.log.Info("Server is running",
		zap.String("address", s.httpServer.Addr))

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	defer s.db.Close()
	return s.httpServer.Shutdown(ctx)
}
