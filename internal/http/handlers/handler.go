package handlers

import (
	"dinehall-pos-services/internal/config"
	"dinehall-pos-services/internal/queue"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Handler struct {
	DB     *pgxpool.Pool
	Logger *zap.Logger
	Config config.Config
	Queue  *queue.Client
}
