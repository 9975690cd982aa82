package handlers

import (
	"log/slog"

	"linkforge/internal/config"
	"linkforge/internal/services"
)

type Handler struct {
	cfg          config.Config
	logger       *slog.Logger
	authService  *services.AuthService
	tokenService *services.TokenService
	linkService  *services.LinkService
	auditService *services.AuditService
	qrService    *services.QRService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	authService *services.AuthService,
	tokenService *services.TokenService,
	linkService *services.LinkService,
	auditService *services.AuditService,
	qrService *services.QRService,
) *Handler {
	return &Handler{
		cfg:          cfg,
		logger:       logger,
		authService:  authService,
		tokenService: tokenService,
		linkService:  linkService,
		auditService: auditService,
		qrService:    qrService,
	}
}
