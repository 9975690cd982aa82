package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"linkforge/internal/models"

	"github.com/mssola/user_agent"
	"gorm.io/gorm"
)

const (
	ActionSignup      = "SIGNUP"
	ActionLogin       = "LOGIN"
	ActionRegister    = "REGISTER"
	ActionConvertLink = "CONVERT_LINK"
	ActionCreateAlias = "CREATE_ALIAS"
	ActionUpdateLink  = "UPDATE_LINK"
	ActionDeleteLink  = "DELETE_LINK"
)

const (
	auditBufferSize = 100
	maxClientLength = 150
)

// AuditService records account and link actions off the request path.
type AuditService struct {
	db      *gorm.DB
	logger  *slog.Logger
	geoIP   *GeoIPService
	entries chan models.AuditLog
}

func NewAuditService(db *gorm.DB, logger *slog.Logger, geoIP *GeoIPService) *AuditService {
	return &AuditService{
		db:      db,
		logger:  logger,
		geoIP:   geoIP,
		entries: make(chan models.AuditLog, auditBufferSize),
	}
}

// Start drains queued entries until ctx is cancelled.
func (s *AuditService) Start(ctx context.Context) {
	s.logger.Info("Audit worker starting")
	for {
		select {
		case entry := <-s.entries:
			s.enrich(&entry)
			if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
				s.logger.Error("Failed to write audit log", "action", entry.Action, "error", err)
			}
		case <-ctx.Done():
			s.logger.Info("Audit worker stopping")
			return
		}
	}
}

// LogAction queues an entry. It never blocks; entries are dropped when the
// buffer is full.
func (s *AuditService) LogAction(userID *uint, action, entityID string, details interface{}, ip, userAgent string) {
	var detailStr string
	if details != nil {
		detailBytes, err := json.Marshal(details)
		if err != nil {
			s.logger.Warn("Failed to encode audit details", "action", action, "error", err)
		}
		detailStr = string(detailBytes)
	}

	entry := models.AuditLog{
		UserID:    userID,
		Action:    action,
		EntityID:  entityID,
		Details:   detailStr,
		IPAddress: ip,
		UserAgent: userAgent,
		Timestamp: time.Now(),
	}

	select {
	case s.entries <- entry:
	default:
		s.logger.Warn("Audit channel full, dropping log", "action", action)
	}
}

func (s *AuditService) enrich(entry *models.AuditLog) {
	entry.Client = describeClient(entry.UserAgent)
	if s.geoIP != nil {
		entry.Country = s.geoIP.Country(entry.IPAddress)
	}
	if entry.Country == "" {
		entry.Country = "Unknown"
	}
}

// describeClient renders a user agent as "<browser> <version> / <os>".
func describeClient(raw string) string {
	if raw == "" {
		return ""
	}
	ua := user_agent.New(raw)
	if ua.Bot() {
		name, _ := ua.Browser()
		return "Bot " + name
	}
	name, version := ua.Browser()
	client := strings.TrimSpace(name + " " + version)
	if os := ua.OS(); os != "" {
		client += " / " + os
	}
	return truncateUTF8(client, maxClientLength)
}

// truncateUTF8 cuts s to at most limit bytes without splitting a rune.
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for i := limit; i > 0; i-- {
		if utf8.RuneStart(s[i]) {
			return s[:i]
		}
	}
	return ""
}
