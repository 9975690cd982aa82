package services

import (
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/oschwald/geoip2-golang"
	"github.com/oschwald/maxminddb-golang"
)

type geoIPReader interface {
	Country(ip net.IP) (*geoip2.Country, error)
	Metadata() maxminddb.Metadata
	Close() error
}

// GeoIPService resolves client IPs to countries from a MaxMind database. When
// no database is available lookups return "Unknown".
type GeoIPService struct {
	dbPath    string
	logger    *slog.Logger
	geoReader geoIPReader
	geoLock   sync.RWMutex
	openFunc  func(path string) (geoIPReader, error)
}

func NewGeoIPService(dbPath string, logger *slog.Logger) *GeoIPService {
	return &GeoIPService{
		dbPath: dbPath,
		logger: logger,
		openFunc: func(path string) (geoIPReader, error) {
			return geoip2.Open(path)
		},
	}
}

// Init opens the configured database if it exists.
func (s *GeoIPService) Init() {
	if s.dbPath == "" {
		s.logger.Warn("GeoIP: no database path configured, lookups disabled")
		return
	}
	if _, err := os.Stat(s.dbPath); err != nil {
		s.logger.Warn("GeoIP: database not available, lookups disabled", "path", s.dbPath, "error", err)
		return
	}
	s.reloadReader(s.dbPath)
}

func (s *GeoIPService) reloadReader(path string) {
	reader, err := s.openFunc(path)
	if err != nil {
		s.logger.Error("GeoIP: Failed to open database", "path", path, "error", err)
		return
	}

	s.geoLock.Lock()
	old := s.geoReader
	s.geoReader = reader
	s.geoLock.Unlock()

	if old != nil {
		old.Close()
	}

	meta := reader.Metadata()
	s.logger.Info("GeoIP: Loaded database", "type", meta.DatabaseType, "epoch", meta.BuildEpoch)
}

// Country returns the English country name for ipStr.
func (s *GeoIPService) Country(ipStr string) string {
	if ipStr == "127.0.0.1" || ipStr == "::1" {
		return "Localhost"
	}

	s.geoLock.RLock()
	reader := s.geoReader
	s.geoLock.RUnlock()

	if reader == nil {
		return "Unknown"
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return "Invalid IP"
	}

	record, err := reader.Country(ip)
	if err != nil {
		s.logger.Error("GeoIP: Lookup error", "ip", ipStr, "error", err)
		return "Unknown"
	}

	country := record.Country.Names["en"]
	if country == "" {
		country = record.Country.IsoCode
	}
	if country == "" {
		country = "Unknown"
	}
	return country
}

// Close releases the database, if one is open.
func (s *GeoIPService) Close() error {
	s.geoLock.Lock()
	defer s.geoLock.Unlock()
	if s.geoReader == nil {
		return nil
	}
	err := s.geoReader.Close()
	s.geoReader = nil
	return err
}
