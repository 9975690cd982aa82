package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"linkforge/internal/models"
	"linkforge/internal/repository"
	"linkforge/pkg/utils"

	"gorm.io/gorm"
)

const shortCodeLength = 5

// OwnerLinks is one user's entry in the admin listing.
type OwnerLinks struct {
	Username string            `json:"username"`
	Links    map[string]string `json:"list_of_converted_links"`
}

type LinkService struct {
	db            *gorm.DB
	shortBaseURL  string
	customBaseURL string
	codeGenerator func(int) string
}

func NewLinkService(db *gorm.DB, shortBaseURL, customBaseURL string) *LinkService {
	return &LinkService{
		db:            db,
		shortBaseURL:  shortBaseURL,
		customBaseURL: customBaseURL,
		codeGenerator: utils.GenerateShortCode,
	}
}

// Convert stores originalURL under a fresh random alias. Aliases are not
// checked for collisions.
func (s *LinkService) Convert(ctx context.Context, ownerID uint, originalURL string) (*models.Link, error) {
	link := models.Link{
		UserID:        ownerID,
		OriginalLink:  originalURL,
		ConvertedLink: s.shortBaseURL + s.codeGenerator(shortCodeLength),
	}

	if err := s.db.WithContext(ctx).Create(&link).Error; err != nil {
		return nil, fmt.Errorf("create link: %w", err)
	}
	return &link, nil
}

// CreateCustomAlias stores alias for ownerID. The (owner, alias) unique index
// decides conflicts.
func (s *LinkService) CreateCustomAlias(ctx context.Context, ownerID uint, originalURL, alias string) (*models.CustomLink, error) {
	link := models.CustomLink{
		UserID:       ownerID,
		OriginalLink: originalURL,
		CustomLink:   alias,
	}

	if err := s.db.WithContext(ctx).Create(&link).Error; err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, fmt.Errorf("custom link %q: %w", alias, ErrConflict)
		}
		return nil, fmt.Errorf("create custom link: %w", err)
	}
	return &link, nil
}

// CustomURL is the public form of a custom alias.
func (s *LinkService) CustomURL(alias string) string {
	return s.customBaseURL + alias
}

// ListAll groups every link by owner, keyed "user_<id>". When an owner has
// several links for one original URL the latest one wins.
func (s *LinkService) ListAll(ctx context.Context) (map[string]OwnerLinks, error) {
	var rows []struct {
		UserID        uint
		Username      string
		OriginalLink  string
		ConvertedLink string
	}
	err := s.db.WithContext(ctx).
		Table("users u").
		Select("u.id AS user_id, u.username, l.original_link, l.converted_link").
		Joins("JOIN links l ON u.id = l.user_id").
		Order("l.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}

	users := make(map[string]OwnerLinks)
	for _, row := range rows {
		key := "user_" + strconv.FormatUint(uint64(row.UserID), 10)
		entry, ok := users[key]
		if !ok {
			entry = OwnerLinks{Username: row.Username, Links: make(map[string]string)}
			users[key] = entry
		}
		entry.Links[row.OriginalLink] = row.ConvertedLink
	}
	return users, nil
}

// ListOwn returns ownerID's custom aliases in creation order.
func (s *LinkService) ListOwn(ctx context.Context, ownerID uint) ([]models.CustomLink, error) {
	var links []models.CustomLink
	err := s.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("id").Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("list custom links: %w", err)
	}
	return links, nil
}

func (s *LinkService) Get(ctx context.Context, id uint) (*models.Link, error) {
	var link models.Link
	if err := s.db.WithContext(ctx).First(&link, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get link: %w", err)
	}
	return &link, nil
}

// Update rewrites link id regardless of its owner.
func (s *LinkService) Update(ctx context.Context, id uint, originalURL, convertedURL string) error {
	result := s.db.WithContext(ctx).Model(&models.Link{}).Where("id = ?", id).Updates(map[string]interface{}{
		"original_link":  originalURL,
		"converted_link": convertedURL,
	})
	if result.Error != nil {
		return fmt.Errorf("update link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes link id regardless of its owner.
func (s *LinkService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Link{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
