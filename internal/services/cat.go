package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/u83213089-oss/cat-lottery/internal/errors"
	"github.com/u83213089-oss/cat-lottery/internal/logger"
	"github.com/u83213089-oss/cat-lottery/internal/models"
	"github.com/u83213089-oss/cat-lottery/internal/repository"
)

// CatService handles cat-related business logic
type CatService struct {
	log  logger.Logger
	repo repository.CatRepository
}

// NewCatService creates a new CatService
func NewCatService(log logger.Logger, repo repository.CatRepository) *CatService {
	return &CatService{log: log, repo: repo}
}

// ListCats returns all cats
func (s *CatService) ListCats(ctx context.Context) ([]models.Cat, error) {
	return s.repo.ListCats(ctx)
}

// GetCat returns a cat by ID
func (s *CatService) GetCat(ctx context.Context, id int) (*models.Cat, error) {
	cat, err := s.repo.GetCat(ctx, id)
	if err == repository.ErrNotFound {
		return nil, errors.NotFoundf("cat %d not found", id)
	}
	return cat, err
}

func validateCat(cat models.Cat) error {
	if cat.ID <= 0 {
		return errors.Validation("cat id must be positive")
	}
	if len(strings.TrimSpace(cat.Name)) > 100 {
		return errors.Validation("cat name is too long")
	}
	return nil
}

// CreateCat creates a new cat with an externally assigned id
func (s *CatService) CreateCat(ctx context.Context, cat models.Cat) error {
	if err := validateCat(cat); err != nil {
		return err
	}
	cat.Name = strings.TrimSpace(cat.Name)
	err := s.repo.CreateCat(ctx, cat)
	if err == repository.ErrDuplicate {
		return errors.Conflictf("cat %d already exists", cat.ID)
	}
	return err
}

// UpdateCat updates a cat
func (s *CatService) UpdateCat(ctx context.Context, cat models.Cat) error {
	if err := validateCat(cat); err != nil {
		return err
	}
	cat.Name = strings.TrimSpace(cat.Name)
	err := s.repo.UpdateCat(ctx, cat)
	if err == repository.ErrNotFound {
		return errors.NotFoundf("cat %d not found", cat.ID)
	}
	return err
}

// DeleteCat deletes a cat and drops it from every application
func (s *CatService) DeleteCat(ctx context.Context, id int) error {
	err := s.repo.DeleteCat(ctx, id)
	if err == repository.ErrNotFound {
		return errors.NotFoundf("cat %d not found", id)
	}
	return err
}

// demoCats are the cats created by SeedMockCats. The first three are popular.
var demoCats = []string{
	"Xiaohua", "Milk Tea", "Tiger", "Mochi", "Pudding",
	"Cocoa", "Blackie", "Snowball", "QQ", "Mantou",
}

// SeedMockCats creates the demo cats, skipping ids that already exist
func (s *CatService) SeedMockCats(ctx context.Context) (int, error) {
	var addedCount int
	var firstError error
	for i, name := range demoCats {
		cat := models.Cat{ID: i + 1, Name: name, Popular: i < 3, Active: true}
		err := s.repo.CreateCat(ctx, cat)
		if err == repository.ErrDuplicate {
			continue
		}
		if err != nil {
			s.log.Error("Error seeding cat", "cat_id", cat.ID, "error", err)
			if firstError == nil {
				firstError = fmt.Errorf("failed to create cat %d: %w", cat.ID, err)
			}
			continue
		}
		addedCount++
	}
	return addedCount, firstError
}
