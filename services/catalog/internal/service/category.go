package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/slug"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/domain"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/repository"
)

// CategoryService implements category tree operations. Mutations are
// admin-only, enforced by the router.
type CategoryService struct {
	categories repository.CategoryRepository
	logger     *slog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(categories repository.CategoryRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{categories: categories, logger: logger}
}

// CreateCategoryInput holds the parameters for creating a category.
type CreateCategoryInput struct {
	Name        string
	Description string
	Parent      *string
}

// UpdateCategoryInput holds the parameters for updating a category. The
// parent link is immutable after creation.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
}

// ListCategoriesInput narrows the category listing.
type ListCategoriesInput struct {
	Page     int
	Limit    int
	Parent   *string
	IsActive *bool
}

// CreateCategory creates a category. With a parent, the ancestor path is
// denormalized as parent.ancestors plus the parent itself.
func (s *CategoryService) CreateCategory(ctx context.Context, input *CreateCategoryInput) (*domain.Category, error) {
	exists, err := s.categories.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if exists {
		return nil, apperrors.Conflict("DUPLICATE_CATEGORY_NAME", "a category with this name already exists")
	}

	var parentID *primitive.ObjectID
	var ancestors []primitive.ObjectID
	if input.Parent != nil && *input.Parent != "" {
		id, err := parseID(*input.Parent, "parentCategory")
		if err != nil {
			return nil, err
		}
		parent, err := s.categories.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !parent.IsActive {
			return nil, apperrors.Conflict("CATEGORY_INACTIVE", "parent category is disabled")
		}
		parentID = &parent.ID
		ancestors = append(append(ancestors, parent.Ancestors...), parent.ID)
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:             primitive.NewObjectID(),
		Name:           input.Name,
		Slug:           slug.Generate(input.Name),
		Description:    input.Description,
		ParentCategory: parentID,
		Ancestors:      ancestors,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.InfoContext(ctx, "category created",
		slog.String("category_id", category.ID.Hex()),
		slog.Int("depth", len(ancestors)),
	)
	return category, nil
}

// GetCategory retrieves a category by id.
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	oid, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}
	return s.categories.GetByID(ctx, oid)
}

// ListCategories returns a page of categories matching the filter.
func (s *CategoryService) ListCategories(ctx context.Context, input ListCategoriesInput) ([]domain.Category, int64, error) {
	parentID, err := parseOptionalID(input.Parent, "parent")
	if err != nil {
		return nil, 0, err
	}

	return s.categories.List(ctx, repository.CategoryFilter{
		Page:     input.Page,
		Limit:    input.Limit,
		Parent:   parentID,
		IsActive: input.IsActive,
	})
}

// GetCategoryTree returns the category and its full descendant subtree,
// assembled from the denormalized ancestor paths.
func (s *CategoryService) GetCategoryTree(ctx context.Context, id string) (*domain.CategoryNode, error) {
	oid, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}

	root, err := s.categories.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	descendants, err := s.categories.ListDescendants(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("list descendants: %w", err)
	}

	nodes := make(map[primitive.ObjectID]*domain.CategoryNode, len(descendants)+1)
	rootNode := &domain.CategoryNode{Category: *root}
	nodes[root.ID] = rootNode
	for _, c := range descendants {
		nodes[c.ID] = &domain.CategoryNode{Category: c}
	}
	for _, c := range descendants {
		node := nodes[c.ID]
		if c.ParentCategory == nil {
			continue
		}
		if parent, ok := nodes[*c.ParentCategory]; ok {
			parent.Children = append(parent.Children, node)
		}
		// A descendant whose parent was hard-deleted is unreachable from
		// the root and intentionally omitted.
	}
	return rootNode, nil
}

// UpdateCategory applies a partial update. Renames re-slug.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, input *UpdateCategoryInput) (*domain.Category, error) {
	oid, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}

	category, err := s.categories.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != category.Name {
		exists, err := s.categories.ExistsByName(ctx, *input.Name)
		if err != nil {
			return nil, fmt.Errorf("check category name: %w", err)
		}
		if exists {
			return nil, apperrors.Conflict("DUPLICATE_CATEGORY_NAME", "a category with this name already exists")
		}
		category.Name = *input.Name
		category.Slug = slug.Generate(*input.Name)
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	category.UpdatedAt = time.Now().UTC()

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	s.logger.InfoContext(ctx, "category updated", slog.String("category_id", oid.Hex()))
	return category, nil
}

// DeleteCategory hard-deletes a category. Descendants are not cascaded;
// orphaned subtrees are tolerated and excluded from tree reads.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	oid, err := parseID(id, "id")
	if err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, oid); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "category deleted", slog.String("category_id", oid.Hex()))
	return nil
}

// SetCategoryActive soft-disables or re-enables a category. Idempotent.
func (s *CategoryService) SetCategoryActive(ctx context.Context, id string, active bool) (*domain.Category, error) {
	oid, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}

	category, err := s.categories.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if category.IsActive == active {
		return category, nil
	}

	updated, err := s.categories.SetActive(ctx, oid, active)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "category active flag changed",
		slog.String("category_id", oid.Hex()),
		slog.Bool("is_active", active),
	)
	return updated, nil
}
