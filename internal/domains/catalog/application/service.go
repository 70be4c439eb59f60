package application

import (
	"context"
	"fmt"
	"strings"

	types "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

const unsorted = "None"

// Service orchestrates the catalog bounded context use cases.
type Service struct {
	repo ports.Repository
}

// NewService wires the catalog service with its repository.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// List returns the catalog filtered by search term and categories, in the requested order.
func (s *Service) List(ctx context.Context, input types.ListProductsInput) (*types.Listing, error) {
	query := domain.Query{Categories: normalizeNames(input.Categories)}
	if input.SearchTerm != nil {
		term := strings.TrimSpace(*input.SearchTerm)
		if term == "" {
			return nil, ErrEmptySearch
		}
		query.SearchTerm = term
	}
	sortKey, err := domain.ParseSortKey(input.Sort)
	if err != nil {
		return nil, mapError(err)
	}
	query.Sort = sortKey
	query.Direction = domain.ParseDirection(input.Direction)

	products, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	listing := &types.Listing{
		Products:       products,
		SearchTerm:     query.SearchTerm,
		CurrentSorting: currentSorting(sortKey, input.Direction),
	}
	if len(query.Categories) > 0 {
		categories, err := s.repo.CategoriesByName(ctx, query.Categories)
		if err != nil {
			return nil, mapError(err)
		}
		listing.CurrentCategories = categories
	}
	return listing, nil
}

// Get loads a single product.
func (s *Service) Get(ctx context.Context, input types.ProductIdentifier) (*ports.ProductProjection, error) {
	projection, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return projection, nil
}

// Product resolves a product for pricing; it satisfies ports.Lookup.
func (s *Service) Product(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.Product(ctx, id)
}

// Add persists a new product aggregate.
func (s *Service) Add(ctx context.Context, input types.ProductMutationInput) (*ports.ProductProjection, error) {
	if input.Name == nil {
		return nil, mapError(domain.ErrEmptyName)
	}
	if input.Price == nil {
		return nil, mapError(domain.ErrInvalidPrice)
	}
	product, err := domain.NewProduct(0, *input.Name, *input.Price)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.applyMutation(ctx, product, input); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Edit applies a partial update to an existing product.
func (s *Service) Edit(ctx context.Context, input types.EditProductInput) (*ports.ProductProjection, error) {
	projection, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	product := projection.Entity
	if err := s.applyMutation(ctx, product, input.ProductMutationInput); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, input types.ProductIdentifier) error {
	if err := s.repo.Delete(ctx, input.ID); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *Service) applyMutation(ctx context.Context, target *domain.Product, input types.ProductMutationInput) error {
	if input.Name != nil {
		if err := target.Rename(*input.Name); err != nil {
			return err
		}
	}
	if input.Price != nil {
		if err := target.Reprice(*input.Price); err != nil {
			return err
		}
	}
	if input.Rating != nil {
		if err := target.Rate(input.Rating); err != nil {
			return err
		}
	}
	if input.SKU != nil {
		target.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.Description != nil {
		target.Description = *input.Description
	}
	if input.ImageURL != nil {
		target.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.HasSizes != nil {
		target.HasSizes = *input.HasSizes
	}
	if input.Category != nil {
		if strings.TrimSpace(input.Category.Name) == "" {
			target.UpdateCategory(nil)
			return nil
		}
		category, err := domain.NewCategory(input.Category.Name, input.Category.FriendlyName)
		if err != nil {
			return err
		}
		saved, err := s.repo.SaveCategory(ctx, category)
		if err != nil {
			return err
		}
		target.UpdateCategory(saved)
	}
	return nil
}

func currentSorting(key domain.SortKey, rawDirection string) string {
	sort := unsorted
	if key != domain.SortNone {
		sort = string(key)
	}
	direction := unsorted
	if d := strings.TrimSpace(rawDirection); d != "" {
		direction = d
	}
	return fmt.Sprintf("%s_%s", sort, direction)
}

func normalizeNames(raw []string) []string {
	var names []string
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			if name := strings.TrimSpace(part); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

var _ ports.Service = (*Service)(nil)
