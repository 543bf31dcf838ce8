package service

import (
	"context"

	"vitrine/internal/domain"
)

type Repository interface {
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error)
}

type ProductService struct {
	repo Repository
}

func NewService(repo Repository) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// GetProducts returns the products found, in id order, and the ids that do
// not exist.
func (s *ProductService) GetProducts(ctx context.Context, ids []int) ([]domain.Product, []int, error) {
	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	foundSet := make(map[int]struct{}, len(found))
	for _, p := range found {
		foundSet[p.ID] = struct{}{}
	}

	var notFoundIDs []int
	for _, id := range ids {
		if _, ok := foundSet[id]; !ok {
			notFoundIDs = append(notFoundIDs, id)
		}
	}

	return found, notFoundIDs, nil
}
