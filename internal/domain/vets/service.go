package vets

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List devuelve el directorio de veterinarios activos.
func (s *Service) List(ctx context.Context) ([]Veterinarian, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Veterinarian, 0, len(all))
	for _, v := range all {
		if v.Active {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Veterinarian, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Veterinarian{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}
