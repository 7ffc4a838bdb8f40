package vets

import "context"

type Repository interface {
	List(ctx context.Context) ([]Veterinarian, error)
	GetByID(ctx context.Context, id string) (Veterinarian, error)
}
