package memory

import (
	"context"
	"sort"
	"sync"

	"pet-appointments/internal/domain/vets"
)

type vetRepo struct {
	mu   sync.RWMutex
	byID map[string]vets.Veterinarian
}

// NewVetRepo crea el directorio in-memory de veterinarios.
// seed permite precargar el directorio en dev/tests.
func NewVetRepo(seed ...vets.Veterinarian) vets.Repository {
	r := &vetRepo{byID: make(map[string]vets.Veterinarian)}
	for _, v := range seed {
		if v.ID == "" {
			continue
		}
		r.byID[v.ID] = v
	}
	return r
}

func (r *vetRepo) List(ctx context.Context) ([]vets.Veterinarian, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]vets.Veterinarian, 0, len(r.byID))
	for _, v := range r.byID {
		out = append(out, v)
	}

	// Orden estable por nombre (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})

	return out, nil
}

func (r *vetRepo) GetByID(ctx context.Context, id string) (vets.Veterinarian, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return vets.Veterinarian{}, ErrNotFound
	}
	return v, nil
}
