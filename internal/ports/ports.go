package ports

import (
	"context"

	"AdvocateDirectory/internal/domain"
)

// AdvocateRepository reads advocate rows from the relational store.
type AdvocateRepository interface {
	ListAdvocates(ctx context.Context) ([]domain.Advocate, error)
	Ping(ctx context.Context) error
}

// AdvocateSeeder loads fixture rows for local development.
type AdvocateSeeder interface {
	EnsureSchema(ctx context.Context) error
	CountAdvocates(ctx context.Context) (int, error)
	InsertAdvocates(ctx context.Context, advocates []domain.Advocate) (int, error)
}

// AdvocateSource fetches the full advocate list from the listing endpoint.
type AdvocateSource interface {
	FetchAdvocates(ctx context.Context) ([]domain.Advocate, error)
}
