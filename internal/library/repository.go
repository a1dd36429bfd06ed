package library

//go:generate mockgen -source=repository.go -destination=mocks/repository.go -package=mocks

import "context"

// AnimeRepository is the persistence contract the interactors depend on.
type AnimeRepository interface {
	GetAnime(ctx context.Context, id int64) (*Anime, error)
	UpdateAnime(ctx context.Context, u AnimeUpdate) error
	UpdateAllAnime(ctx context.Context, us []AnimeUpdate) error
}

// CategoryRepository persists categories and their packed sort flags.
type CategoryRepository interface {
	GetCategory(ctx context.Context, id int64) (*Category, error)
	UpdateCategoryFlags(ctx context.Context, id int64, flags uint64) error
	UpdateAllCategoryFlags(ctx context.Context, flags uint64) error
}
