package interactor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vmunix/animelib/internal/events"
	"github.com/vmunix/animelib/internal/library"
	"github.com/vmunix/animelib/internal/preference"
)

// SetSortModeForCategory stores a library sort.
type SetSortModeForCategory struct {
	base
	prefs *preference.LibraryPreferences
	repo  library.CategoryRepository
}

// NewSetSortModeForCategory creates the library sort interactor. bus may be nil.
func NewSetSortModeForCategory(prefs *preference.LibraryPreferences, repo library.CategoryRepository, bus events.Publisher, log *slog.Logger) *SetSortModeForCategory {
	return &SetSortModeForCategory{base: newBase(bus, log, "category-sort"), prefs: prefs, repo: repo}
}

// Set stores sort for the category with categoryID, or nil for none.
//
// A grouped library only keeps the global sort preference. Otherwise the
// sort goes to the category when it exists and categories are displayed
// separately; failing that, it becomes the global sort and is written to
// every category.
func (s *SetSortModeForCategory) Set(ctx context.Context, categoryID *int64, sort preference.LibrarySort) bool {
	group, err := s.prefs.GroupLibraryBy().Get(ctx)
	if err != nil {
		s.log.Error("read library grouping", "error", err)
		return false
	}
	if group != preference.GroupByDefault {
		return s.setGlobal(ctx, sort)
	}

	var category *library.Category
	if categoryID != nil {
		category, err = s.repo.GetCategory(ctx, *categoryID)
		if err != nil && !errors.Is(err, library.ErrNotFound) {
			s.log.Error("get category", "category_id", *categoryID, "error", err)
			return false
		}
	}

	var flags uint64
	if category != nil {
		flags = category.Flags
	}
	flags = sort.Apply(flags)

	categorized, err := s.prefs.CategorizedDisplay().Get(ctx)
	if err != nil {
		s.log.Error("read categorized display", "error", err)
		return false
	}
	if category != nil && categorized {
		if err := s.repo.UpdateCategoryFlags(ctx, category.ID, flags); err != nil {
			s.log.Error("update category flags", "category_id", category.ID, "error", err)
			return false
		}
		s.published(ctx, &category.ID, sort, flags)
		return true
	}

	if !s.setGlobal(ctx, sort) {
		return false
	}
	if err := s.repo.UpdateAllCategoryFlags(ctx, flags); err != nil {
		s.log.Error("update all category flags", "error", err)
		return false
	}
	s.published(ctx, nil, sort, flags)
	return true
}

func (s *SetSortModeForCategory) setGlobal(ctx context.Context, sort preference.LibrarySort) bool {
	if err := s.prefs.SortingMode().Set(ctx, sort); err != nil {
		s.log.Error("store library sort", "sort", sort.String(), "error", err)
		return false
	}
	return true
}

func (s *SetSortModeForCategory) published(ctx context.Context, categoryID *int64, sort preference.LibrarySort, flags uint64) {
	var id int64
	if categoryID != nil {
		id = *categoryID
	}
	s.publish(ctx, &events.CategorySortChanged{
		BaseEvent:  events.NewBaseEvent(events.EventCategorySortChanged, events.EntityCategory, id),
		CategoryID: categoryID,
		Sort:       sort.String(),
		Flags:      flags,
	})
}
