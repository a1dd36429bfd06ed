package preference

import (
	"context"
	"fmt"

	"github.com/vmunix/animelib/internal/library"
)

// Auto-update restriction values.
const (
	DeviceOnlyOnWifi          = "wifi"
	DeviceNetworkNotMetered   = "network_not_metered"
	DeviceCharging            = "ac"
	EntryNonCompleted         = "anime_ongoing"
	EntryHasUnviewed          = "anime_fully_seen"
	EntryNonViewed            = "anime_started"
	EntryOutsideReleasePeriod = "anime_outside_release_period"
)

// Library grouping. Anything but GroupByDefault bypasses per-category sorting.
const (
	GroupByDefault     = 0
	GroupBySource      = 1
	GroupByStatus      = 2
	GroupByTrackStatus = 3
	GroupUngrouped     = 4
)

// DisplayMode is the library grid layout.
type DisplayMode int

const (
	DisplayCompactGrid DisplayMode = iota
	DisplayComfortableGrid
	DisplayList
	DisplayCoverOnlyGrid
)

var displayModeNames = []string{"COMPACT_GRID", "COMFORTABLE_GRID", "LIST", "COVER_ONLY_GRID"}

func (d DisplayMode) String() string {
	if d < 0 || int(d) >= len(displayModeNames) {
		return displayModeNames[0]
	}
	return displayModeNames[d]
}

// DisplayModes lists every display mode.
func DisplayModes() []DisplayMode {
	return []DisplayMode{DisplayCompactGrid, DisplayComfortableGrid, DisplayList, DisplayCoverOnlyGrid}
}

// GroupUpdateMode selects what a grouped library refresh covers.
type GroupUpdateMode int

const (
	GroupUpdateGlobal GroupUpdateMode = iota
	GroupUpdateAllCategories
	GroupUpdateAll
)

func (m GroupUpdateMode) String() string {
	switch m {
	case GroupUpdateAllCategories:
		return "ALL_CATEGORIES"
	case GroupUpdateAll:
		return "ALL"
	default:
		return "GLOBAL"
	}
}

// SwipeAction is the action bound to an episode list swipe.
type SwipeAction int

const (
	SwipeToggleSeen SwipeAction = iota
	SwipeToggleBookmark
	SwipeToggleFillermark
	SwipeDownload
	SwipeDisabled
)

var swipeActionNames = []string{"ToggleSeen", "ToggleBookmark", "ToggleFillermark", "Download", "Disabled"}

func (a SwipeAction) String() string {
	if a < 0 || int(a) >= len(swipeActionNames) {
		return swipeActionNames[SwipeDisabled]
	}
	return swipeActionNames[a]
}

// SwipeActions lists every swipe action.
func SwipeActions() []SwipeAction {
	return []SwipeAction{SwipeToggleSeen, SwipeToggleBookmark, SwipeToggleFillermark, SwipeDownload, SwipeDisabled}
}

// LibraryPreferences groups the library settings.
type LibraryPreferences struct {
	store Store
}

// NewLibraryPreferences returns the library settings group backed by s.
func NewLibraryPreferences(s Store) *LibraryPreferences {
	return &LibraryPreferences{store: s}
}

func (p *LibraryPreferences) DisplayMode() *Preference[DisplayMode] {
	return Enum(p.store, "pref_display_mode_library", DisplayCompactGrid, DisplayModes())
}

func (p *LibraryPreferences) SortingMode() *Preference[LibrarySort] {
	return Object(p.store, "animelib_sorting_mode", DefaultLibrarySort,
		LibrarySort.String, ParseLibrarySort)
}

func (p *LibraryPreferences) LastUpdatedTimestamp() *Preference[int64] {
	return Long(p.store, AppStateKey("library_update_last_timestamp"), 0)
}

// AutoUpdateInterval is in hours; 0 disables automatic updates.
func (p *LibraryPreferences) AutoUpdateInterval() *Preference[int] {
	return Int(p.store, "pref_library_update_interval_key", 0)
}

func (p *LibraryPreferences) AutoUpdateDeviceRestrictions() *Preference[[]string] {
	return StringSet(p.store, "library_update_restriction", []string{DeviceOnlyOnWifi})
}

func (p *LibraryPreferences) AutoUpdateItemRestrictions() *Preference[[]string] {
	return StringSet(p.store, "library_update_manga_restriction", []string{
		EntryHasUnviewed, EntryNonCompleted, EntryNonViewed, EntryOutsideReleasePeriod,
	})
}

func (p *LibraryPreferences) AutoUpdateMetadata() *Preference[bool] {
	return Bool(p.store, "auto_update_metadata", false)
}

func (p *LibraryPreferences) ShowContinueViewingButton() *Preference[bool] {
	return Bool(p.store, "display_continue_reading_button", false)
}

func (p *LibraryPreferences) CategoryTabs() *Preference[bool] {
	return Bool(p.store, "display_category_tabs", true)
}

func (p *LibraryPreferences) CategoryNumberOfItems() *Preference[bool] {
	return Bool(p.store, "display_number_of_items", false)
}

// CategorizedDisplay makes each category keep its own sort.
func (p *LibraryPreferences) CategorizedDisplay() *Preference[bool] {
	return Bool(p.store, "categorized_display", false)
}

func (p *LibraryPreferences) HideHiddenCategories() *Preference[bool] {
	return Bool(p.store, "hidden_categories", false)
}

func (p *LibraryPreferences) DownloadBadge() *Preference[bool] {
	return Bool(p.store, "display_download_badge", false)
}

func (p *LibraryPreferences) LocalBadge() *Preference[bool] {
	return Bool(p.store, "display_local_badge", true)
}

func (p *LibraryPreferences) LanguageBadge() *Preference[bool] {
	return Bool(p.store, "display_language_badge", false)
}

func (p *LibraryPreferences) NewShowUpdatesCount() *Preference[bool] {
	return Bool(p.store, "library_show_updates_count", true)
}

func (p *LibraryPreferences) AutoClearItemCache() *Preference[bool] {
	return Bool(p.store, "auto_clear_chapter_cache", false)
}

func (p *LibraryPreferences) PortraitColumns() *Preference[int] {
	return Int(p.store, "pref_animelib_columns_portrait_key", 0)
}

func (p *LibraryPreferences) LandscapeColumns() *Preference[int] {
	return Int(p.store, "pref_animelib_columns_landscape_key", 0)
}

func (p *LibraryPreferences) triState(key string) *Preference[library.TriState] {
	return Enum(p.store, key, library.TriStateDisabled, library.TriStates())
}

func (p *LibraryPreferences) FilterDownloaded() *Preference[library.TriState] {
	return p.triState("pref_filter_animelib_downloaded_v2")
}

func (p *LibraryPreferences) FilterUnseen() *Preference[library.TriState] {
	return p.triState("pref_filter_animelib_unread_v2")
}

func (p *LibraryPreferences) FilterStarted() *Preference[library.TriState] {
	return p.triState("pref_filter_animelib_started_v2")
}

func (p *LibraryPreferences) FilterBookmarked() *Preference[library.TriState] {
	return p.triState("pref_filter_animelib_bookmarked_v2")
}

func (p *LibraryPreferences) FilterFillermarked() *Preference[library.TriState] {
	return p.triState("pref_filter_animelib_fillermarked_v2")
}

func (p *LibraryPreferences) FilterCompleted() *Preference[library.TriState] {
	return p.triState("pref_filter_animelib_completed_v2")
}

func (p *LibraryPreferences) FilterIntervalCustom() *Preference[library.TriState] {
	return p.triState("pref_filter_anime_library_interval_custom")
}

func (p *LibraryPreferences) FilterIntervalLong() *Preference[library.TriState] {
	return p.triState("pref_filter_anime_library_interval_long")
}

func (p *LibraryPreferences) FilterIntervalLate() *Preference[library.TriState] {
	return p.triState("pref_filter_anime_library_interval_late")
}

func (p *LibraryPreferences) FilterIntervalDropped() *Preference[library.TriState] {
	return p.triState("pref_filter_anime_library_interval_dropped")
}

func (p *LibraryPreferences) FilterIntervalPassed() *Preference[library.TriState] {
	return p.triState("pref_filter_anime_library_interval_passed")
}

// FilterTracked filters the library by login state of one tracker.
func (p *LibraryPreferences) FilterTracked(trackerID int64) *Preference[library.TriState] {
	return p.triState(fmt.Sprintf("pref_filter_animelib_tracked_%d_v2", trackerID))
}

func (p *LibraryPreferences) NewUpdatesCount() *Preference[int] {
	return Int(p.store, "library_unseen_updates_count", 0)
}

// DefaultCategory is -1 when new entries should prompt for a category.
func (p *LibraryPreferences) DefaultCategory() *Preference[int] {
	return Int(p.store, "default_anime_category", -1)
}

func (p *LibraryPreferences) LastUsedCategory() *Preference[int] {
	return Int(p.store, AppStateKey("last_used_anime_category"), 0)
}

func (p *LibraryPreferences) UpdateCategories() *Preference[[]string] {
	return StringSet(p.store, "animelib_update_categories", nil)
}

func (p *LibraryPreferences) UpdateCategoriesExclude() *Preference[[]string] {
	return StringSet(p.store, "animelib_update_categories_exclude", nil)
}

// Episode list defaults for newly added entries. Values are raw episode flags.

func (p *LibraryPreferences) FilterEpisodeBySeen() *Preference[uint64] {
	return Uint(p.store, "default_episode_filter_by_seen", library.ShowAll)
}

func (p *LibraryPreferences) FilterEpisodeByDownloaded() *Preference[uint64] {
	return Uint(p.store, "default_episode_filter_by_downloaded", library.ShowAll)
}

func (p *LibraryPreferences) FilterEpisodeByBookmarked() *Preference[uint64] {
	return Uint(p.store, "default_episode_filter_by_bookmarked", library.ShowAll)
}

func (p *LibraryPreferences) FilterEpisodeByFillermarked() *Preference[uint64] {
	return Uint(p.store, "default_episode_filter_by_fillermarked", library.ShowAll)
}

func (p *LibraryPreferences) SortEpisodeBySourceOrNumber() *Preference[uint64] {
	return Uint(p.store, "default_episode_sort_by_source_or_number", library.EpisodeSortingSource)
}

func (p *LibraryPreferences) DisplayEpisodeByNameOrNumber() *Preference[uint64] {
	return Uint(p.store, "default_chapter_display_by_name_or_number", library.EpisodeDisplayName)
}

func (p *LibraryPreferences) SortEpisodeByAscendingOrDescending() *Preference[uint64] {
	return Uint(p.store, "default_chapter_sort_by_ascending_or_descending", library.EpisodeSortDesc)
}

// EpisodeDefaults is the episode flag word new entries start with.
func (p *LibraryPreferences) EpisodeDefaults(ctx context.Context) (uint64, error) {
	var flags uint64
	for _, pref := range []*Preference[uint64]{
		p.FilterEpisodeBySeen(),
		p.FilterEpisodeByDownloaded(),
		p.FilterEpisodeByBookmarked(),
		p.FilterEpisodeByFillermarked(),
		p.SortEpisodeBySourceOrNumber(),
		p.DisplayEpisodeByNameOrNumber(),
		p.SortEpisodeByAscendingOrDescending(),
	} {
		v, err := pref.Get(ctx)
		if err != nil {
			return 0, err
		}
		flags |= v
	}
	return flags, nil
}

// SetEpisodeSettingsDefault stores the episode settings of a as the
// defaults for new entries.
func (p *LibraryPreferences) SetEpisodeSettingsDefault(ctx context.Context, a *library.Anime) error {
	dir := library.EpisodeSortAsc
	if a.SortDescending() {
		dir = library.EpisodeSortDesc
	}
	writes := []struct {
		pref *Preference[uint64]
		v    uint64
	}{
		{p.FilterEpisodeBySeen(), a.UnseenFilterRaw()},
		{p.FilterEpisodeByDownloaded(), a.DownloadedFilterRaw()},
		{p.FilterEpisodeByBookmarked(), a.BookmarkedFilterRaw()},
		{p.FilterEpisodeByFillermarked(), a.FillermarkedFilterRaw()},
		{p.SortEpisodeBySourceOrNumber(), a.Sorting()},
		{p.DisplayEpisodeByNameOrNumber(), a.DisplayMode()},
		{p.SortEpisodeByAscendingOrDescending(), dir},
	}
	for _, w := range writes {
		if err := w.pref.Set(ctx, w.v); err != nil {
			return fmt.Errorf("set %s: %w", w.pref.Key(), err)
		}
	}
	return nil
}

func (p *LibraryPreferences) GroupLibraryUpdateType() *Preference[GroupUpdateMode] {
	return Enum(p.store, "group_library_update_type", GroupUpdateGlobal,
		[]GroupUpdateMode{GroupUpdateGlobal, GroupUpdateAllCategories, GroupUpdateAll})
}

func (p *LibraryPreferences) GroupLibraryBy() *Preference[int] {
	return Int(p.store, "group_library_by", GroupByDefault)
}

// The start/end keys are crossed in stored data and kept that way.

func (p *LibraryPreferences) SwipeEpisodeStartAction() *Preference[SwipeAction] {
	return Enum(p.store, "pref_episode_swipe_end_action", SwipeToggleSeen, SwipeActions())
}

func (p *LibraryPreferences) SwipeEpisodeEndAction() *Preference[SwipeAction] {
	return Enum(p.store, "pref_episode_swipe_start_action", SwipeToggleBookmark, SwipeActions())
}
