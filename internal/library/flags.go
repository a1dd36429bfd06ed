package library

import (
	"github.com/vmunix/animelib/pkg/flagword"
)

// Episode flag values. Values are pre-shifted into their field's bit range.
const (
	// ShowAll is the generic filter value that does not filter anything.
	ShowAll uint64 = 0x00000000

	EpisodeSortDesc    uint64 = 0x00000000
	EpisodeSortAsc     uint64 = 0x00000001
	EpisodeSortDirMask uint64 = 0x00000001

	EpisodeShowUnseen uint64 = 0x00000002
	EpisodeShowSeen   uint64 = 0x00000004
	EpisodeUnseenMask uint64 = 0x00000006

	EpisodeShowDownloaded    uint64 = 0x00000008
	EpisodeShowNotDownloaded uint64 = 0x00000010
	EpisodeDownloadedMask    uint64 = 0x00000018

	EpisodeShowBookmarked    uint64 = 0x00000020
	EpisodeShowNotBookmarked uint64 = 0x00000040
	EpisodeBookmarkedMask    uint64 = 0x00000060

	EpisodeShowFillermarked    uint64 = 0x00000080
	EpisodeShowNotFillermarked uint64 = 0x00000100
	EpisodeFillermarkedMask    uint64 = 0x00000180

	EpisodeSortingSource     uint64 = 0x00000000
	EpisodeSortingNumber     uint64 = 0x00000200
	EpisodeSortingUploadDate uint64 = 0x00000400
	EpisodeSortingAlphabet   uint64 = 0x00000600
	EpisodeSortingMask       uint64 = 0x00000600

	EpisodeDisplayName   uint64 = 0x00000000
	EpisodeDisplayNumber uint64 = 0x00100000
	EpisodeDisplayMask   uint64 = 0x00100000
)

// Viewer flag masks. The airing fields hold hex-shifted integers.
const (
	AnimeIntroMask         uint64 = 0x000000000000FF
	AnimeAiringEpisodeMask uint64 = 0x00000000FFFF00
	AnimeAiringTimeMask    uint64 = 0xFFFFFFFF000000
)

// Episode flag field names.
const (
	FieldSortDirection = "sort_direction"
	FieldUnseen        = "unseen"
	FieldDownloaded    = "downloaded"
	FieldBookmarked    = "bookmarked"
	FieldFillermarked  = "fillermarked"
	FieldSorting       = "sorting"
	FieldDisplay       = "display"
)

// Viewer flag field names.
const (
	FieldIntro         = "intro"
	FieldAiringEpisode = "airing_episode"
	FieldAiringTime    = "airing_time"
)

// EpisodeFlagLayout is the bit layout of Anime.EpisodeFlags.
var EpisodeFlagLayout = flagword.MustLayout(
	flagword.Field{Name: FieldSortDirection, Mask: EpisodeSortDirMask},
	flagword.Field{Name: FieldUnseen, Mask: EpisodeUnseenMask},
	flagword.Field{Name: FieldDownloaded, Mask: EpisodeDownloadedMask},
	flagword.Field{Name: FieldBookmarked, Mask: EpisodeBookmarkedMask},
	flagword.Field{Name: FieldFillermarked, Mask: EpisodeFillermarkedMask},
	flagword.Field{Name: FieldSorting, Mask: EpisodeSortingMask},
	flagword.Field{Name: FieldDisplay, Mask: EpisodeDisplayMask},
)

// ViewerFlagLayout is the bit layout of Anime.ViewerFlags.
var ViewerFlagLayout = flagword.MustLayout(
	flagword.Field{Name: FieldIntro, Mask: AnimeIntroMask},
	flagword.Field{Name: FieldAiringEpisode, Mask: AnimeAiringEpisodeMask},
	flagword.Field{Name: FieldAiringTime, Mask: AnimeAiringTimeMask},
)

// episodeFlagValues lists the named values each episode field accepts.
var episodeFlagValues = map[uint64][]uint64{
	EpisodeSortDirMask:      {EpisodeSortDesc, EpisodeSortAsc},
	EpisodeUnseenMask:       {ShowAll, EpisodeShowUnseen, EpisodeShowSeen},
	EpisodeDownloadedMask:   {ShowAll, EpisodeShowDownloaded, EpisodeShowNotDownloaded},
	EpisodeBookmarkedMask:   {ShowAll, EpisodeShowBookmarked, EpisodeShowNotBookmarked},
	EpisodeFillermarkedMask: {ShowAll, EpisodeShowFillermarked, EpisodeShowNotFillermarked},
	EpisodeSortingMask:      {EpisodeSortingSource, EpisodeSortingNumber, EpisodeSortingUploadDate, EpisodeSortingAlphabet},
	EpisodeDisplayMask:      {EpisodeDisplayName, EpisodeDisplayNumber},
}

// ValidEpisodeFlag reports whether value is one of the named values of the
// episode field selected by mask.
func ValidEpisodeFlag(value, mask uint64) bool {
	for _, v := range episodeFlagValues[mask] {
		if v == value {
			return true
		}
	}
	return false
}

// TriState is a three-valued library filter.
type TriState int

const (
	TriStateDisabled TriState = iota
	TriStateEnabledIs
	TriStateEnabledNot
)

var triStateNames = []string{"DISABLED", "ENABLED_IS", "ENABLED_NOT"}

func (t TriState) String() string {
	if t < 0 || int(t) >= len(triStateNames) {
		return triStateNames[0]
	}
	return triStateNames[t]
}

// TriStates lists every TriState value.
func TriStates() []TriState {
	return []TriState{TriStateDisabled, TriStateEnabledIs, TriStateEnabledNot}
}

// Next cycles DISABLED -> ENABLED_IS -> ENABLED_NOT -> DISABLED.
func (t TriState) Next() TriState {
	switch t {
	case TriStateDisabled:
		return TriStateEnabledIs
	case TriStateEnabledIs:
		return TriStateEnabledNot
	default:
		return TriStateDisabled
	}
}

func triState(raw, is, not uint64) TriState {
	switch raw {
	case is:
		return TriStateEnabledIs
	case not:
		return TriStateEnabledNot
	default:
		return TriStateDisabled
	}
}

// TriStateFlag maps a TriState back to the raw flag of a filter field.
func TriStateFlag(t TriState, is, not uint64) uint64 {
	switch t {
	case TriStateEnabledIs:
		return is
	case TriStateEnabledNot:
		return not
	default:
		return ShowAll
	}
}

// Sorting and the accessors below return the raw, still-shifted value of
// one episode flag field.
func (a *Anime) Sorting() uint64               { return a.EpisodeFlags & EpisodeSortingMask }
func (a *Anime) DisplayMode() uint64           { return a.EpisodeFlags & EpisodeDisplayMask }
func (a *Anime) UnseenFilterRaw() uint64       { return a.EpisodeFlags & EpisodeUnseenMask }
func (a *Anime) DownloadedFilterRaw() uint64   { return a.EpisodeFlags & EpisodeDownloadedMask }
func (a *Anime) BookmarkedFilterRaw() uint64   { return a.EpisodeFlags & EpisodeBookmarkedMask }
func (a *Anime) FillermarkedFilterRaw() uint64 { return a.EpisodeFlags & EpisodeFillermarkedMask }

// UnseenFilter is ENABLED_IS when only unseen episodes are shown.
func (a *Anime) UnseenFilter() TriState {
	return triState(a.UnseenFilterRaw(), EpisodeShowUnseen, EpisodeShowSeen)
}

// DownloadedFilter is forced to ENABLED_IS for favorites while the app runs
// in downloaded-only mode.
func (a *Anime) DownloadedFilter(downloadedOnly bool) TriState {
	if a.Favorite && downloadedOnly {
		return TriStateEnabledIs
	}
	return triState(a.DownloadedFilterRaw(), EpisodeShowDownloaded, EpisodeShowNotDownloaded)
}

// BookmarkedFilter is ENABLED_IS when only bookmarked episodes are shown.
func (a *Anime) BookmarkedFilter() TriState {
	return triState(a.BookmarkedFilterRaw(), EpisodeShowBookmarked, EpisodeShowNotBookmarked)
}

// FillermarkedFilter is ENABLED_IS when only filler episodes are shown.
func (a *Anime) FillermarkedFilter() TriState {
	return triState(a.FillermarkedFilterRaw(), EpisodeShowFillermarked, EpisodeShowNotFillermarked)
}

// EpisodesFiltered reports whether any episode filter is active.
func (a *Anime) EpisodesFiltered(downloadedOnly bool) bool {
	return a.UnseenFilter() != TriStateDisabled ||
		a.DownloadedFilter(downloadedOnly) != TriStateDisabled ||
		a.BookmarkedFilter() != TriStateDisabled ||
		a.FillermarkedFilter() != TriStateDisabled
}

// SortDescending reports whether episodes are listed in descending order.
func (a *Anime) SortDescending() bool {
	return a.EpisodeFlags&EpisodeSortDirMask == EpisodeSortDesc
}

// SkipIntroLength is the intro skip length in seconds.
func (a *Anime) SkipIntroLength() int {
	return int(a.ViewerFlags & AnimeIntroMask)
}

// NextEpisodeToAir is the number of the next episode to air, 0 if unknown.
func (a *Anime) NextEpisodeToAir() int {
	return int(flagword.DivHex(a.ViewerFlags&AnimeAiringEpisodeMask, 2))
}

// NextEpisodeAiringAt is the airing time of the next episode in epoch seconds.
func (a *Anime) NextEpisodeAiringAt() int64 {
	return int64(flagword.DivHex(a.ViewerFlags&AnimeAiringTimeMask, 6))
}
