package preference

import (
	"fmt"
	"strings"

	"github.com/vmunix/animelib/pkg/flagword"
)

// Library sort masks inside category flags.
const (
	SortTypeMask      uint64 = 0b00111100
	SortDirectionMask uint64 = 0b01000000
)

// SortType is the key a library category is sorted by.
type SortType uint64

const (
	SortAlphabetical     SortType = 0b00000000
	SortLastSeen         SortType = 0b00000100
	SortLastUpdate       SortType = 0b00001000
	SortUnseenCount      SortType = 0b00001100
	SortTotalEpisodes    SortType = 0b00010000
	SortLatestEpisode    SortType = 0b00010100
	SortEpisodeFetchDate SortType = 0b00011000
	SortDateAdded        SortType = 0b00011100
	SortTrackerMean      SortType = 0b00100000
	SortAiringTime       SortType = 0b00110000
	SortRandom           SortType = 0b00111100
)

var sortTypeNames = map[SortType]string{
	SortAlphabetical:     "ALPHABETICAL",
	SortLastSeen:         "LAST_SEEN",
	SortLastUpdate:       "LAST_UPDATE",
	SortUnseenCount:      "UNSEEN_COUNT",
	SortTotalEpisodes:    "TOTAL_EPISODES",
	SortLatestEpisode:    "LATEST_EPISODE",
	SortEpisodeFetchDate: "EPISODE_FETCH_DATE",
	SortDateAdded:        "DATE_ADDED",
	SortTrackerMean:      "TRACKER_MEAN",
	SortAiringTime:       "AIRING_TIME",
	SortRandom:           "RANDOM",
}

// SortTypes lists every sort type in menu order.
func SortTypes() []SortType {
	return []SortType{
		SortAlphabetical, SortLastSeen, SortLastUpdate, SortUnseenCount, SortTotalEpisodes,
		SortLatestEpisode, SortEpisodeFetchDate, SortDateAdded, SortTrackerMean, SortAiringTime, SortRandom,
	}
}

func (t SortType) String() string {
	if name, ok := sortTypeNames[t]; ok {
		return name
	}
	return sortTypeNames[SortAlphabetical]
}

// Plus replaces the sort type bits of flags with t.
func (t SortType) Plus(flags uint64) uint64 {
	return flagword.Set(flags, uint64(t), SortTypeMask)
}

// ParseSortType parses a name produced by SortType.String.
func ParseSortType(name string) (SortType, error) {
	for t, n := range sortTypeNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return SortAlphabetical, fmt.Errorf("unknown sort type %q", name)
}

// SortDirection is the order a library category is sorted in.
type SortDirection uint64

const (
	SortDescending SortDirection = 0b00000000
	SortAscending  SortDirection = 0b01000000
)

func (d SortDirection) String() string {
	if d == SortAscending {
		return "ASCENDING"
	}
	return "DESCENDING"
}

// Plus replaces the direction bit of flags with d.
func (d SortDirection) Plus(flags uint64) uint64 {
	return flagword.Set(flags, uint64(d), SortDirectionMask)
}

// ParseSortDirection parses ASCENDING or DESCENDING.
func ParseSortDirection(name string) (SortDirection, error) {
	switch strings.ToUpper(name) {
	case "ASCENDING", "ASC":
		return SortAscending, nil
	case "DESCENDING", "DESC":
		return SortDescending, nil
	}
	return SortAscending, fmt.Errorf("unknown sort direction %q", name)
}

// LibrarySort is a library sort key and direction.
type LibrarySort struct {
	Type      SortType
	Direction SortDirection
}

// DefaultLibrarySort sorts alphabetically, ascending.
var DefaultLibrarySort = LibrarySort{Type: SortAlphabetical, Direction: SortAscending}

// Flags packs the sort into a category flag word.
func (s LibrarySort) Flags() uint64 {
	return s.Apply(0)
}

// Apply writes the sort into flags, leaving other category bits untouched.
func (s LibrarySort) Apply(flags uint64) uint64 {
	return s.Direction.Plus(s.Type.Plus(flags))
}

// LibrarySortFromFlags unpacks a category flag word.
func LibrarySortFromFlags(flags uint64) LibrarySort {
	return LibrarySort{
		Type:      SortType(flagword.Get(flags, SortTypeMask)),
		Direction: SortDirection(flagword.Get(flags, SortDirectionMask)),
	}
}

func (s LibrarySort) String() string {
	return s.Type.String() + "," + s.Direction.String()
}

// ParseLibrarySort parses "TYPE,DIRECTION". Invalid input yields the
// default sort and an error.
func ParseLibrarySort(raw string) (LibrarySort, error) {
	typ, dir, ok := strings.Cut(raw, ",")
	if !ok {
		return DefaultLibrarySort, fmt.Errorf("malformed library sort %q", raw)
	}
	t, err := ParseSortType(strings.TrimSpace(typ))
	if err != nil {
		return DefaultLibrarySort, err
	}
	d, err := ParseSortDirection(strings.TrimSpace(dir))
	if err != nil {
		return DefaultLibrarySort, err
	}
	return LibrarySort{Type: t, Direction: d}, nil
}
