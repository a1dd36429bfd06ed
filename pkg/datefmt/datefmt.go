// Package datefmt formats library dates: episode upload dates, history
// timestamps and "n days ago" labels.
package datefmt

import (
	"time"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DayMillis is the length of a day in milliseconds.
const DayMillis int64 = 86_400_000

// Default layouts.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Message keys of the relative date labels.
const (
	keyToday   = "relative.today"
	keyDaysAgo = "relative.days_ago"
)

var (
	messages  = newCatalog()
	supported = []language.Tag{language.English, language.German}
	matcher   = language.NewMatcher(supported)
)

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(b.SetString(language.English, keyToday, "Today"))
	must(b.Set(language.English, keyDaysAgo, plural.Selectf(1, "%d",
		"=1", "Yesterday",
		plural.Other, "%d days ago")))
	must(b.SetString(language.German, keyToday, "Heute"))
	must(b.Set(language.German, keyDaysAgo, plural.Selectf(1, "%d",
		"=1", "Gestern",
		plural.Other, "Vor %d Tagen")))
	return b
}

// DateTimestamp formats t as its date in layout followed by its time.
func DateTimestamp(t time.Time, layout string) string {
	return t.Format(layout) + " " + Timestamp(t)
}

// Timestamp formats the time of day of t.
func Timestamp(t time.Time) string {
	return t.Format(TimeLayout)
}

// ConvertEpochMillisZone reads millis as a wall clock in from and returns
// the instant that shows the same wall clock in to.
func ConvertEpochMillisZone(millis int64, from, to *time.Location) int64 {
	t := time.UnixMilli(millis).In(from)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), to).UnixMilli()
}

// DateKey returns local midnight of the day containing millis.
func DateKey(millis int64, loc *time.Location) time.Time {
	t := time.UnixMilli(millis).In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// FloorNearest rounds v down to a multiple of to.
func FloorNearest(v, to int64) int64 {
	return floorDiv(v, to) * to
}

func floorDiv(v, to int64) int64 {
	q := v / to
	if (v%to != 0) && ((v < 0) != (to < 0)) {
		q--
	}
	return q
}

// Relative labels t relative to now in the language of tag: "Today",
// "Yesterday" and "n days ago" within a week, the date in layout
// otherwise. Days are counted in t's and now's own zones. Future dates
// and relative=false always use layout.
func Relative(now, t time.Time, relative bool, layout string, tag language.Tag) string {
	if !relative {
		return t.Format(layout)
	}
	diff := FloorNearest(wallMillis(now), DayMillis) - FloorNearest(wallMillis(t), DayMillis)
	_, i, _ := matcher.Match(tag)
	p := message.NewPrinter(supported[i], message.Catalog(messages))
	switch {
	case diff < 0:
		return t.Format(layout)
	case diff < DayMillis:
		return p.Sprintf(keyToday)
	case diff < 7*DayMillis:
		return p.Sprintf(keyDaysAgo, int(diff/DayMillis))
	}
	return t.Format(layout)
}

// wallMillis is t in epoch millis shifted by its zone offset.
func wallMillis(t time.Time) int64 {
	_, offset := t.Zone()
	return t.UnixMilli() + int64(offset)*1000
}
