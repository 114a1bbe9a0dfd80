package pricing

import (
	"sort"
	"time"

	"github.com/chrisdamba/hotelsim/internal/models"
)

// SeasonCalendar maps dates to season names using MM-DD ranges.
type SeasonCalendar struct {
	names  []string
	ranges map[string][]models.SeasonRange
}

func NewSeasonCalendar(seasons map[string][]models.SeasonRange) *SeasonCalendar {
	names := make([]string, 0, len(seasons))
	for name := range seasons {
		names = append(names, name)
	}
	// a fixed order keeps overlapping ranges deterministic
	sort.Strings(names)

	return &SeasonCalendar{names: names, ranges: seasons}
}

// SeasonFor returns the first season (by name) with a range containing date, or the default season.
func (c *SeasonCalendar) SeasonFor(date time.Time) string {
	md := date.Format(models.MonthDayLayout)

	for _, name := range c.names {
		for _, r := range c.ranges[name] {
			if inRange(md, r.Start, r.End) {
				return name
			}
		}
	}
	return models.DefaultSeason
}

// inRange compares zero-padded MM-DD strings, which order the same way as the dates they name.
func inRange(md, start, end string) bool {
	if start > end {
		return md >= start || md <= end
	}
	return start <= md && md <= end
}
