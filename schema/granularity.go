package schema

import (
	"fmt"
	"strings"
)

// Granularity ranks a time unit. Finer units have larger ranks.
type Granularity int

// Ranks for every supported time unit.
const (
	UnknownGranularity Granularity = 0
	YearGranularity    Granularity = 10
	QuarterGranularity Granularity = 20
	MonthGranularity   Granularity = 30
	WeekGranularity    Granularity = 40
	DayGranularity     Granularity = 50
	HourGranularity    Granularity = 60
	MinuteGranularity  Granularity = 70
	SecondGranularity  Granularity = 80
)

// GranularityUnits lists the named units from coarsest to finest.
// Name scanning relies on this order: "day_of_week" must resolve to week before day.
var GranularityUnits = []Granularity{
	YearGranularity,
	QuarterGranularity,
	MonthGranularity,
	WeekGranularity,
	DayGranularity,
	HourGranularity,
	MinuteGranularity,
	SecondGranularity,
}

var granularityNames = map[Granularity]string{
	UnknownGranularity: "unknown",
	YearGranularity:    "year",
	QuarterGranularity: "quarter",
	MonthGranularity:   "month",
	WeekGranularity:    "week",
	DayGranularity:     "day",
	HourGranularity:    "hour",
	MinuteGranularity:  "minute",
	SecondGranularity:  "second",
}

// String returns the unit name, e.g. "week".
func (g Granularity) String() string {
	if name, ok := granularityNames[g]; ok {
		return name
	}
	return fmt.Sprintf("granularity(%d)", int(g))
}

// FinerThan reports whether g is a finer unit than other.
func (g Granularity) FinerThan(other Granularity) bool {
	return g > other
}

// MarshalText encodes the granularity by its unit name.
func (g Granularity) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText decodes a unit name back into a granularity.
func (g *Granularity) UnmarshalText(text []byte) error {
	parsed, ok := ParseGranularity(string(text))
	if !ok {
		return fmt.Errorf("unknown granularity %q", string(text))
	}
	*g = parsed
	return nil
}

// ParseGranularity looks up a granularity by its exact unit name (case-insensitive).
func ParseGranularity(name string) (Granularity, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for g, n := range granularityNames {
		if n == name {
			return g, true
		}
	}
	return UnknownGranularity, false
}
