package pricing

import (
	"directstay/internal/domain/shared/daterange"
)

// DailySchedule prices every night of r. It returns false when any night has no rate source,
// which switches the whole stay to the listing's static rate.
func DailySchedule(s Snapshot, r daterange.DateRange) ([]DailyRate, bool) {
	dates := r.Dates()
	out := make([]DailyRate, 0, len(dates))
	for _, date := range dates {
		base, ok := ResolveBaseRate(s, date)
		if !ok {
			return nil, false
		}
		if base.Flat {
			out = append(out, DailyRate{Date: date, Rate: clamp(base.Rate, base.Min, base.Max)})
			continue
		}

		rate := base.Rate
		label := ""
		holiday, isHoliday := HolidayName(date)

		if rule, ok := s.Rules.weekdayRule(date); ok && !(rule.SkipOnHoliday && isHoliday) {
			rate = applyMultiplier(rate, rule.Multiplier)
			label = rule.Label
		}
		// seasonal labels describe the rule in admin views and never reach the night
		if rule, ok := s.Rules.seasonalRule(date); ok {
			rate = applyMultiplier(rate, rule.Multiplier)
		}
		if isHoliday {
			rate = applyMultiplier(rate, s.Rules.HolidayMultiplier)
			label = holiday
		}
		out = append(out, DailyRate{Date: date, Rate: clamp(rate, base.Min, base.Max), Label: label})
	}
	return out, true
}
