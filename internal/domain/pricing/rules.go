package pricing

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRuleSet = errors.New("pricing: invalid rule set")

// WeekdayRule adjusts every night that falls on a given weekday.
type WeekdayRule struct {
	Multiplier float64 `json:"multiplier" validate:"gt=0"`
	Label      string  `json:"label"`
	// SkipOnHoliday disables the rule inside a holiday window.
	SkipOnHoliday bool `json:"skip_on_holiday"`
}

// SeasonalRule multiplies nights whose month (0 = January) is listed.
type SeasonalRule struct {
	Months     []int   `json:"months" validate:"required,dive,min=0,max=11"`
	Multiplier float64 `json:"multiplier" validate:"gt=0"`
	Label      string  `json:"label"`
}

// RuleSet is the single multiplier table read by both the admin UI and the pricing pipeline.
type RuleSet struct {
	// Weekdays is keyed by time.Weekday (0 = Sunday); absence means no adjustment.
	Weekdays          map[int]WeekdayRule `json:"weekdays" validate:"dive"`
	Seasonal          []SeasonalRule      `json:"seasonal" validate:"dive"`
	HolidayMultiplier float64             `json:"holiday_multiplier" validate:"gt=0"`
}

const (
	weekendMultiplier = 1.2
	midweekMultiplier = 0.8
	holidayMultiplier = 1.25
	weekendLabel      = "weekend"
	midweekLabel      = "20% off"
	summerMultiplier  = 1.15
	festiveMultiplier = 1.10
	winterMultiplier  = 0.90
)

// DefaultRuleSet returns the compiled-in table; admin overrides replace it wholesale.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Weekdays: map[int]WeekdayRule{
			int(time.Monday):   {Multiplier: midweekMultiplier, Label: midweekLabel, SkipOnHoliday: true},
			int(time.Tuesday):  {Multiplier: midweekMultiplier, Label: midweekLabel, SkipOnHoliday: true},
			int(time.Friday):   {Multiplier: weekendMultiplier, Label: weekendLabel},
			int(time.Saturday): {Multiplier: weekendMultiplier, Label: weekendLabel},
		},
		Seasonal: []SeasonalRule{
			{Months: []int{5, 6, 7}, Multiplier: summerMultiplier, Label: "Summer"},
			{Months: []int{10, 11}, Multiplier: festiveMultiplier, Label: "Holiday season"},
			{Months: []int{0, 1}, Multiplier: winterMultiplier, Label: "Winter"},
		},
		HolidayMultiplier: holidayMultiplier,
	}
}

// Validate checks invariants struct tags cannot express.
func (r RuleSet) Validate() error {
	for day, rule := range r.Weekdays {
		if day < 0 || day > 6 {
			return fmt.Errorf("%w: weekday %d out of range", ErrInvalidRuleSet, day)
		}
		if rule.Multiplier <= 0 {
			return fmt.Errorf("%w: weekday %d multiplier must be positive", ErrInvalidRuleSet, day)
		}
	}
	for i, rule := range r.Seasonal {
		if rule.Multiplier <= 0 {
			return fmt.Errorf("%w: seasonal rule %d multiplier must be positive", ErrInvalidRuleSet, i)
		}
		if len(rule.Months) == 0 {
			return fmt.Errorf("%w: seasonal rule %d has no months", ErrInvalidRuleSet, i)
		}
		for _, m := range rule.Months {
			if m < 0 || m > 11 {
				return fmt.Errorf("%w: seasonal rule %d month %d out of range", ErrInvalidRuleSet, i, m)
			}
		}
	}
	if r.HolidayMultiplier <= 0 {
		return fmt.Errorf("%w: holiday multiplier must be positive", ErrInvalidRuleSet)
	}
	return nil
}

func (r RuleSet) weekdayRule(date time.Time) (WeekdayRule, bool) {
	rule, ok := r.Weekdays[int(date.Weekday())]
	return rule, ok
}

// seasonalRule returns the first rule listing the date's month.
func (r RuleSet) seasonalRule(date time.Time) (SeasonalRule, bool) {
	month := int(date.Month()) - 1
	for _, rule := range r.Seasonal {
		for _, m := range rule.Months {
			if m == month {
				return rule, true
			}
		}
	}
	return SeasonalRule{}, false
}
