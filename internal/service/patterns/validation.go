package patterns

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

var weekdayKeys = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

// ValidatePattern проверяет определение паттерна: имя, тип, ключи расписания
// и шаблоны слотов. Все нарушения собираются в одну ошибку ErrInvalidPattern.
func ValidatePattern(pattern *domain.RecurringPattern) error {
	violations := make([]string, 0)

	if strings.TrimSpace(pattern.Name) == "" {
		violations = append(violations, "name must not be empty")
	}
	if !pattern.Type.IsValid() {
		violations = append(violations, fmt.Sprintf("unknown pattern type %q", pattern.Type))
	}
	if len(pattern.Schedule) == 0 {
		violations = append(violations, "schedule must not be empty")
	}
	if pattern.ValidUntil != nil && pattern.ValidUntil.Before(pattern.ValidFrom) {
		violations = append(violations, "validUntil must not be before validFrom")
	}

	for key, templates := range pattern.Schedule {
		if pattern.Type.IsValid() && !validKey(pattern.Type, key) {
			violations = append(violations, fmt.Sprintf("schedule key %q does not match pattern type %q", key, pattern.Type))
		}
		for _, tpl := range templates {
			if err := tpl.StartTime.Validate(); err != nil {
				violations = append(violations, fmt.Sprintf("key %q: invalid start time %q", key, tpl.StartTime))
				continue
			}
			if err := tpl.EndTime.Validate(); err != nil {
				violations = append(violations, fmt.Sprintf("key %q: invalid end time %q", key, tpl.EndTime))
				continue
			}
			if !tpl.StartTime.IsBefore(tpl.EndTime) {
				violations = append(violations, fmt.Sprintf("key %q: start %s must be before end %s", key, tpl.StartTime, tpl.EndTime))
			}
		}
	}

	for _, d := range pattern.ExceptionDates {
		if _, err := time.Parse(domain.DateFormat, d); err != nil {
			violations = append(violations, fmt.Sprintf("exception date %q is not a valid date", d))
		}
	}

	if len(violations) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPattern, strings.Join(violations, "; "))
	}
	return nil
}

func validKey(patternType domain.PatternType, key string) bool {
	switch patternType {
	case domain.PatternWeekly:
		return weekdayKeys[key]
	case domain.PatternMonthly:
		day, err := strconv.Atoi(key)
		return err == nil && day >= 1 && day <= 31
	case domain.PatternCustom:
		_, err := time.Parse(domain.DateFormat, key)
		return err == nil
	default:
		return false
	}
}
