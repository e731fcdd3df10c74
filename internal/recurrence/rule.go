package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind is the recurrence variant of a rule.
type Kind int

const (
	None Kind = iota
	Daily
	Weekly
	Monthly
	Weekdays
	SpecificDays
)

var kindNames = map[Kind]string{
	Daily:        "DAILY",
	Weekly:       "WEEKLY",
	Monthly:      "MONTHLY",
	Weekdays:     "WEEKDAYS",
	SpecificDays: "DAYS",
}

var kindFromName = map[string]Kind{
	"DAILY":    Daily,
	"WEEKLY":   Weekly,
	"MONTHLY":  Monthly,
	"WEEKDAYS": Weekdays,
	"DAYS":     SpecificDays,
}

var dayNames = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

var dayAbbrev = map[time.Weekday]string{
	time.Sunday:    "SU",
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
}

// Rule is a parsed recurrence rule. It is pure data: evaluation never
// mutates it, and the weekly/monthly anchors are stored explicitly in
// the rule rather than inferred at evaluation time.
type Rule struct {
	Kind     Kind
	Anchor   time.Weekday   // for WEEKLY: the due weekday
	MonthDay int            // for MONTHLY: anchor day of month, 1-31
	Days     []time.Weekday // for DAYS: the due weekday set (may be empty)
}

// Parse parses a rule string like "FREQ=WEEKLY;ANCHOR=MO" or
// "FREQ=DAYS;BYDAY=TU,TH". The empty string is the none rule.
func Parse(rule string) (Rule, error) {
	if rule == "" {
		return Rule{}, nil
	}

	r := Rule{}
	var hasFreq, hasAnchor, hasMonthDay bool

	parts := strings.Split(rule, ";")
	for _, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return Rule{}, fmt.Errorf("invalid rule part: %q", part)
		}
		key, val := kv[0], kv[1]

		switch key {
		case "FREQ":
			k, ok := kindFromName[val]
			if !ok {
				return Rule{}, fmt.Errorf("unknown frequency: %q", val)
			}
			r.Kind = k
			hasFreq = true

		case "ANCHOR":
			wd, ok := dayNames[val]
			if !ok {
				return Rule{}, fmt.Errorf("unknown anchor day: %q", val)
			}
			r.Anchor = wd
			hasAnchor = true

		case "DAY":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 || n > 31 {
				return Rule{}, fmt.Errorf("invalid DAY: %q", val)
			}
			r.MonthDay = n
			hasMonthDay = true

		case "BYDAY":
			// An empty BYDAY is a valid rule that is never due.
			if val == "" {
				continue
			}
			for _, d := range strings.Split(val, ",") {
				wd, ok := dayNames[strings.TrimSpace(d)]
				if !ok {
					return Rule{}, fmt.Errorf("unknown day: %q", d)
				}
				r.Days = append(r.Days, wd)
			}

		default:
			return Rule{}, fmt.Errorf("unsupported rule key: %q", key)
		}
	}

	if !hasFreq {
		return Rule{}, fmt.Errorf("FREQ is required")
	}

	switch r.Kind {
	case Weekly:
		if !hasAnchor {
			return Rule{}, fmt.Errorf("WEEKLY requires ANCHOR")
		}
	case Monthly:
		if !hasMonthDay {
			return Rule{}, fmt.Errorf("MONTHLY requires DAY")
		}
	}
	if hasAnchor && r.Kind != Weekly {
		return Rule{}, fmt.Errorf("ANCHOR is only valid with FREQ=WEEKLY")
	}
	if hasMonthDay && r.Kind != Monthly {
		return Rule{}, fmt.Errorf("DAY is only valid with FREQ=MONTHLY")
	}
	if len(r.Days) > 0 && r.Kind != SpecificDays {
		return Rule{}, fmt.Errorf("BYDAY is only valid with FREQ=DAYS")
	}

	return r, nil
}

// String serializes the rule back to rule text. The none rule is "".
func (r Rule) String() string {
	if r.Kind == None {
		return ""
	}

	parts := []string{"FREQ=" + kindNames[r.Kind]}

	switch r.Kind {
	case Weekly:
		parts = append(parts, "ANCHOR="+dayAbbrev[r.Anchor])
	case Monthly:
		parts = append(parts, fmt.Sprintf("DAY=%d", r.MonthDay))
	case SpecificDays:
		var days []string
		for _, d := range r.Days {
			days = append(days, dayAbbrev[d])
		}
		parts = append(parts, "BYDAY="+strings.Join(days, ","))
	}

	return strings.Join(parts, ";")
}

// IsDue reports whether the rule produces an occurrence on the given
// calendar date. It is pure and total: any rule variant against any
// date yields an answer with no side effects. Only the date's year,
// month and day matter.
func (r Rule) IsDue(date time.Time) bool {
	switch r.Kind {
	case Daily:
		return true
	case Weekly:
		return date.Weekday() == r.Anchor
	case Monthly:
		// An anchor past the end of the month clamps to its last day,
		// so DAY=31 fires on Apr 30 and on Feb 28 (29 in leap years).
		day := r.MonthDay
		if last := daysInMonth(date.Year(), date.Month()); day > last {
			day = last
		}
		return date.Day() == day
	case Weekdays:
		wd := date.Weekday()
		return wd >= time.Monday && wd <= time.Friday
	case SpecificDays:
		for _, d := range r.Days {
			if date.Weekday() == d {
				return true
			}
		}
		return false
	}
	return false
}

// Describe returns a human-readable description of the rule.
func (r Rule) Describe() string {
	switch r.Kind {
	case Daily:
		return "Repeats daily"
	case Weekly:
		return "Repeats weekly on " + r.Anchor.String()
	case Monthly:
		return fmt.Sprintf("Repeats monthly on day %d", r.MonthDay)
	case Weekdays:
		return "Repeats Monday through Friday"
	case SpecificDays:
		if len(r.Days) == 0 {
			return "Never repeats (no days selected)"
		}
		var names []string
		for _, d := range r.Days {
			names = append(names, d.String()[:3])
		}
		return "Repeats on " + strings.Join(names, ", ")
	}
	return "Does not repeat"
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
