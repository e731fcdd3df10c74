package recurrence

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseKinds(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
	}{
		{"", None},
		{"FREQ=DAILY", Daily},
		{"FREQ=WEEKLY;ANCHOR=MO", Weekly},
		{"FREQ=MONTHLY;DAY=15", Monthly},
		{"FREQ=WEEKDAYS", Weekdays},
		{"FREQ=DAYS;BYDAY=TU,TH", SpecificDays},
	}

	for _, tt := range tests {
		r, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.input, err)
			continue
		}
		if r.Kind != tt.kind {
			t.Errorf("Parse(%q).Kind = %d, want %d", tt.input, r.Kind, tt.kind)
		}
	}
}

func TestParseWeeklyAnchor(t *testing.T) {
	r, err := Parse("FREQ=WEEKLY;ANCHOR=TH")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if r.Anchor != time.Thursday {
		t.Errorf("Anchor = %v, want Thursday", r.Anchor)
	}
}

func TestParseSpecificDays(t *testing.T) {
	r, err := Parse("FREQ=DAYS;BYDAY=MO,WE,FR")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	if len(r.Days) != len(want) {
		t.Fatalf("Days len = %d, want %d", len(r.Days), len(want))
	}
	for i, d := range r.Days {
		if d != want[i] {
			t.Errorf("Days[%d] = %v, want %v", i, d, want[i])
		}
	}
}

func TestParseEmptyDaySet(t *testing.T) {
	// An empty day set is a valid rule, not an error.
	r, err := Parse("FREQ=DAYS;BYDAY=")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if r.Kind != SpecificDays || len(r.Days) != 0 {
		t.Errorf("got Kind=%d Days=%v, want SpecificDays with no days", r.Kind, r.Days)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"FREQ=HOURLY",
		"ANCHOR=MO", // no FREQ
		"FREQ=WEEKLY",
		"FREQ=WEEKLY;ANCHOR=XX",
		"FREQ=MONTHLY",
		"FREQ=MONTHLY;DAY=0",
		"FREQ=MONTHLY;DAY=32",
		"FREQ=DAILY;ANCHOR=MO",
		"FREQ=DAILY;DAY=5",
		"FREQ=WEEKLY;ANCHOR=MO;BYDAY=TU",
		"FREQ=DAYS;BYDAY=XX",
		"FREQ=DAILY;UNKNOWN=1",
		"garbage",
	}

	for _, input := range tests {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) should error", input)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"FREQ=DAILY",
		"FREQ=WEEKLY;ANCHOR=SU",
		"FREQ=MONTHLY;DAY=31",
		"FREQ=WEEKDAYS",
		"FREQ=DAYS;BYDAY=TU,TH",
		"FREQ=DAYS;BYDAY=",
	}

	for _, input := range inputs {
		r, err := Parse(input)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", input, err)
			continue
		}
		back, err := Parse(r.String())
		if err != nil {
			t.Errorf("re-Parse(%q) error: %v", r.String(), err)
			continue
		}
		if back.String() != r.String() {
			t.Errorf("round trip of %q: %q != %q", input, back.String(), r.String())
		}
	}
}

func TestNoneNeverDue(t *testing.T) {
	r := Rule{}
	for d := 0; d < 14; d++ {
		if r.IsDue(date(2024, time.January, 1).AddDate(0, 0, d)) {
			t.Fatal("none rule should never be due")
		}
	}
}

func TestDailyAlwaysDue(t *testing.T) {
	r := Rule{Kind: Daily}
	for d := 0; d < 14; d++ {
		if !r.IsDue(date(2024, time.January, 1).AddDate(0, 0, d)) {
			t.Fatal("daily rule should always be due")
		}
	}
}

func TestWeeklyAnchoredMonday(t *testing.T) {
	// 2024-01-01 is a Monday. Over a 4-week window the rule is due on
	// exactly the four Mondays.
	r := Rule{Kind: Weekly, Anchor: time.Monday}
	start := date(2024, time.January, 1)

	var due []time.Time
	for d := 0; d < 28; d++ {
		day := start.AddDate(0, 0, d)
		if r.IsDue(day) {
			due = append(due, day)
		}
	}

	if len(due) != 4 {
		t.Fatalf("due on %d days, want 4", len(due))
	}
	for i, day := range due {
		want := start.AddDate(0, 0, 7*i)
		if !day.Equal(want) {
			t.Errorf("due[%d] = %v, want %v", i, day, want)
		}
	}
}

func TestMonthlyClamp(t *testing.T) {
	r := Rule{Kind: Monthly, MonthDay: 31}

	tests := []struct {
		day  time.Time
		want bool
	}{
		{date(2024, time.January, 31), true},
		{date(2024, time.January, 30), false},
		{date(2024, time.April, 30), true},  // April has 30 days: clamp
		{date(2024, time.April, 29), false},
		{date(2024, time.February, 29), true}, // leap year clamp
		{date(2023, time.February, 28), true}, // non-leap clamp
		{date(2023, time.February, 27), false},
	}

	for _, tt := range tests {
		if got := r.IsDue(tt.day); got != tt.want {
			t.Errorf("IsDue(%s) = %v, want %v", tt.day.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestMonthlyMidMonth(t *testing.T) {
	r := Rule{Kind: Monthly, MonthDay: 15}
	if !r.IsDue(date(2024, time.March, 15)) {
		t.Error("should be due on the 15th")
	}
	if r.IsDue(date(2024, time.March, 14)) || r.IsDue(date(2024, time.March, 16)) {
		t.Error("should not be due off the anchor day")
	}
}

func TestWeekdaysRule(t *testing.T) {
	r := Rule{Kind: Weekdays}
	// 2024-01-01 Mon .. 2024-01-07 Sun
	for d := 0; d < 7; d++ {
		day := date(2024, time.January, 1).AddDate(0, 0, d)
		want := d < 5
		if got := r.IsDue(day); got != want {
			t.Errorf("IsDue(%v %s) = %v, want %v", day.Weekday(), day.Format("2006-01-02"), got, want)
		}
	}
}

func TestSpecificDaysTueThu(t *testing.T) {
	r := Rule{Kind: SpecificDays, Days: []time.Weekday{time.Tuesday, time.Thursday}}
	start := date(2024, time.January, 1) // Monday

	var count int
	for d := 0; d < 14; d++ {
		day := start.AddDate(0, 0, d)
		due := r.IsDue(day)
		if due {
			count++
			if wd := day.Weekday(); wd != time.Tuesday && wd != time.Thursday {
				t.Errorf("due on %v, want only Tue/Thu", wd)
			}
		}
	}
	if count != 4 {
		t.Errorf("due on %d days over 2 weeks, want 4", count)
	}
}

func TestEmptySpecificDaysNeverDue(t *testing.T) {
	r := Rule{Kind: SpecificDays}
	for d := 0; d < 14; d++ {
		if r.IsDue(date(2024, time.January, 1).AddDate(0, 0, d)) {
			t.Fatal("empty day set should never be due")
		}
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		rule string
		want string
	}{
		{"FREQ=DAILY", "Repeats daily"},
		{"FREQ=WEEKLY;ANCHOR=MO", "Repeats weekly on Monday"},
		{"FREQ=MONTHLY;DAY=31", "Repeats monthly on day 31"},
		{"FREQ=WEEKDAYS", "Repeats Monday through Friday"},
		{"FREQ=DAYS;BYDAY=TU,TH", "Repeats on Tue, Thu"},
		{"", "Does not repeat"},
	}

	for _, tt := range tests {
		r, err := Parse(tt.rule)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.rule, err)
		}
		if got := r.Describe(); got != tt.want {
			t.Errorf("Describe(%q) = %q, want %q", tt.rule, got, tt.want)
		}
	}
}
