package accrualconfig

// Vacation patterns assigned to employees. Pattern A is the full-time
// schedule; B-1 through B-4 are part-time schedules keyed by the number
// of scheduled working days per week.
const (
	PatternFullTime = "A"
	PatternPartTime = "B"
)

type GrantRow struct {
	Years float64 `json:"years"`
	Days  float64 `json:"days"`
}

type PartTimeTable struct {
	WeeklyPattern int        `json:"weekly_pattern"`
	Grants        []GrantRow `json:"grants"`
}

// Checkpoint flags employees who have not consumed enough days by a
// point before the next grant date.
type Checkpoint struct {
	MonthsBefore    int     `json:"months_before"`
	MinConsumedDays float64 `json:"min_consumed_days"`
}

type Config struct {
	Version string `json:"version"`

	// Grant schedule: first grant InitialMonths after the join date,
	// then every IntervalMonths after that.
	InitialMonths  int `json:"initial_grant_after_months"`
	IntervalMonths int `json:"grant_cycle_months"`

	// Lots expire ExpiryYears after their grant date.
	ExpiryYears int `json:"expiry_years"`

	// Statutory minimum consumption per grant year, and the grant size
	// above which an employee falls under that obligation.
	MinUseDays           float64 `json:"min_legal_use_days_per_year"`
	MinGrantDaysForAlert float64 `json:"min_grant_days_for_alert"`

	Checkpoints []Checkpoint `json:"checkpoints"`

	FullTimeTable  []GrantRow      `json:"full_time_table"`
	PartTimeTables []PartTimeTable `json:"part_time_tables"`
}

// DefaultConfig is the built-in policy used when no stored config is
// active. Grant tables follow the Japanese Labor Standards Act schedule.
func DefaultConfig() Config {
	partTimeGrants := []GrantRow{
		{Years: 0.5, Days: 7},
		{Years: 1.5, Days: 8},
		{Years: 2.5, Days: 9},
	}
	return Config{
		Version:              "1.0.0",
		InitialMonths:        6,
		IntervalMonths:       12,
		ExpiryYears:          2,
		MinUseDays:           5,
		MinGrantDaysForAlert: 10,
		Checkpoints: []Checkpoint{
			{MonthsBefore: 3, MinConsumedDays: 5},
			{MonthsBefore: 2, MinConsumedDays: 3},
			{MonthsBefore: 1, MinConsumedDays: 5},
		},
		FullTimeTable: []GrantRow{
			{Years: 0.5, Days: 10},
			{Years: 1.5, Days: 11},
			{Years: 2.5, Days: 12},
			{Years: 3.5, Days: 14},
			{Years: 4.5, Days: 16},
			{Years: 5.5, Days: 18},
			{Years: 6.5, Days: 20},
		},
		PartTimeTables: []PartTimeTable{
			{WeeklyPattern: 1, Grants: partTimeGrants},
			{WeeklyPattern: 2, Grants: partTimeGrants},
			{WeeklyPattern: 3, Grants: partTimeGrants},
			{WeeklyPattern: 4, Grants: partTimeGrants},
		},
	}
}
