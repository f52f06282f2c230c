package accrualconfig

import "time"

type SaveConfigRequest struct {
	Version string `json:"version" binding:"required"`

	InitialMonths  int `json:"initial_grant_after_months" binding:"required,min=1"`
	IntervalMonths int `json:"grant_cycle_months" binding:"required,min=1"`
	ExpiryYears    int `json:"expiry_years" binding:"required,min=1"`

	MinUseDays           float64 `json:"min_legal_use_days_per_year" binding:"min=0"`
	MinGrantDaysForAlert float64 `json:"min_grant_days_for_alert" binding:"min=0"`

	Checkpoints []Checkpoint `json:"checkpoints"`

	FullTimeTable  []GrantRow      `json:"full_time_table" binding:"required,min=1"`
	PartTimeTables []PartTimeTable `json:"part_time_tables"`
}

type ConfigSummary struct {
	Version   string    `json:"version"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r SaveConfigRequest) toConfig() Config {
	return Config{
		Version:              r.Version,
		InitialMonths:        r.InitialMonths,
		IntervalMonths:       r.IntervalMonths,
		ExpiryYears:          r.ExpiryYears,
		MinUseDays:           r.MinUseDays,
		MinGrantDaysForAlert: r.MinGrantDaysForAlert,
		Checkpoints:          r.Checkpoints,
		FullTimeTable:        r.FullTimeTable,
		PartTimeTables:       r.PartTimeTables,
	}
}
