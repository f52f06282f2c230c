package employee

type CreateEmployeeRequest struct {
	FullName        string `json:"full_name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	JoinDate        string `json:"join_date" binding:"required"`
	VacationPattern string `json:"vacation_pattern" binding:"required,oneof=A B-1 B-2 B-3 B-4"`
	ConfigVersion   string `json:"config_version"`
	Role            string `json:"role" binding:"omitempty,oneof=member manager hr admin"`
}

type UpdateEmployeeRequest struct {
	FullName        string `json:"full_name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	JoinDate        string `json:"join_date" binding:"required"`
	VacationPattern string `json:"vacation_pattern" binding:"required,oneof=A B-1 B-2 B-3 B-4"`
	ConfigVersion   string `json:"config_version"`
	Role            string `json:"role" binding:"omitempty,oneof=member manager hr admin"`
	Status          string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

type EmployeeResponse struct {
	ID              string `json:"id"`
	EmployeeNumber  string `json:"employee_number"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	JoinDate        string `json:"join_date"`
	VacationPattern string `json:"vacation_pattern"`
	WeeklyPattern   *int   `json:"weekly_pattern,omitempty"`
	ConfigVersion   string `json:"config_version,omitempty"`
	Role            string `json:"role"`
	Status          string `json:"status"`
}
