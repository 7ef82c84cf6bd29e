package dto

// StudentLoginRequest carries a student's credentials.
type StudentLoginRequest struct {
	StudentNo string `json:"student_no" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// ProfessorLoginRequest carries a professor's credentials.
type ProfessorLoginRequest struct {
	AdminID  string `json:"admin_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and display identity.
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}
