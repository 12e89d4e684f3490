package dto

// RegisterUserRequest creates a profile in the user store. Skills are declared
// by the user; there is no resume parsing behind this.
type RegisterUserRequest struct {
	Name   string   `json:"name" binding:"required"`
	Email  string   `json:"email" binding:"required,email"`
	Skills []string `json:"skills"`
}

// StartTestRequest begins a new proctored test session for a user.
type StartTestRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// SubmitTestRequest carries all answers for one session. Keys are question ids;
// questions left unanswered are simply absent and count as wrong.
type SubmitTestRequest struct {
	SessionID     string          `json:"session_id" binding:"required"`
	MCQAnswers    map[uint]int    `json:"mcq_answers"`
	CodingAnswers map[uint]string `json:"coding_answers"`
}
