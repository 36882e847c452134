package dto

// Chat modes accepted by the advisor endpoint.
const (
	ChatModeSubject   = "subject"
	ChatModeDashboard = "dashboard"
	ChatModeHelp      = "help"
)

// ChatRequest is the advisor chat payload.
type ChatRequest struct {
	Mode      string `json:"mode" validate:"required,oneof=subject dashboard help"`
	SubjectID string `json:"subject_id" validate:"required_if=Mode subject,omitempty,uuid"`
	Message   string `json:"message" validate:"required,min=1,max=4000"`
}

// ChatResponse carries the advisory text back to the client. Fallback
// is true when the text was rendered locally instead of by the model.
type ChatResponse struct {
	Reply    string `json:"reply"`
	Model    string `json:"model,omitempty"`
	Fallback bool   `json:"fallback"`
}
