package screen

import (
	"cookcam_backend/internal/form"
	"cookcam_backend/internal/navigation"
)

const (
	TitleLogin         = "Registro / Login"
	TitleSuccess       = "¡Bienvenido!"
	SubmitLabel        = "Registrar / Login"
	SubmitLabelLoading = "Cargando..."
	SuccessBody        = "Login exitoso."
)

// View is what a client renders.
type View struct {
	SessionID     string                 `json:"session_id"`
	Screen        navigation.Destination `json:"screen"`
	Title         string                 `json:"title,omitempty"`
	Email         string                 `json:"email,omitempty"`
	Loading       bool                   `json:"loading"`
	SubmitLabel   string                 `json:"submit_label,omitempty"`
	SubmitEnabled bool                   `json:"submit_enabled"`
	Body          string                 `json:"body,omitempty"`
	Notices       []form.Notice          `json:"notices"`
	Exited        bool                   `json:"exited"`
}
