package form

import (
	"errors"
	"fmt"

	"cookcam_backend/internal/access"
	"cookcam_backend/internal/identity"
)

// NoticeKind identifies a transient user message.
type NoticeKind string

const (
	NoticeInvalidEmail        NoticeKind = "invalid_email"
	NoticePasswordTooShort    NoticeKind = "password_too_short"
	NoticeRegistrationSuccess NoticeKind = "registration_success"
	NoticeProfileWriteFailed  NoticeKind = "profile_write_failed"
	NoticeRegistrationFailed  NoticeKind = "registration_failed"
	NoticeLoginSuccess        NoticeKind = "login_success"
	NoticeLoginFailed         NoticeKind = "login_failed"
	NoticeSubmissionInFlight  NoticeKind = "submission_in_flight"
)

// UnknownErrorText stands in when a failure carries no message.
const UnknownErrorText = "Error desconocido"

// Notice is a short message shown once, like a toast.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Notifier receives notices in the order they are raised.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// ValidationNotice returns the notice for a Validate error, and false for anything else.
func ValidationNotice(err error) (Notice, bool) {
	switch {
	case errors.Is(err, ErrInvalidEmail):
		return Notice{Kind: NoticeInvalidEmail, Message: "Correo inválido"}, true
	case errors.Is(err, ErrPasswordTooShort):
		return Notice{Kind: NoticePasswordTooShort, Message: "La contraseña debe tener al menos 6 caracteres"}, true
	case errors.Is(err, ErrSubmissionInFlight):
		return Notice{Kind: NoticeSubmissionInFlight, Message: "Ya hay una solicitud en curso"}, true
	}
	return Notice{}, false
}

// NoticeFor returns the notice describing a finished run.
func NoticeFor(res access.Result) Notice {
	switch res.Outcome {
	case access.OutcomeRegistered:
		return Notice{Kind: NoticeRegistrationSuccess, Message: "Registro exitoso como usuario"}
	case access.OutcomeLoggedIn:
		return Notice{Kind: NoticeLoginSuccess, Message: "Login exitoso"}
	case access.OutcomeProfileFailed:
		var cause error = res.Err
		var pwe *access.ProfileWriteError
		if errors.As(res.Err, &pwe) {
			cause = pwe.Err
		}
		return Notice{Kind: NoticeProfileWriteFailed, Message: fmt.Sprintf("Error al guardar datos: %s", errorText(cause))}
	case access.OutcomeLoginFailed:
		return Notice{Kind: NoticeLoginFailed, Message: fmt.Sprintf("Error al iniciar sesión: %s", errorText(res.Err))}
	default:
		return Notice{Kind: NoticeRegistrationFailed, Message: fmt.Sprintf("Error al registrar: %s", errorText(res.Err))}
	}
}

func errorText(err error) string {
	if msg := identity.MessageOf(err); msg != "" {
		return msg
	}
	return UnknownErrorText
}
