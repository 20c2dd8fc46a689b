package screen

import (
	"context"
	"errors"
	"net/http"

	"cookcam_backend/internal/access"
	"cookcam_backend/internal/common"
	"cookcam_backend/internal/form"
	"cookcam_backend/internal/guard"
	"cookcam_backend/internal/identity"
	"cookcam_backend/internal/navigation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// SubmitRequest is the form body for a screen session. Empty fields are reported as notices.
type SubmitRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AccessRequest is the body of the stateless register-or-login endpoint.
type AccessRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AccessResponse is returned by the stateless endpoint on success.
type AccessResponse struct {
	Outcome access.Outcome      `json:"outcome"`
	UserID  identity.UserHandle `json:"user_id"`
	Session *identity.Session   `json:"session,omitempty"`
	Notices []form.Notice       `json:"notices"`
}

// Handler serves screen sessions and the stateless access endpoint.
type Handler struct {
	store      *Store
	dispatcher form.Dispatcher
	guard      guard.Guard
	logger     *zap.Logger
}

// NewHandler creates a new screen handler.
func NewHandler(store *Store, dispatcher form.Dispatcher, g guard.Guard, logger *zap.Logger) *Handler {
	return &Handler{
		store:      store,
		dispatcher: dispatcher,
		guard:      g,
		logger:     logger.Named("ScreenHandler"),
	}
}

// RegisterRoutes sets up the screen and access routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	screens := router.Group("/screens")
	{
		screens.POST("", h.createSession)
		screens.GET("/:id", h.getView)
		screens.POST("/:id/submit", h.submit)
		screens.POST("/:id/back", h.back)
	}
	router.POST("/auth/access", h.access)
}

func (h *Handler) createSession(c *gin.Context) {
	sess := h.store.Create()
	common.RespondCreated(c, "Screen session created.", sess.View())
}

func (h *Handler) getView(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	common.RespondOK(c, "Screen retrieved.", sess.View())
}

func (h *Handler) submit(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Submit: invalid request body", zap.Error(err), zap.String("session_id", sess.ID))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	if sess.Nav.Current() != navigation.Login {
		common.RespondWithErrorData(c, common.ErrConflict.WithDetails("The form is not on screen."), sess.View())
		return
	}

	// Once dispatched, a submission runs to completion even if the client goes away.
	ctx := context.WithoutCancel(c.Request.Context())
	_, err := sess.Form.Submit(ctx, req.Email, req.Password)
	switch {
	case errors.Is(err, form.ErrSubmissionInFlight):
		common.RespondWithErrorData(c, common.ErrConflict.WithDetails("A submission is already in flight."), sess.View())
	case err != nil && !isValidationError(err):
		common.RespondWithErrorData(c, common.ErrBadGateway.WithDetails(err.Error()), sess.View())
	default:
		common.RespondOK(c, "Submission processed.", sess.View())
	}
}

func (h *Handler) back(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	if _, exited := sess.Nav.Back(); exited {
		h.store.Remove(sess.ID)
		h.logger.Debug("Screen session exited", zap.String("session_id", sess.ID))
	}
	common.RespondOK(c, "Navigated back.", sess.View())
}

func (h *Handler) access(c *gin.Context) {
	var req AccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	var notices []form.Notice
	ctrl := form.NewController(h.dispatcher, h.guard, nil, form.NotifierFunc(func(n form.Notice) {
		notices = append(notices, n)
	}), h.logger)

	ctx := context.WithoutCancel(c.Request.Context())
	res, err := ctrl.Submit(ctx, req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, submitAPIError(err, notices))
		return
	}
	if notices == nil {
		notices = []form.Notice{}
	}

	body := AccessResponse{Outcome: res.Outcome, UserID: res.UserID, Session: res.Session, Notices: notices}
	switch res.Outcome {
	case access.OutcomeRegistered:
		common.RespondCreated(c, "Registration successful.", body)
	case access.OutcomeLoggedIn:
		common.RespondOK(c, "Login successful.", body)
	default:
		common.RespondWithErrorData(c, outcomeAPIError(res, notices), body)
	}
}

func (h *Handler) session(c *gin.Context) (*Session, bool) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrNotFound.WithDetails("Screen session not found or expired."))
		return nil, false
	}
	return sess, true
}

func isValidationError(err error) bool {
	return errors.Is(err, form.ErrInvalidEmail) || errors.Is(err, form.ErrPasswordTooShort)
}

func submitAPIError(err error, notices []form.Notice) *common.APIError {
	switch {
	case errors.Is(err, form.ErrInvalidEmail):
		return common.NewValidationAPIError(map[string]string{"email": firstMessage(notices, err)})
	case errors.Is(err, form.ErrPasswordTooShort):
		return common.NewValidationAPIError(map[string]string{"password": firstMessage(notices, err)})
	case errors.Is(err, form.ErrSubmissionInFlight):
		return common.ErrConflict.WithDetails("A submission is already in flight.")
	}
	return common.ErrBadGateway.WithDetails(err.Error())
}

func outcomeAPIError(res access.Result, notices []form.Notice) *common.APIError {
	msg := firstMessage(notices, res.Err)
	if res.Outcome == access.OutcomeLoginFailed {
		return common.ErrUnauthorized.WithDetails(msg)
	}
	var idErr *identity.Error
	if errors.As(res.Err, &idErr) && (idErr.Kind == identity.KindWeakPassword || idErr.Kind == identity.KindInvalidEmail) {
		return common.ErrUnprocessableEntity.WithDetails(msg)
	}
	return common.ErrBadGateway.WithDetails(msg)
}

func firstMessage(notices []form.Notice, err error) string {
	if len(notices) > 0 {
		return notices[0].Message
	}
	if err != nil {
		return err.Error()
	}
	return http.StatusText(http.StatusInternalServerError)
}
