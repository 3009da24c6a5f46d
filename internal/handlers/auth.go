package handlers

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/paisa-buddy/internal/auth"
	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/interfaces"
	"github.com/bobmcallan/paisa-buddy/internal/models"
)

// AuthHandler handles sign-up, sign-in and account verification.
type AuthHandler struct {
	logger   *common.Logger
	provider interfaces.IdentityProvider
	profiles interfaces.ProfileStore
	sessions *auth.Sessions
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(logger *common.Logger, provider interfaces.IdentityProvider, profiles interfaces.ProfileStore, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{logger: logger, provider: provider, profiles: profiles, sessions: sessions}
}

type credentials struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type sessionResponse struct {
	User  models.Identity `json:"user"`
	Token string          `json:"token"`
}

// HandleSignup handles POST /api/auth/signup.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req credentials
	if !DecodeJSON(w, r, &req) {
		return
	}

	id, err := h.provider.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			WriteError(w, http.StatusConflict, err.Error())
		case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
			WriteError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("sign-up failed")
			WriteError(w, http.StatusInternalServerError, "Sign-up failed")
		}
		return
	}
	h.startSession(w, id, http.StatusCreated)
}

// HandleLogin handles POST /api/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req credentials
	if !DecodeJSON(w, r, &req) {
		return
	}

	id, err := h.provider.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			WriteError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("sign-in failed")
		WriteError(w, http.StatusInternalServerError, "Sign-in failed")
		return
	}
	h.startSession(w, id, http.StatusOK)
}

// HandleLogout handles POST /api/auth/logout.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	h.sessions.ClearCookie(w)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReset handles POST /api/auth/reset. With only an email it sends a
// reset code; with a code and new password it resets the password.
func (h *AuthHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Email    string `json:"email"`
		Code     string `json:"code"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if req.Code == "" {
		if err := h.provider.SendPasswordReset(r.Context(), req.Email); err != nil {
			h.logger.Error().Err(err).Msg("password reset request failed")
			WriteError(w, http.StatusInternalServerError, "Could not send reset code")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "If the account exists, a reset code has been sent."})
		return
	}

	if err := h.provider.ResetPassword(r.Context(), req.Email, req.Code, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCode) || errors.Is(err, auth.ErrWeakPassword) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("password reset failed")
		WriteError(w, http.StatusInternalServerError, "Password reset failed")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleSendVerification handles POST /api/auth/verify/send.
func (h *AuthHandler) HandleSendVerification(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.provider.SendEmailVerification(r.Context(), uid); err != nil {
		h.writeAccountError(w, err, "Could not send verification code")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleVerify handles POST /api/auth/verify.
func (h *AuthHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Code string `json:"code"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := h.provider.VerifyEmail(r.Context(), uid, req.Code); err != nil {
		if errors.Is(err, auth.ErrInvalidCode) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeAccountError(w, err, "Verification failed")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleMe handles GET /api/me.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	resp := map[string]interface{}{"uid": uid}
	if id, err := h.provider.Lookup(r.Context(), uid); err == nil {
		resp["user"] = id
	}
	if p, err := h.profiles.LoadProfile(r.Context(), uid); err == nil {
		resp["profile"] = p
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, id models.Identity, status int) {
	token, err := h.sessions.Tokens().Mint(id)
	if err != nil {
		h.logger.Error().Err(err).Str("uid", id.UID).Msg("failed to mint session token")
		WriteError(w, http.StatusInternalServerError, "Could not start session")
		return
	}
	h.sessions.SetCookie(w, token)
	WriteJSON(w, status, sessionResponse{User: id, Token: token})
}

func (h *AuthHandler) writeAccountError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, auth.ErrUnknownUser) {
		WriteError(w, http.StatusNotFound, "Account not found")
		return
	}
	h.logger.Error().Err(err).Msg(message)
	WriteError(w, http.StatusInternalServerError, message)
}
