package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"localshop/internal/domain"
	"localshop/internal/middleware"
	"localshop/internal/service"
)

// LoginRequest accepts either the email address or the contact number
type LoginRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Contact  string `json:"contact" validate:"required_without=Email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the token refresh request payload
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresAt    time.Time    `json:"expiresAt"`
	User         *domain.User `json:"user"`
}

// RefreshResponse represents the token refresh response
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	userService   service.UserService
	secureCookies bool
	logger        *zap.Logger
}

// NewUserHandler creates a new UserHandler. secureCookies marks the session
// cookie Secure and should be set whenever the API is served over TLS.
func NewUserHandler(userService service.UserService, secureCookies bool, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService:   userService,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		// Public routes
		r.Post("/register", h.Register)
		r.Post("/signup", h.SignUp)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/logout", h.Logout)
			r.Get("/profile", h.GetProfile)
		})
	})
}

// Register handles user registration
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Registration validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	user, err := h.userService.Register(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, err, "failed to register user")
		return
	}

	h.logger.Info("User registered successfully", zap.String("user_id", user.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, user)
}

// SignUp creates the account and logs it in straight away
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req service.SignUpInput
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Sign-up validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	session, err := h.userService.SignUp(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, err, "failed to register user")
		return
	}

	h.logger.Info("User signed up", zap.String("user_id", session.User.ID))
	h.respondWithSession(w, http.StatusCreated, session)
}

// Login authenticates by email or contact and sets the session cookie
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	identifier := req.Email
	if identifier == "" {
		identifier = req.Contact
	}

	session, err := h.userService.Login(r.Context(), identifier, req.Password)
	if err != nil {
		if statusFor(err) == http.StatusUnauthorized {
			h.logger.Debug("Login failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondError(w, h.logger, err, "failed to login")
		return
	}

	h.logger.Info("User logged in successfully", zap.String("user_id", session.User.ID))
	h.respondWithSession(w, http.StatusOK, session)
}

func (h *UserHandler) respondWithSession(w http.ResponseWriter, status int, session *service.Session) {
	http.SetCookie(w, h.sessionCookie(session.AccessToken, session.ExpiresAt))
	middleware.RespondWithJSON(w, status, LoginResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    session.ExpiresAt,
		User:         session.User,
	})
}

// Logout revokes the submitted refresh token, if any, and clears the session cookie
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Debug("Logout decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.RefreshToken != "" {
		if err := h.userService.Logout(r.Context(), req.RefreshToken); err != nil {
			respondError(w, h.logger, err, "failed to logout")
			return
		}
	}

	http.SetCookie(w, h.sessionCookie("", time.Unix(0, 0)))

	userID, _ := middleware.GetUserID(r.Context())
	h.logger.Info("User logged out successfully", zap.String("user_id", userID))
	middleware.RespondWithJSON(w, http.StatusOK, messageResponse{Message: "logged out successfully"})
}

// RefreshToken handles token refresh
func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Refresh token validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	newAccessToken, err := h.userService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		respondError(w, h.logger, err, "failed to refresh token")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, RefreshResponse{AccessToken: newAccessToken})
}

// GetProfile returns the signed-in user
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Error("User ID not found in context")
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err, "failed to get user profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}
