package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"jewel-shop/internal/domain"
	"jewel-shop/internal/middleware"
	"jewel-shop/internal/repository"
	"jewel-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SignupRequest represents the registration request payload
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginRequest carries a Google ID token
type GoogleLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

// RefreshRequest represents the token refresh request payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenResponse represents a successful login response
type TokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserProfile `json:"user"`
}

// RefreshResponse represents the token refresh response
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// UserProfile represents user profile data
type UserProfile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Role        string `json:"role"`
}

// UpdateProfileRequest carries the self-updatable profile fields
type UpdateProfileRequest struct {
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
}

// AddressRequest represents an address create payload
type AddressRequest struct {
	Street    string `json:"street" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Zip       string `json:"zip" validate:"required"`
	Country   string `json:"country" validate:"required"`
	IsDefault bool   `json:"is_default"`
}

// AddressPatchRequest represents an address update payload
type AddressPatchRequest struct {
	Street    *string `json:"street"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	Zip       *string `json:"zip"`
	Country   *string `json:"country"`
	IsDefault *bool   `json:"is_default"`
}

// UserHandler handles HTTP requests for authentication, profile and
// address operations
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers all auth and user routes. Credential
// endpoints sit behind the rate limiter.
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware, rateLimitMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(rateLimitMiddleware)
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Post("/google", h.GoogleLogin)
		r.Post("/refresh", h.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/logout", h.Logout)
		})
	})

	r.Route("/api/users/me", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.GetProfile)
		r.Put("/", h.UpdateProfile)
		r.Get("/addresses", h.ListAddresses)
		r.Post("/addresses", h.CreateAddress)
		r.Put("/addresses/{addressID}", h.UpdateAddress)
		r.Delete("/addresses/{addressID}", h.DeleteAddress)
	})
}

// Signup handles user registration
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.respondDecodeError(w, err)
		return
	}

	user, err := h.userService.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "user with this email already exists")
			return
		}
		h.logger.Error("Registration failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	h.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, toProfile(user))
}

// Login handles password authentication
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.respondDecodeError(w, err)
		return
	}

	tokens, user, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, service.ErrInactiveUser):
			middleware.RespondWithError(w, http.StatusForbidden, "user account is inactive")
		default:
			h.logger.Error("Login failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         toProfile(user),
	})
}

// GoogleLogin handles social login with a Google ID token
func (h *UserHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req GoogleLoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.respondDecodeError(w, err)
		return
	}

	tokens, user, err := h.userService.GoogleLogin(r.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid google token")
		case errors.Is(err, service.ErrInactiveUser):
			middleware.RespondWithError(w, http.StatusForbidden, "user account is inactive")
		default:
			h.logger.Error("Google login failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		}
		return
	}

	h.logger.Info("User logged in via Google", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         toProfile(user),
	})
}

// Logout handles user logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userService.Logout(r.Context(), req.RefreshToken); err != nil {
		h.logger.Error("Logout failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to logout")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

// RefreshToken handles access token refresh
func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.respondDecodeError(w, err)
		return
	}

	newAccessToken, err := h.userService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid refresh token")
		case errors.Is(err, service.ErrTokenExpired):
			middleware.RespondWithError(w, http.StatusUnauthorized, "refresh token expired")
		default:
			h.logger.Error("Token refresh failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to refresh token")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, RefreshResponse{AccessToken: newAccessToken})
}

// GetProfile returns the caller's profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get user profile", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get user profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProfile(user))
}

// UpdateProfile applies a partial update to the caller's profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, domain.UserPatch{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.logger.Error("Failed to update profile", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProfile(user))
}

// ListAddresses returns the caller's saved addresses
func (h *UserHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	addresses, err := h.userService.ListAddresses(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list addresses", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list addresses")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, addresses)
}

// CreateAddress saves a new address for the caller
func (h *UserHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	var req AddressRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.respondDecodeError(w, err)
		return
	}

	address := &domain.Address{
		UserID:    userID,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	}

	if err := h.userService.CreateAddress(r.Context(), address); err != nil {
		h.logger.Error("Failed to create address", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create address")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, address)
}

// UpdateAddress applies a partial update to one of the caller's addresses
func (h *UserHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	addressID, err := uuid.Parse(chi.URLParam(r, "addressID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid address id")
		return
	}

	var req AddressPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	address, err := h.userService.UpdateAddress(r.Context(), addressID, userID, domain.AddressPatch{
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "address not found")
			return
		}
		h.logger.Error("Failed to update address", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update address")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, address)
}

// DeleteAddress removes one of the caller's addresses
func (h *UserHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	addressID, err := uuid.Parse(chi.URLParam(r, "addressID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid address id")
		return
	}

	if err := h.userService.DeleteAddress(r.Context(), addressID, userID); err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "address not found")
			return
		}
		h.logger.Error("Failed to delete address", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete address")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "address deleted"})
}

func (h *UserHandler) respondDecodeError(w http.ResponseWriter, err error) {
	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}
	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
}

func toProfile(user *domain.User) UserProfile {
	return UserProfile{
		ID:          user.ID.String(),
		Email:       user.Email,
		FullName:    user.FullName,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
	}
}

// authenticatedUserID pulls the user id set by the auth middleware out
// of the request context, responding with an error when absent.
func authenticatedUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return uuid.Nil, false
	}

	return userID, true
}
