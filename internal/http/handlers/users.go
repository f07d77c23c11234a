package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/veiling/veiling-be/internal/auth"
	"github.com/veiling/veiling-be/internal/http/respond"
	"github.com/veiling/veiling-be/internal/metrics"
	"github.com/veiling/veiling-be/internal/middleware"
	"github.com/veiling/veiling-be/internal/models"
	"github.com/veiling/veiling-be/internal/models/dto"
	"github.com/veiling/veiling-be/internal/service"
	"github.com/veiling/veiling-be/pkg/logger"
)

// UserService is the identity use-case surface the handler needs.
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Register(ctx context.Context, reg service.Registration) (models.User, error)
	Update(ctx context.Context, id int64, changes service.Changes) (models.User, error)
	Remove(ctx context.Context, id int64) (bool, error)
	Login(ctx context.Context, email, password string) (models.User, error)
}

// SessionTokens issues tokens at login and verifies them on /me.
type SessionTokens interface {
	Generate(user models.User) (string, time.Time, error)
	Parse(raw string) (auth.Claims, error)
}

// UsersHandler serves the /api/users routes.
type UsersHandler struct {
	users    UserService
	tokens   SessionTokens
	limiter  *middleware.ClientLimiter
	validate *requestValidator
	log      *zap.Logger
}

// NewUsersHandler constructs the handler. A nil limiter leaves login
// unthrottled.
func NewUsersHandler(users UserService, tokens SessionTokens, limiter *middleware.ClientLimiter, log *zap.Logger) *UsersHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UsersHandler{
		users:    users,
		tokens:   tokens,
		limiter:  limiter,
		validate: newRequestValidator(),
		log:      log,
	}
}

// Register attaches user routes to the mux.
func (h *UsersHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/users", h.handleList)
	mux.HandleFunc("GET /api/users/{id}", h.handleGet)
	mux.HandleFunc("GET /api/users/email/{email}", h.handleGetByEmail)
	mux.Handle("GET /api/users/me", middleware.RequireBearer(h.tokens, http.HandlerFunc(h.handleMe)))
	mux.HandleFunc("POST /api/users", h.handleCreate)
	mux.HandleFunc("PUT /api/users/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /api/users/{id}", h.handleDelete)
	mux.Handle("POST /api/users/login", middleware.RateLimit(h.limiter, http.HandlerFunc(h.handleLogin)))
}

func (h *UsersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, "users retrieved", dto.NewUserResponses(users))
}

func (h *UsersHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if user == nil {
		respond.Error(w, http.StatusNotFound, fmt.Sprintf("user %d not found", id))
		return
	}
	respond.JSON(w, http.StatusOK, "user retrieved", dto.NewUserResponse(*user))
}

func (h *UsersHandler) handleGetByEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PathValue("email"))
	if email == "" {
		respond.Error(w, http.StatusBadRequest, "email must not be empty")
		return
	}
	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if user == nil {
		respond.Error(w, http.StatusNotFound, "user not found")
		return
	}
	respond.JSON(w, http.StatusOK, "user retrieved", dto.NewUserResponse(*user))
}

// handleMe resolves the caller from the verified token rather than from
// anything the client stored.
func (h *UsersHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "invalid token")
		return
	}
	id, err := claims.UserID()
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "invalid token")
		return
	}
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if user == nil {
		respond.Error(w, http.StatusUnauthorized, "account no longer exists")
		return
	}
	respond.JSON(w, http.StatusOK, "current user", dto.NewUserResponse(*user))
}

func (h *UsersHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := h.validate.Validate(req); errs != nil {
		respond.ErrorDetails(w, http.StatusBadRequest, summary(errs), errs)
		return
	}

	created, err := h.users.Register(r.Context(), service.Registration{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Role:     req.Role,
		Company:  req.Company(),
		Address:  req.Address,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	metrics.RegistrationsTotal.WithLabelValues(string(created.Role())).Inc()
	respond.Created(w, fmt.Sprintf("/api/users/%d", created.ID), "user created", dto.NewUserResponse(created))
}

func (h *UsersHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID != id {
		respond.Error(w, http.StatusBadRequest, "id in body does not match id in path")
		return
	}
	if errs := h.validate.Validate(req); errs != nil {
		respond.ErrorDetails(w, http.StatusBadRequest, summary(errs), errs)
		return
	}

	updated, err := h.users.Update(r.Context(), id, service.Changes{
		Email:           strings.TrimSpace(req.Email),
		Password:        req.Password,
		Company:         req.Company(),
		CompanyAddress:  req.CompanyAddress,
		DeliveryAddress: req.DeliveryAddress,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, "user updated", dto.NewUserResponse(updated))
}

func (h *UsersHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	removed, err := h.users.Remove(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if !removed {
		respond.Error(w, http.StatusNotFound, fmt.Sprintf("user %d not found", id))
		return
	}
	respond.JSON(w, http.StatusOK, "user deleted", nil)
}

func (h *UsersHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.users.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			metrics.LoginsTotal.WithLabelValues(metrics.LoginRejected).Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues(metrics.LoginError).Inc()
		}
		writeError(w, r, h.log, err)
		return
	}

	token, expires, err := h.tokens.Generate(user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.LoginError).Inc()
		logger.FromContext(r.Context(), h.log).Error("generate token", zap.Int64("id", user.ID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	metrics.LoginsTotal.WithLabelValues(metrics.LoginSuccess).Inc()
	respond.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{
		Token:     token,
		ExpiresAt: expires.Unix(),
		User:      dto.NewUserResponse(user),
	})
}

// pathID parses the {id} segment, answering 400 when it is not a positive
// integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
