package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CR1SI/CarbonFootPrinters/module/core/domain"
)

type userService interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateUser(ctx context.Context, userID string, patch *domain.UserPatch) error
	DeleteUser(ctx context.Context, userID string) error
	GetMovements(ctx context.Context, userID string) ([]domain.LocationSample, error)
	AddEmission(ctx context.Context, userID string, kg float64) (float64, error)
}

type tripAnalyzer interface {
	Analyze(ctx context.Context, samples []domain.LocationSample) (domain.TripSummary, error)
}

type UserHandler struct {
	userSvc  userService
	analyzer tripAnalyzer
}

func NewUserHandler(userSvc userService, analyzer tripAnalyzer) *UserHandler {
	return &UserHandler{userSvc: userSvc, analyzer: analyzer}
}

func (h *UserHandler) Register(r *gin.RouterGroup) {
	r.POST("/users", h.CreateUser)
	r.GET("/users/:user_id", h.GetUser)
	r.PUT("/users/:user_id", h.UpdateUser)
	r.DELETE("/users/:user_id", h.DeleteUser)
	r.GET("/users/:user_id/movements", h.GetMovements)
	r.GET("/users/:user_id/trip", h.GetTrip)
	r.POST("/users/:user_id/emissions/add", h.AddEmission)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var user domain.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user payload"})
		return
	}

	created, err := h.userSvc.CreateUser(c.Request.Context(), &user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userSvc.GetUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	var patch domain.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update payload"})
		return
	}

	err := h.userSvc.UpdateUser(c.Request.Context(), c.Param("user_id"), &patch)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	err := h.userSvc.DeleteUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *UserHandler) GetMovements(c *gin.Context) {
	samples, err := h.userSvc.GetMovements(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch movements"})
		return
	}

	if samples == nil {
		samples = []domain.LocationSample{}
	}
	c.JSON(http.StatusOK, samples)
}

func (h *UserHandler) GetTrip(c *gin.Context) {
	samples, err := h.userSvc.GetMovements(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch movements"})
		return
	}

	summary, err := h.analyzer.Analyze(c.Request.Context(), samples)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "trajectory could not be analyzed"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

type addEmissionRequest struct {
	SavedKg float64 `json:"saved_kg" binding:"required"`
}

func (h *UserHandler) AddEmission(c *gin.Context) {
	var req addEmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid emission payload"})
		return
	}

	total, err := h.userSvc.AddEmission(c.Request.Context(), c.Param("user_id"), req.SavedKg)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add emission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"carbonEmission": total})
}
