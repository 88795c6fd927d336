package handlers

import (
	"context"
	"net/http"

	"repairhub/middleware"
	"repairhub/models"
	"repairhub/services/admin"

	"github.com/gin-gonic/gin"
)

// AccountHandler provisions user and technician accounts on behalf of admins.
type AccountHandler struct {
	Service admin.AccountService
}

func NewAccountHandler(svc admin.AccountService) *AccountHandler {
	return &AccountHandler{Service: svc}
}

// CreateUser handles POST /api/admin/users.
func (h *AccountHandler) CreateUser(c *gin.Context) {
	h.create(c, h.Service.CreateUser)
}

// CreateTechnician handles POST /api/admin/technicians.
func (h *AccountHandler) CreateTechnician(c *gin.Context) {
	h.create(c, h.Service.CreateTechnician)
}

func (h *AccountHandler) create(c *gin.Context, fn func(ctx context.Context, callerUID string, req models.AccountRequest) (*models.CreatedAccount, error)) {
	var req models.AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	created, err := fn(c.Request.Context(), middleware.UID(c), req)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, created)
}
