package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hopefund/backend/internal/services"
	"github.com/hopefund/backend/pkg/response"
)

type AdminHandler struct {
	authService    *services.AuthService
	projectService *services.ProjectService
}

func NewAdminHandler(authService *services.AuthService, projectService *services.ProjectService) *AdminHandler {
	return &AdminHandler{
		authService:    authService,
		projectService: projectService,
	}
}

// Login authenticates an admin account. Non-admin credentials fail exactly
// like bad credentials.
// POST /admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	session, err := h.authService.AdminLogin(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid credentials")
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, session)
}

// PendingProjects lists projects awaiting moderation
// GET /admin/projects/pending
func (h *AdminHandler) PendingProjects(c *gin.Context) {
	projects, err := h.projectService.ListPending()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, projects)
}

// ApproveProject moves a project to approved status (idempotent)
// PUT /admin/projects/:id/approve
func (h *AdminHandler) ApproveProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	if err := h.projectService.Approve(uint(id)); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			response.NotFound(c, "project not found")
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"status": "success"})
}
