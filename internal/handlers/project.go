package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hopefund/backend/internal/middleware"
	"github.com/hopefund/backend/internal/services"
	"github.com/hopefund/backend/internal/storage"
	"github.com/hopefund/backend/pkg/logger"
	"github.com/hopefund/backend/pkg/response"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	uploads        *storage.Store
	taskQueue      services.TaskQueue
}

func NewProjectHandler(projectService *services.ProjectService, uploads *storage.Store, taskQueue services.TaskQueue) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		uploads:        uploads,
		taskQueue:      taskQueue,
	}
}

// CreateProjectForm binds the multipart submission fields.
type CreateProjectForm struct {
	Title                string  `form:"title" binding:"required"`
	Description          string  `form:"description" binding:"required"`
	Category             string  `form:"category" binding:"required"`
	GoalAmount           float64 `form:"goalAmount" binding:"required,gt=0"`
	Location             string  `form:"location" binding:"required"`
	NeedsVolunteers      bool    `form:"needsVolunteers"`
	VolunteerFormURL     string  `form:"volunteerFormUrl"`
	VolunteerDescription string  `form:"volunteerDescription"`
}

// Create handles a multipart project submission: stores the uploaded media,
// persists the project in pending status and queues the impact analysis.
// POST /projects/
func (h *ProjectHandler) Create(c *gin.Context) {
	var form CreateProjectForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, "invalid form data")
		return
	}

	mf, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "invalid multipart form")
		return
	}

	imageURLs, err := h.uploads.SaveAll(mf.File["images"])
	if err != nil {
		logger.Error().Err(err).Msg("image upload failed")
		response.ServerError(c, "failed to store uploads")
		return
	}

	pdfURL := ""
	if pdfs := mf.File["pdfDescription"]; len(pdfs) > 0 {
		pdfURL, err = h.uploads.Save(pdfs[0])
		if err != nil {
			logger.Error().Err(err).Msg("pdf upload failed")
			response.ServerError(c, "failed to store uploads")
			return
		}
	}

	draft := &services.ProjectDraft{
		Title:                form.Title,
		Description:          form.Description,
		OwnerEmail:           middleware.GetEmail(c),
		Category:             form.Category,
		GoalAmount:           form.GoalAmount,
		Location:             form.Location,
		NeedsVolunteers:      form.NeedsVolunteers,
		VolunteerFormURL:     form.VolunteerFormURL,
		VolunteerDescription: form.VolunteerDescription,
		Images:               imageURLs,
		PDFDescription:       pdfURL,
	}

	project, err := h.projectService.Create(draft)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Impact analysis is detached: enqueue failure degrades to score 0 and
	// never fails the submission.
	if err := h.taskQueue.Enqueue(&services.ImpactTask{
		ProjectID:   project.ID,
		Title:       project.Title,
		Description: project.Description,
	}); err != nil {
		logger.Warn().Err(err).Uint("project_id", project.ID).Msg("impact task enqueue failed")
	}

	response.Created(c, project)
}

// List returns the public listing of approved projects
// GET /projects/
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.ListApproved()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, projects)
}

// DonorCount returns the number of donations for a project
// GET /projects/:id/donor-count
func (h *ProjectHandler) DonorCount(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	count, err := h.projectService.DonorCount(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"donor_count": count})
}
