package services

import (
	"errors"

	"github.com/hopefund/backend/internal/models"
	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// ProjectDraft is a validated project submission.
type ProjectDraft struct {
	Title                string
	Description          string
	OwnerEmail           string
	Category             string
	GoalAmount           float64
	Location             string
	NeedsVolunteers      bool
	VolunteerFormURL     string
	VolunteerDescription string
	Images               []string
	PDFDescription       string
}

// Create stores a new project. Projects always start in pending status with
// zeroed aggregates; moderation is the only path to public visibility.
func (s *ProjectService) Create(draft *ProjectDraft) (*models.Project, error) {
	project := models.Project{
		Title:                draft.Title,
		Description:          draft.Description,
		OwnerEmail:           NormalizeEmail(draft.OwnerEmail),
		Category:             draft.Category,
		GoalAmount:           draft.GoalAmount,
		Location:             draft.Location,
		NeedsVolunteers:      draft.NeedsVolunteers,
		VolunteerFormURL:     draft.VolunteerFormURL,
		VolunteerDescription: draft.VolunteerDescription,
		Images:               draft.Images,
		PDFDescription:       draft.PDFDescription,
		Status:               models.ProjectStatusPending,
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// GetByID returns a single project.
func (s *ProjectService) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// ListApproved returns the public project listing. Pending projects are never
// included, and volunteer fields are blanked when volunteering is closed so
// the listing cannot imply it is open.
func (s *ProjectService) ListApproved() ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.Where("status = ?", models.ProjectStatusApproved).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}

	for i := range projects {
		if !projects[i].NeedsVolunteers {
			projects[i].VolunteerFormURL = ""
			projects[i].VolunteerDescription = ""
		}
	}
	return projects, nil
}

// ListPending returns projects awaiting moderation. Admin-only at the route
// layer.
func (s *ProjectService) ListPending() ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.Where("status = ?", models.ProjectStatusPending).
		Order("created_at ASC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Approve moves a project to approved status. Idempotent: approving an
// already-approved project is a no-op, not an error.
func (s *ProjectService) Approve(id uint) error {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	if project.IsApproved() {
		return nil
	}
	return s.db.Model(&project).Update("status", models.ProjectStatusApproved).Error
}

// AddImpactScore applies the AI-assessed initial score as an atomic increment.
// An increment keeps the score monotonic even when donations settle before
// the analysis returns. Best-effort: callers must not fail project creation
// on error.
func (s *ProjectService) AddImpactScore(id uint, score int) error {
	if score <= 0 {
		return nil
	}
	res := s.db.Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn("impact_score", gorm.Expr("impact_score + ?", score))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// DonorCount returns the number of donations recorded for a project.
func (s *ProjectService) DonorCount(projectID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Donation{}).
		Where("project_id = ?", projectID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
