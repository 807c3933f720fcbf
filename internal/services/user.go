package services

import (
	"github.com/hopefund/backend/internal/models"
	"github.com/hopefund/backend/pkg/logger"
	"gorm.io/gorm"
)

// UserStats summarizes a donor's giving history.
type UserStats struct {
	TotalDonated      float64 `json:"totalDonated"`
	ProjectsSupported int     `json:"projectsSupported"`
	ImpactPoints      int     `json:"impactPoints"`
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Stats aggregates the donations recorded under the given email. Storage
// errors degrade to zeroed stats; the profile page renders either way.
func (s *UserService) Stats(email string) *UserStats {
	stats := &UserStats{}
	email = NormalizeEmail(email)

	var donations []models.Donation
	if err := s.db.Where("donor_email = ? AND status = ?", email, models.DonationStatusCompleted).
		Find(&donations).Error; err != nil {
		logger.Warn().Err(err).Str("email", email).Msg("donor stats lookup failed")
		return stats
	}

	projectIDs := make(map[uint]struct{})
	for _, d := range donations {
		stats.TotalDonated += d.Amount
		projectIDs[d.ProjectID] = struct{}{}
	}
	stats.ProjectsSupported = len(projectIDs)

	if len(projectIDs) == 0 {
		return stats
	}

	ids := make([]uint, 0, len(projectIDs))
	for id := range projectIDs {
		ids = append(ids, id)
	}

	var points int
	if err := s.db.Model(&models.Project{}).
		Where("id IN ?", ids).
		Select("COALESCE(SUM(impact_score), 0)").
		Scan(&points).Error; err != nil {
		logger.Warn().Err(err).Str("email", email).Msg("impact points lookup failed")
		return stats
	}
	stats.ImpactPoints = points

	return stats
}
