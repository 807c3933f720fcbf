package services

import (
	"testing"

	"github.com/hopefund/backend/internal/models"
)

func TestUserService_Stats(t *testing.T) {
	db := testDB(t)
	users := NewUserService(db)
	projects := NewProjectService(db)
	donations := NewDonationService(db, "INR")

	first := seedProject(t, db)
	second := seedProject(t, db)
	if err := projects.AddImpactScore(first.ID, 50); err != nil {
		t.Fatal(err)
	}

	// Two donations to the first project, one to the second, one from someone
	// else entirely.
	settle := func(projectID uint, amount float64, email, paymentID string) {
		t.Helper()
		if _, err := donations.Settle(&DonationDraft{
			ProjectID:  projectID,
			Amount:     amount,
			DonorEmail: email,
		}, paymentID); err != nil {
			t.Fatalf("Settle(%s) error = %v", paymentID, err)
		}
	}
	settle(first.ID, 100, "Asha@Example.com", "pay_1")
	settle(first.ID, 40, "asha@example.com", "pay_2")
	settle(second.ID, 60, "asha@example.com", "pay_3")
	settle(second.ID, 500, "other@example.com", "pay_4")

	stats := users.Stats("ASHA@example.com")
	if stats.TotalDonated != 200 {
		t.Errorf("TotalDonated = %v, expected 200", stats.TotalDonated)
	}
	if stats.ProjectsSupported != 2 {
		t.Errorf("ProjectsSupported = %d, expected 2", stats.ProjectsSupported)
	}

	// Impact points sum the supported projects' scores: first gets 50 from
	// analysis plus 10+4 from donation volume, second gets 6+50.
	want := (50 + 10 + 4) + (6 + 50)
	if stats.ImpactPoints != want {
		t.Errorf("ImpactPoints = %d, expected %d", stats.ImpactPoints, want)
	}
}

func TestUserService_Stats_NoDonations(t *testing.T) {
	users := NewUserService(testDB(t))

	stats := users.Stats("nobody@example.com")
	if stats.TotalDonated != 0 {
		t.Errorf("TotalDonated = %v, expected 0", stats.TotalDonated)
	}
	if stats.ProjectsSupported != 0 {
		t.Errorf("ProjectsSupported = %d, expected 0", stats.ProjectsSupported)
	}
	if stats.ImpactPoints != 0 {
		t.Errorf("ImpactPoints = %d, expected 0", stats.ImpactPoints)
	}
}

func TestUserService_Stats_OnlyCompletedDonationsCount(t *testing.T) {
	db := testDB(t)
	users := NewUserService(db)
	project := seedProject(t, db)

	failed := models.Donation{
		ProjectID:     project.ID,
		Amount:        75,
		Currency:      "INR",
		TransactionID: "pay_failed",
		Status:        models.DonationStatusFailed,
		DonorEmail:    "asha@example.com",
	}
	if err := db.Create(&failed).Error; err != nil {
		t.Fatal(err)
	}

	stats := users.Stats("asha@example.com")
	if stats.TotalDonated != 0 {
		t.Errorf("TotalDonated = %v, expected 0 for non-completed donations", stats.TotalDonated)
	}
}
