package main

import (
	"fmt"
	"os"

	"github.com/hopefund/backend/internal/config"
	"github.com/hopefund/backend/internal/models"
)

// Recomputes project aggregates from the donations ledger and reports drift.
// Drift appears when a settlement write failed after the provider captured the
// payment and the donation row was later restored by hand. Run with --fix to
// write the recomputed values back.
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := models.InitDB(&cfg.Database)
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}

	var projects []models.Project
	if err := db.Order("id").Find(&projects).Error; err != nil {
		fmt.Printf("Failed to read projects: %v\n", err)
		os.Exit(1)
	}

	fix := len(os.Args) > 1 && os.Args[1] == "--fix"
	drifted := 0

	for _, p := range projects {
		type agg struct {
			Total float64
			Count int
		}
		var a agg
		if err := db.Model(&models.Donation{}).
			Where("project_id = ? AND status = ?", p.ID, models.DonationStatusCompleted).
			Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
			Scan(&a).Error; err != nil {
			fmt.Printf("Failed to aggregate donations for project %d: %v\n", p.ID, err)
			os.Exit(1)
		}

		if p.RaisedAmount == a.Total && p.SupportersCount == a.Count {
			continue
		}
		drifted++

		fmt.Printf("Project %d (%s): raised %.2f/%d recorded, %.2f/%d in ledger\n",
			p.ID, p.Title, p.RaisedAmount, p.SupportersCount, a.Total, a.Count)

		if fix {
			if err := db.Model(&models.Project{}).
				Where("id = ?", p.ID).
				Updates(map[string]interface{}{
					"raised_amount":    a.Total,
					"supporters_count": a.Count,
				}).Error; err != nil {
				fmt.Printf("Failed to fix project %d: %v\n", p.ID, err)
				os.Exit(1)
			}
			fmt.Printf("  fixed\n")
		}
	}

	if drifted == 0 {
		fmt.Printf("Checked %d projects, no drift found\n", len(projects))
	} else if !fix {
		fmt.Printf("\n%d projects drifted; re-run with --fix to repair\n", drifted)
	}
}
