package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/hopefund/backend/internal/models"
	"github.com/hopefund/backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	// ErrAlreadySettled means the provider transaction id has already been
	// converted into a donation; the replayed settlement is a no-op.
	ErrAlreadySettled = errors.New("payment already settled")
	// ErrInvalidDonation covers drafts that fail validation before any
	// storage write.
	ErrInvalidDonation = errors.New("invalid donation")
)

// SettlementError marks the worst failure mode in the system: the provider
// has captured real money, the signature verified, and the storage write
// failed. Callers must surface it as a distinct class and keep the payment id
// available for reconciliation.
type SettlementError struct {
	PaymentID string
	ProjectID uint
	Err       error
}

func (e *SettlementError) Error() string {
	return fmt.Sprintf("settlement failed for payment %s (project %d): %v", e.PaymentID, e.ProjectID, e.Err)
}

func (e *SettlementError) Unwrap() error { return e.Err }

// DonationDraft carries the client-supplied donation fields. Donor identity
// is optional; guest giving is permitted.
type DonationDraft struct {
	ProjectID  uint    `json:"project_id"`
	Amount     float64 `json:"amount"`
	DonorName  string  `json:"name"`
	DonorEmail string  `json:"email"`
	Message    string  `json:"message"`
}

type DonationService struct {
	db       *gorm.DB
	currency string // platform settlement currency
}

func NewDonationService(db *gorm.DB, currency string) *DonationService {
	if currency == "" {
		currency = "INR"
	}
	return &DonationService{db: db, currency: currency}
}

// Settle converts a verified payment into a completed donation plus project
// aggregate updates, as one transaction. The caller must have verified the
// provider signature for paymentID before calling.
//
// Aggregate updates are single increment expressions, so concurrent
// settlements on one project serialize at the storage layer and cannot lose
// updates. The unique index on transaction_id makes replays detectable: a
// second settle with the same payment id returns ErrAlreadySettled without
// touching the aggregates.
func (s *DonationService) Settle(draft *DonationDraft, paymentID string) (*models.Donation, error) {
	if draft.ProjectID == 0 || draft.Amount <= 0 || paymentID == "" {
		return nil, ErrInvalidDonation
	}

	donation := models.Donation{
		ProjectID:     draft.ProjectID,
		Amount:        draft.Amount,
		Currency:      s.currency,
		TransactionID: paymentID,
		Status:        models.DonationStatusCompleted,
		DonorName:     draft.DonorName,
		DonorEmail:    NormalizeEmail(draft.DonorEmail),
		Message:       draft.Message,
		DonatedAt:     time.Now().UTC(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&donation).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Project{}).
			Where("id = ?", draft.ProjectID).
			Updates(map[string]interface{}{
				"raised_amount":    gorm.Expr("raised_amount + ?", draft.Amount),
				"supporters_count": gorm.Expr("supporters_count + ?", 1),
				"impact_score":     gorm.Expr("impact_score + ?", impactPoints(draft.Amount)),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProjectNotFound
		}
		return nil
	})

	if err == nil {
		return &donation, nil
	}

	if isDuplicateKey(err) {
		logger.Warn().
			Str("payment_id", paymentID).
			Uint("project_id", draft.ProjectID).
			Msg("duplicate settlement attempt ignored")
		return nil, ErrAlreadySettled
	}
	if errors.Is(err, ErrProjectNotFound) {
		return nil, ErrProjectNotFound
	}

	// Money captured but not recorded. Highest-severity log with enough
	// detail to replay the settlement during reconciliation.
	logger.Error().
		Err(err).
		Str("payment_id", paymentID).
		Uint("project_id", draft.ProjectID).
		Float64("amount", draft.Amount).
		Msg("settlement write failed after verified payment")

	return nil, &SettlementError{PaymentID: paymentID, ProjectID: draft.ProjectID, Err: err}
}

// impactPoints is the donation-volume contribution to a project's impact
// score: one point per full 10 units donated.
func impactPoints(amount float64) int {
	return int(amount / 10)
}
