package service

import (
	"strings"
	"time"

	"github.com/alshorouk/bakery-backend/internal/domain"
	"github.com/alshorouk/bakery-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService records signed movements against the two accounts and
// derives balances by summation. The ledger is append-only: movements are
// never edited or reversed, corrections are new offsetting movements.
type LedgerService struct {
	movementRepo domain.MovementRepository
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(movementRepo domain.MovementRepository) *LedgerService {
	return &LedgerService{movementRepo: movementRepo}
}

// RecordMovementInput holds the input for recording a movement
type RecordMovementInput struct {
	Date     time.Time
	Account  domain.Account
	Amount   decimal.Decimal
	Reason   string
	SourceID *uuid.UUID
}

// RecordMovement appends one immutable ledger entry. A zero amount is a
// silent no-op (nil movement, nil error) so callers never produce
// meaningless entries; an unknown account is rejected.
func (s *LedgerService) RecordMovement(input RecordMovementInput) (*domain.MoneyMovement, error) {
	if !input.Account.IsValid() {
		return nil, domain.ErrInvalidAccount
	}
	if input.Amount.IsZero() {
		return nil, nil
	}

	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, domain.ErrReasonRequired
	}
	if len(reason) > domain.MaxReasonLength {
		return nil, domain.ErrNameTooLong
	}

	return s.movementRepo.Create(&domain.MoneyMovement{
		MovementDate: util.DateOnly(input.Date),
		Account:      input.Account,
		Amount:       input.Amount,
		Reason:       reason,
		SourceID:     input.SourceID,
	})
}

// Balance returns the sum of all movement amounts for an account, optionally
// cut off at a date (inclusive).
func (s *LedgerService) Balance(account domain.Account, asOf *time.Time) (decimal.Decimal, error) {
	if !account.IsValid() {
		return decimal.Zero, domain.ErrInvalidAccount
	}
	if asOf != nil {
		cutoff := util.DateOnly(*asOf)
		asOf = &cutoff
	}
	return s.movementRepo.SumByAccount(account, asOf)
}

// Balances returns the current balance of every account.
func (s *LedgerService) Balances() (map[domain.Account]decimal.Decimal, error) {
	balances := make(map[domain.Account]decimal.Decimal, len(domain.Accounts))
	for _, account := range domain.Accounts {
		balance, err := s.movementRepo.SumByAccount(account, nil)
		if err != nil {
			return nil, err
		}
		balances[account] = balance
	}
	return balances, nil
}

// Movements lists ledger entries matching the filter.
func (s *LedgerService) Movements(filter *domain.MovementFilter) ([]*domain.MoneyMovement, error) {
	if filter != nil && filter.Account != nil && !filter.Account.IsValid() {
		return nil, domain.ErrInvalidAccount
	}
	return s.movementRepo.List(filter)
}
