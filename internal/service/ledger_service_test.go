package service

import (
	"testing"
	"time"

	"github.com/alshorouk/bakery-backend/internal/domain"
	"github.com/alshorouk/bakery-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestRecordMovement_BalanceIsSum(t *testing.T) {
	movementRepo := testutil.NewMockMovementRepository()
	ledgerService := NewLedgerService(movementRepo)

	inputs := []RecordMovementInput{
		{Date: date(2025, time.April, 1), Account: domain.AccountCash, Amount: decimal.NewFromInt(500), Reason: domain.ReasonCapitalInjection},
		{Date: date(2025, time.April, 2), Account: domain.AccountCash, Amount: decimal.NewFromInt(-120), Reason: domain.ReasonOwnerWithdrawal},
		{Date: date(2025, time.April, 3), Account: domain.AccountCash, Amount: decimal.NewFromInt(80), Reason: domain.ReasonClientPayment},
		{Date: date(2025, time.April, 3), Account: domain.AccountBank, Amount: decimal.NewFromInt(1000), Reason: domain.ReasonCapitalInjection},
	}
	for _, input := range inputs {
		if _, err := ledgerService.RecordMovement(input); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	cash, err := ledgerService.Balance(domain.AccountCash, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !cash.Equal(decimal.NewFromInt(460)) {
		t.Errorf("Expected cash balance 460, got %s", cash)
	}

	bank, err := ledgerService.Balance(domain.AccountBank, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !bank.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected bank balance 1000, got %s", bank)
	}
}

func TestRecordMovement_ZeroAmountIsNoOp(t *testing.T) {
	movementRepo := testutil.NewMockMovementRepository()
	ledgerService := NewLedgerService(movementRepo)

	movement, err := ledgerService.RecordMovement(RecordMovementInput{
		Date:    date(2025, time.April, 1),
		Account: domain.AccountCash,
		Amount:  decimal.Zero,
		Reason:  domain.ReasonOwnerTransfer,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if movement != nil {
		t.Errorf("Expected nil movement for zero amount, got %+v", movement)
	}
	if len(movementRepo.Movements) != 0 {
		t.Errorf("Expected empty ledger, got %d movements", len(movementRepo.Movements))
	}
}

func TestRecordMovement_InvalidAccount(t *testing.T) {
	movementRepo := testutil.NewMockMovementRepository()
	ledgerService := NewLedgerService(movementRepo)

	_, err := ledgerService.RecordMovement(RecordMovementInput{
		Date:    date(2025, time.April, 1),
		Account: "wallet",
		Amount:  decimal.NewFromInt(100),
		Reason:  domain.ReasonOwnerTransfer,
	})
	if err != domain.ErrInvalidAccount {
		t.Errorf("Expected ErrInvalidAccount, got %v", err)
	}
}

func TestRecordMovement_ReasonRequired(t *testing.T) {
	movementRepo := testutil.NewMockMovementRepository()
	ledgerService := NewLedgerService(movementRepo)

	_, err := ledgerService.RecordMovement(RecordMovementInput{
		Date:    date(2025, time.April, 1),
		Account: domain.AccountCash,
		Amount:  decimal.NewFromInt(100),
		Reason:  "   ",
	})
	if err != domain.ErrReasonRequired {
		t.Errorf("Expected ErrReasonRequired, got %v", err)
	}
}

func TestBalance_Cutoff(t *testing.T) {
	movementRepo := testutil.NewMockMovementRepository()
	ledgerService := NewLedgerService(movementRepo)

	if _, err := ledgerService.RecordMovement(RecordMovementInput{
		Date: date(2025, time.April, 1), Account: domain.AccountCash,
		Amount: decimal.NewFromInt(300), Reason: domain.ReasonCapitalInjection,
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := ledgerService.RecordMovement(RecordMovementInput{
		Date: date(2025, time.April, 10), Account: domain.AccountCash,
		Amount: decimal.NewFromInt(200), Reason: domain.ReasonClientPayment,
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Cutoff is inclusive; the later movement is excluded.
	asOf := date(2025, time.April, 5)
	balance, err := ledgerService.Balance(domain.AccountCash, &asOf)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected cutoff balance 300, got %s", balance)
	}

	onDay := date(2025, time.April, 10)
	balance, err = ledgerService.Balance(domain.AccountCash, &onDay)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected same-day balance 500, got %s", balance)
	}
}

func TestBalances_CoversEveryAccount(t *testing.T) {
	movementRepo := testutil.NewMockMovementRepository()
	ledgerService := NewLedgerService(movementRepo)

	balances, err := ledgerService.Balances()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(balances) != len(domain.Accounts) {
		t.Fatalf("Expected %d accounts, got %d", len(domain.Accounts), len(balances))
	}
	for account, balance := range balances {
		if !balance.IsZero() {
			t.Errorf("Expected zero opening balance for %s, got %s", account, balance)
		}
	}
}

func TestMovements_FilterByAccount(t *testing.T) {
	movementRepo := testutil.NewMockMovementRepository()
	ledgerService := NewLedgerService(movementRepo)

	if _, err := ledgerService.RecordMovement(RecordMovementInput{
		Date: date(2025, time.April, 1), Account: domain.AccountCash,
		Amount: decimal.NewFromInt(300), Reason: domain.ReasonCapitalInjection,
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := ledgerService.RecordMovement(RecordMovementInput{
		Date: date(2025, time.April, 2), Account: domain.AccountBank,
		Amount: decimal.NewFromInt(700), Reason: domain.ReasonCapitalInjection,
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	bank := domain.AccountBank
	movements, err := ledgerService.Movements(&domain.MovementFilter{Account: &bank})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("Expected 1 bank movement, got %d", len(movements))
	}
	if !movements[0].Amount.Equal(decimal.NewFromInt(700)) {
		t.Errorf("Expected bank movement amount 700, got %s", movements[0].Amount)
	}

	bad := domain.Account("wallet")
	if _, err := ledgerService.Movements(&domain.MovementFilter{Account: &bad}); err != domain.ErrInvalidAccount {
		t.Errorf("Expected ErrInvalidAccount for unknown filter account, got %v", err)
	}
}
