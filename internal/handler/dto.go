package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/alshorouk/bakery-backend/internal/domain"
)

const dateLayout = "2006-01-02"

// parseDateParam parses a YYYY-MM-DD value
func parseDateParam(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

// parseOptionalDecimal parses a decimal string; empty means zero
func parseOptionalDecimal(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(value)
}

// TransferRequest is one owner transfer in a record submission
type TransferRequest struct {
	Amount  string `json:"amount"`
	Account string `json:"account"`
}

// ExpensesRequest carries the daily expense line items; omitted lines are zero
type ExpensesRequest struct {
	FlourExtra  string `json:"flourExtra,omitempty"`
	Yeast       string `json:"yeast,omitempty"`
	Salt        string `json:"salt,omitempty"`
	Oil         string `json:"oil,omitempty"`
	Packaging   string `json:"packaging,omitempty"`
	Gas         string `json:"gas,omitempty"`
	Electricity string `json:"electricity,omitempty"`
	Water       string `json:"water,omitempty"`
	Salaries    string `json:"salaries,omitempty"`
	Maintenance string `json:"maintenance,omitempty"`
	Transport   string `json:"transport,omitempty"`
	Petty       string `json:"petty,omitempty"`
	Other       string `json:"other,omitempty"`
}

func (r *ExpensesRequest) toDomain() (domain.ExpenseLines, error) {
	var lines domain.ExpenseLines
	fields := []struct {
		value  string
		target *decimal.Decimal
	}{
		{r.FlourExtra, &lines.FlourExtra},
		{r.Yeast, &lines.Yeast},
		{r.Salt, &lines.Salt},
		{r.Oil, &lines.Oil},
		{r.Packaging, &lines.Packaging},
		{r.Gas, &lines.Gas},
		{r.Electricity, &lines.Electricity},
		{r.Water, &lines.Water},
		{r.Salaries, &lines.Salaries},
		{r.Maintenance, &lines.Maintenance},
		{r.Transport, &lines.Transport},
		{r.Petty, &lines.Petty},
		{r.Other, &lines.Other},
	}
	for _, f := range fields {
		value, err := parseOptionalDecimal(f.value)
		if err != nil {
			return lines, err
		}
		*f.target = value
	}
	return lines, nil
}

// ExpensesResponse mirrors ExpensesRequest for API responses
type ExpensesResponse struct {
	FlourExtra  string `json:"flourExtra"`
	Yeast       string `json:"yeast"`
	Salt        string `json:"salt"`
	Oil         string `json:"oil"`
	Packaging   string `json:"packaging"`
	Gas         string `json:"gas"`
	Electricity string `json:"electricity"`
	Water       string `json:"water"`
	Salaries    string `json:"salaries"`
	Maintenance string `json:"maintenance"`
	Transport   string `json:"transport"`
	Petty       string `json:"petty"`
	Other       string `json:"other"`
	Total       string `json:"total"`
}

func expensesToResponse(lines domain.ExpenseLines) ExpensesResponse {
	return ExpensesResponse{
		FlourExtra:  lines.FlourExtra.String(),
		Yeast:       lines.Yeast.String(),
		Salt:        lines.Salt.String(),
		Oil:         lines.Oil.String(),
		Packaging:   lines.Packaging.String(),
		Gas:         lines.Gas.String(),
		Electricity: lines.Electricity.String(),
		Water:       lines.Water.String(),
		Salaries:    lines.Salaries.String(),
		Maintenance: lines.Maintenance.String(),
		Transport:   lines.Transport.String(),
		Petty:       lines.Petty.String(),
		Other:       lines.Other.String(),
		Total:       lines.Total().String(),
	}
}

// TransferResponse is one owner transfer in API responses
type TransferResponse struct {
	Amount  string `json:"amount"`
	Account string `json:"account"`
}

func transferToResponse(transfer *domain.OwnerTransfer) *TransferResponse {
	if transfer == nil {
		return nil
	}
	return &TransferResponse{
		Amount:  transfer.Amount.String(),
		Account: string(transfer.Account),
	}
}
