package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// MinDepositDays is the shortest allowed fixed-term deposit
	MinDepositDays = 30

	// DateLayout is the calendar date format used at the edges of the system
	DateLayout = "2006-01-02"
)

// DailyInterestRate is the simple (non-compounding) interest earned per day
var DailyInterestRate = decimal.RequireFromString("0.005")

// DepositQuote is the derived arithmetic of a fixed-term deposit
type DepositQuote struct {
	Amount       decimal.Decimal
	Interest     decimal.Decimal
	TotalAmount  decimal.Decimal
	CreationDate time.Time
	ClosingDate  time.Time
	Days         int
}

// FixedTermDeposit represents principal locked from an account until the closing date
type FixedTermDeposit struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	Currency     Currency
	Amount       decimal.Decimal
	Interest     decimal.Decimal // Derived: Amount * DailyInterestRate * days
	TotalAmount  decimal.Decimal // Derived: Amount + Interest
	CreationDate time.Time
	ClosingDate  time.Time
	CreatedAt    time.Time
}

// CalendarDate truncates t to midnight UTC of its own calendar date
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the number of whole calendar days from one date to another.
// The result is negative when to is before from. Days are counted from Unix seconds
// so spans longer than a time.Duration can hold stay exact.
func DaysBetween(from, to time.Time) int {
	return int((CalendarDate(to).Unix() - CalendarDate(from).Unix()) / secondsPerDay)
}

// QuoteDeposit validates the duration and amount and computes simple interest.
// Duration is checked before the amount. Interest is amount * DailyInterestRate * days
// rounded half away from zero to MoneyScale, so tiny deposits can earn 0.00
// (0.01 over 30 days is 0.0015 before rounding).
func QuoteDeposit(amount decimal.Decimal, creationDate, closingDate time.Time) (*DepositQuote, error) {
	days := DaysBetween(creationDate, closingDate)
	if days < MinDepositDays {
		return nil, fmt.Errorf("%w: %d days between %s and %s, minimum is %d",
			ErrDepositTooShort, days,
			CalendarDate(creationDate).Format(DateLayout),
			CalendarDate(closingDate).Format(DateLayout),
			MinDepositDays)
	}

	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	interest := amount.Mul(DailyInterestRate).Mul(decimal.NewFromInt(int64(days))).Round(MoneyScale)

	return &DepositQuote{
		Amount:       amount,
		Interest:     interest,
		TotalAmount:  amount.Add(interest),
		CreationDate: CalendarDate(creationDate),
		ClosingDate:  CalendarDate(closingDate),
		Days:         days,
	}, nil
}

// NewFixedTermDeposit creates the deposit record funded by account
func NewFixedTermDeposit(account *Account, quote *DepositQuote, now time.Time) *FixedTermDeposit {
	return &FixedTermDeposit{
		ID:           uuid.New(),
		AccountID:    account.ID,
		Currency:     account.Currency,
		Amount:       quote.Amount,
		Interest:     quote.Interest,
		TotalAmount:  quote.TotalAmount,
		CreationDate: quote.CreationDate,
		ClosingDate:  quote.ClosingDate,
		CreatedAt:    now,
	}
}

// Days returns the deposit duration in whole days
func (d *FixedTermDeposit) Days() int {
	return DaysBetween(d.CreationDate, d.ClosingDate)
}
