package service

import (
	"alcyxob/workout-roulette/internal/domain"
	"errors"
	"fmt"
	"time"
)

// --- Error Definitions ---
var (
	ErrInvalidPointAmount = errors.New("point amount must be positive")
)

// InsufficientBalanceError is returned when a spend exceeds the session's
// balance. The amounts are kept as structured fields; Error() formats the
// user-facing message in one place.
type InsufficientBalanceError struct {
	Balance  int // Current balance (earned - spent)
	Required int // Amount the caller tried to spend
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient points. Current balance: %d, Required: %d", e.Balance, e.Required)
}

// PointCalculator is the session point ledger: pure arithmetic over a
// session's earned/spent counters. No I/O, no stored state; callers persist
// the returned session values themselves.
type PointCalculator struct{}

// NewPointCalculator creates a new PointCalculator.
func NewPointCalculator() *PointCalculator {
	return &PointCalculator{}
}

// Balance returns earned minus spent. It is a read-only projection with no
// lower-bound check; the write paths guarantee it never goes negative.
func (pc *PointCalculator) Balance(session *domain.Session) int {
	return session.PointsEarned - session.PointsSpent
}

// CanAfford reports whether the session's balance covers cost.
func (pc *PointCalculator) CanAfford(session *domain.Session, cost int) bool {
	return pc.Balance(session) >= cost
}

// AddEarned returns a copy of the session with amount added to its earned
// total. Rejects non-positive amounts.
func (pc *PointCalculator) AddEarned(session domain.Session, amount int) (domain.Session, error) {
	if amount <= 0 {
		return session, ErrInvalidPointAmount
	}
	session.PointsEarned += amount
	session.UpdatedAt = time.Now().UTC()
	return session, nil
}

// SpendFromBalance returns a copy of the session with amount added to its
// spent total. Rejects non-positive amounts, and spends that exceed the
// current balance fail with *InsufficientBalanceError without mutating
// anything.
func (pc *PointCalculator) SpendFromBalance(session domain.Session, amount int) (domain.Session, error) {
	if amount <= 0 {
		return session, ErrInvalidPointAmount
	}
	balance := pc.Balance(&session)
	if balance < amount {
		return session, &InsufficientBalanceError{Balance: balance, Required: amount}
	}
	session.PointsSpent += amount
	session.UpdatedAt = time.Now().UTC()
	return session, nil
}

// SessionDuration returns how long the session ran. For a session that has
// not ended this is the live elapsed time, recomputed on every call.
func (pc *PointCalculator) SessionDuration(session *domain.Session) time.Duration {
	if session.EndTime != nil {
		return session.EndTime.Sub(session.StartTime)
	}
	return time.Since(session.StartTime)
}

// AverageCompletedDuration returns the mean duration, in minutes, of the
// completed sessions in the input. Returns 0 when none are completed.
func (pc *PointCalculator) AverageCompletedDuration(sessions []domain.Session) float64 {
	var total time.Duration
	count := 0
	for i := range sessions {
		if sessions[i].IsCompleted() {
			total += pc.SessionDuration(&sessions[i])
			count++
		}
	}
	if count == 0 {
		return 0.0
	}
	return total.Minutes() / float64(count)
}
