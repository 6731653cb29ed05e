// Package ledger keeps the in-memory log of verification attempts.
package ledger

import "github.com/calderlab/cardia/internal/model"

// MaxEntries bounds the ledger; the oldest attempts are silently dropped
// once it is full.
const MaxEntries = 400

// Ledger is an insertion-ordered, newest-first attempt log. All mutation is
// single-goroutine: every call happens from a command or UI callback, so no
// locking is needed.
type Ledger struct {
	attempts []model.VerifyAttempt
}

// New creates a ledger seeded with existing attempts, assumed newest-first.
// Anything beyond the cap is dropped.
func New(attempts []model.VerifyAttempt) *Ledger {
	l := &Ledger{attempts: append([]model.VerifyAttempt(nil), attempts...)}
	if len(l.attempts) > MaxEntries {
		l.attempts = l.attempts[:MaxEntries]
	}
	return l
}

// Record prepends an attempt, evicting the oldest entry when full.
func (l *Ledger) Record(attempt model.VerifyAttempt) {
	l.attempts = append([]model.VerifyAttempt{attempt}, l.attempts...)
	if len(l.attempts) > MaxEntries {
		l.attempts = l.attempts[:MaxEntries]
	}
}

// Relabel replaces the label and notes of the attempt with the given
// identity. Relabeling an identity that is not present is a no-op, not an
// error: the attempt may have been evicted.
func (l *Ledger) Relabel(attemptID string, label model.AttemptLabel, notes string) {
	for i := range l.attempts {
		if l.attempts[i].ID == attemptID {
			l.attempts[i].Label = label
			l.attempts[i].Notes = notes
			return
		}
	}
}

// RecentN returns the newest n attempts. The result is a copy; callers may
// not mutate the ledger through it.
func (l *Ledger) RecentN(n int) []model.VerifyAttempt {
	if n > len(l.attempts) {
		n = len(l.attempts)
	}
	if n < 0 {
		n = 0
	}
	return append([]model.VerifyAttempt(nil), l.attempts[:n]...)
}

// All returns every attempt, newest first, as a copy.
func (l *Ledger) All() []model.VerifyAttempt {
	return append([]model.VerifyAttempt(nil), l.attempts...)
}

// Len returns the number of attempts currently held.
func (l *Ledger) Len() int {
	return len(l.attempts)
}
