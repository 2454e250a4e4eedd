package redpacket

import "errors"

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCount    = errors.New("invalid count")
	ErrNotFound        = errors.New("packet not found")
	ErrAlreadyFinished = errors.New("packet already finished")
	ErrAlreadyClaimed  = errors.New("already claimed")
	ErrTransferFailed  = errors.New("transfer failed")
)

// ValidateCreate checks creation parameters. maxCount <= 0 disables the
// upper bound on count.
//
// amount must cover one minor unit per claim, otherwise the split could
// not give every claimant a positive share.
func ValidateCreate(count, amount, maxCount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if count < 1 {
		return ErrInvalidCount
	}

	if maxCount > 0 && count > maxCount {
		return ErrInvalidCount
	}

	if amount < count {
		return ErrInvalidAmount
	}

	return nil
}
