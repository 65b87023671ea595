package values

import "errors"

var ErrInvalidRebillSchedule = errors.New("invalid rebill schedule")

// RebillSchedule describes a recurring charge attached to an initial sale.
// Start is the number of days until the first rebill, Frequency the number
// of days between subsequent ones.
type RebillSchedule struct {
	Amount    Money
	Start     int
	Frequency int
}

func (r RebillSchedule) Validate() error {
	if r.Start <= 0 || r.Frequency <= 0 {
		return ErrInvalidRebillSchedule
	}
	if r.Amount.IsZero() {
		return ErrInvalidRebillSchedule
	}
	return r.Amount.Validate()
}
