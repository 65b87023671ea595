package transaction

import "errors"

var (
	ErrNotFound                = errors.New("transaction not found")
	ErrAlreadyProcessed        = errors.New("transaction already processed")
	ErrIllegalStateTransition  = errors.New("illegal state transition")
	ErrInvalidStatus           = errors.New("invalid transaction status for operation")
	ErrPreviousNotFound        = errors.New("previous transaction not found")
	ErrPreviousCorruptedData   = errors.New("previous transaction carries corrupted data")
	ErrResponseResultMismatch  = errors.New("last biller response does not allow this transition")
	ErrThreedsVersionImmutable = errors.New("threeds version already set")
)
