package salary

import "errors"

var (
	ErrTransactionNotFound     = errors.New("salary transaction not found")
	ErrTransactionExists       = errors.New("salary transaction already exists for this period")
	ErrInvalidStatusTransition = errors.New("invalid salary status transition")
	ErrPaymentExists           = errors.New("payment already recorded for this salary transaction")
	ErrStructureNotFound       = errors.New("salary structure not found")
)
