package event

type Type string

const (
	ChargeTransactionCreated       Type = "ChargeTransactionCreated"
	RebillUpdateTransactionCreated Type = "RebillUpdateTransactionCreated"
	TransactionUpdated             Type = "TransactionUpdated"
)

type Event struct {
	Type    Type
	Payload any
}
