package transaction

// Repository is the persistence port. The core only requires atomic add and
// read within the unit-of-work boundary; schema and technology live in
// infrastructure.
type Repository interface {
	Add(*Transaction) error
	FindByID(id string) (*Transaction, error)
	Update(*Transaction) error
}
