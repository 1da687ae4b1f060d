package entity

import "time"

// Supplier representa un proveedor. Solo CRUD.
type Supplier struct {
	ID        string
	Name      string
	Contact   string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
}
