package entity

import "time"

// Category agrupa productos. Sin reglas de cascada: el backend decide qué pasa con los huérfanos.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
