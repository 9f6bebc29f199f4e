package utils

import "github.com/google/uuid"

// UUIDGenerator produces client-side local ids. Version 7 UUIDs are
// preferred because they sort roughly by creation time, which keeps sqlite
// index pages warm for recently created entities.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
