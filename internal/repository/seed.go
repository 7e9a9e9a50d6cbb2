package repository

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pesanmeja/api/internal/domain"
)

// SeedMenu is the default warung menu, used by cmd/seed and by the in-memory
// catalog in development mode. IDs are fixed so re-seeding is an upsert, not
// a duplication.
func SeedMenu() []domain.MenuItem {
	return []domain.MenuItem{
		{ID: uuid.MustParse("b1a7d2c4-0001-4a00-8000-000000000001"), Name: "Kopi Latte", Category: "drinks", Price: decimal.NewFromInt(25000), HasOptions: true},
		{ID: uuid.MustParse("b1a7d2c4-0001-4a00-8000-000000000002"), Name: "Americano", Category: "drinks", Price: decimal.NewFromInt(20000), HasOptions: true},
		{ID: uuid.MustParse("b1a7d2c4-0001-4a00-8000-000000000003"), Name: "Es Teh Manis", Category: "drinks", Price: decimal.NewFromInt(8000), HasOptions: true},
		{ID: uuid.MustParse("b1a7d2c4-0001-4a00-8000-000000000004"), Name: "Nasi Goreng Spesial", Category: "food", Price: decimal.NewFromInt(35000), HasOptions: false},
		{ID: uuid.MustParse("b1a7d2c4-0001-4a00-8000-000000000005"), Name: "Mie Ayam Bakso", Category: "food", Price: decimal.NewFromInt(28000), HasOptions: false},
		{ID: uuid.MustParse("b1a7d2c4-0001-4a00-8000-000000000006"), Name: "Ayam Bakar", Category: "food", Price: decimal.NewFromInt(40000), HasOptions: false},
		{ID: uuid.MustParse("b1a7d2c4-0001-4a00-8000-000000000007"), Name: "Pisang Goreng", Category: "snacks", Price: decimal.NewFromInt(15000), HasOptions: false},
		{ID: uuid.MustParse("b1a7d2c4-0001-4a00-8000-000000000008"), Name: "Roti Bakar Coklat", Category: "snacks", Price: decimal.NewFromInt(18000), HasOptions: false},
	}
}
