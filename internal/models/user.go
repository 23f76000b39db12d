package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User owns games and collects their prizes
type User struct {
	ID        int64
	Name      string
	Email     string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
