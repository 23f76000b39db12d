package models

import "github.com/shopspring/decimal"

// Prizes maps a cleared level to the money it is worth
var Prizes = []decimal.Decimal{
	decimal.NewFromInt(100),
	decimal.NewFromInt(200),
	decimal.NewFromInt(300),
	decimal.NewFromInt(500),
	decimal.NewFromInt(1000),
	decimal.NewFromInt(2000),
	decimal.NewFromInt(4000),
	decimal.NewFromInt(8000),
	decimal.NewFromInt(16000),
	decimal.NewFromInt(32000),
	decimal.NewFromInt(64000),
	decimal.NewFromInt(125000),
	decimal.NewFromInt(250000),
	decimal.NewFromInt(500000),
	decimal.NewFromInt(1000000),
}

// FireproofLevels are the levels whose prize is kept after a wrong answer
var FireproofLevels = []int{4, 9}

// PrizeForLevel returns the prize for clearing level.
// Levels below zero are worth nothing; levels past the top keep the top prize.
func PrizeForLevel(level int) decimal.Decimal {
	if level < 0 {
		return decimal.Zero
	}
	if level >= len(Prizes) {
		return Prizes[len(Prizes)-1]
	}
	return Prizes[level]
}

// FireproofPrize returns the prize of the highest fireproof level not above level
func FireproofPrize(level int) decimal.Decimal {
	prize := decimal.Zero
	for _, fireproof := range FireproofLevels {
		if fireproof <= level {
			prize = PrizeForLevel(fireproof)
		}
	}
	return prize
}
