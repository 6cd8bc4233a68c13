package core

import "fmt"

// ProteinType is one of the four protein kinds found on the grid
type ProteinType int

const (
	ProteinA ProteinType = iota
	ProteinB
	ProteinC
	ProteinD
)

// ProteinTypes lists every protein type in stock order
var ProteinTypes = [4]ProteinType{ProteinA, ProteinB, ProteinC, ProteinD}

func (p ProteinType) String() string {
	switch p {
	case ProteinA:
		return "A"
	case ProteinB:
		return "B"
	case ProteinC:
		return "C"
	case ProteinD:
		return "D"
	}
	return fmt.Sprintf("ProteinType(%d)", int(p))
}

// ParseProteinType converts a protocol code into a ProteinType
func ParseProteinType(code string) (ProteinType, bool) {
	switch code {
	case "A":
		return ProteinA, true
	case "B":
		return ProteinB, true
	case "C":
		return ProteinC, true
	case "D":
		return ProteinD, true
	}
	return 0, false
}

// ProteinUnit is an unclaimed protein source on the grid
type ProteinUnit struct {
	Pos  Coordinate
	Type ProteinType
}

// Stock counts proteins per type, indexed by ProteinType
type Stock [4]int

// NewStock builds a stock from counts in A, B, C, D order
func NewStock(a, b, c, d int) Stock {
	return Stock{a, b, c, d}
}

// Get returns the amount held of the given type
func (s Stock) Get(p ProteinType) int { return s[p] }

// Covers reports whether the stock can pay for cost
func (s Stock) Covers(cost Stock) bool {
	for i := range s {
		if s[i] < cost[i] {
			return false
		}
	}
	return true
}

// Sub returns the stock after paying cost. Amounts never go below zero.
func (s Stock) Sub(cost Stock) Stock {
	for i := range s {
		s[i] -= cost[i]
		if s[i] < 0 {
			s[i] = 0
		}
	}
	return s
}

// Add returns the stock with n units of p added
func (s Stock) Add(p ProteinType, n int) Stock {
	s[p] += n
	return s
}

func (s Stock) String() string {
	return fmt.Sprintf("A:%d B:%d C:%d D:%d", s[ProteinA], s[ProteinB], s[ProteinC], s[ProteinD])
}
