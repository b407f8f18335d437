package barcode

import (
	"math/big"
	"strings"
)

// Width is the minimum number of digits of a minted barcode.
const Width = 6

// Next returns the barcode following the numeric maximum of existing.
// Entries that are not made only of ASCII digits are ignored. The result is
// zero-padded to Width and grows past it once the maximum reaches 10^Width-1.
func Next(existing []string) string {
	return format(next(existing))
}

// NextN returns n consecutive barcodes starting at Next(existing).
func NextN(existing []string, n int) []string {
	if n <= 0 {
		return []string{}
	}
	cur := next(existing)
	one := big.NewInt(1)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, format(cur))
		cur = new(big.Int).Add(cur, one)
	}
	return out
}

// IsNumeric reports whether code is a non-empty run of ASCII digits.
func IsNumeric(code string) bool {
	if code == "" {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

func next(existing []string) *big.Int {
	maxN := new(big.Int)
	for _, code := range existing {
		if !IsNumeric(code) {
			continue
		}
		n, ok := new(big.Int).SetString(code, 10)
		if !ok {
			continue
		}
		if n.Cmp(maxN) > 0 {
			maxN = n
		}
	}
	return maxN.Add(maxN, big.NewInt(1))
}

func format(n *big.Int) string {
	s := n.String()
	if len(s) >= Width {
		return s
	}
	return strings.Repeat("0", Width-len(s)) + s
}
