package gnucash

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Numeric is an exact rational amount, the form GnuCash stores every
// quantity and price in. The denominator is always 1 or a power of ten,
// so a Numeric round-trips the decimal string it was parsed from with
// no binary floating-point rounding in between.
type Numeric struct {
	num *big.Int
	den *big.Int
}

var bigTen = big.NewInt(10)

// NewNumeric returns num/den as a Numeric. It panics if den is not
// positive; ledger amounts never carry a signed denominator.
func NewNumeric(num, den int64) Numeric {
	if den <= 0 {
		panic(fmt.Sprintf("numeric denominator must be positive, got %d", den))
	}
	return Numeric{num: big.NewInt(num), den: big.NewInt(den)}
}

// NumericFromString parses a base-10 decimal string ("10.00", "-3.5",
// "123") into an exact numerator/denominator pair. The decimal is
// decomposed into its coefficient and power-of-ten exponent: a negative
// exponent becomes the denominator, a non-negative one scales the
// numerator and leaves the denominator at 1.
func NumericFromString(s string) (Numeric, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Numeric{}, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	if strings.ContainsAny(s, "eE") {
		// GnuCash amounts are plain decimals; exponent notation is
		// rejected even though the decimal package accepts it.
		return Numeric{}, fmt.Errorf("invalid decimal %q: exponent notation is not a ledger amount", s)
	}

	num := new(big.Int).Set(d.Coefficient())
	den := big.NewInt(1)
	exp := int64(d.Exponent())
	if exp < 0 {
		den.Exp(bigTen, big.NewInt(-exp), nil)
	} else if exp > 0 {
		num.Mul(num, new(big.Int).Exp(bigTen, big.NewInt(exp), nil))
	}
	return Numeric{num: num, den: den}, nil
}

// MustNumeric is like NumericFromString but panics on error.
func MustNumeric(s string) Numeric {
	n, err := NumericFromString(s)
	if err != nil {
		panic(err.Error())
	}
	return n
}

// Num returns the signed numerator.
func (n Numeric) Num() *big.Int { return new(big.Int).Set(n.orZero().num) }

// Den returns the positive denominator (1 or a power of ten).
func (n Numeric) Den() *big.Int { return new(big.Int).Set(n.orZero().den) }

// orZero normalizes the zero value of Numeric to 0/1 so that arithmetic
// on an unset amount behaves like arithmetic on zero.
func (n Numeric) orZero() Numeric {
	if n.num == nil || n.den == nil {
		return Numeric{num: new(big.Int), den: big.NewInt(1)}
	}
	return n
}

// IsZero reports whether the amount is exactly zero.
func (n Numeric) IsZero() bool { return n.orZero().num.Sign() == 0 }

// Neg returns -n.
func (n Numeric) Neg() Numeric {
	n = n.orZero()
	return Numeric{num: new(big.Int).Neg(n.num), den: new(big.Int).Set(n.den)}
}

// Add returns n+m exactly, over the larger of the two denominators.
func (n Numeric) Add(m Numeric) Numeric {
	n, m = n.orZero(), m.orZero()
	den := new(big.Int).Mul(n.den, m.den)
	a := new(big.Int).Mul(n.num, m.den)
	b := new(big.Int).Mul(m.num, n.den)
	return Numeric{num: a.Add(a, b), den: den}.reduce()
}

// Mul returns n*m exactly.
func (n Numeric) Mul(m Numeric) Numeric {
	n, m = n.orZero(), m.orZero()
	return Numeric{
		num: new(big.Int).Mul(n.num, m.num),
		den: new(big.Int).Mul(n.den, m.den),
	}.reduce()
}

// Cmp compares n and m, returning -1, 0 or +1.
func (n Numeric) Cmp(m Numeric) int {
	n, m = n.orZero(), m.orZero()
	a := new(big.Int).Mul(n.num, m.den)
	b := new(big.Int).Mul(m.num, n.den)
	return a.Cmp(b)
}

// reduce strips trailing factors of ten shared by numerator and
// denominator, keeping the denominator a power of ten.
func (n Numeric) reduce() Numeric {
	num, den := n.num, n.den
	for den.Cmp(bigTen) >= 0 {
		q, r := new(big.Int).QuoRem(num, bigTen, new(big.Int))
		if r.Sign() != 0 {
			break
		}
		num = q
		den = new(big.Int).Quo(den, bigTen)
	}
	return Numeric{num: num, den: den}
}

// Decimal returns the exact decimal value of the amount. The
// denominator being a power of ten, the division is always exact.
func (n Numeric) Decimal() decimal.Decimal {
	n = n.orZero()
	exp := 0
	for d := new(big.Int).Set(n.den); d.Cmp(bigTen) >= 0; d.Quo(d, bigTen) {
		exp--
	}
	return decimal.NewFromBigInt(n.num, int32(exp))
}

// Float64 returns a display-only approximation. It must never feed back
// into a ledger amount.
func (n Numeric) Float64() float64 { return n.Decimal().InexactFloat64() }

// String formats the amount as "num/den".
func (n Numeric) String() string {
	n = n.orZero()
	return n.num.String() + "/" + n.den.String()
}

// ParseNumeric parses the "num/den" form produced by String.
func ParseNumeric(s string) (Numeric, error) {
	slash := strings.IndexByte(s, '/')
	if slash < 0 {
		return Numeric{}, fmt.Errorf("invalid numeric %q: want num/den", s)
	}
	num, ok := new(big.Int).SetString(s[:slash], 10)
	if !ok {
		return Numeric{}, fmt.Errorf("invalid numeric numerator in %q", s)
	}
	den, ok := new(big.Int).SetString(s[slash+1:], 10)
	if !ok || den.Sign() <= 0 {
		return Numeric{}, fmt.Errorf("invalid numeric denominator in %q", s)
	}
	return Numeric{num: num, den: den}, nil
}

// MarshalJSON encodes the amount as the "num/den" string.
func (n Numeric) MarshalJSON() ([]byte, error) {
	return []byte(`"` + n.String() + `"`), nil
}

// UnmarshalJSON decodes the "num/den" string form.
func (n *Numeric) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid numeric json %s", string(b))
	}
	v, err := ParseNumeric(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*n = v
	return nil
}
