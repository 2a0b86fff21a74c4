package gnucash

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNumericFromString(t *testing.T) {
	testCases := []struct {
		in   string
		num  string
		den  string
	}{
		{in: "10.00", num: "1000", den: "100"},
		{in: "-3.5", num: "-35", den: "10"},
		{in: "0", num: "0", den: "1"},
		{in: "123", num: "123", den: "1"},
		{in: "-0.00", num: "0", den: "100"},
		{in: "0.125", num: "125", den: "1000"},
		{in: "+7.5", num: "75", den: "10"},
		// Large magnitudes must not overflow.
		{in: "12345678901234567890.12345", num: "1234567890123456789012345", den: "100000"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			n, err := NumericFromString(tc.in)
			if err != nil {
				t.Fatalf("NumericFromString(%q): %v", tc.in, err)
			}
			if got := n.Num().String(); got != tc.num {
				t.Errorf("num = %s, want %s", got, tc.num)
			}
			if got := n.Den().String(); got != tc.den {
				t.Errorf("den = %s, want %s", got, tc.den)
			}
		})
	}
}

func TestNumericFromStringErrors(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "1e5", "12E2", "$10"} {
		if n, err := NumericFromString(in); err == nil {
			t.Errorf("NumericFromString(%q): want error, got %v", in, n)
		}
	}
}

// TestNumericRoundTrip checks the round-trip law: num/den as exact
// division reproduces the source decimal value.
func TestNumericRoundTrip(t *testing.T) {
	for _, in := range []string{"10.00", "-3.5", "0", "123", "0.001", "99999999999999.999999"} {
		n := MustNumeric(in)
		want, _ := decimal.NewFromString(in)
		if !n.Decimal().Equal(want) {
			t.Errorf("MustNumeric(%q).Decimal() = %s, want %s", in, n.Decimal(), want)
		}
	}
}

// TestNumericDenominator checks the invariant that the denominator is
// always 1 or a power of ten.
func TestNumericDenominator(t *testing.T) {
	ten := big.NewInt(10)
	for _, in := range []string{"10.00", "-3.5", "0", "123", "0.000001"} {
		den := MustNumeric(in).Den()
		rem := new(big.Int)
		for den.Cmp(ten) >= 0 {
			den.QuoRem(den, ten, rem)
			if rem.Sign() != 0 {
				t.Fatalf("MustNumeric(%q): denominator is not a power of ten", in)
			}
		}
		if den.Cmp(big.NewInt(1)) != 0 {
			t.Errorf("MustNumeric(%q): denominator does not reduce to 1", in)
		}
	}
}

func TestNumericArithmetic(t *testing.T) {
	// 5.5 hours at $120.00/hour.
	value := MustNumeric("5.5").Mul(MustNumeric("120.00"))
	if want := MustNumeric("660"); value.Cmp(want) != 0 {
		t.Errorf("5.5 * 120.00 = %s, want %s", value, want)
	}

	sum := MustNumeric("10.00").Add(MustNumeric("-3.5"))
	if want := MustNumeric("6.5"); sum.Cmp(want) != 0 {
		t.Errorf("10.00 + -3.5 = %s, want %s", sum, want)
	}

	if !MustNumeric("-0.00").IsZero() {
		t.Error("-0.00 should be zero")
	}
	if got := MustNumeric("3.5").Neg(); got.Cmp(MustNumeric("-3.5")) != 0 {
		t.Errorf("Neg(3.5) = %s, want -3.5", got)
	}
}

func TestNumericZeroValue(t *testing.T) {
	// The zero value behaves like 0/1 in arithmetic and display.
	var n Numeric
	if !n.IsZero() {
		t.Error("zero value should be zero")
	}
	if got := n.Add(MustNumeric("2.5")); got.Cmp(MustNumeric("2.5")) != 0 {
		t.Errorf("zero + 2.5 = %s", got)
	}
	if got := n.String(); got != "0/1" {
		t.Errorf("zero value String() = %q, want 0/1", got)
	}
}

func TestParseNumeric(t *testing.T) {
	n, err := ParseNumeric("1000/100")
	if err != nil {
		t.Fatal(err)
	}
	if n.Cmp(MustNumeric("10")) != 0 {
		t.Errorf("1000/100 = %s, want 10", n.Decimal())
	}

	for _, in := range []string{"10", "a/b", "1/0", "1/-10", "1/"} {
		if _, err := ParseNumeric(in); err == nil {
			t.Errorf("ParseNumeric(%q): want error", in)
		}
	}
}

func TestNumericJSON(t *testing.T) {
	n := MustNumeric("10.00")
	b, err := n.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"1000/100"` {
		t.Errorf("MarshalJSON = %s", b)
	}
	var back Numeric
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatal(err)
	}
	if back.Cmp(n) != 0 {
		t.Errorf("round trip gave %s, want %s", back, n)
	}
}
