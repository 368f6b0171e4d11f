package strategy

import "github.com/shopspring/decimal"

// Number of decimal places kept by intermediate results.
const precision = 40

var (
	one     = decimal.NewFromInt(1)
	two     = decimal.NewFromInt(2)
	half    = decimal.New(5, -1)
	hundred = decimal.NewFromInt(100)
)

// ln returns the natural logarithm of x. x must be positive.
func ln(x decimal.Decimal) decimal.Decimal {
	k := int64(0)
	for x.GreaterThan(two) {
		x = x.DivRound(two, precision)
		k++
	}
	for x.LessThan(half) {
		x = x.Mul(two)
		k--
	}

	r := atanhLn(x)
	if k != 0 {
		r = r.Add(atanhLn(two).Mul(decimal.NewFromInt(k)))
	}
	return r
}

// atanhLn uses ln(x) = 2*atanh((x-1)/(x+1)), which converges quickly for x in [0.5, 2].
func atanhLn(x decimal.Decimal) decimal.Decimal {
	z := x.Sub(one).DivRound(x.Add(one), precision)
	z2 := z.Mul(z).Round(precision)

	sum := decimal.Zero
	term := z
	for n := int64(1); !term.IsZero(); n += 2 {
		sum = sum.Add(term.DivRound(decimal.NewFromInt(n), precision))
		term = term.Mul(z2).Round(precision)
	}
	return sum.Mul(two)
}

// exp returns e^x using the Taylor series. Intended for small |x|.
func exp(x decimal.Decimal) decimal.Decimal {
	sum := one
	term := one
	for n := int64(1); ; n++ {
		term = term.Mul(x).DivRound(decimal.NewFromInt(n), precision)
		if term.IsZero() {
			break
		}
		sum = sum.Add(term)
	}
	return sum
}
