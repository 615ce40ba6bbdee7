// Package series computes the truncated-power-series coefficients that
// relate a pixel's initial delta to its orbit delta, letting the driller
// skip a prefix of the iteration loop.
package series

import (
	"github.com/deepdrill/drill/internal/orbit"
	"github.com/deepdrill/drill/internal/xnum"
)

// Coefficients is the rectangular table a[i][j] with i indexing orbit
// iterations and j coefficient degree, plus the parallel derivative
// table b[i][j].
type Coefficients struct {
	NumCoeff int
	A        [][]xnum.ExtendedComplex
	B        [][]xnum.ExtendedComplex
}

// Compute fills the coefficient tables off the reference orbit, up to
// min(depth, ref.Len()) rows. Row 0 encodes the identity: a[0][0] = 1,
// a[0][j>0] = 0, so that evaluate(delta, 0) == delta.
func Compute(ref *orbit.ReferencePoint, numCoeff, depth int) *Coefficients {
	rows := depth
	if n := ref.Len(); n < rows {
		rows = n
	}
	if rows < 1 {
		rows = 1
	}
	c := &Coefficients{
		NumCoeff: numCoeff,
		A:        make([][]xnum.ExtendedComplex, rows),
		B:        make([][]xnum.ExtendedComplex, rows),
	}
	one := xnum.NewExtendedComplex(1)
	for i := range c.A {
		c.A[i] = make([]xnum.ExtendedComplex, numCoeff)
		c.B[i] = make([]xnum.ExtendedComplex, numCoeff)
	}
	c.A[0][0] = one
	c.B[0][0] = one

	for i := 1; i < rows; i++ {
		z2 := ref.Iterations[i-1].Ext2
		c.A[i][0] = c.A[i-1][0].Mul(z2).Add(one).Reduce()
		c.B[i][0] = c.B[i-1][0].Mul(z2).Add(one).Reduce()
		for j := 1; j < numCoeff; j++ {
			aj := c.A[i-1][j].Mul(z2)
			bj := c.B[i-1][j].Mul(z2)
			for l := 0; l < j; l++ {
				cross := c.A[i-1][l].Mul(c.A[i-1][j-1-l])
				aj = aj.Add(cross).Reduce()
				dcross := c.A[i-1][l].Mul(c.B[i-1][j-1-l]).MulFloat64(2)
				bj = bj.Add(dcross).Reduce()
			}
			c.A[i][j] = aj.Reduce()
			c.B[i][j] = bj.Reduce()
		}
	}
	return c
}

// Rows returns the number of iterations the table covers.
func (c *Coefficients) Rows() int {
	return len(c.A)
}

// Evaluate returns the approximated orbit delta at the given iteration
// for an initial delta: sum_j a[i][j] * delta^(j+1), via Horner's method.
// delta must be reduced on entry.
func (c *Coefficients) Evaluate(delta xnum.ExtendedComplex, iteration int) xnum.ExtendedComplex {
	row := c.A[iteration]
	acc := row[c.NumCoeff-1]
	for j := c.NumCoeff - 2; j >= 0; j-- {
		acc = acc.Mul(delta).Add(row[j]).Reduce()
	}
	return acc.Mul(delta).Reduce()
}

// EvaluateDeriv returns the approximated derivative d(delta_n)/d(delta_0)
// at the given iteration: sum_j b[i][j] * delta^j.
func (c *Coefficients) EvaluateDeriv(delta xnum.ExtendedComplex, iteration int) xnum.ExtendedComplex {
	row := c.B[iteration]
	acc := row[c.NumCoeff-1]
	for j := c.NumCoeff - 2; j >= 0; j-- {
		acc = acc.Mul(delta).Add(row[j]).Reduce()
	}
	return acc
}
