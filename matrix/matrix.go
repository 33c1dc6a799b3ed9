// Package matrix implements a checked dense matrix on top of gonum.
//
// Unlike gonum, which panics on shape mismatches, every operation in this
// package validates its operands first and returns an error of kind
// errs.Dimension or errs.Index. Vectors are matrices with a single column.
// No operation mutates its operands; Set and SetVec mutate the receiver only.
package matrix

import (
	"fmt"
	"math"

	"github.com/milosgajdos/go-gnc/errs"
	mx "github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense matrix of float64 values
type Matrix struct {
	d *mat.Dense
}

// New creates new rows x cols matrix initialized with vals stored in row-major order.
// If vals is nil the matrix is zero-filled.
// It returns error if either of the dimensions is not positive or if the length of
// non-nil vals does not equal rows*cols.
func New(rows, cols int, vals []float64) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errs.Dimensionf("invalid matrix dimensions: [%d x %d]", rows, cols)
	}

	if vals != nil && len(vals) != rows*cols {
		return nil, errs.Dimensionf("invalid data length for [%d x %d] matrix: %d", rows, cols, len(vals))
	}

	var data []float64
	if vals != nil {
		data = make([]float64, len(vals))
		copy(data, vals)
	}

	return &Matrix{d: mat.NewDense(rows, cols, data)}, nil
}

// NewVector creates new column vector from vals.
// It returns error if vals is empty.
func NewVector(vals []float64) (*Matrix, error) {
	if len(vals) == 0 {
		return nil, errs.Dimensionf("invalid vector length: %d", len(vals))
	}

	return New(len(vals), 1, vals)
}

// Zeros returns rows x cols matrix of zeros.
func Zeros(rows, cols int) (*Matrix, error) {
	return New(rows, cols, nil)
}

// Identity returns n x n identity matrix.
func Identity(n int) (*Matrix, error) {
	if n <= 0 {
		return nil, errs.Dimensionf("invalid identity size: %d", n)
	}

	eye, err := mx.NewDenseValIdentity(n, 1.0)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrDimension, "failed to create identity matrix: %v", err)
	}

	return &Matrix{d: eye}, nil
}

// FromDense creates new matrix from a copy of gonum matrix m.
// It returns error if m is nil or empty.
func FromDense(m mat.Matrix) (*Matrix, error) {
	if m == nil {
		return nil, errs.Dimensionf("nil matrix")
	}

	if d, ok := m.(*mat.Dense); ok && d.IsEmpty() {
		return nil, errs.Dimensionf("empty matrix")
	}

	rows, cols := m.Dims()
	if rows <= 0 || cols <= 0 {
		return nil, errs.Dimensionf("invalid matrix dimensions: [%d x %d]", rows, cols)
	}

	d := &mat.Dense{}
	d.CloneFrom(m)

	return &Matrix{d: d}, nil
}

// Dims returns the number of matrix rows and columns.
func (m *Matrix) Dims() (int, int) {
	if m == nil || m.d == nil {
		return 0, 0
	}

	return m.d.Dims()
}

// Rows returns the number of matrix rows.
func (m *Matrix) Rows() int {
	r, _ := m.Dims()
	return r
}

// Cols returns the number of matrix columns.
func (m *Matrix) Cols() int {
	_, c := m.Dims()
	return c
}

// Len returns the number of matrix elements.
func (m *Matrix) Len() int {
	r, c := m.Dims()
	return r * c
}

// IsVector returns true if m is a column vector.
func (m *Matrix) IsVector() bool {
	r, c := m.Dims()
	return r > 0 && c == 1
}

// IsSquare returns true if m is a square matrix.
func (m *Matrix) IsSquare() bool {
	r, c := m.Dims()
	return r > 0 && r == c
}

func (m *Matrix) checkIndex(i, j int) error {
	r, c := m.Dims()
	if i < 0 || i >= r || j < 0 || j >= c {
		return errs.Indexf("index (%d, %d) outside of [%d x %d] matrix", i, j, r, c)
	}

	return nil
}

// Get returns the element at row i and column j.
func (m *Matrix) Get(i, j int) (float64, error) {
	if err := m.checkIndex(i, j); err != nil {
		return 0, err
	}

	return m.d.At(i, j), nil
}

// Set sets the element at row i and column j to v.
func (m *Matrix) Set(i, j int, v float64) error {
	if err := m.checkIndex(i, j); err != nil {
		return err
	}

	m.d.Set(i, j, v)

	return nil
}

// AtVec returns the i-th element of a vector.
// It returns error if m is not a vector or i is out of bounds.
func (m *Matrix) AtVec(i int) (float64, error) {
	if !m.IsVector() {
		r, c := m.Dims()
		return 0, errs.Dimensionf("not a vector: [%d x %d]", r, c)
	}

	return m.Get(i, 0)
}

// SetVec sets the i-th element of a vector to v.
func (m *Matrix) SetVec(i int, v float64) error {
	if !m.IsVector() {
		r, c := m.Dims()
		return errs.Dimensionf("not a vector: [%d x %d]", r, c)
	}

	return m.Set(i, 0, v)
}

func sameShape(op string, a, b *Matrix) error {
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	if ra == 0 || rb == 0 || ra != rb || ca != cb {
		return errs.Dimensionf("%s: [%d x %d] vs [%d x %d]", op, ra, ca, rb, cb)
	}

	return nil
}

// Add returns m + b.
func (m *Matrix) Add(b *Matrix) (*Matrix, error) {
	if err := sameShape("add", m, b); err != nil {
		return nil, err
	}

	out := &mat.Dense{}
	out.Add(m.d, b.d)

	return &Matrix{d: out}, nil
}

// Sub returns m - b.
func (m *Matrix) Sub(b *Matrix) (*Matrix, error) {
	if err := sameShape("sub", m, b); err != nil {
		return nil, err
	}

	out := &mat.Dense{}
	out.Sub(m.d, b.d)

	return &Matrix{d: out}, nil
}

// Scale returns f*m.
// It returns nil if m is nil or empty.
func (m *Matrix) Scale(f float64) *Matrix {
	if m.Len() == 0 {
		return nil
	}

	out := &mat.Dense{}
	out.Scale(f, m.d)

	return &Matrix{d: out}
}

// Mul returns matrix product m*b.
// It returns error if the number of columns of m does not equal the number of rows of b.
func (m *Matrix) Mul(b *Matrix) (*Matrix, error) {
	ra, ca := m.Dims()
	rb, cb := b.Dims()
	if ra == 0 || rb == 0 || ca != rb {
		return nil, errs.Dimensionf("mul: [%d x %d] * [%d x %d]", ra, ca, rb, cb)
	}

	out := &mat.Dense{}
	out.Mul(m.d, b.d)

	return &Matrix{d: out}, nil
}

// T returns transpose of m.
// It returns nil if m is nil or empty.
func (m *Matrix) T() *Matrix {
	if m.Len() == 0 {
		return nil
	}

	out := &mat.Dense{}
	out.CloneFrom(m.d.T())

	return &Matrix{d: out}
}

// Inverse returns inverse of m.
// It returns error if m is not square or if it is singular or ill-conditioned.
func (m *Matrix) Inverse() (*Matrix, error) {
	if !m.IsSquare() {
		r, c := m.Dims()
		return nil, errs.Dimensionf("inverse of non-square matrix: [%d x %d]", r, c)
	}

	det, err := m.Det()
	if err != nil {
		return nil, err
	}

	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return nil, errs.Numericf("failed to invert matrix: determinant %v", det)
	}

	out := &mat.Dense{}
	if err := out.Inverse(m.d); err != nil {
		return nil, errs.Numericf("failed to invert matrix: %v", err)
	}

	for _, v := range out.RawMatrix().Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errs.Numericf("failed to invert matrix: non-finite result")
		}
	}

	return &Matrix{d: out}, nil
}

// Det returns determinant of m.
// It returns error if m is not square.
func (m *Matrix) Det() (float64, error) {
	if !m.IsSquare() {
		r, c := m.Dims()
		return 0, errs.Dimensionf("determinant of non-square matrix: [%d x %d]", r, c)
	}

	return mat.Det(m.d), nil
}

// Exp returns matrix exponential of m.
// It returns error if m is not square.
func (m *Matrix) Exp() (*Matrix, error) {
	if !m.IsSquare() {
		r, c := m.Dims()
		return nil, errs.Dimensionf("exponential of non-square matrix: [%d x %d]", r, c)
	}

	out := &mat.Dense{}
	out.Exp(m.d)

	return &Matrix{d: out}, nil
}

// EqualApprox returns true if m and b have the same shape and all
// their elements are equal within tol.
func (m *Matrix) EqualApprox(b *Matrix, tol float64) bool {
	if err := sameShape("equal", m, b); err != nil {
		return false
	}

	return mat.EqualApprox(m.d, b.d, tol)
}

// Symmetrize returns (m + m')/2.
// It returns error if m is not square.
func (m *Matrix) Symmetrize() (*Matrix, error) {
	if !m.IsSquare() {
		r, c := m.Dims()
		return nil, errs.Dimensionf("symmetrize non-square matrix: [%d x %d]", r, c)
	}

	out := &mat.Dense{}
	out.Add(m.d, m.d.T())
	out.Scale(0.5, out)

	return &Matrix{d: out}, nil
}

// IsSymmetric returns true if m is square and m(i,j) equals m(j,i) within tol.
func (m *Matrix) IsSymmetric(tol float64) bool {
	if !m.IsSquare() {
		return false
	}

	n := m.Rows()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			// NaN elements fail the comparison
			if !(math.Abs(m.d.At(i, j)-m.d.At(j, i)) <= tol) {
				return false
			}
		}
	}

	return true
}

// IsPSD returns true if m is symmetric within tol, has finite elements
// and none of its eigenvalues is smaller than -tol.
func (m *Matrix) IsPSD(tol float64) bool {
	if !m.IsSymmetric(tol) {
		return false
	}

	for _, v := range m.RawData() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	sym, err := m.Sym()
	if err != nil {
		return false
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, false); !ok {
		return false
	}

	return floats.Min(eig.Values(nil)) >= -tol
}

// Sym returns symmetric part of m as gonum symmetric matrix.
// It returns error if m is not square.
func (m *Matrix) Sym() (*mat.SymDense, error) {
	s, err := m.Symmetrize()
	if err != nil {
		return nil, err
	}

	n := s.Rows()
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, s.d.At(i, j))
		}
	}

	return sym, nil
}

// Clone returns a deep copy of m.
// It returns nil if m is nil or empty.
func (m *Matrix) Clone() *Matrix {
	if m.Len() == 0 {
		return nil
	}

	out := &mat.Dense{}
	out.CloneFrom(m.d)

	return &Matrix{d: out}
}

// RawData returns a copy of matrix elements in row-major order.
func (m *Matrix) RawData() []float64 {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		data = append(data, m.d.RawRowView(i)...)
	}

	return data
}

// Dense returns a copy of m as gonum dense matrix.
// It returns empty matrix if m is nil or empty.
func (m *Matrix) Dense() *mat.Dense {
	out := &mat.Dense{}
	if m.Len() == 0 {
		return out
	}
	out.CloneFrom(m.d)

	return out
}

// Norm returns Euclidean norm of all matrix elements.
func (m *Matrix) Norm() float64 {
	return floats.Norm(m.RawData(), 2)
}

// String implements the Stringer interface.
func (m *Matrix) String() string {
	if m == nil || m.d == nil {
		return "[]"
	}

	return fmt.Sprintf("%v", mat.Formatted(m.d, mat.Squeeze()))
}
