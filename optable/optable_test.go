/*
File    : kaleidoscope/optable/optable_test.go
*/
package optable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_BuiltinPrecedence(t *testing.T) {
	tbl := New()

	cases := []struct {
		op   byte
		prec int
	}{
		{'<', 10},
		{'+', 20},
		{'-', 20},
		{'*', 40},
	}
	for _, c := range cases {
		assert.Equal(t, c.prec, tbl.Precedence(c.op))
		entry, ok := tbl.Lookup(c.op)
		assert.True(t, ok)
		assert.Equal(t, Left, entry.Assoc)
	}

	assert.Equal(t, NotAnOperator, tbl.Precedence('?'))
}

func TestInstallAssignment_RightAssociative(t *testing.T) {
	tbl := New()
	tbl.InstallAssignment()

	entry, ok := tbl.Lookup('=')
	assert.True(t, ok)
	assert.Equal(t, Right, entry.Assoc)
	assert.Less(t, entry.Precedence, tbl.Precedence('<'))
}

func TestInstallUserOperator_DefaultsToLeftAssoc(t *testing.T) {
	tbl := New()
	tbl.InstallUserOperator('|', 5)

	entry, ok := tbl.Lookup('|')
	assert.True(t, ok)
	assert.Equal(t, Entry{Precedence: 5, Assoc: Left}, entry)
}

func TestInstallUserOperator_ZeroPrecedenceUsesDefault(t *testing.T) {
	tbl := New()
	tbl.InstallUserOperator(':', 0)

	entry, _ := tbl.Lookup(':')
	assert.Equal(t, DefaultPrecedence, entry.Precedence)
}

func TestUnaryOperators(t *testing.T) {
	tbl := New()
	assert.False(t, tbl.IsUnary('!'))

	tbl.InstallUserUnaryOperator('!')
	assert.True(t, tbl.IsUnary('!'))
	assert.True(t, tbl.IsOperator('!'))
}

func TestSnapshotAndRestore(t *testing.T) {
	tbl := New()
	snap := tbl.Snapshot()

	tbl.InstallUserOperator('|', 5)
	tbl.InstallUserUnaryOperator('!')
	assert.NotEqual(t, NotAnOperator, tbl.Precedence('|'))

	tbl.Restore(snap)

	assert.Equal(t, NotAnOperator, tbl.Precedence('|'))
	assert.False(t, tbl.IsUnary('!'))

	// mutating tbl after Restore must not reach back into the snapshot
	tbl.InstallUserOperator('$', 7)
	_, ok := snap.Lookup('$')
	assert.False(t, ok)
}
