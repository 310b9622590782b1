package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveSubsets(t *testing.T) {
	x := compound("X")
	xl := compound("X").MustSet("labels", []string{"1"})

	got := List{x, xl}.RemoveSubsets(false)
	require.Len(t, got, 1)
	assert.Same(t, xl, got[0])
}

func TestRemoveSubsetsKeepsOrderAndSchemas(t *testing.T) {
	a := compound("A")
	temp := temperature("5")
	b := compound("B")
	ab := compound("A").MustSet("labels", []string{"2"})
	tempFull := temperature("5").MustSet("solvent", "water")

	got := List{a, temp, b, ab, tempFull}.RemoveSubsets(false)
	assert.Equal(t, List{b, ab, tempFull}, got)
}

func TestRemoveSubsetsDuplicates(t *testing.T) {
	first := compound("A")
	second := compound("A")

	got := List{first, second}.RemoveSubsets(false)
	require.Len(t, got, 1)
	assert.Same(t, second, got[0])

	strict := List{first, second}.RemoveSubsets(true)
	assert.Len(t, strict, 2)
}

func TestRemoveSubsetsDifferentSchemasUntouched(t *testing.T) {
	empty := New(testApparatus)
	got := List{compound("A"), empty}.RemoveSubsets(false)
	assert.Len(t, got, 2)
}

func TestListSchemas(t *testing.T) {
	l := List{compound("A"), temperature("1"), compound("B")}
	assert.Equal(t, []*Schema{testCompound, testTemperature}, l.Schemas())
}
