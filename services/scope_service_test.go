package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFullScope_IncludesZeroQuantity(t *testing.T) {
	db := newTestDB(t)
	seedWarehouse(t, db, "WH01")

	m1 := seedMaterial(t, db, "WH01", "MAT-A001", "A-01-01", decimal.NewFromInt(10), decimal.NewFromInt(5))
	m2 := seedMaterial(t, db, "WH01", "MAT-B001", "A-01-02", decimal.Zero, decimal.NewFromInt(5))

	// Stock in another warehouse is out of scope.
	seedWarehouse(t, db, "WH02")
	seedMaterial(t, db, "WH02", "MAT-C001", "B-01-01", decimal.NewFromInt(3), decimal.NewFromInt(5))

	ids, err := NewScopeService(db).ResolveFullScope("WH01")
	require.NoError(t, err)
	assert.Equal(t, []uint{m1.ID, m2.ID}, ids)
}

func TestResolveAdhocScope_MatchesCodeAndBin(t *testing.T) {
	db := newTestDB(t)
	seedWarehouse(t, db, "WH01")

	m1 := seedMaterial(t, db, "WH01", "MAT-A001", "A-01-01", decimal.NewFromInt(10), decimal.NewFromInt(5))
	m2 := seedMaterial(t, db, "WH01", "MAT-B001", "A-01-02", decimal.NewFromInt(4), decimal.NewFromInt(5))
	seedMaterial(t, db, "WH01", "MAT-C001", "A-01-03", decimal.NewFromInt(2), decimal.NewFromInt(5))

	// Case-insensitive, one term per field kind, duplicates collapse.
	ids, err := NewScopeService(db).ResolveAdhocScope("WH01", []string{
		"mat-a001",
		"A-01-02",
		"MAT-A001", // duplicate of the first term
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{m1.ID, m2.ID}, ids)
}

func TestResolveAdhocScope_NoMatch(t *testing.T) {
	db := newTestDB(t)
	seedWarehouse(t, db, "WH01")
	seedMaterial(t, db, "WH01", "MAT-A001", "A-01-01", decimal.NewFromInt(10), decimal.NewFromInt(5))

	_, err := NewScopeService(db).ResolveAdhocScope("WH01", []string{"does-not-exist"})
	assert.ErrorIs(t, err, ErrNoMatch)
}
