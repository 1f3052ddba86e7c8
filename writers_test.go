package roughness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadGDEF(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "d.gdef")
	require.NoError(t, os.WriteFile(fp, []byte("650000.0\n4850000.0\n0.0\n3\n4\nU0.5\n"), 0644))

	gd, err := ReadGDEF(fp)
	require.NoError(t, err)
	require.Equal(t, &GridDef{Eorig: 650000, Norig: 4850000, Rot: 0, Cs: .5, Nr: 3, Nc: 4}, gd)
}

func TestReadGDEFMalformed(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "d.gdef")
	require.NoError(t, os.WriteFile(fp, []byte("650000.0\n4850000.0\n0.0\nx\n4\nU0.5\n"), 0644))
	_, err := ReadGDEF(fp)
	require.Error(t, err)
}

func TestRoughnessGridBILRoundTrip(t *testing.T) {
	dir := t.TempDir()
	gd := &GridDef{Eorig: 0, Norig: 0, Cs: 1, Nr: 2, Nc: 2}

	rg := newRoughnessGrid(2, 2, 1, 1)
	copy(rg.V, []float64{.5, 1.5, 2.5, 0})
	rg.Ok[0], rg.Ok[1], rg.Ok[2] = true, true, true // cell 3 masked

	fp := filepath.Join(dir, "r.bil")
	require.NoError(t, rg.SaveBIL(fp, gd, -9999))
	_, err := os.Stat(filepath.Join(dir, "r.hdr"))
	require.NoError(t, err)

	s, err := LoadStackBIL(fp, gd, -9999)
	require.NoError(t, err)
	require.Len(t, s.Bands, 1)
	eg, err := s.Band(1)
	require.NoError(t, err)
	require.Equal(t, []float64{.5, 1.5, 2.5, -9999}, eg.Z)
	require.Equal(t, []bool{true, true, true, false}, eg.Ok)
}

func TestClassifiedGridBILRoundTrip(t *testing.T) {
	dir := t.TempDir()
	gd := &GridDef{Eorig: 0, Norig: 0, Cs: 1, Nr: 2, Nc: 2}

	cg := classifiedFromCodes(2, 2, []int32{0, 2, NoCategory, 1})
	fp := filepath.Join(dir, "c.bil")
	require.NoError(t, cg.SaveBIL(fp, gd))

	got, err := LoadClassifiedBIL(fp, gd)
	require.NoError(t, err)
	require.Equal(t, cg.C, got.C)
	require.Equal(t, cg.Ok, got.Ok)
}

func TestSaveBILShapeMismatch(t *testing.T) {
	gd := &GridDef{Cs: 1, Nr: 3, Nc: 3}
	rg := newRoughnessGrid(2, 2, 1, 1)
	require.ErrorIs(t, rg.SaveBIL(filepath.Join(t.TempDir(), "r.bil"), gd, -9999), ErrIncompatibleGrids)
}
