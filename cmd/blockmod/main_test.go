package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notargets/blockmod/blocks"
)

// Element 0 is the air, elements 1 and 2 share a free block.
const (
	meshDat = `TETRA
8
0 0 0 0
1 1 0 0
2 0 1 0
3 0 0 1
4 1 1 1
5 3 0 0
6 3 1 0
7 3 0 1
3
0 1 -1 -1 -1  0 1 2 3
1 0 -1 -1 -1  4 1 2 3
2 -1 -1 -1 -1 5 6 7 1
`
	blockDat = `3 2
0 0
1 1
2 1
0 -1 1.0 1.0e4 1.0 1
1 100 1.0 1.0e4 2.0 0
`
	// A 0.4 m box around the center of element 1
	elementParams = `0
1
0.0004 0.0004 0.0004
0.0005 0.0005 0.0005
0.0
1.0 1000.0
10.0 5.0 20.0
`
	// The same box around the gravity center of block 1
	blockParams = `iteration: 0
mode: block
region:
  shape: cuboid
  length_km: [0.0004, 0.0004, 0.0004]
  center_km: [0.0015, 0.000375, 0.000375]
select: {min: 1.0, max: 1000.0}
replace: {value: 10.0, min: 5.0, max: 20.0}
`
)

func modelDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mesh.dat"), []byte(meshDat), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, blocks.InputFileName(0)), []byte(blockDat), 0644))
	return dir
}

func writeParams(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testOptions(dir, mode string) *options {
	return &options{dir: dir, meshFile: "mesh.dat", mode: mode, logger: zap.NewNop()}
}

func TestRunElementMode(t *testing.T) {
	dir := modelDir(t)
	paramFile := writeParams(t, dir, "param.dat", elementParams)
	require.NoError(t, testOptions(dir, "element").run(paramFile, false))

	s, err := blocks.ReadFile(filepath.Join(dir, blocks.OutputFileName(0)))
	require.NoError(t, err)
	require.Equal(t, 3, s.NumBlocks())
	assert.Equal(t, 2, s.BlockOf(1))
	assert.Equal(t, 1, s.BlockOf(2))
	assert.Equal(t, blocks.Block{Value: 10, Min: 5, Max: 20, Weight: 2, Type: blocks.FixedIsolated}, s.Block(2))
	assert.Equal(t, 100.0, s.Value(1))

	bin, err := os.ReadFile(filepath.Join(dir, blocks.BinaryFileName(0)))
	require.NoError(t, err)
	assert.Len(t, bin, 80+80+4+80+3*4)
	assert.Equal(t, "tetra4", string(bin[164:170]))
}

func TestRunBlockModeFromParamFile(t *testing.T) {
	dir := modelDir(t)
	paramFile := writeParams(t, dir, "param.yaml", blockParams)
	require.NoError(t, testOptions(dir, "element").run(paramFile, false))

	s, err := blocks.ReadFile(filepath.Join(dir, blocks.OutputFileName(0)))
	require.NoError(t, err)
	require.Equal(t, 2, s.NumBlocks())
	assert.Equal(t, blocks.Block{Value: 10, Min: 5, Max: 20, Weight: 2, Type: blocks.FixedConstrained}, s.Block(1))
	assert.Equal(t, []int{1, 2}, s.Elements(1))
}

func TestModeFlagOverridesParamFile(t *testing.T) {
	dir := modelDir(t)
	paramFile := writeParams(t, dir, "param.yaml", blockParams)
	require.NoError(t, testOptions(dir, "element").run(paramFile, true))

	// Element mode tests element centers, none of which is near the block center
	s, err := blocks.ReadFile(filepath.Join(dir, blocks.OutputFileName(0)))
	require.NoError(t, err)
	assert.Equal(t, 2, s.NumBlocks())
	assert.False(t, s.IsFixed(1))
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	paramFile := writeParams(t, dir, "param.dat", elementParams)
	err := testOptions(dir, "element").run(paramFile, false)
	assert.ErrorContains(t, err, "file open error")

	dir = modelDir(t)
	paramFile = writeParams(t, dir, "param.dat", elementParams)
	err = testOptions(dir, "cells").run(paramFile, true)
	assert.ErrorContains(t, err, "unknown selection mode")

	opts := testOptions(dir, "element")
	opts.meshFile = "missing.dat"
	assert.ErrorContains(t, opts.run(paramFile, false), "file open error")
}

func TestRootCommand(t *testing.T) {
	dir := modelDir(t)
	paramFile := writeParams(t, dir, "param.dat", elementParams)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--dir", dir, "--verbose", paramFile})
	require.NoError(t, cmd.Execute())
	_, err := os.Stat(filepath.Join(dir, blocks.OutputFileName(0)))
	assert.NoError(t, err)

	cmd = newRootCmd()
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}
