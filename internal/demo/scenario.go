// Package demo holds the fixed self-check scenario used by the CLI and tests:
// a 10x10 binary grid with four isolated pixels and one 3x3 block, probed with
// a 3x3 cross.
package demo

import (
	"morphengine/pkg/grid"
	"morphengine/pkg/structuring"
)

// Size is the width and height of the demo grid.
const Size = 10

// IsolatedPixels are the single "on" pixels of the demo grid as (row, col).
var IsolatedPixels = [][2]int{
	{0, 1},
	{9, 0},
	{8, 9},
	{2, 2},
}

// BlobGrid returns a fresh copy of the demo grid. The 3x3 block covers rows
// 5-7 and columns 5-7.
func BlobGrid() *grid.Grid {
	g := grid.New(Size, Size)
	for _, p := range IsolatedPixels {
		g.Set(p[0], p[1], 1)
	}
	for r := 5; r < 8; r++ {
		for c := 5; c < 8; c++ {
			g.Set(r, c, 1)
		}
	}
	return g
}

// Element returns the 3x3 cross used by the scenario.
func Element() *structuring.Element {
	return structuring.MustMake(structuring.Cross, 3, 3)
}

// ExpectedCrossDilation is cv::dilate(BlobGrid(), cross3x3).
func ExpectedCrossDilation() *grid.Grid {
	return grid.MustFromRows([][]uint8{
		{1, 1, 1, 0, 0, 0, 0, 0, 0, 0},
		{0, 1, 1, 0, 0, 0, 0, 0, 0, 0},
		{0, 1, 1, 1, 0, 0, 0, 0, 0, 0},
		{0, 0, 1, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 1, 1, 1, 0, 0},
		{0, 0, 0, 0, 1, 1, 1, 1, 1, 0},
		{0, 0, 0, 0, 1, 1, 1, 1, 1, 0},
		{0, 0, 0, 0, 1, 1, 1, 1, 1, 1},
		{1, 0, 0, 0, 0, 1, 1, 1, 1, 1},
		{1, 1, 0, 0, 0, 0, 0, 0, 0, 1},
	})
}

// ExpectedCrossErosion is cv::erode(BlobGrid(), cross3x3): only the center of
// the block survives.
func ExpectedCrossErosion() *grid.Grid {
	g := grid.New(Size, Size)
	g.Set(6, 6, 1)
	return g
}
