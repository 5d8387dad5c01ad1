package structuring

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"morphengine/pkg/grid"
)

// TestMakeShapes verifies the generated layouts against OpenCV's getStructuringElement
func TestMakeShapes(t *testing.T) {
	tests := []struct {
		name       string
		shape      Shape
		rows, cols int
		want       [][]uint8
	}{
		{
			name: "rect 3x3", shape: Rect, rows: 3, cols: 3,
			want: [][]uint8{
				{1, 1, 1},
				{1, 1, 1},
				{1, 1, 1},
			},
		},
		{
			name: "cross 3x3", shape: Cross, rows: 3, cols: 3,
			want: [][]uint8{
				{0, 1, 0},
				{1, 1, 1},
				{0, 1, 0},
			},
		},
		{
			name: "cross 3x5", shape: Cross, rows: 3, cols: 5,
			want: [][]uint8{
				{0, 0, 1, 0, 0},
				{1, 1, 1, 1, 1},
				{0, 0, 1, 0, 0},
			},
		},
		{
			name: "ellipse 5x5", shape: Ellipse, rows: 5, cols: 5,
			want: [][]uint8{
				{0, 0, 1, 0, 0},
				{1, 1, 1, 1, 1},
				{1, 1, 1, 1, 1},
				{1, 1, 1, 1, 1},
				{0, 0, 1, 0, 0},
			},
		},
		{
			name: "ellipse 7x7", shape: Ellipse, rows: 7, cols: 7,
			want: [][]uint8{
				{0, 0, 0, 1, 0, 0, 0},
				{0, 1, 1, 1, 1, 1, 0},
				{1, 1, 1, 1, 1, 1, 1},
				{1, 1, 1, 1, 1, 1, 1},
				{1, 1, 1, 1, 1, 1, 1},
				{0, 1, 1, 1, 1, 1, 0},
				{0, 0, 0, 1, 0, 0, 0},
			},
		},
		{
			name: "single pixel", shape: Ellipse, rows: 1, cols: 1,
			want: [][]uint8{{1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Make(tt.shape, tt.rows, tt.cols)
			if err != nil {
				t.Fatalf("Make failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, e.Grid().Rows()); diff != "" {
				t.Errorf("Layout mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestInvalidElements verifies that malformed elements are rejected up front
func TestInvalidElements(t *testing.T) {
	cases := map[string]func() error{
		"even rows": func() error {
			_, err := Make(Rect, 2, 3)
			return err
		},
		"even cols": func() error {
			_, err := FromRows([][]uint8{{1, 1}, {1, 1}, {1, 1}})
			return err
		},
		"zero size": func() error {
			_, err := Make(Cross, 0, 3)
			return err
		},
		"no active cells": func() error {
			_, err := FromRows([][]uint8{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}})
			return err
		},
		"nil grid": func() error {
			_, err := New(nil)
			return err
		},
		"unknown shape": func() error {
			_, err := ParseShape("diamond")
			return err
		},
	}

	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			if err := fn(); !errors.Is(err, grid.ErrInvalidArgument) {
				t.Errorf("Expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

// TestReflect verifies point reflection through the anchor
func TestReflect(t *testing.T) {
	e, err := FromRows([][]uint8{
		{1, 1, 0},
		{0, 1, 0},
		{0, 0, 0},
	})
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	if e.Symmetric() {
		t.Errorf("Expected asymmetric element")
	}

	r := e.Reflect()
	want := [][]uint8{
		{0, 0, 0},
		{0, 1, 0},
		{0, 1, 1},
	}
	if diff := cmp.Diff(want, r.Grid().Rows()); diff != "" {
		t.Errorf("Reflection mismatch (-want +got):\n%s", diff)
	}

	// Offsets stay row-major after reflection
	wantOffsets := []Offset{{Row: 1, Col: 1}, {Row: 2, Col: 1}, {Row: 2, Col: 2}}
	if diff := cmp.Diff(wantOffsets, r.Offsets()); diff != "" {
		t.Errorf("Offsets mismatch (-want +got):\n%s", diff)
	}

	for _, shape := range []Shape{Rect, Cross, Ellipse} {
		if !MustMake(shape, 5, 5).Symmetric() {
			t.Errorf("Expected generated %v to be symmetric", shape)
		}
	}
}

// TestAnchorAndParse covers the remaining accessors
func TestAnchorAndParse(t *testing.T) {
	e := MustMake(Cross, 5, 3)
	row, col := e.Anchor()
	if row != 2 || col != 1 {
		t.Errorf("Expected anchor (2,1), got (%d,%d)", row, col)
	}
	if !e.IsOn(2, 0) || e.IsOn(0, 0) || e.IsOn(-1, 0) {
		t.Errorf("Unexpected IsOn results for cross:\n%s", e)
	}

	for _, shape := range []Shape{Rect, Cross, Ellipse} {
		parsed, err := ParseShape(shape.String())
		if err != nil || parsed != shape {
			t.Errorf("ParseShape(%q) = %v, %v", shape.String(), parsed, err)
		}
	}

	if got := MustMake(Cross, 3, 3).String(); got != ".#.\n###\n.#." {
		t.Errorf("Unexpected element rendering:\n%s", got)
	}
}
