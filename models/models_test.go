// ABOUTME: Tests for shared model types
// ABOUTME: Validates utilization status boundaries and dimension ordering

package models

import "testing"

func TestClassifyUtilization_Boundaries(t *testing.T) {
	tests := []struct {
		pct      float64
		expected Status
	}{
		{0, StatusGood},
		{74.9, StatusGood},
		{74.99, StatusGood},
		{75.0, StatusWarning},
		{80.39, StatusWarning},
		{84.9, StatusWarning},
		{85.0, StatusCritical},
		{85.1, StatusCritical},
		{120, StatusCritical},
	}

	for _, tt := range tests {
		got := ClassifyUtilization(tt.pct)
		if got != tt.expected {
			t.Errorf("ClassifyUtilization(%g): expected %s, got %s", tt.pct, tt.expected, got)
		}
	}
}

func TestWorstStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		expected Status
	}{
		{"none", nil, StatusGood},
		{"all good", []Status{StatusGood, StatusGood}, StatusGood},
		{"one warning", []Status{StatusGood, StatusWarning}, StatusWarning},
		{"critical wins", []Status{StatusWarning, StatusCritical, StatusGood}, StatusCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WorstStatus(tt.statuses...); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestDimensions_PrecedenceOrder(t *testing.T) {
	dims := Dimensions()
	expected := []Dimension{DimensionCPU, DimensionMemory, DimensionStorage}
	if len(dims) != len(expected) {
		t.Fatalf("Expected %d dimensions, got %d", len(expected), len(dims))
	}
	for i := range expected {
		if dims[i] != expected[i] {
			t.Errorf("Position %d: expected %s, got %s", i, expected[i], dims[i])
		}
	}

	// Callers must not be able to reorder the package's precedence
	dims[0] = DimensionStorage
	if Dimensions()[0] != DimensionCPU {
		t.Error("Dimensions() should return a copy")
	}
}
