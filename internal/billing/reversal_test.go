package billing

import (
	"errors"
	"math"
	"testing"
)

func orderWithLines() *Order {
	return &Order{
		ID: 7,
		Lines: []Line{
			{ID: 1, KOTNo: 1, ItemName: "Dal Makhani", Rate: dec("180"), OriginalQty: 3},
			{ID: 2, KOTNo: 2, ItemName: "Naan", Rate: dec("40"), OriginalQty: 4, ReversedQty: 1},
		},
	}
}

func TestValidateReversal_OverReversal(t *testing.T) {
	o := orderWithLines()
	_, err := ValidateReversal(o, []ReversalRequest{{LineID: 1, Qty: 4, Reason: "guest left"}})
	if !errors.Is(err, ErrOverReversal) {
		t.Fatalf("expected ErrOverReversal, got %v", err)
	}
}

func TestValidateReversal_UsesNetQuantity(t *testing.T) {
	o := orderWithLines()
	if _, err := ValidateReversal(o, []ReversalRequest{{LineID: 2, Qty: 3, Reason: "burnt"}}); err != nil {
		t.Fatalf("reversing the full net quantity should pass: %v", err)
	}
	_, err := ValidateReversal(o, []ReversalRequest{{LineID: 2, Qty: 4, Reason: "burnt"}})
	if !errors.Is(err, ErrOverReversal) {
		t.Fatalf("expected ErrOverReversal, got %v", err)
	}
}

func TestValidateReversal_SumsDuplicateLines(t *testing.T) {
	o := orderWithLines()
	_, err := ValidateReversal(o, []ReversalRequest{
		{LineID: 1, Qty: 2, Reason: "a"},
		{LineID: 1, Qty: 2, Reason: "b"},
	})
	if !errors.Is(err, ErrOverReversal) {
		t.Fatalf("expected ErrOverReversal for duplicated lines, got %v", err)
	}
}

func TestValidateReversal_HugeQuantitiesDoNotWrap(t *testing.T) {
	o := orderWithLines()
	_, err := ValidateReversal(o, []ReversalRequest{
		{LineID: 1, Qty: math.MaxInt64, Reason: "a"},
		{LineID: 1, Qty: math.MaxInt64, Reason: "b"},
	})
	if !errors.Is(err, ErrOverReversal) {
		t.Fatalf("expected ErrOverReversal, got %v", err)
	}

	_, err = ValidateReversal(o, []ReversalRequest{
		{LineID: 1, Qty: 1, Reason: "a"},
		{LineID: 1, Qty: math.MaxInt64, Reason: "b"},
	})
	if !errors.Is(err, ErrOverReversal) {
		t.Fatalf("expected ErrOverReversal after a valid entry, got %v", err)
	}
}

func TestValidateReversal_Totals(t *testing.T) {
	o := orderWithLines()
	totals, err := ValidateReversal(o, []ReversalRequest{
		{LineID: 1, Qty: 1, Reason: "a"},
		{LineID: 2, Qty: 2, Reason: "b"},
		{LineID: 1, Qty: 1, Reason: "c"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals[1] != 2 || totals[2] != 2 {
		t.Fatalf("totals: got %v", totals)
	}
}

func TestValidateReversal_Validation(t *testing.T) {
	o := orderWithLines()
	tests := []struct {
		name string
		reqs []ReversalRequest
	}{
		{"empty", nil},
		{"zero qty", []ReversalRequest{{LineID: 1, Qty: 0, Reason: "x"}}},
		{"negative qty", []ReversalRequest{{LineID: 1, Qty: -1, Reason: "x"}}},
		{"missing reason", []ReversalRequest{{LineID: 1, Qty: 1, Reason: "  "}}},
		{"foreign line", []ReversalRequest{{LineID: 99, Qty: 1, Reason: "x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateReversal(o, tt.reqs)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}
