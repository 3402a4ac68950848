package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestOpinionRequest_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantRating  float64
		wantNaN     bool
		wantContent string
		wantErr     bool
	}{
		{name: "integer rating", body: `{"rating":4,"content":"good"}`, wantRating: 4, wantContent: "good"},
		{name: "fractional rating", body: `{"rating":3.5,"content":"meh"}`, wantRating: 3.5, wantContent: "meh"},
		{name: "missing rating", body: `{"content":"no rating"}`, wantRating: 0, wantContent: "no rating"},
		{name: "null rating", body: `{"rating":null}`, wantRating: 0},
		{name: "string rating", body: `{"rating":"5","content":"x"}`, wantNaN: true, wantContent: "x"},
		{name: "bool rating", body: `{"rating":true}`, wantNaN: true},
		{name: "array rating", body: `{"rating":[5]}`, wantNaN: true},
		{name: "not an object", body: `[1]`, wantErr: true},
		{name: "content of wrong type", body: `{"rating":5,"content":5}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req OpinionRequest
			err := json.Unmarshal([]byte(tt.body), &req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.wantNaN {
				if !math.IsNaN(req.Rating) {
					t.Errorf("Rating = %v, want NaN", req.Rating)
				}
			} else if req.Rating != tt.wantRating {
				t.Errorf("Rating = %v, want %v", req.Rating, tt.wantRating)
			}
			if req.Content != tt.wantContent {
				t.Errorf("Content = %q, want %q", req.Content, tt.wantContent)
			}
		})
	}
}

func TestOrder_Total(t *testing.T) {
	order := &Order{Items: []*OrderItem{
		{Quantity: 2, UnitPrice: decimal.RequireFromString("10.25")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("0.50")},
	}}

	if got, want := order.Total(), decimal.RequireFromString("21.00"); !got.Equal(want) {
		t.Errorf("Total() = %v, want %v", got, want)
	}
	if got := (&Order{}).Total(); !got.IsZero() {
		t.Errorf("Total() of empty order = %v, want 0", got)
	}
}
