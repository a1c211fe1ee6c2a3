package ledger

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseMoney_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Money
		wantErr bool
	}{
		{in: "10", want: 1_000},
		{in: "10.5", want: 1_050},
		{in: "10.15", want: 1_015},
		{in: " 0.01 ", want: 1},
		{in: ".5", want: 50},
		{in: "3.", want: 300},
		{in: "+7.25", want: 725},
		{in: "-1.15", want: -115},
		{in: "0", want: 0},
		{in: "1.234", wantErr: true},
		{in: "", wantErr: true},
		{in: "-", wantErr: true},
		{in: ".", wantErr: true},
		{in: "1e3", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1.2.3", wantErr: true},
		{in: "--1", wantErr: true},
		{in: "92233720368547758.08", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseMoney(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %d", tt.in, got)
				}

				if !errors.Is(err, ErrMalformedAmount) {
					t.Fatalf("expected ErrMalformedAmount, got %v", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("parse %q: %v", tt.in, err)
			}

			if got != tt.want {
				t.Fatalf("parse %q: want %d, got %d", tt.in, tt.want, got)
			}
		})
	}
}

func TestMoney_JSON(t *testing.T) {
	t.Parallel()

	payload := map[string]Money{"balance": 1_250, "small": 5, "neg": -105}

	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"balance":12.50,"neg":-1.05,"small":0.05}`
	if string(b) != want {
		t.Fatalf("want %s, got %s", want, b)
	}
}
