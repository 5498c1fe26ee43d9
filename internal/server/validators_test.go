// file: internal/server/validators_test.go
// version: 2.1.0
// guid: 0c1d2e3f-4a5b-6c7d-8e9f-0a1b2c3d4e5f

package server

import (
	"errors"
	"testing"
)

func TestValidateISBN(t *testing.T) {
	tests := []struct {
		isbn    string
		wantErr string
	}{
		{"9789600000001", ""},
		{"960-03-1234-X", ""},
		{"  ", "ISBN_REQUIRED"},
		{"abc", "ISBN_INVALID"},
		{"978960000000100000000000000000000001", "ISBN_INVALID"},
		{"x", "ISBN_INVALID"},
		{"---", "ISBN_INVALID"},
		{"X X", "ISBN_INVALID"},
		{"96003X2345", "ISBN_INVALID"},
		{"12345678", "ISBN_INVALID"},
		{"978 960 000 000 1", ""},
	}
	for _, tt := range tests {
		err := ValidateISBN(tt.isbn)
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("ValidateISBN(%q) unexpected error: %v", tt.isbn, err)
			}
			continue
		}
		var ve ValidationError
		if !errors.As(err, &ve) || ve.Code != tt.wantErr {
			t.Errorf("ValidateISBN(%q) = %v, want code %s", tt.isbn, err, tt.wantErr)
		}
	}
}

func TestValidateISBNList(t *testing.T) {
	if err := ValidateISBNList([]string{"9789600000001", "960-03-1234-X"}, 2); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateISBNList(nil, 2); err == nil {
		t.Error("expected error for empty list")
	}
	if err := ValidateISBNList([]string{"1", "2", "3"}, 2); err == nil {
		t.Error("expected error for oversized list")
	}
	if err := ValidateISBNList([]string{"9789600000001", "x"}, 0); err == nil {
		t.Error("expected error for invalid entry")
	}
}
