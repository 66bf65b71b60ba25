package model

import (
	"reflect"
	"testing"
)

func TestStringArrayValue(t *testing.T) {
	tests := []struct {
		name   string
		input  StringArray
		expect string
	}{
		{"nil serializes to empty array", nil, "[]"},
		{"empty", StringArray{}, "[]"},
		{"values", StringArray{"a@test.com", "b@test.com"}, `["a@test.com","b@test.com"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.input.Value()
			if err != nil {
				t.Fatalf("Value() error: %v", err)
			}
			if string(v.([]byte)) != tt.expect {
				t.Errorf("Value() = %s, want %s", v, tt.expect)
			}
		})
	}
}

func TestStringArrayScan(t *testing.T) {
	tests := []struct {
		name   string
		input  interface{}
		expect StringArray
	}{
		{"nil becomes empty", nil, StringArray{}},
		{"bytes", []byte(`["x","y"]`), StringArray{"x", "y"}},
		{"string", `["z"]`, StringArray{"z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a StringArray
			if err := a.Scan(tt.input); err != nil {
				t.Fatalf("Scan() error: %v", err)
			}
			if !reflect.DeepEqual(a, tt.expect) {
				t.Errorf("Scan() = %v, want %v", a, tt.expect)
			}
		})
	}

	var a StringArray
	if err := a.Scan(42); err == nil {
		t.Error("Scan(int) expected error, got nil")
	}
}

func TestStringArrayContains(t *testing.T) {
	a := StringArray{"one", "two"}
	if !a.Contains("one") {
		t.Error("Contains(one) = false, want true")
	}
	if a.Contains("three") {
		t.Error("Contains(three) = true, want false")
	}
}
