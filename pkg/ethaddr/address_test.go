package ethaddr

import (
	"encoding/json"
	"testing"
)

func TestDecode(t *testing.T) {
	addr, err := Decode("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	if err != nil {
		t.Fatalf("Failed to decode address : %v", err)
	}

	if addr.IsZero() {
		t.Errorf("Decoded address should not be zero")
	}

	// EIP-55 casing must be reproduced by String.
	want := "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	if got := addr.String(); got != want {
		t.Errorf("Got %s, want %s", got, want)
	}
}

func TestDecodeNoPrefix(t *testing.T) {
	a, err := Decode("5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	if err != nil {
		t.Fatalf("Failed to decode without prefix : %v", err)
	}
	b, err := Decode("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	if err != nil {
		t.Fatalf("Failed to decode with prefix : %v", err)
	}
	if !a.Equal(b) {
		t.Errorf("Prefixed and unprefixed decode differ")
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []string{
		"",
		"0x1234",
		"0xzzaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed00",
	}

	for _, tt := range tests {
		if _, err := Decode(tt); err == nil {
			t.Errorf("Expected error decoding %q", tt)
		}
	}
}

func TestZero(t *testing.T) {
	if !Zero.IsZero() {
		t.Errorf("Zero address should report IsZero")
	}

	addr, _ := Decode("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	if addr.IsZero() {
		t.Errorf("Non-zero address should not report IsZero")
	}
}

func TestJSONMapKey(t *testing.T) {
	a, _ := Decode("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	m := map[Address]uint64{a: 7}

	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Failed to marshal map : %v", err)
	}

	var back map[Address]uint64
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Failed to unmarshal map : %v", err)
	}

	if back[a] != 7 {
		t.Errorf("Got %d, want 7", back[a])
	}
}
