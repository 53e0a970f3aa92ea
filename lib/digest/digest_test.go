// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"strings"
	"testing"
)

func TestSumKnownVectors(t *testing.T) {
	tests := []struct {
		algorithm Algorithm
		input     string
		want      string
	}{
		{BLAKE3, "", "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"},
		{SHA256, "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{SHA256, "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{BLAKE2b, "", "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8"},
		{MD5, "", "d41d8cd98f00b204e9800998ecf8427e"},
		{MD5, "abc", "900150983cd24fb0d6963f7d28e17f72"},
	}
	for _, test := range tests {
		t.Run(string(test.algorithm)+"/"+test.input, func(t *testing.T) {
			key, err := Sum(test.algorithm, []byte(test.input))
			if err != nil {
				t.Fatalf("Sum: %v", err)
			}
			if got := key.Hex(); got != test.want {
				t.Errorf("Sum(%s, %q) = %s, want %s", test.algorithm, test.input, got, test.want)
			}
			if len(key.Sum) != test.algorithm.Size() {
				t.Errorf("len(Sum) = %d, want %d", len(key.Sum), test.algorithm.Size())
			}
		})
	}
}

func TestSumDependsOnlyOnContent(t *testing.T) {
	first, err := Sum(BLAKE3, []byte{0x00, 0x61, 0x73, 0x6d})
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	second, err := Sum(BLAKE3, []byte{0x00, 0x61, 0x73, 0x6d})
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if !first.Equal(second) {
		t.Errorf("identical content produced %s and %s", first, second)
	}

	other, err := Sum(BLAKE3, []byte{0x00, 0x61, 0x73, 0x6e})
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if first.Equal(other) {
		t.Error("different content produced the same key")
	}
}

func TestSumUnknownAlgorithm(t *testing.T) {
	if _, err := Sum("crc32", []byte("x")); err == nil {
		t.Fatal("Sum should fail for an unknown algorithm")
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name    string
		want    Algorithm
		wantErr bool
	}{
		{"", BLAKE3, false},
		{"blake3", BLAKE3, false},
		{"SHA256", SHA256, false},
		{"Blake2b", BLAKE2b, false},
		{"md5", MD5, false},
		{"xxh3", "", true},
	}
	for _, test := range tests {
		got, err := ParseAlgorithm(test.name)
		if test.wantErr {
			if err == nil {
				t.Errorf("ParseAlgorithm(%q) should fail", test.name)
			} else if !strings.Contains(err.Error(), "supported") {
				t.Errorf("ParseAlgorithm(%q) error %q should list supported algorithms", test.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAlgorithm(%q): %v", test.name, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseAlgorithm(%q) = %q, want %q", test.name, got, test.want)
		}
	}
}

func TestParseKeyRoundtrip(t *testing.T) {
	for _, algorithm := range Algorithms {
		key, err := Sum(algorithm, []byte("roundtrip"))
		if err != nil {
			t.Fatalf("Sum(%s): %v", algorithm, err)
		}
		parsed, err := ParseKey(algorithm, key.Hex())
		if err != nil {
			t.Fatalf("ParseKey(%s): %v", algorithm, err)
		}
		if !parsed.Equal(key) {
			t.Errorf("ParseKey(%s) = %s, want %s", algorithm, parsed, key)
		}
	}
}

func TestParseKeyRejectsWrongLength(t *testing.T) {
	key, err := Sum(SHA256, []byte("x"))
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if _, err := ParseKey(MD5, key.Hex()); err == nil {
		t.Error("ParseKey should reject a sha256 digest as md5")
	}
	if _, err := ParseKey(SHA256, "not-hex"); err == nil {
		t.Error("ParseKey should reject non-hex input")
	}
}

func TestKeyString(t *testing.T) {
	key, err := Sum(MD5, nil)
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if got, want := key.String(), "md5:d41d8cd98f00b204e9800998ecf8427e"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
