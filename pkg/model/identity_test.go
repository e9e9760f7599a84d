package model

import "testing"

func TestIdentityNormalization(t *testing.T) {
	a := NewIdentity("0F86A2FE-0378-3E15-FFFF-112233445566")
	b := NewIdentity(" 0f86a2fe-0378-3e15-ffff-112233445566 ")

	if a != b {
		t.Errorf("identities differ after normalization: %q vs %q", a, b)
	}
	if a.String() != "0f86a2fe-0378-3e15-ffff-112233445566" {
		t.Errorf("String() = %q", a.String())
	}
}

func TestIdentityAsMapKey(t *testing.T) {
	m := map[Identity]int{}
	m[NewIdentity("AAA")] = 1
	m[NewIdentity("aaa")] = 2

	if len(m) != 1 || m[NewIdentity("aAa")] != 2 {
		t.Errorf("value-based map keying broken: %v", m)
	}
}

func TestIdentityIsZero(t *testing.T) {
	if !NewIdentity("  ").IsZero() {
		t.Error("blank token should normalize to the zero identity")
	}
	if NewIdentity("x").IsZero() {
		t.Error("non-empty identity reported zero")
	}
}

func TestIdentityIsCanonical(t *testing.T) {
	cases := []struct {
		token string
		want  bool
	}{
		{"0f86a2fe-0378-3e15-ffff-112233445566", true},
		{"0f86a2fe-0378-3e15-ffff-112233445566/AI1", true},
		{"not-a-uuid", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := NewIdentity(tc.token).IsCanonical(); got != tc.want {
			t.Errorf("IsCanonical(%q) = %v, want %v", tc.token, got, tc.want)
		}
	}
}
