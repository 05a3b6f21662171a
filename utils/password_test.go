package utils

import (
	"regexp"
	"testing"
)

func TestGenerateSecurePassword(t *testing.T) {
	urlSafe := regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	for _, tt := range []struct{ in, want int }{{0, MinPasswordLength}, {8, 8}, {13, 13}, {32, 32}} {
		got, err := GenerateSecurePassword(tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != tt.want || !urlSafe.MatchString(got) {
			t.Errorf("GenerateSecurePassword(%d) = %q", tt.in, got)
		}
	}

	a, _ := GenerateSecurePassword(16)
	b, _ := GenerateSecurePassword(16)
	if a == b {
		t.Error("two generated passwords are equal")
	}
}
