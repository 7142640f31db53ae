package utils

import "testing"

func TestPasswordHashVerify(t *testing.T) {
	hash, err := HashPassword("s3cret", 4) // MinCost keeps the test fast
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordCostFallback(t *testing.T) {
	// An unusable configured cost must not break registration.
	hash, err := HashPassword("s3cret", 99)
	if err != nil {
		t.Fatalf("HashPassword with out-of-range cost: %v", err)
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Error("hash from fallback cost does not verify")
	}
}
