package auth

import (
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		input    string
		expected UserRole
		ok       bool
	}{
		{input: "ADMIN", expected: RoleAdmin, ok: true},
		{input: "manager", expected: RoleManager, ok: true},
		{input: " waiter ", expected: RoleWaiter, ok: true},
		{input: "chef", ok: false},
		{input: "", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			role, ok := ParseRole(tc.input)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if ok && role != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, role)
			}
		})
	}
}

func TestPolicyMatrix(t *testing.T) {
	cases := []struct {
		role     UserRole
		resource Resource
		allowed  bool
	}{
		{RoleAdmin, ResourceStaff, true},
		{RoleAdmin, ResourceBills, true},
		{RoleManager, ResourceStaff, false},
		{RoleManager, ResourceBills, true},
		{RoleManager, ResourceMenu, true},
		{RoleWaiter, ResourceOrders, true},
		{RoleWaiter, ResourceTables, true},
		{RoleWaiter, ResourceReservations, true},
		{RoleWaiter, ResourceBills, false},
		{RoleWaiter, ResourceMenu, false},
		{RoleWaiter, ResourceReports, false},
		{RoleWaiter, ResourceStaff, false},
		{RoleWaiter, ResourceUploads, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.role)+"_"+string(tc.resource), func(t *testing.T) {
			if got := Allowed(tc.role, tc.resource); got != tc.allowed {
				t.Fatalf("expected %v, got %v", tc.allowed, got)
			}
		})
	}

	if Allowed(RoleAdmin, Resource("unknown")) {
		t.Fatal("unknown resources must be denied")
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	token, err := IssueAccessToken("42", RoleManager, "manager@example.com", "Meera", secret, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := VerifyAccessToken(token, secret)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "42" || claims.Role != RoleManager || claims.Email != "manager@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := VerifyAccessToken(token, "other-secret"); err == nil {
		t.Fatal("expected verification failure with the wrong secret")
	}
	if _, err := VerifyAccessToken("", secret); err == nil {
		t.Fatal("expected failure for empty token")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	secret := "test-secret"
	token, err := IssueAccessToken("7", RoleWaiter, "w@example.com", "", secret, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := VerifyAccessToken(token, secret); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseBearerToken(t *testing.T) {
	cases := []struct {
		header   string
		expected string
	}{
		{header: "Bearer abc.def.ghi", expected: "abc.def.ghi"},
		{header: "bearer abc", expected: "abc"},
		{header: "Basic abc", expected: ""},
		{header: "abc", expected: ""},
		{header: "", expected: ""},
	}
	for _, tc := range cases {
		if got := ParseBearerToken(tc.header); got != tc.expected {
			t.Fatalf("header %q: expected %q, got %q", tc.header, tc.expected, got)
		}
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plain password")
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Fatal("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong-pass") {
		t.Fatal("expected mismatched password to fail")
	}
}
