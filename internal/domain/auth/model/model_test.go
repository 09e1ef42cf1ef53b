package model

import (
	"testing"
	"time"
)

func TestRole_AtLeast(t *testing.T) {
	if !RoleAdmin.AtLeast(RoleUser) {
		t.Fatal("admin must satisfy user")
	}
	if !RolePremium.AtLeast(RoleUser) {
		t.Fatal("premium must satisfy user")
	}
	if RoleUser.AtLeast(RoleAdmin) {
		t.Fatal("user must not satisfy admin")
	}
	if Role("superuser").AtLeast(RoleUser) {
		t.Fatal("unknown role must satisfy nothing")
	}
	if RoleAdmin.AtLeast(Role("superuser")) {
		t.Fatal("unknown requirement must never pass")
	}
}

func TestUser_Name(t *testing.T) {
	u := User{FirstName: "A", LastName: "B"}
	if u.Name() != "A B" {
		t.Fatalf("want 'A B', got %q", u.Name())
	}
	u.LastName = ""
	if u.Name() != "A" {
		t.Fatalf("want 'A', got %q", u.Name())
	}
}

func TestOTPChallenge_ExpiredAt(t *testing.T) {
	now := time.Now()
	ch := OTPChallenge{ExpiresAt: now}
	if ch.ExpiredAt(now) {
		t.Fatal("challenge is still valid at the instant of expiry")
	}
	if !ch.ExpiredAt(now.Add(time.Second)) {
		t.Fatal("challenge must be expired after the deadline")
	}
}
