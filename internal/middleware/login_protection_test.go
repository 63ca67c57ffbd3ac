// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"testing"
	"time"
)

// testLoginProtectionConfig returns a config suitable for fast testing.
func testLoginProtectionConfig(maxAttempts int, lockoutDuration, attemptWindow time.Duration) LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockoutDuration,
		AttemptWindow:     attemptWindow,
	}
}

func TestDefaultLoginProtectionConfig(t *testing.T) {
	cfg := DefaultLoginProtectionConfig()

	if cfg.IPRateLimit != 0.5 {
		t.Errorf("IPRateLimit = %v, want 0.5", cfg.IPRateLimit)
	}
	if cfg.MaxFailedAttempts != 5 {
		t.Errorf("MaxFailedAttempts = %d, want 5", cfg.MaxFailedAttempts)
	}
	if cfg.LockoutDuration != 15*time.Minute {
		t.Errorf("LockoutDuration = %v, want 15m", cfg.LockoutDuration)
	}
}

func TestAccountLockoutAfterMaxAttempts(t *testing.T) {
	lp := NewLoginProtection(testLoginProtectionConfig(3, time.Minute, time.Minute))

	if locked, _ := lp.IsAccountLocked("alice"); locked {
		t.Fatal("fresh account should not be locked")
	}

	for i := 0; i < 2; i++ {
		if locked, _ := lp.RecordFailedAttempt("alice"); locked {
			t.Fatalf("locked after %d attempts, want lock at 3", i+1)
		}
	}

	locked, duration := lp.RecordFailedAttempt("alice")
	if !locked {
		t.Fatal("account should lock on third failed attempt")
	}
	if duration != time.Minute {
		t.Errorf("lock duration = %v, want %v", duration, time.Minute)
	}

	if locked, remaining := lp.IsAccountLocked("alice"); !locked || remaining <= 0 {
		t.Errorf("IsAccountLocked = (%v, %v), want locked with remaining time", locked, remaining)
	}
}

func TestSuccessfulLoginClearsAttempts(t *testing.T) {
	lp := NewLoginProtection(testLoginProtectionConfig(3, time.Minute, time.Minute))

	lp.RecordFailedAttempt("bob")
	lp.RecordFailedAttempt("bob")
	lp.RecordSuccessfulLogin("bob")

	// Counter starts over after a successful login
	if locked, _ := lp.RecordFailedAttempt("bob"); locked {
		t.Error("account locked after counter was cleared")
	}
}

func TestLockoutDoesNotAffectOtherAccounts(t *testing.T) {
	lp := NewLoginProtection(testLoginProtectionConfig(1, time.Minute, time.Minute))

	if locked, _ := lp.RecordFailedAttempt("victim"); !locked {
		t.Fatal("account should lock on first attempt with maxAttempts=1")
	}
	if locked, _ := lp.IsAccountLocked("bystander"); locked {
		t.Error("unrelated account is locked")
	}
}

func TestIPRateLimit(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       1,
		IPBurst:           2,
		MaxFailedAttempts: 5,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})

	ip := "192.0.2.1:1234"
	if !lp.CheckIPRateLimit(ip) {
		t.Fatal("first request should pass")
	}
	if !lp.CheckIPRateLimit(ip) {
		t.Fatal("second request within burst should pass")
	}
	if lp.CheckIPRateLimit(ip) {
		t.Error("third request should exceed burst")
	}
}
