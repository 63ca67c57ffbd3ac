// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import (
	"net"
	"testing"
)

func TestInitWithEmptyPath(t *testing.T) {
	g := NewLookup()
	if err := g.Init(""); err != nil {
		t.Fatalf("Init(\"\") error = %v, want nil", err)
	}
	if g.IsEnabled() {
		t.Error("IsEnabled() = true with empty path")
	}
	if city := g.SuggestCity("8.8.8.8"); city != "" {
		t.Errorf("SuggestCity() = %q with disabled lookup, want empty", city)
	}
}

func TestInitWithMissingDatabase(t *testing.T) {
	g := NewLookup()
	if err := g.Init("/nonexistent/GeoLite2-City.mmdb"); err == nil {
		t.Error("Init() with missing database should return an error")
	}
	if g.IsEnabled() {
		t.Error("IsEnabled() = true after failed init")
	}
}

func TestSuggestCityUninitialized(t *testing.T) {
	g := NewLookup()
	if city := g.SuggestCity("8.8.8.8"); city != "" {
		t.Errorf("SuggestCity() = %q before Init, want empty", city)
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"fe80::1", true},
		{"8.8.8.8", false},
		{"2001:4860:4860::8888", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			if ip == nil {
				t.Fatalf("bad test IP %q", tt.ip)
			}
			if got := isPrivateIP(ip); got != tt.want {
				t.Errorf("isPrivateIP(%q) = %v, want %v", tt.ip, got, tt.want)
			}
		})
	}
}

func TestCloseIdempotent(t *testing.T) {
	g := NewLookup()
	if err := g.Init(""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := g.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
