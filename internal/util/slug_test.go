// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple title",
			input:    "Hello World",
			expected: "hello-world",
		},
		{
			name:     "with special characters",
			input:    "Hello, World!",
			expected: "hello-world",
		},
		{
			name:     "with numbers",
			input:    "Post 123",
			expected: "post-123",
		},
		{
			name:     "with accents",
			input:    "Café résumé",
			expected: "cafe-resume",
		},
		{
			name:     "cyrillic transliteration",
			input:    "Москва",
			expected: "moskva",
		},
		{
			name:     "with multiple spaces",
			input:    "Hello   World",
			expected: "hello-world",
		},
		{
			name:     "with leading/trailing spaces",
			input:    "  Hello World  ",
			expected: "hello-world",
		},
		{
			name:     "all special characters",
			input:    "!@#$%^&*()",
			expected: "",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q; want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"hello", "hello-world", "post-123", "a"}
	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = false; want true", s)
		}
	}

	invalid := []string{"", "-hello", "hello-", "hello--world", "Hello", "hello world", "héllo"}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = true; want false", s)
		}
	}
}

func TestIsValidUsername(t *testing.T) {
	valid := []string{"ivan", "ivan_petrov", "user-42", "ABC"}
	for _, s := range valid {
		if !IsValidUsername(s) {
			t.Errorf("IsValidUsername(%q) = false; want true", s)
		}
	}

	invalid := []string{"", "ab", "иван", "user name", "a@b"}
	for _, s := range invalid {
		if IsValidUsername(s) {
			t.Errorf("IsValidUsername(%q) = true; want false", s)
		}
	}
}

func TestParseNullInt64Positive(t *testing.T) {
	if got := ParseNullInt64Positive("5"); !got.Valid || got.Int64 != 5 {
		t.Errorf("ParseNullInt64Positive(%q) = %+v; want valid 5", "5", got)
	}
	for _, s := range []string{"", "0", "-3", "abc"} {
		if got := ParseNullInt64Positive(s); got.Valid {
			t.Errorf("ParseNullInt64Positive(%q) = %+v; want invalid", s, got)
		}
	}
}
