// SPDX-License-Identifier: MIT

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseString(t *testing.T) {
	t.Setenv("ALERTGW_TEST_STR", "value")
	assert.Equal(t, "value", ParseString("ALERTGW_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", ParseString("ALERTGW_TEST_UNSET", "fallback"))
}

func TestParseInt(t *testing.T) {
	t.Setenv("ALERTGW_TEST_INT", "42")
	assert.Equal(t, 42, ParseInt("ALERTGW_TEST_INT", 7))

	t.Setenv("ALERTGW_TEST_INT", "not a number")
	assert.Equal(t, 7, ParseInt("ALERTGW_TEST_INT", 7))
}

func TestParseDuration(t *testing.T) {
	t.Setenv("ALERTGW_TEST_DUR", "90s")
	assert.Equal(t, 90*time.Second, ParseDuration("ALERTGW_TEST_DUR", time.Minute))

	t.Setenv("ALERTGW_TEST_DUR", "soon")
	assert.Equal(t, time.Minute, ParseDuration("ALERTGW_TEST_DUR", time.Minute))
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"1", true},
		{"false", false},
		{"0", false},
	}
	for _, tt := range tests {
		t.Setenv("ALERTGW_TEST_BOOL", tt.raw)
		assert.Equal(t, tt.want, ParseBool("ALERTGW_TEST_BOOL", !tt.want), "raw=%q", tt.raw)
	}

	t.Setenv("ALERTGW_TEST_BOOL", "maybe")
	assert.True(t, ParseBool("ALERTGW_TEST_BOOL", true))
}

func TestParseFloat(t *testing.T) {
	t.Setenv("ALERTGW_TEST_FLOAT", "0.25")
	assert.Equal(t, 0.25, ParseFloat("ALERTGW_TEST_FLOAT", 1.0))

	t.Setenv("ALERTGW_TEST_FLOAT", "")
	assert.Equal(t, 1.0, ParseFloat("ALERTGW_TEST_FLOAT", 1.0))
}