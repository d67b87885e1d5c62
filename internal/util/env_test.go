package util

import (
	"reflect"
	"testing"
	"time"
)

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"", true, true},
		{"yes", false, true},
		{"ON", false, true},
		{"0", true, false},
		{"off", true, false},
		{"maybe", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("CYBERCORE_TEST_BOOL", tt.value)
			if got := ParseBoolEnv("CYBERCORE_TEST_BOOL", tt.def); got != tt.want {
				t.Errorf("ParseBoolEnv(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseMillisEnv(t *testing.T) {
	def := 100 * time.Millisecond
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"unset", "", def},
		{"bare millis", "80", 80 * time.Millisecond},
		{"zero", "0", 0},
		{"with unit", "1.5s", 1500 * time.Millisecond},
		{"negative", "-5", def},
		{"garbage", "fast", def},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CYBERCORE_TEST_MS", tt.value)
			if got := ParseMillisEnv("CYBERCORE_TEST_MS", def); got != tt.want {
				t.Errorf("ParseMillisEnv(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseListEnv(t *testing.T) {
	def := []string{"A"}

	t.Setenv("CYBERCORE_TEST_LIST", "")
	if got := ParseListEnv("CYBERCORE_TEST_LIST", "|", def); !reflect.DeepEqual(got, def) {
		t.Errorf("expected default, got %v", got)
	}

	t.Setenv("CYBERCORE_TEST_LIST", " BUILD WEBSITE | | BUILD FUTURE ")
	want := []string{"BUILD WEBSITE", "BUILD FUTURE"}
	if got := ParseListEnv("CYBERCORE_TEST_LIST", "|", def); !reflect.DeepEqual(got, want) {
		t.Errorf("ParseListEnv() = %v, want %v", got, want)
	}
}
