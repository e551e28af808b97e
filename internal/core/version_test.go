package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestLatestVersionIncludesPrerelease(t *testing.T) {
	latest, ok := LatestVersion([]string{"1.0.0", "2.0.0-beta", "1.5.0"})
	assert.True(t, ok)
	if diff := cmp.Diff("2.0.0-beta", latest); diff != "" {
		t.Fatalf("unexpected latest version (-want +got):\n%s", diff)
	}
}

func TestLatestVersionEmpty(t *testing.T) {
	_, ok := LatestVersion(nil)
	assert.False(t, ok)
	_, ok = LatestVersion([]string{"not-a-version", ""})
	assert.False(t, ok)
}

func TestLatestVersionReleaseBeatsItsPrerelease(t *testing.T) {
	latest, ok := LatestVersion([]string{"2.0.0-rc.1", "2.0.0", "1.9.9"})
	assert.True(t, ok)
	assert.Equal(t, "2.0.0", latest)
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a    string
		b    string
		want int
	}{
		{a: "1.10.0", b: "1.9.0", want: 1},
		{a: "1.0.0", b: "1.0.0", want: 0},
		{a: "1.0.0-alpha", b: "1.0.0", want: -1},
		{a: "1.0.0-beta.10", b: "1.0.0-beta.2", want: 1},
		{a: "1.0.0-ALPHA", b: "1.0.0-alpha", want: 0},
		{a: "1.0.0+build.5", b: "1.0.0", want: 0},
		{a: "8.0.0-preview.7.23375.6", b: "8.0.0-rc.1.23419.4", want: -1},
		{a: "4.5.0.1", b: "4.5.0", want: 1},
		{a: "1.0", b: "1.0.0.0", want: 0},
		{a: "garbage", b: "0.0.1", want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareVersions(tt.a, tt.b))
		})
	}
}

func TestLatestVersionPrereleaseLabels(t *testing.T) {
	tests := []struct {
		name      string
		available []string
		want      string
	}{
		{name: "hyphenated label above its prefix", available: []string{"1.0.0-beta", "1.0.0-beta-2"}, want: "1.0.0-beta-2"},
		{name: "dotted label below hyphenated", available: []string{"1.0.0-beta.1", "1.0.0-beta-2"}, want: "1.0.0-beta-2"},
		{name: "dev build above bare dev", available: []string{"4.0.0-dev-02160", "4.0.0-dev"}, want: "4.0.0-dev-02160"},
		{name: "alphanumeric labels compare as text", available: []string{"9.0.0-preview10", "9.0.0-preview9"}, want: "9.0.0-preview9"},
		{name: "numeric identifier below alphanumeric", available: []string{"1.0.0-alpha.beta", "1.0.0-alpha.1"}, want: "1.0.0-alpha.beta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			latest, ok := LatestVersion(tt.available)
			assert.True(t, ok)
			if diff := cmp.Diff(tt.want, latest); diff != "" {
				t.Fatalf("unexpected latest version (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompareVersionsIsClamped(t *testing.T) {
	assert.Equal(t, 1, CompareVersions("10.3.0", "1.0.0"))
	assert.Equal(t, -1, CompareVersions("1.0.0", "4.3.2"))
}

func TestParseNuGetVersion(t *testing.T) {
	tests := []struct {
		in     string
		labels []string
		ok     bool
	}{
		{in: "13.0.3", ok: true},
		{in: "2.0.0-beta", labels: []string{"beta"}, ok: true},
		{in: "1.0.0-alpha-2.1+sha.abc", labels: []string{"alpha-2", "1"}, ok: true},
		{in: "v1.0.0", ok: false},
		{in: "1.0.0-", ok: false},
		{in: "1.0.0-beta..1", ok: false},
		{in: "1.2.3.4.5", ok: false},
		{in: "", ok: false},
	}
	for _, tt := range tests {
		got, ok := parseNuGetVersion(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.labels, got.labels, tt.in)
		}
	}
}
