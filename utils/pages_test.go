package utils

import "testing"

func TestCountPages(t *testing.T) {
	cases := []struct {
		pages string
		want  int
	}{
		{"1-12", 12},
		{"13-19", 7},
		{"5-5", 1},
		{" 10 - 20 ", 11},
		{"", 0},
		{"   ", 0},
		{"n/a", 0},
		{"12", 0},
		{"a-b", 0},
		{"5-3", 0},
		{"0-4", 0},
		{"-3-7", 0},
	}

	for _, tc := range cases {
		if got := CountPages(tc.pages); got != tc.want {
			t.Errorf("CountPages(%q) = %d, want %d", tc.pages, got, tc.want)
		}
	}
}
