package textutil

import "testing"

func TestSanitizeDirName(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "My Clip", "My_Clip"},
		{"hashtags stripped", "Funny moment #shorts #fyp", "Funny_moment"},
		{"unsafe characters", `wait: what?! "really" <yes>`, "wait_what!_really_yes"},
		{"slashes removed", "a/b\\c", "abc"},
		{"whitespace collapsed", "  a   b  ", "a_b"},
		{"only hashtags", "#one #two", ""},
		{"unicode kept", "亞特蘭提斯 術語", "亞特蘭提斯_術語"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeDirName(tc.input); got != tc.want {
				t.Fatalf("SanitizeDirName(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
