package service

import "testing"

func TestStripJSONFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"score": 1}`, `{"score": 1}`},
		{"json fence", "```json\n{\"score\": 1}\n```", `{"score": 1}`},
		{"plain fence", "```\n{\"score\": 1}\n```", `{"score": 1}`},
		{"surrounding whitespace", "  \n{\"score\": 1}\n  ", `{"score": 1}`},
		{"unclosed fence", "```json\n{\"score\": 1}", `{"score": 1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripJSONFences(tc.in); got != tc.want {
				t.Fatalf("stripJSONFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
