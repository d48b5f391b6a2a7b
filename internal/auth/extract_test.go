package auth

import "testing"

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{name: "well-formed", header: "Bearer abc.def.ghi", want: "abc.def.ghi", ok: true},
		{name: "absent", header: "", ok: false},
		{name: "wrong scheme", header: "Basic abc", ok: false},
		{name: "scheme only", header: "Bearer", ok: false},
		{name: "empty token", header: "Bearer ", ok: false},
		{name: "double space", header: "Bearer  abc", ok: false},
		{name: "lowercase scheme", header: "bearer abc.def.ghi", ok: false},
		{name: "uppercase scheme", header: "BEARER abc.def.ghi", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractBearerToken(tc.header)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("expected token %q, got %q", tc.want, got)
			}
		})
	}
}
