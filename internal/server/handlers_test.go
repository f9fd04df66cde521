package server

import (
	"errors"
	"net/http"
	"testing"

	"tailscale.com/client/tailscale/apitype"
	"tailscale.com/tailcfg"
)

// TestHandleMe verifies /api/v1/me reports the dev user without a tailnet
// and the WhoIs profile with one.
func TestHandleMe(t *testing.T) {
	tests := []struct {
		name  string
		whois WhoIsClient
		want  UserInfo
	}{
		{
			name: "dev user",
			want: UserInfo{Login: "local", DisplayName: "Local Dev User"},
		},
		{
			name: "tailnet user",
			whois: fakeWhoIs{resp: &apitype.WhoIsResponse{
				UserProfile: &tailcfg.UserProfile{LoginName: "alice@example.com", DisplayName: "Alice"},
			}},
			want: UserInfo{Login: "alice@example.com", DisplayName: "Alice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, newFakeStore(), nil)
			if tt.whois != nil {
				s.SetTailscale(tt.whois)
			}

			rec := do(t, s, http.MethodGet, "/api/v1/me", nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if got := decode[UserInfo](t, rec); got != tt.want {
				t.Errorf("me = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestEngineRoutesRequireTailnetIdentity verifies engine routes reject
// callers the tailnet cannot identify.
func TestEngineRoutesRequireTailnetIdentity(t *testing.T) {
	s := newTestServer(t, newFakeStore(), nil)
	s.SetTailscale(fakeWhoIs{err: errors.New("no peer")})

	for _, path := range []string{"/api/v1/split", "/api/v1/progression", "/api/v1/history"} {
		if rec := do(t, s, http.MethodGet, path, nil); rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s: status = %d, want 401", path, rec.Code)
		}
	}
}
