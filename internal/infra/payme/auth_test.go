//go:build !integration

package payme_test

import (
	"net/http/httptest"
	"testing"

	"course-subscription-platform/internal/infra/payme"
)

func TestAuthenticate(t *testing.T) {
	auth := payme.NewAuthenticator("secret-key")

	tests := []struct {
		name    string
		setAuth bool
		login   string
		key     string
		wantOK  bool
	}{
		{"valid credentials", true, payme.ExpectedLogin, "secret-key", true},
		{"wrong key", true, payme.ExpectedLogin, "wrong", false},
		{"wrong login", true, "merchant", "secret-key", false},
		{"empty key", true, payme.ExpectedLogin, "", false},
		{"missing header", false, "", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/payments/payme", nil)
			if tc.setAuth {
				r.SetBasicAuth(tc.login, tc.key)
			}
			err := auth.Authenticate(r)
			if tc.wantOK && err != nil {
				t.Errorf("Authenticate() error = %v, want nil", err)
			}
			if !tc.wantOK && err == nil {
				t.Error("Authenticate() error = nil, want rejection")
			}
		})
	}
}
