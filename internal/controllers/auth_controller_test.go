package controllers

import (
	"net/http"
	"strings"
	"testing"
)

func TestRegisterLoginFlow(t *testing.T) {
	r := newTestApp(t)

	w := doJSON(t, r, http.MethodPost, "/register", "", map[string]string{
		"username": "alice", "password": "hunter2",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}
	var created struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decodeBody(t, w, &created)
	if created.AccessToken == "" || created.TokenType != "bearer" {
		t.Fatalf("unexpected register response: %s", w.Body.String())
	}
	if cookie := w.Header().Get("Set-Cookie"); !strings.Contains(cookie, "Authorization=") {
		t.Errorf("register should set the auth cookie, got %q", cookie)
	}

	w = doJSON(t, r, http.MethodPost, "/register", "", map[string]string{
		"username": "alice", "password": "other",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/login", "", map[string]string{
		"username": "alice", "password": "hunter2",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeBody(t, w, &login)

	w = doJSON(t, r, http.MethodGet, "/current_username", login.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("current_username status = %d", w.Code)
	}
	if got := w.Body.String(); !strings.Contains(got, `"username":"alice"`) {
		t.Errorf("current_username body = %s", got)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := newTestApp(t)
	doJSON(t, r, http.MethodPost, "/register", "", map[string]string{
		"username": "bob", "password": "correct",
	})

	// An unknown user and a wrong password must be indistinguishable.
	var messages []string
	for _, creds := range []map[string]string{
		{"username": "bob", "password": "wrong"},
		{"username": "nobody", "password": "wrong"},
	} {
		w := doJSON(t, r, http.MethodPost, "/login", "", creds)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("login %v status = %d, want 401", creds, w.Code)
		}
		var body struct {
			Error string `json:"error"`
		}
		decodeBody(t, w, &body)
		messages = append(messages, body.Error)
	}
	if messages[0] != messages[1] {
		t.Errorf("error messages differ: %q vs %q", messages[0], messages[1])
	}
}

func TestAuthenticatedEndpointsRejectMissingToken(t *testing.T) {
	r := newTestApp(t)

	w := doJSON(t, r, http.MethodGet, "/current_username", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/current_username", "not-a-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d, want 401", w.Code)
	}
}

func TestLogoutExpiresCookie(t *testing.T) {
	r := newTestApp(t)

	w := doJSON(t, r, http.MethodGet, "/logout", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d", w.Code)
	}
	cookie := w.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "Authorization=") || !strings.Contains(cookie, "Max-Age=0") {
		t.Errorf("logout should expire the auth cookie, got %q", cookie)
	}
}
