// FILE: internal/client/api/client_test.go
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseRequestShape(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody ParseRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(ParseResponse{
			Text:    "e2-e4",
			Actions: []ActionPayload{{Kind: "move", Source: "e2", Destination: "e4", Text: "e2-e4"}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Parse("e2-e4")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if gotPath != "/api/v1/parse" {
		t.Errorf("path = %q", gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotBody.Text != "e2-e4" {
		t.Errorf("request body text = %q", gotBody.Text)
	}
	if resp.Text != "e2-e4" || len(resp.Actions) != 1 || resp.Actions[0].Kind != "move" {
		t.Errorf("response = %+v", resp)
	}
}

func TestErrorStatusBecomesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "invalid action text", Code: "INVALID_ACTION"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Parse("zzz")
	if err == nil || !strings.Contains(err.Error(), "400") {
		t.Errorf("err = %v", err)
	}
}

func TestAuthTokenHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(UserResponse{UserID: "user-1", Username: "alice"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("token-123")
	user, err := c.GetCurrentUser()
	if err != nil {
		t.Fatalf("GetCurrentUser: %v", err)
	}

	if gotAuth != "Bearer token-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if user.Username != "alice" {
		t.Errorf("user = %+v", user)
	}
}

func TestDeleteIgnoresEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "DELETE" {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.DeleteRecord("rec-1"); err != nil {
		t.Errorf("DeleteRecord: %v", err)
	}
}

func TestSetBaseURLTrimsSlash(t *testing.T) {
	c := New("http://localhost:8080")
	c.SetBaseURL("http://example.com/")
	if c.BaseURL != "http://example.com" {
		t.Errorf("BaseURL = %q", c.BaseURL)
	}
}
