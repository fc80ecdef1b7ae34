package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusfind/internal/db"
	"campusfind/internal/match"
	"campusfind/internal/model"
	"campusfind/internal/state"
	"campusfind/internal/storage"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database := db.NewTestDB(t)
	fixtures, err := storage.LoadFixtures()
	if err != nil {
		t.Fatalf("LoadFixtures: %v", err)
	}
	manager := state.NewManager(database, fixtures, &match.Mock{}, &match.Mock{})
	router := NewRouter(database, manager, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func loginAs(t *testing.T, server *httptest.Server, email string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login as %s failed: %d", email, resp.StatusCode)
	}

	var loginResp struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	}
	json.NewDecoder(resp.Body).Decode(&loginResp)
	if loginResp.Token == "" {
		t.Fatal("empty token from login")
	}
	return loginResp.Token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func doJSON(t *testing.T, req *http.Request, wantStatus int, dest any) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d", req.Method, req.URL.Path, wantStatus, resp.StatusCode)
	}
	if dest != nil {
		json.NewDecoder(resp.Body).Decode(dest)
	}
}

func TestLoginEndpoint(t *testing.T) {
	server := setupTestServer(t)

	// Unknown email.
	body, _ := json.Marshal(map[string]string{"email": "nobody@campus.edu"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unknown email, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Case-insensitive email.
	loginAs(t, server, "ADMIN@campus.edu")
}

func TestUnauthenticatedAccess(t *testing.T) {
	server := setupTestServer(t)

	resp, _ := http.Get(server.URL + "/api/items")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestItemsAPIFlow(t *testing.T) {
	server := setupTestServer(t)
	token := loginAs(t, server, "student@campus.edu")

	// Report a lost item.
	var created model.Item
	req, _ := authRequest("POST", server.URL+"/api/items", token, map[string]string{
		"name":        "Red Umbrella",
		"type":        "lost",
		"itemType":    "Other",
		"description": "Small red umbrella with a wooden handle",
		"location":    "Bus Stop",
	})
	doJSON(t, req, http.StatusCreated, &created)
	if created.ID == "" || created.Status != model.ItemStatusOpen {
		t.Fatalf("unexpected created item: %+v", created)
	}
	if created.ReportedBy != "user-1" {
		t.Errorf("expected reporter user-1, got %s", created.ReportedBy)
	}

	// Fetch it back.
	var fetched model.Item
	req, _ = authRequest("GET", server.URL+"/api/items/"+created.ID, token, nil)
	doJSON(t, req, http.StatusOK, &fetched)
	if fetched.Name != "Red Umbrella" {
		t.Errorf("expected fetched item, got %+v", fetched)
	}

	// List with filters.
	var lost []model.Item
	req, _ = authRequest("GET", server.URL+"/api/items?type=lost&mine=true", token, nil)
	doJSON(t, req, http.StatusOK, &lost)
	if len(lost) != 1 || lost[0].ID != created.ID {
		t.Errorf("expected only the new lost item, got %+v", lost)
	}

	// Matches for the lost item (mock collaborator).
	var matches []match.Match
	req, _ = authRequest("GET", server.URL+"/api/items/"+created.ID+"/matches", token, nil)
	doJSON(t, req, http.StatusOK, &matches)
	if len(matches) == 0 {
		t.Error("expected mock matches for seeded found items")
	}

	// Delete it.
	req, _ = authRequest("DELETE", server.URL+"/api/items/"+created.ID, token, nil)
	doJSON(t, req, http.StatusOK, nil)

	req, _ = authRequest("GET", server.URL+"/api/items/"+created.ID, token, nil)
	doJSON(t, req, http.StatusNotFound, nil)
}

func TestItemEditRestrictedToReporter(t *testing.T) {
	server := setupTestServer(t)
	token := loginAs(t, server, "student@campus.edu")

	// item-1 is seeded as reported by user-2; the student may not edit it.
	req, _ := authRequest("PUT", server.URL+"/api/items/item-1", token, map[string]string{
		"name": "Hijacked",
	})
	doJSON(t, req, http.StatusForbidden, nil)

	req, _ = authRequest("DELETE", server.URL+"/api/items/item-1", token, nil)
	doJSON(t, req, http.StatusForbidden, nil)
}

func TestClaimApprovalFlow(t *testing.T) {
	server := setupTestServer(t)
	adminToken := loginAs(t, server, "admin@campus.edu")

	// The admin claims the seeded open found bottle, then resolves it.
	// (Collections are per-session, so the resolution happens in the
	// same session the claim was filed in.)
	var claim model.Claim
	req, _ := authRequest("POST", server.URL+"/api/claims", adminToken, map[string]string{
		"foundItemId": "item-1",
		"description": "Blue bottle with my name sticker under the cap",
	})
	doJSON(t, req, http.StatusCreated, &claim)
	if claim.Status != model.ClaimStatusPending {
		t.Fatalf("expected pending claim, got %s", claim.Status)
	}

	var approved model.Claim
	req, _ = authRequest("POST", server.URL+"/api/claims/"+claim.ID+"/approve", adminToken, nil)
	doJSON(t, req, http.StatusOK, &approved)
	if approved.Status != model.ClaimStatusApproved {
		t.Errorf("expected approved, got %s", approved.Status)
	}

	var item model.Item
	req, _ = authRequest("GET", server.URL+"/api/items/item-1", adminToken, nil)
	doJSON(t, req, http.StatusOK, &item)
	if item.Status != model.ItemStatusClaimed {
		t.Errorf("expected item claimed, got %s", item.Status)
	}

	var notifs struct {
		Notifications []model.Notification `json:"notifications"`
		UnreadCount   int                  `json:"unreadCount"`
	}
	req, _ = authRequest("GET", server.URL+"/api/notifications", adminToken, nil)
	doJSON(t, req, http.StatusOK, &notifs)
	if notifs.UnreadCount != 1 || len(notifs.Notifications) != 1 {
		t.Fatalf("expected one unread claimant notification, got %+v", notifs)
	}

	// Mark all read.
	req, _ = authRequest("POST", server.URL+"/api/notifications/read-all", adminToken, nil)
	doJSON(t, req, http.StatusOK, nil)

	req, _ = authRequest("GET", server.URL+"/api/notifications", adminToken, nil)
	doJSON(t, req, http.StatusOK, &notifs)
	if notifs.UnreadCount != 0 {
		t.Errorf("expected unread count 0, got %d", notifs.UnreadCount)
	}
}

func TestClaimResolutionRequiresAdmin(t *testing.T) {
	server := setupTestServer(t)
	studentToken := loginAs(t, server, "student@campus.edu")

	var claim model.Claim
	req, _ := authRequest("POST", server.URL+"/api/claims", studentToken, map[string]string{
		"foundItemId": "item-1",
	})
	doJSON(t, req, http.StatusCreated, &claim)

	req, _ = authRequest("POST", server.URL+"/api/claims/"+claim.ID+"/approve", studentToken, nil)
	doJSON(t, req, http.StatusForbidden, nil)

	req, _ = authRequest("POST", server.URL+"/api/claims/"+claim.ID+"/reject", studentToken, nil)
	doJSON(t, req, http.StatusForbidden, nil)
}

func TestClaimVerification(t *testing.T) {
	server := setupTestServer(t)
	adminToken := loginAs(t, server, "admin@campus.edu")

	var claim model.Claim
	req, _ := authRequest("POST", server.URL+"/api/claims", adminToken, map[string]string{
		"foundItemId": "item-1",
		"description": "Dented blue Hydro Flask",
	})
	doJSON(t, req, http.StatusCreated, &claim)

	var v match.Verification
	req, _ = authRequest("POST", server.URL+"/api/claims/"+claim.ID+"/verify", adminToken, nil)
	doJSON(t, req, http.StatusOK, &v)
	if v.Reasoning == "" || v.Confidence <= 0 {
		t.Errorf("expected verification narrative, got %+v", v)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	server := setupTestServer(t)
	token := loginAs(t, server, "student@campus.edu")

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	doJSON(t, req, http.StatusOK, nil)

	// The revoked token no longer works.
	req, _ = authRequest("GET", server.URL+"/api/items", token, nil)
	doJSON(t, req, http.StatusUnauthorized, nil)

	// A fresh login starts from the fixtures again.
	token = loginAs(t, server, "student@campus.edu")
	var items []model.Item
	req, _ = authRequest("GET", server.URL+"/api/items", token, nil)
	doJSON(t, req, http.StatusOK, &items)
	if len(items) != 6 {
		t.Errorf("expected 6 fixture items after re-login, got %d", len(items))
	}
}

func TestProfileUpdate(t *testing.T) {
	server := setupTestServer(t)
	token := loginAs(t, server, "student@campus.edu")

	var user model.User
	req, _ := authRequest("PUT", server.URL+"/api/auth/profile", token, map[string]string{
		"name": "Alexandra Johnson",
	})
	doJSON(t, req, http.StatusOK, &user)
	if user.Name != "Alexandra Johnson" {
		t.Errorf("expected updated name, got %q", user.Name)
	}

	req, _ = authRequest("GET", server.URL+"/api/auth/me", token, nil)
	doJSON(t, req, http.StatusOK, &user)
	if user.Name != "Alexandra Johnson" {
		t.Errorf("expected persisted name via /me, got %q", user.Name)
	}
}
