package account

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/conicapps/launcher-core/internal/httpclient"
)

func TestFormatNanoAsUUID(t *testing.T) {
	got := formatNanoAsUUID(1700000000000000000)
	if len(got) != 36 {
		t.Fatalf("formatNanoAsUUID length = %d, want 36 (UUID shape), got %q", len(got), got)
	}
	wantDashesAt := []int{8, 13, 18, 23}
	for _, i := range wantDashesAt {
		if got[i] != '-' {
			t.Fatalf("formatNanoAsUUID(%q)[%d] = %q, want '-'", got, i, got[i])
		}
	}
}

func TestOfflineStoreCreateListDeleteResolve(t *testing.T) {
	dir := t.TempDir()
	store := NewOfflineStore(filepath.Join(dir, "accounts.offline.json"))

	var nano int64 = 1234567890123456789
	acc, err := store.Create("Steve", func() int64 { nano++; return nano })
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if acc.DisplayName != "Steve" || acc.UUID == "" {
		t.Fatalf("unexpected account: %+v", acc)
	}

	list, err := store.List()
	if err != nil || len(list) != 1 {
		t.Fatalf("List() = %v, %v; want 1 entry", list, err)
	}

	identity, err := store.Resolve(acc.UUID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if identity.AccessToken != OfflineSentinelToken {
		t.Fatalf("AccessToken = %q, want sentinel", identity.AccessToken)
	}

	if err := store.Delete(acc.UUID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(acc.UUID); err == nil {
		t.Fatal("expected AccountNotFound after delete")
	}
}

// newMicrosoftChainServer stubs all six endpoints the OAuth chain hits,
// rewritten to local paths via a single httptest server and URL overrides.
func newMicrosoftChainServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "msa-access", "refresh_token": "msa-refresh", "expires_in": 3600,
		})
	})
	mux.HandleFunc("/xbox", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"Token":         "xbl-token",
			"DisplayClaims": map[string]interface{}{"xui": []map[string]string{{"uhs": "uhs-value"}}},
		})
	})
	mux.HandleFunc("/xsts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"Token": "xsts-token"})
	})
	mux.HandleFunc("/mclogin", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "mc-access"})
	})
	mux.HandleFunc("/entitlements", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "profile-uuid", "name": "Alex", "skins": []interface{}{}, "capes": []interface{}{},
		})
	})
	return httptest.NewServer(mux)
}

func TestMicrosoftLoginChain(t *testing.T) {
	srv := newMicrosoftChainServer(t)
	defer srv.Close()

	restoreToken := msaTokenURL
	restoreXbox := xboxUserAuthURL
	restoreXSTS := xstsAuthURL
	restoreLogin := mcLoginURL
	restoreEnt := mcEntitlementURL
	restoreProfile := mcProfileURL
	msaTokenURL = srv.URL + "/token"
	xboxUserAuthURL = srv.URL + "/xbox"
	xstsAuthURL = srv.URL + "/xsts"
	mcLoginURL = srv.URL + "/mclogin"
	mcEntitlementURL = srv.URL + "/entitlements"
	mcProfileURL = srv.URL + "/profile"
	defer func() {
		msaTokenURL, xboxUserAuthURL, xstsAuthURL = restoreToken, restoreXbox, restoreXSTS
		mcLoginURL, mcEntitlementURL, mcProfileURL = restoreLogin, restoreEnt, restoreProfile
	}()

	dir := t.TempDir()
	store := NewMicrosoftStore(filepath.Join(dir, "accounts.microsoft.json"), httpclient.New(httpclient.Options{}))

	acc, err := store.LoginWithCode("auth-code")
	if err != nil {
		t.Fatalf("LoginWithCode: %v", err)
	}
	if acc.UUID != "profile-uuid" || acc.DisplayName != "Alex" {
		t.Fatalf("unexpected account: %+v", acc)
	}
	if acc.AccessToken != "mc-access" {
		t.Fatalf("AccessToken = %q, want mc-access", acc.AccessToken)
	}

	list, err := store.List()
	if err != nil || len(list) != 1 {
		t.Fatalf("List() = %v, %v; want 1 entry", list, err)
	}

	// Relogin with the same profile uuid updates in place, not duplicates.
	if _, err := store.LoginWithCode("auth-code-2"); err != nil {
		t.Fatalf("second LoginWithCode: %v", err)
	}
	list, _ = store.List()
	if len(list) != 1 {
		t.Fatalf("expected relogin to update in place, got %d accounts", len(list))
	}
}

func TestYggdrasilAddServerFollowsCanonicalLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-authlib-injector-api-location", "https://canonical.example/api")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dir := t.TempDir()
	store := NewYggdrasilStore(
		filepath.Join(dir, "servers.json"), filepath.Join(dir, "accounts.json"),
		httpclient.New(httpclient.Options{}),
	)

	server, err := store.AddServer(srv.URL)
	if err != nil {
		t.Fatalf("AddServer: %v", err)
	}
	if server.Root != "https://canonical.example/api" {
		t.Fatalf("Root = %q, want canonical location", server.Root)
	}
}

func TestYggdrasilLoginAndDedupe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/authserver/authenticate", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"accessToken": "ygg-access",
			"selectedProfile": map[string]string{
				"id": "ygg-profile-uuid", "name": "Notch",
			},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	store := NewYggdrasilStore(
		filepath.Join(dir, "servers.json"), filepath.Join(dir, "accounts.json"),
		httpclient.New(httpclient.Options{}),
	)

	var nano int64 = 1000
	clock := func() int64 { nano++; return nano }

	acc, err := store.Login(srv.URL, "player@example.com", "hunter2", clock)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if acc.ProfileUUID != "ygg-profile-uuid" || acc.ProfileName != "Notch" {
		t.Fatalf("unexpected account: %+v", acc)
	}

	// Logging in again with the same (root, username, profile) triple dedupes.
	if _, err := store.Login(srv.URL, "player@example.com", "hunter2", clock); err != nil {
		t.Fatalf("second Login: %v", err)
	}
	list, err := store.List()
	if err != nil || len(list) != 1 {
		t.Fatalf("List() = %v, %v; want 1 entry after dedupe", list, err)
	}

	identity, err := store.Resolve(acc.StoreUUID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if identity.AccessToken != "ygg-access" {
		t.Fatalf("AccessToken = %q, want ygg-access", identity.AccessToken)
	}
}
