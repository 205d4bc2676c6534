package account

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/conicapps/launcher-core/internal/conicerr"
	"github.com/conicapps/launcher-core/internal/httpclient"
)

// YggdrasilStore manages the two persistent stores of spec.md §4.7.3:
// a server list and an account list whose entries each carry a
// nanosecond-derived storage uuid distinct from the profile uuid. Both
// are persisted as JSON arrays; the accounts file is not a map keyed by
// the storage uuid.
type YggdrasilStore struct {
	servers  *jsonStore[YggdrasilServer]
	accounts *jsonStore[YggdrasilAccount]
	http     *httpclient.Client
}

func NewYggdrasilStore(serversPath, accountsPath string, http *httpclient.Client) *YggdrasilStore {
	return &YggdrasilStore{
		servers:  newJSONStore[YggdrasilServer](serversPath),
		accounts: newJSONStore[YggdrasilAccount](accountsPath),
		http:     http,
	}
}

// AddServer normalises rawURL (prepending https:// if no scheme is
// given), GETs its root, and follows an x-authlib-injector-api-location
// redirect header to the canonical root before persisting it.
func (s *YggdrasilStore) AddServer(rawURL string) (YggdrasilServer, error) {
	normalised := rawURL
	if !strings.Contains(normalised, "://") {
		normalised = "https://" + normalised
	}

	resp, err := s.http.Get(normalised)
	if err != nil {
		return YggdrasilServer{}, conicerr.Network(err)
	}
	defer resp.Body.Close()

	root := normalised
	if canonical := resp.Header.Get("x-authlib-injector-api-location"); canonical != "" {
		root = canonical
	}

	server := YggdrasilServer{Root: strings.TrimRight(root, "/")}
	err = s.servers.mutate(func(items []YggdrasilServer) []YggdrasilServer {
		return append(items, server)
	})
	if err != nil {
		return YggdrasilServer{}, err
	}
	return server, nil
}

func (s *YggdrasilStore) ListServers() ([]YggdrasilServer, error) {
	return s.servers.list()
}

// Login runs POST <root>/authserver/authenticate and stores the
// resulting account under a fresh nanosecond-derived storage key,
// deduped by (api-root, username, profile-uuid).
func (s *YggdrasilStore) Login(root, username, password string, nowNano func() int64) (YggdrasilAccount, error) {
	clientToken := formatNanoAsUUID(nowNano())
	payload := map[string]interface{}{
		"username": username,
		"password": password,
		"agent":    map[string]interface{}{"name": "Minecraft", "version": 1},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return YggdrasilAccount{}, conicerr.IO(err)
	}

	req, err := httpclient.NewJSONPost(root+"/authserver/authenticate", bytes.NewReader(raw))
	if err != nil {
		return YggdrasilAccount{}, conicerr.Network(err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return YggdrasilAccount{}, conicerr.Network(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return YggdrasilAccount{}, conicerr.ProfileUnavailable()
	}

	var body struct {
		AccessToken       string `json:"accessToken"`
		AvailableProfiles []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"availableProfiles"`
		SelectedProfile *struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"selectedProfile"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return YggdrasilAccount{}, conicerr.JSONParse(err)
	}

	profileID, profileName, err := pickProfile(body.SelectedProfile, body.AvailableProfiles, "")
	if err != nil {
		return YggdrasilAccount{}, err
	}

	acc := YggdrasilAccount{
		StoreUUID:   formatNanoAsUUID(nowNano()),
		ServerRoot:  root,
		Username:    username,
		ClientToken: clientToken,
		AccessToken: body.AccessToken,
		ProfileUUID: profileID,
		ProfileName: profileName,
		CreatedAt:   time.Now(),
	}

	err = s.accounts.mutate(func(items []YggdrasilAccount) []YggdrasilAccount {
		for _, existing := range items {
			if existing.ServerRoot == acc.ServerRoot && existing.Username == acc.Username && existing.ProfileUUID == acc.ProfileUUID {
				return items // already have this (api-root, account, profile) triple
			}
		}
		return append(items, acc)
	})
	if err != nil {
		return YggdrasilAccount{}, err
	}
	return acc, nil
}

// Verify checks accessToken/clientToken against <root>/authserver/validate
// (204 = valid) and transparently refreshes on anything else.
func (s *YggdrasilStore) Verify(storeUUID string) (YggdrasilAccount, error) {
	acc, err := s.Get(storeUUID)
	if err != nil {
		return YggdrasilAccount{}, err
	}

	payload := map[string]string{"accessToken": acc.AccessToken, "clientToken": acc.ClientToken}
	raw, _ := json.Marshal(payload)
	req, err := httpclient.NewJSONPost(acc.ServerRoot+"/authserver/validate", bytes.NewReader(raw))
	if err != nil {
		return YggdrasilAccount{}, conicerr.Network(err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return YggdrasilAccount{}, conicerr.Network(err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusNoContent {
		return acc, nil
	}
	return s.refresh(acc)
}

func (s *YggdrasilStore) refresh(acc YggdrasilAccount) (YggdrasilAccount, error) {
	payload := map[string]string{"accessToken": acc.AccessToken, "clientToken": acc.ClientToken}
	raw, _ := json.Marshal(payload)
	req, err := httpclient.NewJSONPost(acc.ServerRoot+"/authserver/refresh", bytes.NewReader(raw))
	if err != nil {
		return YggdrasilAccount{}, conicerr.Network(err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return YggdrasilAccount{}, conicerr.Network(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return YggdrasilAccount{}, conicerr.ProfileUnavailable()
	}

	var body struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return YggdrasilAccount{}, conicerr.JSONParse(err)
	}
	acc.AccessToken = body.AccessToken

	err = s.accounts.mutate(func(items []YggdrasilAccount) []YggdrasilAccount {
		for i, existing := range items {
			if existing.StoreUUID == acc.StoreUUID {
				items[i] = acc
			}
		}
		return items
	})
	if err != nil {
		return YggdrasilAccount{}, err
	}
	return acc, nil
}

// Relogin re-authenticates and re-selects the profile matching the
// stored profile uuid, failing with ProfileUnavailable if none matches
// (spec.md §4.7.3).
func (s *YggdrasilStore) Relogin(storeUUID, password string) (YggdrasilAccount, error) {
	acc, err := s.Get(storeUUID)
	if err != nil {
		return YggdrasilAccount{}, err
	}

	payload := map[string]interface{}{
		"username": acc.Username,
		"password": password,
		"agent":    map[string]interface{}{"name": "Minecraft", "version": 1},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return YggdrasilAccount{}, conicerr.IO(err)
	}
	req, err := httpclient.NewJSONPost(acc.ServerRoot+"/authserver/authenticate", bytes.NewReader(raw))
	if err != nil {
		return YggdrasilAccount{}, conicerr.Network(err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return YggdrasilAccount{}, conicerr.Network(err)
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken       string `json:"accessToken"`
		AvailableProfiles []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"availableProfiles"`
		SelectedProfile *struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"selectedProfile"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return YggdrasilAccount{}, conicerr.JSONParse(err)
	}

	profileID, profileName, err := pickProfile(body.SelectedProfile, body.AvailableProfiles, acc.ProfileUUID)
	if err != nil {
		return YggdrasilAccount{}, err
	}

	acc.AccessToken = body.AccessToken
	acc.ProfileUUID = profileID
	acc.ProfileName = profileName

	err = s.accounts.mutate(func(items []YggdrasilAccount) []YggdrasilAccount {
		for i, existing := range items {
			if existing.StoreUUID == acc.StoreUUID {
				items[i] = acc
			}
		}
		return items
	})
	if err != nil {
		return YggdrasilAccount{}, err
	}
	return acc, nil
}

// pickProfile selects selectedProfile if present, else the entry in
// available matching wantUUID (if wantUUID is non-empty, else the
// first), else fails with ProfileUnavailable.
func pickProfile(selected *struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}, available []struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}, wantUUID string) (id, name string, err error) {
	if selected != nil {
		return selected.ID, selected.Name, nil
	}
	for _, p := range available {
		if wantUUID == "" || p.ID == wantUUID {
			return p.ID, p.Name, nil
		}
	}
	return "", "", conicerr.ProfileUnavailable()
}

// Invalidate calls POST <root>/authserver/invalidate then deletes the
// account locally, per spec.md §4.7.3's delete-time invalidation.
func (s *YggdrasilStore) Invalidate(storeUUID string) error {
	acc, err := s.Get(storeUUID)
	if err != nil {
		return err
	}
	payload := map[string]string{"accessToken": acc.AccessToken, "clientToken": acc.ClientToken}
	raw, _ := json.Marshal(payload)
	req, err := httpclient.NewJSONPost(acc.ServerRoot+"/authserver/invalidate", bytes.NewReader(raw))
	if err == nil {
		if resp, err := s.http.Do(req); err == nil {
			resp.Body.Close()
		}
	}
	return s.Delete(storeUUID)
}

func (s *YggdrasilStore) List() ([]YggdrasilAccount, error) {
	return s.accounts.list()
}

func (s *YggdrasilStore) Get(storeUUID string) (YggdrasilAccount, error) {
	items, err := s.accounts.list()
	if err != nil {
		return YggdrasilAccount{}, err
	}
	for _, a := range items {
		if a.StoreUUID == storeUUID {
			return a, nil
		}
	}
	return YggdrasilAccount{}, conicerr.AccountNotFound(storeUUID)
}

func (s *YggdrasilStore) Delete(storeUUID string) error {
	return s.accounts.mutate(func(items []YggdrasilAccount) []YggdrasilAccount {
		out := items[:0]
		for _, a := range items {
			if a.StoreUUID != storeUUID {
				out = append(out, a)
			}
		}
		return out
	})
}

// Resolve returns the launch-time identity for a Yggdrasil account.
func (s *YggdrasilStore) Resolve(storeUUID string) (ResolvedIdentity, error) {
	acc, err := s.Get(storeUUID)
	if err != nil {
		return ResolvedIdentity{}, err
	}
	return ResolvedIdentity{AccessToken: acc.AccessToken, DisplayName: acc.ProfileName, UUID: acc.ProfileUUID}, nil
}
