package account

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/browser"

	"github.com/conicapps/launcher-core/internal/conicerr"
	"github.com/conicapps/launcher-core/internal/httpclient"
)

// microsoftClientID is the public client id every Minecraft launcher
// (official or not) has used historically, per spec.md §4.7.1 step 1.
const microsoftClientID = "00000000402b5328"

const (
	msaAuthorizeURL = "https://login.live.com/oauth20_authorize.srf"
	msaRedirectURI  = "https://login.live.com/oauth20_desktop.srf"

	refreshThreshold = 4 * time.Hour
)

// Endpoint URLs are vars, not consts, so tests can redirect the chain
// at an httptest server.
var (
	msaTokenURL      = "https://login.live.com/oauth20_token.srf"
	xboxUserAuthURL  = "https://user.auth.xboxlive.com/user/authenticate"
	xstsAuthURL      = "https://xsts.auth.xboxlive.com/xsts/authorize"
	mcLoginURL       = "https://api.minecraftservices.com/authentication/login_with_xbox"
	mcEntitlementURL = "https://api.minecraftservices.com/entitlements/mcstore"
	mcProfileURL     = "https://api.minecraftservices.com/minecraft/profile"
)

// MicrosoftStore persists signed-in Microsoft accounts and drives the
// six-step OAuth/Xbox/Minecraft chain of spec.md §4.7.1.
type MicrosoftStore struct {
	store *jsonStore[MicrosoftAccount]
	http  *httpclient.Client
}

func NewMicrosoftStore(path string, http *httpclient.Client) *MicrosoftStore {
	return &MicrosoftStore{store: newJSONStore[MicrosoftAccount](path), http: http}
}

// BeginLogin opens the system browser to Microsoft's authorization-code
// endpoint, the interactive half of step 1; the caller collects the
// resulting `code` query parameter from the redirect and passes it to
// LoginWithCode.
func (s *MicrosoftStore) BeginLogin() error {
	u := fmt.Sprintf("%s?client_id=%s&response_type=code&redirect_uri=%s&scope=%s",
		msaAuthorizeURL, microsoftClientID, url.QueryEscape(msaRedirectURI),
		url.QueryEscape("service::user.auth.xboxlive.com::MBI_SSL"))
	if err := browser.OpenURL(u); err != nil {
		return conicerr.Network(err)
	}
	return nil
}

// LoginWithCode runs the full six-step chain for an authorization code
// obtained via BeginLogin, persisting (or replacing) the resulting account.
func (s *MicrosoftStore) LoginWithCode(code string) (MicrosoftAccount, error) {
	return s.login(url.Values{
		"client_id":    {microsoftClientID},
		"code":         {code},
		"grant_type":   {"authorization_code"},
		"redirect_uri": {msaRedirectURI},
		"scope":        {"service::user.auth.xboxlive.com::MBI_SSL"},
	})
}

// CheckAndRefresh refreshes uuid's account if its token expires within
// refreshThreshold (4h), per spec.md §4.7.1; otherwise it is a no-op.
func (s *MicrosoftStore) CheckAndRefresh(uuid string) (MicrosoftAccount, error) {
	acc, err := s.Get(uuid)
	if err != nil {
		return MicrosoftAccount{}, err
	}
	if time.Until(acc.ExpiresAt) >= refreshThreshold {
		return acc, nil
	}
	return s.login(url.Values{
		"client_id":     {microsoftClientID},
		"refresh_token": {acc.RefreshToken},
		"grant_type":    {"refresh_token"},
		"scope":         {"service::user.auth.xboxlive.com::MBI_SSL"},
	})
}

func (s *MicrosoftStore) login(tokenForm url.Values) (MicrosoftAccount, error) {
	msaToken, msaRefresh, expiresIn, err := s.step1Token(tokenForm)
	if err != nil {
		return MicrosoftAccount{}, err
	}
	xblToken, uhs, err := s.step2XboxLive(msaToken)
	if err != nil {
		return MicrosoftAccount{}, err
	}
	xstsToken, err := s.step3XSTS(xblToken)
	if err != nil {
		return MicrosoftAccount{}, err
	}
	mcToken, err := s.step4MinecraftLogin(uhs, xstsToken)
	if err != nil {
		return MicrosoftAccount{}, err
	}
	if err := s.step5Ownership(mcToken); err != nil {
		return MicrosoftAccount{}, err
	}
	profile, err := s.step6Profile(mcToken)
	if err != nil {
		return MicrosoftAccount{}, err
	}

	acc := MicrosoftAccount{
		UUID:         profile.uuid,
		DisplayName:  profile.displayName,
		AccessToken:  mcToken,
		RefreshToken: msaRefresh,
		ExpiresAt:    time.Now().Add(time.Duration(expiresIn) * time.Second),
		Skins:        profile.skins,
		Capes:        profile.capes,
	}

	// Relogin by code: append a new account if the profile uuid matches no
	// stored account, update in place if it matches (spec.md §4.7.1).
	err = s.store.mutate(func(items []MicrosoftAccount) []MicrosoftAccount {
		for i, existing := range items {
			if existing.UUID == acc.UUID {
				items[i] = acc
				return items
			}
		}
		return append(items, acc)
	})
	if err != nil {
		return MicrosoftAccount{}, err
	}
	return acc, nil
}

func (s *MicrosoftStore) step1Token(form url.Values) (accessToken, refreshToken string, expiresIn int, err error) {
	resp, err := s.postForm(msaTokenURL, form)
	if err != nil {
		return "", "", 0, err
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", "", 0, conicerr.JSONParse(err)
	}
	if body.AccessToken == "" {
		return "", "", 0, conicerr.MicrosoftResponseMissingKey("access_token")
	}
	if body.RefreshToken == "" {
		return "", "", 0, conicerr.MicrosoftResponseMissingKey("refresh_token")
	}
	return body.AccessToken, body.RefreshToken, body.ExpiresIn, nil
}

func (s *MicrosoftStore) step2XboxLive(accessToken string) (token, uhs string, err error) {
	payload := map[string]interface{}{
		"Properties": map[string]interface{}{
			"AuthMethod": "RPS",
			"SiteName":   "user.auth.xboxlive.com",
			"RpsTicket":  accessToken,
		},
		"RelyingParty": "http://auth.xboxlive.com",
		"TokenType":    "JWT",
	}
	resp, err := s.postJSON(xboxUserAuthURL, payload)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	var body struct {
		Token         string `json:"Token"`
		DisplayClaims struct {
			XUI []struct {
				UHS string `json:"uhs"`
			} `json:"xui"`
		} `json:"DisplayClaims"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", "", conicerr.JSONParse(err)
	}
	if body.Token == "" {
		return "", "", conicerr.MicrosoftResponseMissingKey("Token")
	}
	if len(body.DisplayClaims.XUI) == 0 || body.DisplayClaims.XUI[0].UHS == "" {
		return "", "", conicerr.MicrosoftResponseMissingKey("DisplayClaims.xui[0].uhs")
	}
	return body.Token, body.DisplayClaims.XUI[0].UHS, nil
}

func (s *MicrosoftStore) step3XSTS(xblToken string) (string, error) {
	payload := map[string]interface{}{
		"Properties": map[string]interface{}{
			"SandboxId":  "RETAIL",
			"UserTokens": []string{xblToken},
		},
		"RelyingParty": "rp://api.minecraftservices.com/",
		"TokenType":    "JWT",
	}
	resp, err := s.postJSON(xstsAuthURL, payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		Token string `json:"Token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", conicerr.JSONParse(err)
	}
	if body.Token == "" {
		return "", conicerr.MicrosoftResponseMissingKey("Token")
	}
	return body.Token, nil
}

func (s *MicrosoftStore) step4MinecraftLogin(uhs, xstsToken string) (string, error) {
	payload := map[string]string{
		"identityToken": fmt.Sprintf("XBL3.0 x=%s; %s", uhs, xstsToken),
	}
	resp, err := s.postJSON(mcLoginURL, payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", conicerr.JSONParse(err)
	}
	if body.AccessToken == "" {
		return "", conicerr.MicrosoftResponseMissingKey("access_token")
	}
	return body.AccessToken, nil
}

func (s *MicrosoftStore) step5Ownership(mcAccessToken string) error {
	req, err := httpclient.NewBearerGet(mcEntitlementURL, mcAccessToken)
	if err != nil {
		return conicerr.Network(err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return conicerr.Network(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return conicerr.OwnershipCheckFailed()
	}
	return nil
}

type microsoftProfile struct {
	uuid        string
	displayName string
	skins       []Skin
	capes       []Skin
}

func (s *MicrosoftStore) step6Profile(mcAccessToken string) (microsoftProfile, error) {
	req, err := httpclient.NewBearerGet(mcProfileURL, mcAccessToken)
	if err != nil {
		return microsoftProfile{}, conicerr.Network(err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return microsoftProfile{}, conicerr.Network(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return microsoftProfile{}, conicerr.ProfileUnavailable()
	}

	var body struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Skins []struct {
			ID      string `json:"id"`
			State   string `json:"state"`
			URL     string `json:"url"`
			Variant string `json:"variant"`
		} `json:"skins"`
		Capes []struct {
			ID    string `json:"id"`
			State string `json:"state"`
			URL   string `json:"url"`
		} `json:"capes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return microsoftProfile{}, conicerr.JSONParse(err)
	}
	if body.ID == "" {
		return microsoftProfile{}, conicerr.MicrosoftResponseMissingKey("id")
	}

	profile := microsoftProfile{uuid: body.ID, displayName: body.Name}
	for _, sk := range body.Skins {
		profile.skins = append(profile.skins, Skin{
			ID: sk.ID, State: sk.State, Variant: sk.Variant,
			SourceURL: sk.URL, DataURL: s.prefetchInline(sk.URL),
		})
	}
	for _, c := range body.Capes {
		profile.capes = append(profile.capes, Skin{
			ID: c.ID, State: c.State, SourceURL: c.URL, DataURL: s.prefetchInline(c.URL),
		})
	}
	return profile, nil
}

// prefetchInline best-effort downloads a cosmetic image and inlines it
// as a data URL, per spec.md §4.7.1 step 6. Failure is non-fatal: the
// caller falls back to SourceURL.
func (s *MicrosoftStore) prefetchInline(imageURL string) string {
	if imageURL == "" {
		return ""
	}
	resp, err := s.http.Get(imageURL)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
}

func (s *MicrosoftStore) postForm(targetURL string, form url.Values) (*http.Response, error) {
	req, err := httpclient.NewFormPost(targetURL, form)
	if err != nil {
		return nil, conicerr.Network(err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, conicerr.Network(err)
	}
	return resp, nil
}

func (s *MicrosoftStore) postJSON(targetURL string, payload interface{}) (*http.Response, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, conicerr.IO(err)
	}
	req, err := httpclient.NewJSONPost(targetURL, bytes.NewReader(raw))
	if err != nil {
		return nil, conicerr.Network(err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, conicerr.Network(err)
	}
	return resp, nil
}

func (s *MicrosoftStore) List() ([]MicrosoftAccount, error) { return s.store.list() }

func (s *MicrosoftStore) Get(uuid string) (MicrosoftAccount, error) {
	items, err := s.store.list()
	if err != nil {
		return MicrosoftAccount{}, err
	}
	for _, a := range items {
		if a.UUID == uuid {
			return a, nil
		}
	}
	return MicrosoftAccount{}, conicerr.AccountNotFound(uuid)
}

func (s *MicrosoftStore) Delete(uuid string) error {
	return s.store.mutate(func(items []MicrosoftAccount) []MicrosoftAccount {
		out := items[:0]
		for _, a := range items {
			if a.UUID != uuid {
				out = append(out, a)
			}
		}
		return out
	})
}

// Resolve returns the launch-time identity for a Microsoft account,
// refreshing it first unless skipRefresh is set (spec.md §4.8 step 1).
func (s *MicrosoftStore) Resolve(uuid string, skipRefresh bool) (ResolvedIdentity, error) {
	acc := MicrosoftAccount{}
	var err error
	if skipRefresh {
		acc, err = s.Get(uuid)
	} else {
		acc, err = s.CheckAndRefresh(uuid)
	}
	if err != nil {
		return ResolvedIdentity{}, err
	}
	return ResolvedIdentity{AccessToken: acc.AccessToken, DisplayName: acc.DisplayName, UUID: acc.UUID}, nil
}
