// Package account implements spec.md §4.7's three account stores —
// Microsoft (OAuth/Xbox/Minecraft chain), offline, and Yggdrasil/
// authlib-injector — each a JSON file under the data root read into
// memory, mutated, and atomically written back. Grounded on the
// teacher's util.go writeStream (temp-file-then-rename) generalised
// from single streamed downloads to whole-file JSON persistence, and
// on aayushdutt-mctui's internal/api/auth.go for the exact Xbox/XSTS/
// Minecraft request and response shapes.
package account

import "time"

// OfflineSentinelToken is the access token offline accounts present at
// launch; never accepted by a real server, per spec.md §4.8 step 1.
const OfflineSentinelToken = "1145141919810"

// MicrosoftAccount is one signed-in Microsoft/Xbox/Minecraft identity.
type MicrosoftAccount struct {
	UUID         string    `json:"uuid"`
	DisplayName  string    `json:"display_name"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Skins        []Skin    `json:"skins"`
	Capes        []Skin    `json:"capes"`
}

// Skin is a prefetched, inline-encoded cosmetic asset.
type Skin struct {
	ID        string `json:"id"`
	State     string `json:"state"`
	Variant   string `json:"variant,omitempty"`
	DataURL   string `json:"data_url"`
	SourceURL string `json:"source_url"`
}

// OfflineAccount needs no external verification.
type OfflineAccount struct {
	UUID        string    `json:"uuid"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// YggdrasilServer is one registered authlib-injector API root.
type YggdrasilServer struct {
	Root string `json:"root"` // canonical, possibly rewritten via x-authlib-injector-api-location
}

// YggdrasilAccount is one login against a specific server's Yggdrasil API.
type YggdrasilAccount struct {
	StoreUUID    string    `json:"store_uuid"` // nanosecond-derived storage key, distinct from ProfileUUID
	ServerRoot   string    `json:"server_root"`
	Username     string    `json:"username"`
	ClientToken  string    `json:"client_token"`
	AccessToken  string    `json:"access_token"`
	ProfileUUID  string    `json:"profile_uuid"`
	ProfileName  string    `json:"profile_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// ResolvedIdentity is what the launch orchestrator needs regardless of
// account kind, per spec.md §4.8 step 1.
type ResolvedIdentity struct {
	AccessToken string
	DisplayName string
	UUID        string
}
