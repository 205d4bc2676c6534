package launch

import (
	"path/filepath"
	"testing"

	"github.com/conicapps/launcher-core/internal/account"
	"github.com/conicapps/launcher-core/internal/conicerr"
)

func TestResolveAccountOffline(t *testing.T) {
	store := account.NewOfflineStore(filepath.Join(t.TempDir(), "offline.json"))
	acc, err := store.Create("Steve", func() int64 { return 1 })
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	identity, err := resolveAccount(Accounts{Offline: store}, AccountRef{Kind: AccountOffline, ID: acc.UUID}, false)
	if err != nil {
		t.Fatalf("resolveAccount: %v", err)
	}
	if identity.DisplayName != "Steve" {
		t.Errorf("DisplayName = %q, want Steve", identity.DisplayName)
	}
	if identity.AccessToken != account.OfflineSentinelToken {
		t.Errorf("AccessToken = %q, want sentinel", identity.AccessToken)
	}
}

func TestResolveAccountUnconfiguredStoreFails(t *testing.T) {
	_, err := resolveAccount(Accounts{}, AccountRef{Kind: AccountMicrosoft, ID: "missing"}, false)
	if !conicerr.As(err, conicerr.KindAccountNotFound) {
		t.Fatalf("expected AccountNotFound, got %v", err)
	}
}

func TestResolveAccountUnknownKindFails(t *testing.T) {
	_, err := resolveAccount(Accounts{}, AccountRef{Kind: "bogus"}, false)
	if err == nil {
		t.Fatal("expected error for unknown account kind")
	}
}

func TestUserTypeIsAlwaysMSA(t *testing.T) {
	for _, kind := range []AccountKind{AccountMicrosoft, AccountOffline, AccountYggdrasil} {
		if got := userType(AccountRef{Kind: kind}); got != "msa" {
			t.Errorf("userType(%s) = %q, want msa", kind, got)
		}
	}
}
