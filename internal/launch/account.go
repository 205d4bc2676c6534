package launch

import (
	"github.com/conicapps/launcher-core/internal/account"
	"github.com/conicapps/launcher-core/internal/conicerr"
)

// resolveAccount implements spec.md §4.8 step 1: unless skipRefresh,
// refresh the selected account (Microsoft's 4h-threshold refresh,
// Yggdrasil's validate-then-refresh), then materialise
// {accessToken, displayName, uuid}. Offline accounts never touch the
// network; they resolve straight to the sentinel token.
func resolveAccount(accounts Accounts, ref AccountRef, skipRefresh bool) (account.ResolvedIdentity, error) {
	switch ref.Kind {
	case AccountMicrosoft:
		if accounts.Microsoft == nil {
			return account.ResolvedIdentity{}, conicerr.AccountNotFound(ref.ID)
		}
		if skipRefresh {
			return accounts.Microsoft.Resolve(ref.ID, true)
		}
		acc, err := accounts.Microsoft.CheckAndRefresh(ref.ID)
		if err != nil {
			return account.ResolvedIdentity{}, err
		}
		return account.ResolvedIdentity{AccessToken: acc.AccessToken, DisplayName: acc.DisplayName, UUID: acc.UUID}, nil

	case AccountOffline:
		if accounts.Offline == nil {
			return account.ResolvedIdentity{}, conicerr.AccountNotFound(ref.ID)
		}
		return accounts.Offline.Resolve(ref.ID)

	case AccountYggdrasil:
		if accounts.Yggdrasil == nil {
			return account.ResolvedIdentity{}, conicerr.AccountNotFound(ref.ID)
		}
		if skipRefresh {
			return accounts.Yggdrasil.Resolve(ref.ID)
		}
		acc, err := accounts.Yggdrasil.Verify(ref.ID)
		if err != nil {
			return account.ResolvedIdentity{}, err
		}
		return account.ResolvedIdentity{AccessToken: acc.AccessToken, DisplayName: acc.ProfileName, UUID: acc.ProfileUUID}, nil

	default:
		return account.ResolvedIdentity{}, conicerr.AccountNotFound(ref.ID)
	}
}

// userType returns the user_type game-argument value §4.8.1's
// substitution map names; the original source hard-codes "msa" for
// every account kind (offline and Yggdrasil accounts impersonate a
// Microsoft session client-side), so we do too.
func userType(ref AccountRef) string {
	return "msa"
}
