// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package snapshot

// Execer runs a single SQL statement against the live database.
type Execer interface {
	Exec(statement string) error
}

// Refresh tokens are regenerated on every start and are uniqueness
// constrained, so stale rows carried across sessions collide with
// newly issued ones.
const purgeTokensStatement = "DELETE FROM auth.refresh_tokens;"

// PurgeAuthTokens deletes the identity schema's session-token rows.
// It runs during stop, after the snapshot has been saved and before
// the environment is torn down.
func PurgeAuthTokens(db Execer) error {
	return db.Exec(purgeTokensStatement)
}
