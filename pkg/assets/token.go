package assets

import (
	"strings"

	"crosschain-swap/pkg/chains"
)

// Token identifies an asset on a specific chain. Address is the contract
// address (EVM), mint (Solana) or token account id (NEAR); it is empty for
// native assets. AssetID, when set, is the settlement network's asset id
// already embedded in the token (NEAR tokens carry one).
type Token struct {
	Chain    chains.ChainRef `json:"chain"`
	Address  string          `json:"address,omitempty"`
	Symbol   string          `json:"symbol"`
	Decimals int32           `json:"decimals"`
	Native   bool            `json:"native,omitempty"`
	AssetID  string          `json:"asset_id,omitempty"`
}

// Equal reports whether two tokens identify the same asset: same chain and
// matching address, case-insensitive so hex addresses compare equal
// regardless of checksum casing.
func (t Token) Equal(o Token) bool {
	if t.Chain != o.Chain || t.Native != o.Native {
		return false
	}
	return strings.EqualFold(t.Address, o.Address)
}
