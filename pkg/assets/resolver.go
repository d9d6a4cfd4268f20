package assets

import (
	"errors"
	"fmt"
	"strings"

	oneclick "github.com/defuse-protocol/one-click-sdk-go"

	"crosschain-swap/pkg/chains"
)

// ErrUnsupportedAsset means no settlement asset id could be resolved for a
// token. It is terminal: the caller must not proceed with a quote.
var ErrUnsupportedAsset = errors.New("unsupported asset")

const (
	// nativeNearAssetID is the sentinel the UI layer puts on the native
	// NEAR token; the settlement network only understands the wrapped form.
	nativeNearAssetID  = "near"
	wrappedNearAssetID = "nep141:wrap.near"

	// omniFungibleMarker tags settlement asset ids that represent a
	// chain's native asset rather than a specific contract.
	omniFungibleMarker = "omft"

	solNativeSymbol = "SOL"
)

// Resolve maps a token to the settlement network's asset id using its
// published token list. Resolution is a pure function of its inputs.
//
// Rules, in order: a token that already carries an asset id passes it
// through (with the native NEAR sentinel rewritten to the wrapped asset);
// otherwise the list is searched for an entry on the token's blockchain
// tag with a matching contract address, except native assets, which match
// by symbol and must carry the omni-fungible marker.
func Resolve(list []oneclick.TokenResponse, token Token) (string, error) {
	if token.AssetID != "" {
		if token.AssetID == nativeNearAssetID {
			return wrappedNearAssetID, nil
		}
		return token.AssetID, nil
	}

	cap, ok := chains.Lookup(token.Chain)
	if !ok {
		return "", fmt.Errorf("%w: chain %s not registered", ErrUnsupportedAsset, token.Chain)
	}

	for i := range list {
		entry := &list[i]
		if !strings.EqualFold(entry.GetBlockchain(), cap.Blockchain) {
			continue
		}

		if token.Chain == chains.Solana {
			// Native SOL is listed as a plain SOL entry on sol; SPL
			// tokens match by mint address.
			if token.Native {
				if entry.GetSymbol() == solNativeSymbol {
					return entry.GetAssetId(), nil
				}
			} else if entry.GetContractAddress() == token.Address {
				return entry.GetAssetId(), nil
			}
			continue
		}

		if token.Native {
			if strings.EqualFold(entry.GetSymbol(), token.Symbol) &&
				strings.Contains(entry.GetAssetId(), omniFungibleMarker) {
				return entry.GetAssetId(), nil
			}
			continue
		}
		if token.Address != "" && strings.EqualFold(entry.GetContractAddress(), token.Address) {
			return entry.GetAssetId(), nil
		}
	}

	return "", fmt.Errorf("%w: %s on %s", ErrUnsupportedAsset, token.Symbol, token.Chain)
}

// FromList builds a Token from the settlement network's token list entry
// matching symbol and chain. Entries without a contract address are the
// chain's native asset.
func FromList(list []oneclick.TokenResponse, chain chains.ChainRef, symbol string) (Token, error) {
	tag := chains.Blockchain(chain)
	if tag == "" {
		return Token{}, fmt.Errorf("%w: chain %s not registered", ErrUnsupportedAsset, chain)
	}
	for i := range list {
		entry := &list[i]
		if !strings.EqualFold(entry.GetBlockchain(), tag) ||
			!strings.EqualFold(entry.GetSymbol(), symbol) {
			continue
		}
		return Token{
			Chain:    chain,
			Address:  entry.GetContractAddress(),
			Symbol:   entry.GetSymbol(),
			Decimals: int32(entry.GetDecimals()),
			Native:   entry.GetContractAddress() == "",
			AssetID:  entry.GetAssetId(),
		}, nil
	}
	return Token{}, fmt.Errorf("%w: %s on %s", ErrUnsupportedAsset, symbol, chain)
}
