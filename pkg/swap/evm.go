package swap

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"crosschain-swap/pkg/signer"
)

// ERC20 transfer function ABI
const erc20TransferABI = `[{"constant":false,"inputs":[{"name":"_to","type":"address"},{"name":"_value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"}]`

// executeEVM sends a native value transfer to the deposit address, or an
// ERC-20 transfer(depositAddress, amount) call for token assets, then
// best-effort notifies the settlement service.
func (a *Adapter) executeEVM(ctx context.Context, quote *NormalizedQuote, depositAddress string, signers signer.Signers, res *NormalizedTxResponse) error {
	if signers.EVM == nil {
		return fmt.Errorf("%w: evm", ErrSignerUnavailable)
	}
	p := quote.Params

	amount, ok := new(big.Int).SetString(p.Amount, 10)
	if !ok {
		return fmt.Errorf("invalid amount: %s", p.Amount)
	}

	var (
		hash string
		err  error
	)
	if p.FromToken.Native {
		hash, err = signers.EVM.SignAndSend(ctx, common.HexToAddress(depositAddress), amount, nil)
	} else {
		if !common.IsHexAddress(p.FromToken.Address) {
			return fmt.Errorf("invalid token contract address: %s", p.FromToken.Address)
		}
		var data []byte
		data, err = packERC20Transfer(common.HexToAddress(depositAddress), amount)
		if err != nil {
			return err
		}
		hash, err = signers.EVM.SignAndSend(ctx, common.HexToAddress(p.FromToken.Address), big.NewInt(0), data)
	}
	if err != nil {
		return fmt.Errorf("evm deposit failed: %w", err)
	}

	a.notifyDeposit(ctx, hash, depositAddress)

	res.SourceTxHash = hash
	return nil
}

func packERC20Transfer(to common.Address, amount *big.Int) ([]byte, error) {
	parsedABI, err := abi.JSON(strings.NewReader(erc20TransferABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}

	data, err := parsedABI.Pack("transfer", to, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack transfer data: %w", err)
	}
	return data, nil
}
