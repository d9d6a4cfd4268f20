package chains

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Family groups chains by their transaction model. The swap executor
// dispatches on the family of the source chain exactly once per execution.
type Family int

const (
	FamilyEVM          Family = iota // account-based EVM chains
	FamilyUTXO                       // Bitcoin
	FamilyAccountToken               // NEAR (batched actions, ft_transfer token standard)
	FamilyTokenProgram               // Solana (mint + associated token accounts)
)

func (f Family) String() string {
	switch f {
	case FamilyEVM:
		return "evm"
	case FamilyUTXO:
		return "utxo"
	case FamilyAccountToken:
		return "account-token"
	case FamilyTokenProgram:
		return "token-program"
	default:
		return "unknown"
	}
}

// ChainRef identifies a chain either by its numeric EVM chain id or by an
// enumerated non-EVM tag. The zero value is not a valid chain. ChainRef is
// comparable and used as a map key throughout.
type ChainRef struct {
	evmID uint64
	tag   string
}

// EVM returns the ChainRef for a numeric EVM chain id.
func EVM(id uint64) ChainRef { return ChainRef{evmID: id} }

var (
	Bitcoin = ChainRef{tag: "bitcoin"}
	Solana  = ChainRef{tag: "solana"}
	Near    = ChainRef{tag: "near"}
)

func (c ChainRef) IsEVM() bool { return c.tag == "" && c.evmID != 0 }

// EVMChainID returns the numeric chain id, valid only when IsEVM is true.
func (c ChainRef) EVMChainID() uint64 { return c.evmID }

func (c ChainRef) String() string {
	if c.tag != "" {
		return c.tag
	}
	return strconv.FormatUint(c.evmID, 10)
}

func (c ChainRef) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ChainRef) UnmarshalText(b []byte) error {
	ref, err := Parse(string(b))
	if err != nil {
		return err
	}
	*c = ref
	return nil
}

// Capability describes what the registry knows about a chain: its family
// and the blockchain tag the settlement service uses for it.
type Capability struct {
	Family     Family
	Blockchain string
}

// registry is the static chain capability table. Read-only after init.
var registry = map[ChainRef]Capability{
	EVM(1):     {FamilyEVM, "eth"},
	EVM(42161): {FamilyEVM, "arb"},
	EVM(56):    {FamilyEVM, "bsc"},
	EVM(80094): {FamilyEVM, "bera"},
	EVM(137):   {FamilyEVM, "pol"},
	EVM(8453):  {FamilyEVM, "base"},
	Bitcoin:    {FamilyUTXO, "btc"},
	Solana:     {FamilyTokenProgram, "sol"},
	Near:       {FamilyAccountToken, "near"},
}

// aliases maps the chain names accepted on the command line to ChainRefs,
// in addition to blockchain tags and raw EVM chain ids.
var aliases = map[string]ChainRef{
	"eth":      EVM(1),
	"ethereum": EVM(1),
	"mainnet":  EVM(1),
	"arb":      EVM(42161),
	"arbitrum": EVM(42161),
	"bsc":      EVM(56),
	"bnb":      EVM(56),
	"bera":     EVM(80094),
	"berachain": EVM(80094),
	"pol":      EVM(137),
	"polygon":  EVM(137),
	"matic":    EVM(137),
	"base":     EVM(8453),
	"btc":      Bitcoin,
	"bitcoin":  Bitcoin,
	"sol":      Solana,
	"solana":   Solana,
	"near":     Near,
}

// Lookup returns the capability entry for a chain.
func Lookup(c ChainRef) (Capability, bool) {
	cap, ok := registry[c]
	return cap, ok
}

// FamilyOf returns the transaction-model family of a chain.
func FamilyOf(c ChainRef) (Family, bool) {
	cap, ok := registry[c]
	return cap.Family, ok
}

// Blockchain returns the settlement service's tag for a chain ("eth",
// "btc", ...), or "" when the chain is not registered.
func Blockchain(c ChainRef) string {
	return registry[c].Blockchain
}

// Supported returns every registered chain, EVM chains first by id, then
// the non-EVM chains alphabetically.
func Supported() []ChainRef {
	out := make([]ChainRef, 0, len(registry))
	for c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsEVM() != b.IsEVM() {
			return a.IsEVM()
		}
		if a.IsEVM() {
			return a.evmID < b.evmID
		}
		return a.tag < b.tag
	})
	return out
}

// IsSupported reports whether a chain is in the registry.
func IsSupported(c ChainRef) bool {
	_, ok := registry[c]
	return ok
}

// Parse resolves a chain name, blockchain tag, or numeric EVM chain id.
func Parse(s string) (ChainRef, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return ChainRef{}, fmt.Errorf("empty chain name")
	}
	if ref, ok := aliases[name]; ok {
		return ref, nil
	}
	if id, err := strconv.ParseUint(name, 10, 64); err == nil && id != 0 {
		return EVM(id), nil
	}
	return ChainRef{}, fmt.Errorf("unknown chain: %s", s)
}
