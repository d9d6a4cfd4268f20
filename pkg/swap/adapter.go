package swap

import (
	"context"
	"sync"
	"time"

	oneclick "github.com/defuse-protocol/one-click-sdk-go"
	"github.com/sirupsen/logrus"

	"crosschain-swap/pkg/chains"
	"crosschain-swap/pkg/client"
)

const (
	defaultConfirmTimeout = 60 * time.Second
	defaultPollInterval   = 2 * time.Second
	tokenListTTL          = 5 * time.Minute
)

// Config wires an Adapter. Client is required; everything else has a
// default.
type Config struct {
	Client *client.Client
	// Store persists transaction records and the pending-redirect record.
	// Nil disables persistence.
	Store  *Store
	Logger *logrus.Logger

	// Referral identifies this integrator to the settlement service.
	Referral string

	// ConfirmTimeout bounds the confirmation wait on chains that need
	// one; PollInterval is the confirmation polling cadence.
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
}

// Adapter orchestrates cross-chain swaps through the settlement network:
// quote normalization, per-family execution and status polling. Safe for
// concurrent use across independent swaps; a single quote must only ever
// have one in-flight execution.
type Adapter struct {
	client         *client.Client
	store          *Store
	log            *logrus.Logger
	referral       string
	confirmTimeout time.Duration
	pollInterval   time.Duration

	mu           sync.Mutex
	tokens       []oneclick.TokenResponse
	tokensLoaded time.Time
}

func New(cfg Config) *Adapter {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = defaultConfirmTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	return &Adapter{
		client:         cfg.Client,
		store:          cfg.Store,
		log:            cfg.Logger,
		referral:       cfg.Referral,
		confirmTimeout: cfg.ConfirmTimeout,
		pollInterval:   cfg.PollInterval,
	}
}

func (a *Adapter) Name() string { return AdapterName }

// SupportedChains returns every chain this adapter can swap from or to.
func (a *Adapter) SupportedChains() []chains.ChainRef {
	return chains.Supported()
}

// tokenList returns the settlement network's asset list, cached briefly.
// Caching is a performance optimization only; resolution stays a pure
// function of the returned list.
func (a *Adapter) tokenList(ctx context.Context) ([]oneclick.TokenResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.tokens != nil && time.Since(a.tokensLoaded) < tokenListTTL {
		return a.tokens, nil
	}

	tokens, err := a.client.GetTokens(ctx)
	if err != nil {
		if a.tokens != nil {
			// Stale list beats no list for resolution purposes.
			return a.tokens, nil
		}
		return nil, err
	}

	a.tokens = tokens
	a.tokensLoaded = time.Now()
	return tokens, nil
}
