package verify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tokenscope/tokenscope/internal/constants"
	"github.com/tokenscope/tokenscope/internal/explorer"
	"github.com/tokenscope/tokenscope/internal/honeypot"
	"github.com/tokenscope/tokenscope/internal/models"
)

// ExplorerAPI is the slice of the block-explorer client the verifier needs.
type ExplorerAPI interface {
	GetSourceCode(ctx context.Context, address string) (*explorer.SourceInfo, error)
	GetContractCreation(ctx context.Context, address string) (*explorer.CreationInfo, error)
}

// HoneypotAPI is the honeypot-detection call.
type HoneypotAPI interface {
	Check(ctx context.Context, address string) (bool, error)
}

// Config holds configuration for the Verifier.
type Config struct {
	// One explorer API key per chain. Chains without an entry fall back
	// to EtherscanAPIKey (Etherscan V2 keys work across chains).
	EtherscanAPIKey string
	BscscanAPIKey   string

	// Honeypot overrides the default honeypot.is client, mainly for tests.
	Honeypot HoneypotAPI

	// Timeout bounds each of the three sub-calls independently.
	Timeout time.Duration

	Logger *logrus.Logger
}

// Verifier combines source-code verification, creator lookup and the
// honeypot check into one risk-scored verdict. The three calls are
// isolated: a failure or timeout in one leaves that field at its default
// and never aborts the others.
type Verifier struct {
	explorers map[string]ExplorerAPI
	honeypot  HoneypotAPI
	timeout   time.Duration
	logger    *logrus.Logger
}

func New(cfg Config) *Verifier {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.FetchTimeout
	}
	if cfg.Honeypot == nil {
		cfg.Honeypot = honeypot.NewClient("")
	}

	explorers := make(map[string]ExplorerAPI)
	for chain := range constants.ExplorerEndpoints {
		key := cfg.EtherscanAPIKey
		if chain == "BSC" && cfg.BscscanAPIKey != "" {
			key = cfg.BscscanAPIKey
		}
		if c, err := explorer.NewClient(chain, key); err == nil {
			explorers[chain] = c
		}
	}

	return &Verifier{
		explorers: explorers,
		honeypot:  cfg.Honeypot,
		timeout:   cfg.Timeout,
		logger:    cfg.Logger,
	}
}

// SetExplorer replaces the explorer client for a chain. Used by tests.
func (v *Verifier) SetExplorer(chain string, api ExplorerAPI) {
	v.explorers[chain] = api
}

// Verify issues the three verification sub-calls for a contract address
// and folds them into a VerificationResult. It never returns an error:
// unsupported chains short-circuit with an explanatory status, and
// network failures leave the affected fields at their defaults.
func (v *Verifier) Verify(ctx context.Context, address, chain string) *models.VerificationResult {
	result := &models.VerificationResult{
		ContractVerified: false,
		HoneypotCheck:    models.HoneypotUnknown,
		RiskScore:        50,
	}

	// Explorer clients are keyed by normalized chain names; listings
	// may carry any casing.
	chain = strings.ToUpper(strings.TrimSpace(chain))

	exp, ok := v.explorers[chain]
	if !ok {
		result.Status = fmt.Sprintf("Unsupported chain: %s", chain)
		result.RiskLevel = models.RiskLevelFor(result.RiskScore)
		return result
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(3)

	go func() {
		defer wg.Done()
		cctx, cancel := context.WithTimeout(ctx, v.timeout)
		defer cancel()

		src, err := exp.GetSourceCode(cctx, address)
		if err != nil {
			v.logger.WithError(err).WithField("address", address).Warn("source code lookup failed")
			return
		}
		mu.Lock()
		result.ContractVerified = src.Verified
		result.ContractName = src.ContractName
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		cctx, cancel := context.WithTimeout(ctx, v.timeout)
		defer cancel()

		creation, err := exp.GetContractCreation(cctx, address)
		if err != nil {
			v.logger.WithError(err).WithField("address", address).Warn("creator lookup failed")
			return
		}
		mu.Lock()
		result.CreatorAddress = creation.CreatorAddress
		result.CreationTxn = creation.TxHash
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		cctx, cancel := context.WithTimeout(ctx, v.timeout)
		defer cancel()

		isHoneypot, err := v.honeypot.Check(cctx, address)
		if err != nil {
			v.logger.WithError(err).WithField("address", address).Warn("honeypot check failed")
			return
		}
		mu.Lock()
		if isHoneypot {
			result.HoneypotCheck = models.HoneypotRisky
		} else {
			result.HoneypotCheck = models.HoneypotSafe
		}
		mu.Unlock()
	}()

	wg.Wait()

	result.RiskScore = scoreRisk(result)
	result.RiskLevel = models.RiskLevelFor(result.RiskScore)
	return result
}

// scoreRisk applies the fixed point rule: start at 100, subtract 30 for a
// verified contract, 30 for a SAFE honeypot verdict, 10 for a known
// creator, floor at 0. Lower is safer.
func scoreRisk(r *models.VerificationResult) int {
	risk := 100
	if r.ContractVerified {
		risk -= 30
	}
	if r.HoneypotCheck == models.HoneypotSafe {
		risk -= 30
	}
	if r.CreatorAddress != "" {
		risk -= 10
	}
	if risk < 0 {
		risk = 0
	}
	return risk
}
