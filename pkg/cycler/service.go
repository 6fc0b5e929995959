package cycler

import (
	"context"
	"fmt"

	"github.com/speedrun-hq/wethcycle/pkg/blockchain"
	"github.com/speedrun-hq/wethcycle/pkg/chainclient"
	"github.com/speedrun-hq/wethcycle/pkg/chains"
	"github.com/speedrun-hq/wethcycle/pkg/config"
	"github.com/speedrun-hq/wethcycle/pkg/health"
	"github.com/speedrun-hq/wethcycle/pkg/logger"
	"github.com/speedrun-hq/wethcycle/pkg/models"
	"golang.org/x/sync/errgroup"
)

// Service runs the withdrawal and deposit loops side by side
type Service struct {
	cfg      *config.Config
	client   *chainclient.Client
	nonces   *blockchain.NonceManager
	withdraw *Loop
	deposit  *Loop
	logger   logger.Logger
}

// NewService dials the node and wires both loops
func NewService(ctx context.Context, cfg *config.Config, logger logger.Logger) (*Service, error) {
	client, err := chainclient.New(ctx, cfg.ChainID, cfg.RPCURL, cfg.ContractAddress, cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create chain client: %w", err)
	}
	return newServiceWithClient(cfg, client, logger)
}

func newServiceWithClient(cfg *config.Config, client *chainclient.Client, logger logger.Logger) (*Service, error) {
	nonces := blockchain.NewNonceManager(client.Backend, client.Address, logger)
	submitter, err := blockchain.NewSubmitter(client.Backend, client.PrivateKey(), nonces, logger)
	if err != nil {
		return nil, err
	}

	withdrawBuilder, err := blockchain.NewBuilder(client.Address, client.Contract, client.ChainIDBig(), cfg.Withdraw)
	if err != nil {
		return nil, fmt.Errorf("failed to create withdrawal builder: %w", err)
	}
	depositBuilder, err := blockchain.NewBuilder(client.Address, client.Contract, client.ChainIDBig(), cfg.Deposit)
	if err != nil {
		return nil, fmt.Errorf("failed to create deposit builder: %w", err)
	}

	s := newService(cfg, client, submitter, withdrawBuilder, depositBuilder, logger)
	s.client = client
	s.nonces = nonces
	return s, nil
}

// newService wires the loops over the given collaborators
func newService(cfg *config.Config, ledger Ledger, submitter Submitter, withdrawBuilder, depositBuilder IntentBuilder, logger logger.Logger) *Service {
	formatter := &Formatter{
		Location:    cfg.Timezone,
		ExplorerURL: cfg.ExplorerURL,
		Coloring:    cfg.LoggerConfig.Coloring,
	}
	reporter := NewReporter(ledger, formatter, logger)

	newLoop := func(kind models.ActionKind, builder IntentBuilder) *Loop {
		return NewLoop(kind, cfg.Action(kind), NewTotals(), LoopDeps{
			Ledger:    ledger,
			Builder:   builder,
			Submitter: submitter,
			Reporter:  reporter,
			Logger:    logger,
		})
	}

	return &Service{
		cfg:      cfg,
		withdraw: newLoop(models.ActionWithdraw, withdrawBuilder),
		deposit:  newLoop(models.ActionDeposit, depositBuilder),
		logger:   logger,
	}
}

// Start runs both loops from index 0 until they finish, then prints both reports again
func (s *Service) Start(ctx context.Context) error {
	if s.cfg.MetricsPort != "" {
		server := health.NewServer(s.cfg.MetricsPort, s.cfg.MetricsAPIKey, s, s.logger)
		serverCtx, stopServer := context.WithCancel(ctx)
		defer stopServer()
		go func() {
			_ = server.Start(serverCtx)
		}()
	}

	if s.client != nil {
		s.logger.Info("Cycling WETH %s for %s on chain %d", s.cfg.ContractAddress.Hex(), s.client.Address.Hex(), s.cfg.ChainID)
	}

	// one loop failing does not stop the other
	var g errgroup.Group
	g.Go(func() error {
		return s.withdraw.Run(ctx, 0)
	})
	g.Go(func() error {
		return s.deposit.Run(ctx, 0)
	})

	err := g.Wait()
	if err != nil {
		s.logger.Error("Error during execution: %v", err)
	}

	s.Report(ctx)
	return err
}

// Report prints the summary of both loops
func (s *Service) Report(ctx context.Context) []Report {
	reports := make([]Report, 0, 2)
	for _, loop := range []*Loop{s.withdraw, s.deposit} {
		reports = append(reports, loop.finalizeReport(ctx))
	}
	return reports
}

// Ready reports whether the node answers
func (s *Service) Ready(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.GetLatestBlockNumber(ctx)
	return err
}

// Status describes both loops for the health server
func (s *Service) Status(ctx context.Context) health.Status {
	status := health.Status{
		ChainID:   s.cfg.ChainID,
		ChainName: chains.GetChainName(s.cfg.ChainID),
		Contract:  s.cfg.ContractAddress.Hex(),
		Loops:     make(map[string]health.LoopStatus),
	}

	if s.client != nil {
		status.Account = s.client.Address.Hex()
		if block, err := s.client.GetLatestBlockNumber(ctx); err == nil {
			status.LatestBlock = block
		}
	}
	if s.nonces != nil {
		status.PendingTransactions = s.nonces.PendingCount()
	}

	for _, loop := range []*Loop{s.withdraw, s.deposit} {
		snapshot := loop.Totals().Snapshot()
		status.Loops[string(loop.Kind())] = health.LoopStatus{
			State:        loop.State().String(),
			Confirmed:    snapshot.Confirmed,
			Failed:       snapshot.Failed,
			AmountMoved:  snapshot.AmountMoved.StringFixed(amountDecimals),
			FeesSpent:    snapshot.GasSpent.StringFixed(feeDecimals),
			TokenBalance: snapshot.LastKnownTokenBalance.StringFixed(amountDecimals),
		}
	}

	return status
}

// Close releases the node connection
func (s *Service) Close() {
	if s.client != nil {
		s.client.Close()
	}
}
