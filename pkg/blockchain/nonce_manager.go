package blockchain

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/speedrun-hq/wethcycle/pkg/logger"
	"github.com/speedrun-hq/wethcycle/pkg/models"
)

// DefaultNonceSyncInterval is how long an allocated nonce sequence is trusted before it is resynced
const DefaultNonceSyncInterval = 5 * time.Minute

// TransactionStatus represents the status of a transaction
type TransactionStatus int

const (
	// TxPending indicates transaction is pending
	TxPending TransactionStatus = iota
	// TxConfirmed indicates transaction is confirmed
	TxConfirmed
	// TxFailed indicates transaction has failed
	TxFailed
)

// TransactionRecord tracks details about a transaction
type TransactionRecord struct {
	Action    models.ActionKind
	Hash      common.Hash
	Nonce     uint64
	CreatedAt time.Time
	UpdatedAt time.Time
	Status    TransactionStatus
}

// NonceSource reports the next nonce the node expects for an account
type NonceSource interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
}

// NonceManager hands out nonces for the single signing account shared by both loops
type NonceManager struct {
	source  NonceSource
	address common.Address
	logger  logger.Logger

	mu           sync.Mutex
	currentNonce uint64
	// nonces given back after a failed broadcast, reused lowest first
	released     []uint64
	// handed out but not yet tracked or released
	reserved     map[uint64]struct{}
	pendingTxs   map[uint64]*TransactionRecord
	lastSync     time.Time
	syncInterval time.Duration
}

// NewNonceManager creates a new nonce manager for the given account
func NewNonceManager(source NonceSource, address common.Address, logger logger.Logger) *NonceManager {
	return &NonceManager{
		source:       source,
		address:      address,
		logger:       logger,
		reserved:     make(map[uint64]struct{}),
		pendingTxs:   make(map[uint64]*TransactionRecord),
		syncInterval: DefaultNonceSyncInterval,
	}
}

// GetNonce reserves and returns the next available nonce. The reservation holds until the
// nonce is tracked or released.
func (nm *NonceManager) GetNonce(ctx context.Context) (uint64, error) {
	nm.mu.Lock()
	defer nm.mu.Unlock()

	if nm.lastSync.IsZero() || time.Since(nm.lastSync) > nm.syncInterval {
		if err := nm.syncLocked(ctx); err != nil {
			return 0, err
		}
	}

	if len(nm.released) > 0 {
		nonce := nm.released[0]
		nm.released = nm.released[1:]
		nm.reserved[nonce] = struct{}{}
		nm.logger.Debug("Reusing released nonce %d", nonce)
		return nonce, nil
	}

	nonce := nm.currentNonce
	nm.currentNonce++
	nm.reserved[nonce] = struct{}{}
	return nonce, nil
}

// TrackTransaction records a broadcast transaction
func (nm *NonceManager) TrackTransaction(action models.ActionKind, txHash common.Hash, nonce uint64) {
	nm.mu.Lock()
	defer nm.mu.Unlock()

	delete(nm.reserved, nonce)
	now := time.Now()
	nm.pendingTxs[nonce] = &TransactionRecord{
		Action:    action,
		Hash:      txHash,
		Nonce:     nonce,
		CreatedAt: now,
		UpdatedAt: now,
		Status:    TxPending,
	}

	nm.logger.DebugWithAction(string(action), "Tracking transaction with nonce %d: %s", nonce, txHash.Hex())
}

// MarkTransactionConfirmed marks a transaction as mined, whatever its receipt status
func (nm *NonceManager) MarkTransactionConfirmed(nonce uint64) bool {
	nm.mu.Lock()
	defer nm.mu.Unlock()

	tx, exists := nm.pendingTxs[nonce]
	if !exists {
		nm.logger.Debug("No pending transaction found for nonce %d", nonce)
		return false
	}

	tx.Status = TxConfirmed
	tx.UpdatedAt = time.Now()
	delete(nm.pendingTxs, nonce)
	return true
}

// MarkTransactionFailed forgets a transaction whose fate is unknown and forces a resync
// before the next allocation
func (nm *NonceManager) MarkTransactionFailed(nonce uint64) {
	nm.mu.Lock()
	defer nm.mu.Unlock()

	if tx, exists := nm.pendingTxs[nonce]; exists {
		tx.Status = TxFailed
		tx.UpdatedAt = time.Now()
		nm.logger.DebugWithAction(string(tx.Action), "Transaction failed for nonce %d: %s", nonce, tx.Hash.Hex())
		delete(nm.pendingTxs, nonce)
	}
	nm.lastSync = time.Time{}
}

// ReleaseNonce gives back a nonce whose transaction was never accepted by the node
func (nm *NonceManager) ReleaseNonce(nonce uint64) {
	nm.mu.Lock()
	defer nm.mu.Unlock()

	delete(nm.reserved, nonce)
	delete(nm.pendingTxs, nonce)
	if nonce+1 == nm.currentNonce {
		nm.currentNonce = nonce
	} else if nonce < nm.currentNonce {
		nm.released = append(nm.released, nonce)
		sort.Slice(nm.released, func(i, j int) bool { return nm.released[i] < nm.released[j] })
	}
	nm.lastSync = time.Time{}
	nm.logger.Debug("Nonce %d released for reuse", nonce)
}

// SyncWithBlockchain synchronizes nonce state with the node
func (nm *NonceManager) SyncWithBlockchain(ctx context.Context) error {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	return nm.syncLocked(ctx)
}

func (nm *NonceManager) syncLocked(ctx context.Context) error {
	nonce, err := nm.source.PendingNonceAt(ctx, nm.address)
	if err != nil {
		return fmt.Errorf("failed to get pending nonce: %w", err)
	}

	// released nonces below the node's view were consumed elsewhere
	kept := nm.released[:0]
	for _, n := range nm.released {
		if n >= nonce {
			kept = append(kept, n)
		}
	}
	nm.released = kept

	if nonce > nm.currentNonce {
		nm.logger.Debug("Updating nonce for %s: %d -> %d", nm.address.Hex(), nm.currentNonce, nonce)
		nm.currentNonce = nonce
	} else if len(nm.pendingTxs) == 0 && len(nm.reserved) == 0 && len(nm.released) == 0 && nonce < nm.currentNonce {
		// nothing in flight, the node is authoritative
		nm.logger.Debug("Rewinding nonce for %s: %d -> %d", nm.address.Hex(), nm.currentNonce, nonce)
		nm.currentNonce = nonce
	}
	nm.lastSync = time.Now()
	return nil
}

// PendingCount returns the number of broadcast transactions not yet mined
func (nm *NonceManager) PendingCount() int {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	return len(nm.pendingTxs)
}
