package chainclient

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/speedrun-hq/wethcycle/pkg/blockchain"
	"github.com/speedrun-hq/wethcycle/pkg/chains"
	"github.com/speedrun-hq/wethcycle/pkg/contracts"
)

// rpcTimeout bounds a single request to the node
const rpcTimeout = 30 * time.Second

// Client holds the node connection, the signing account and the token binding
type Client struct {
	ChainID  int
	RPCURL   string
	Address  common.Address
	Contract common.Address
	Backend  blockchain.Backend
	Token    *contracts.WETHCaller

	key       *ecdsa.PrivateKey
	rpcClient *rpc.Client
}

// New dials the node and verifies it serves the expected chain
func New(ctx context.Context, chainID int, rpcURL string, contract common.Address, privateKey string) (*Client, error) {
	httpClient := &http.Client{Timeout: rpcTimeout}
	rpcClient, err := rpc.DialOptions(ctx, rpcURL, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to client: %w", err)
	}

	client, err := NewWithBackend(ctx, ethclient.NewClient(rpcClient), chainID, contract, privateKey)
	if err != nil {
		rpcClient.Close()
		return nil, err
	}
	client.RPCURL = rpcURL
	client.rpcClient = rpcClient
	return client, nil
}

// NewWithBackend wraps an existing backend, used with the simulated chain in tests
func NewWithBackend(ctx context.Context, backend blockchain.Backend, chainID int, contract common.Address, privateKey string) (*Client, error) {
	key, err := crypto.HexToECDSA(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	nodeChainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, &QueryError{Query: "chain id", Err: err}
	}
	if nodeChainID.Cmp(big.NewInt(int64(chainID))) != 0 {
		return nil, fmt.Errorf("node serves chain %s, configured chain is %d (%s)",
			nodeChainID, chainID, chains.GetChainName(chainID))
	}

	token, err := contracts.NewWETHCaller(contract, backend)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize contract: %w", err)
	}

	return &Client{
		ChainID:  chainID,
		Address:  crypto.PubkeyToAddress(key.PublicKey),
		Contract: contract,
		Backend:  backend,
		Token:    token,
		key:      key,
	}, nil
}

// PrivateKey returns the signing key
func (c *Client) PrivateKey() *ecdsa.PrivateKey {
	return c.key
}

// ChainIDBig returns the chain ID in the form transactions are signed with
func (c *Client) ChainIDBig() *big.Int {
	return big.NewInt(int64(c.ChainID))
}

// TokenBalance returns the wrapped token balance of the signing account, in wei
func (c *Client) TokenBalance(ctx context.Context) (*big.Int, error) {
	balance, err := c.Token.BalanceOf(&bind.CallOpts{Context: ctx}, c.Address)
	if err != nil {
		return nil, &QueryError{Query: "token balance", Err: err}
	}
	return balance, nil
}

// NativeBalance returns the native coin balance of the signing account, in wei
func (c *Client) NativeBalance(ctx context.Context) (*big.Int, error) {
	balance, err := c.Backend.BalanceAt(ctx, c.Address, nil)
	if err != nil {
		return nil, &QueryError{Query: "native balance", Err: err}
	}
	return balance, nil
}

// GetLatestBlockNumber gets the latest block number from the chain
func (c *Client) GetLatestBlockNumber(ctx context.Context) (uint64, error) {
	header, err := c.Backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, &QueryError{Query: "latest block", Err: err}
	}
	return header.Number.Uint64(), nil
}

// Close releases the node connection
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}
