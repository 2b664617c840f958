package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/feral-file/habitat-tracker/internal/domain"
)

// SolanaRPC defines the account reads used from a Solana RPC node
//
//go:generate mockgen -source=solana.go -destination=../mocks/solana_rpc.go -package=mocks -mock_names=SolanaRPC=MockSolanaRPC
type SolanaRPC interface {
	// GetAccountData returns the data of one account, or domain.ErrAccountNotFound
	GetAccountData(ctx context.Context, address domain.Key) ([]byte, error)

	// GetMultipleAccountsData returns one entry per address, nil where the account does not exist
	GetMultipleAccountsData(ctx context.Context, addresses []domain.Key) ([][]byte, error)

	// GetProgramAccountsData returns the program accounts matching the filter
	GetProgramAccountsData(ctx context.Context, program domain.Key, filter domain.ScanFilter) ([]domain.RawAccount, error)

	// Close releases the underlying connection
	Close() error
}

// RealSolanaRPC implements SolanaRPC with the solana-go rpc client
type RealSolanaRPC struct {
	client     *rpc.Client
	commitment rpc.CommitmentType
}

// NewSolanaRPC creates a client for an RPC endpoint
func NewSolanaRPC(endpoint string, commitment string) SolanaRPC {
	return &RealSolanaRPC{
		client:     rpc.New(endpoint),
		commitment: rpc.CommitmentType(commitment),
	}
}

func (c *RealSolanaRPC) GetAccountData(ctx context.Context, address domain.Key) ([]byte, error) {
	result, err := c.client.GetAccountInfoWithOpts(ctx, solana.PublicKey(address), &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: c.commitment,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, address)
		}
		return nil, err
	}
	if result == nil || result.Value == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, address)
	}

	return accountData(result.Value), nil
}

func (c *RealSolanaRPC) GetMultipleAccountsData(ctx context.Context, addresses []domain.Key) ([][]byte, error) {
	if len(addresses) == 0 {
		return [][]byte{}, nil
	}

	keys := make([]solana.PublicKey, len(addresses))
	for i, address := range addresses {
		keys[i] = solana.PublicKey(address)
	}

	result, err := c.client.GetMultipleAccountsWithOpts(ctx, keys, &rpc.GetMultipleAccountsOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: c.commitment,
	})
	if err != nil {
		return nil, err
	}
	if len(result.Value) != len(addresses) {
		return nil, fmt.Errorf("rpc returned %d accounts for %d addresses", len(result.Value), len(addresses))
	}

	data := make([][]byte, len(addresses))
	for i, account := range result.Value {
		if account != nil {
			data[i] = accountData(account)
		}
	}
	return data, nil
}

func (c *RealSolanaRPC) GetProgramAccountsData(ctx context.Context, program domain.Key, filter domain.ScanFilter) ([]domain.RawAccount, error) {
	filters := []rpc.RPCFilter{}
	if filter.DataSize > 0 {
		filters = append(filters, rpc.RPCFilter{DataSize: filter.DataSize})
	}
	if len(filter.Bytes) > 0 {
		filters = append(filters, rpc.RPCFilter{
			Memcmp: &rpc.RPCFilterMemcmp{
				Offset: filter.Offset,
				Bytes:  solana.Base58(filter.Bytes),
			},
		})
	}

	result, err := c.client.GetProgramAccountsWithOpts(ctx, solana.PublicKey(program), &rpc.GetProgramAccountsOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: c.commitment,
		Filters:    filters,
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.RawAccount, 0, len(result))
	for _, keyed := range result {
		if keyed == nil || keyed.Account == nil {
			continue
		}
		accounts = append(accounts, domain.RawAccount{
			Address: domain.Key(keyed.Pubkey),
			Data:    accountData(keyed.Account),
		})
	}
	return accounts, nil
}

func (c *RealSolanaRPC) Close() error {
	return c.client.Close()
}

func accountData(account *rpc.Account) []byte {
	if account.Data == nil {
		return nil
	}
	return account.Data.GetBinary()
}
