package solana_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/habitat-tracker/internal/adapter"
	"github.com/feral-file/habitat-tracker/internal/domain"
	"github.com/feral-file/habitat-tracker/internal/mocks"
	"github.com/feral-file/habitat-tracker/internal/providers/solana"
	"github.com/feral-file/habitat-tracker/internal/ratelimit"
)

var (
	testProgram = domain.MustParseKey(domain.DEFAULT_PROGRAM_ID)
	fastRetry   = adapter.RetryConfig{
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		MaxElapsedTime:  50 * time.Millisecond,
	}
)

type testClientMocks struct {
	ctrl  *gomock.Controller
	rpc   *mocks.MockSolanaRPC
	clock *mocks.MockClock
}

func setupTestClient(t *testing.T, batchSize int) (*testClientMocks, solana.Client) {
	ctrl := gomock.NewController(t)
	tm := &testClientMocks{
		ctrl:  ctrl,
		rpc:   mocks.NewMockSolanaRPC(ctrl),
		clock: mocks.NewMockClock(ctrl),
	}

	now := time.Unix(1_700_000_000, 0)
	tm.clock.EXPECT().Now().Return(now).AnyTimes()
	tm.clock.EXPECT().Since(now).Return(5 * time.Millisecond).AnyTimes()

	client := solana.NewClient(tm.rpc, nil, tm.clock, solana.Config{
		ProgramID: testProgram,
		BatchSize: batchSize,
		Retry:     fastRetry,
	})
	return tm, client
}

func keyN(n int) domain.Key {
	var k domain.Key
	k[0] = byte(n)
	k[1] = byte(n >> 8)
	k[31] = 1
	return k
}

func TestGetAccount(t *testing.T) {
	tm, client := setupTestClient(t, 100)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	address := keyN(1)

	tm.rpc.EXPECT().GetAccountData(gomock.Any(), address).Return([]byte{1, 2, 3}, nil)

	data, err := client.GetAccount(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestGetAccount_NotFoundIsNotRetried(t *testing.T) {
	tm, client := setupTestClient(t, 100)
	defer tm.ctrl.Finish()

	address := keyN(2)
	tm.rpc.EXPECT().GetAccountData(gomock.Any(), address).Return(nil, domain.ErrAccountNotFound).Times(1)

	_, err := client.GetAccount(context.Background(), address)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.NotErrorIs(t, err, domain.ErrFetchFailure)
}

func TestGetAccount_EmptyDataIsNotFound(t *testing.T) {
	tm, client := setupTestClient(t, 100)
	defer tm.ctrl.Finish()

	address := keyN(3)
	tm.rpc.EXPECT().GetAccountData(gomock.Any(), address).Return([]byte{}, nil)

	_, err := client.GetAccount(context.Background(), address)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestGetAccount_RetriesTransportErrors(t *testing.T) {
	tm, client := setupTestClient(t, 100)
	defer tm.ctrl.Finish()

	address := keyN(4)
	gomock.InOrder(
		tm.rpc.EXPECT().GetAccountData(gomock.Any(), address).Return(nil, errors.New("connection reset")),
		tm.rpc.EXPECT().GetAccountData(gomock.Any(), address).Return(nil, errors.New("503 service unavailable")),
		tm.rpc.EXPECT().GetAccountData(gomock.Any(), address).Return([]byte{9}, nil),
	)

	data, err := client.GetAccount(context.Background(), address)
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, data)
}

func TestGetAccount_FetchFailure(t *testing.T) {
	tm, client := setupTestClient(t, 100)
	defer tm.ctrl.Finish()

	address := keyN(5)
	transportErr := errors.New("connection refused")
	tm.rpc.EXPECT().GetAccountData(gomock.Any(), address).Return(nil, transportErr).MinTimes(1)

	_, err := client.GetAccount(context.Background(), address)
	assert.ErrorIs(t, err, domain.ErrFetchFailure)
	assert.ErrorIs(t, err, transportErr)
}

func TestGetMultipleAccounts_Chunks(t *testing.T) {
	tm, client := setupTestClient(t, 100)
	defer tm.ctrl.Finish()

	addresses := make([]domain.Key, 250)
	for i := range addresses {
		addresses[i] = keyN(i)
	}

	// Every seventh account is missing, every eleventh is closed with empty data
	respond := func(_ context.Context, chunk []domain.Key) ([][]byte, error) {
		data := make([][]byte, len(chunk))
		for i, k := range chunk {
			n := int(k[0]) | int(k[1])<<8
			switch {
			case n%7 == 0:
				data[i] = nil
			case n%11 == 0:
				data[i] = []byte{}
			default:
				data[i] = []byte{k[0], k[1]}
			}
		}
		return data, nil
	}

	gomock.InOrder(
		tm.rpc.EXPECT().GetMultipleAccountsData(gomock.Any(), addresses[0:100]).DoAndReturn(respond),
		tm.rpc.EXPECT().GetMultipleAccountsData(gomock.Any(), addresses[100:200]).DoAndReturn(respond),
		tm.rpc.EXPECT().GetMultipleAccountsData(gomock.Any(), addresses[200:250]).DoAndReturn(respond),
	)

	data, err := client.GetMultipleAccounts(context.Background(), addresses)
	require.NoError(t, err)
	require.Len(t, data, len(addresses))

	for i, d := range data {
		if i%7 == 0 || i%11 == 0 {
			assert.Nil(t, d, "index %d", i)
		} else {
			assert.Equal(t, []byte{byte(i), byte(i >> 8)}, d, "index %d", i)
		}
	}
}

func TestGetMultipleAccounts_Empty(t *testing.T) {
	tm, client := setupTestClient(t, 100)
	defer tm.ctrl.Finish()

	data, err := client.GetMultipleAccounts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestGetMultipleAccounts_LengthMismatch(t *testing.T) {
	tm, client := setupTestClient(t, 2)
	defer tm.ctrl.Finish()

	addresses := []domain.Key{keyN(1), keyN(2)}
	tm.rpc.EXPECT().GetMultipleAccountsData(gomock.Any(), addresses).Return([][]byte{{1}}, nil)

	_, err := client.GetMultipleAccounts(context.Background(), addresses)
	assert.ErrorIs(t, err, domain.ErrFetchFailure)
}

func TestGetMultipleAccounts_ChunkFailure(t *testing.T) {
	tm, client := setupTestClient(t, 1)
	defer tm.ctrl.Finish()

	addresses := []domain.Key{keyN(1), keyN(2)}
	tm.rpc.EXPECT().GetMultipleAccountsData(gomock.Any(), addresses[:1]).Return([][]byte{{1}}, nil)
	tm.rpc.EXPECT().GetMultipleAccountsData(gomock.Any(), addresses[1:]).Return(nil, errors.New("timeout")).MinTimes(1)

	_, err := client.GetMultipleAccounts(context.Background(), addresses)
	assert.ErrorIs(t, err, domain.ErrFetchFailure)
	assert.ErrorContains(t, err, "[1:2]")
}

func TestScanProgramAccounts(t *testing.T) {
	tm, client := setupTestClient(t, 100)
	defer tm.ctrl.Finish()

	landlord := keyN(42)
	filter := domain.ScanFilter{DataSize: 1000, Offset: 110, Bytes: landlord.Bytes()}
	accounts := []domain.RawAccount{{Address: keyN(1), Data: []byte{1}}}

	tm.rpc.EXPECT().GetProgramAccountsData(gomock.Any(), testProgram, filter).Return(accounts, nil)

	result, err := client.ScanProgramAccounts(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, accounts, result)
}

func TestClient_UsesRateLimitProxy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rpc := mocks.NewMockSolanaRPC(ctrl)
	proxy := mocks.NewMockRateLimitProxy(ctrl)
	client := solana.NewClient(rpc, proxy, adapter.NewClock(), solana.Config{ProgramID: testProgram, Retry: fastRetry})

	address := keyN(7)
	proxy.EXPECT().
		Request(gomock.Any(), ratelimit.ProviderSolana, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, fn ratelimit.RequestFunc) (interface{}, error) {
			return fn(ctx)
		})
	rpc.EXPECT().GetAccountData(gomock.Any(), address).Return([]byte{1}, nil)

	data, err := client.GetAccount(context.Background(), address)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, data)
}
