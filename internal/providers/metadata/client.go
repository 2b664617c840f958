package metadata

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/feral-file/habitat-tracker/internal/adapter"
	"github.com/feral-file/habitat-tracker/internal/domain"
	"github.com/feral-file/habitat-tracker/internal/logger"
	"github.com/feral-file/habitat-tracker/internal/metrics"
	"github.com/feral-file/habitat-tracker/internal/ratelimit"
)

const (
	methodGetAssetsByOwner = "getAssetsByOwner"
	requestID              = "habitat-tracker"
	// maxPages bounds paging against a service that never returns a short page
	maxPages = 100
)

// rpcRequest is a DAS JSON-RPC request
type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type assetsByOwnerParams struct {
	OwnerAddress string `json:"ownerAddress"`
	Page         int    `json:"page"`
	Limit        int    `json:"limit"`
}

// rpcError is a JSON-RPC error object
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// AssetsResponse is the getAssetsByOwner response
type AssetsResponse struct {
	Result *AssetList `json:"result"`
	Error  *rpcError  `json:"error,omitempty"`
}

// AssetList is one page of owned assets
type AssetList struct {
	Total int         `json:"total"`
	Limit int         `json:"limit"`
	Page  int         `json:"page"`
	Items []AssetItem `json:"items"`
}

// AssetItem is a DAS asset, reduced to the fields we read
type AssetItem struct {
	ID      string       `json:"id"`
	Content AssetContent `json:"content"`
}

// AssetContent holds the off-chain content of an asset
type AssetContent struct {
	Metadata struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"metadata"`
}

// Client defines the NFT metadata lookups used by report queries
//
//go:generate mockgen -source=client.go -destination=../../mocks/metadata_client.go -package=mocks -mock_names=Client=MockMetadataClient
type Client interface {
	// ListAssets returns every NFT owned by a wallet
	ListAssets(ctx context.Context, owner domain.Key) ([]domain.Asset, error)
}

// DASClient implements Client with the DAS getAssetsByOwner method
type DASClient struct {
	httpClient     adapter.HTTPClient
	rateLimitProxy ratelimit.Proxy
	json           adapter.JSON
	url            string
	pageSize       int
}

// NewClient creates a new DAS metadata client
func NewClient(httpClient adapter.HTTPClient, rateLimitProxy ratelimit.Proxy, json adapter.JSON, url string, pageSize int) Client {
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &DASClient{
		httpClient:     httpClient,
		rateLimitProxy: rateLimitProxy,
		json:           json,
		url:            url,
		pageSize:       pageSize,
	}
}

// ListAssets pages through getAssetsByOwner until a short page is returned
func (c *DASClient) ListAssets(ctx context.Context, owner domain.Key) ([]domain.Asset, error) {
	var assets []domain.Asset

	for page := 1; page <= maxPages; page++ {
		list, err := c.fetchPage(ctx, owner, page)
		metrics.RPCRequestsTotal.WithLabelValues(methodGetAssetsByOwner, metrics.Outcome(err)).Inc()
		if err != nil {
			return nil, fmt.Errorf("%w: %s page %d: %w", domain.ErrFetchFailure, methodGetAssetsByOwner, page, err)
		}

		for _, item := range list.Items {
			mint, err := domain.ParseKey(item.ID)
			if err != nil {
				logger.WarnCtx(ctx, "Skipping asset with invalid id", zap.String("id", item.ID), zap.Error(err))
				continue
			}
			assets = append(assets, domain.Asset{
				Mint:   mint,
				Symbol: strings.TrimSpace(item.Content.Metadata.Symbol),
				Name:   strings.TrimSpace(item.Content.Metadata.Name),
			})
		}

		if len(list.Items) < c.pageSize {
			return assets, nil
		}
	}

	logger.WarnCtx(ctx, "Asset listing truncated", zap.Int("max_pages", maxPages), zap.String("owner", owner.String()))
	return assets, nil
}

func (c *DASClient) fetchPage(ctx context.Context, owner domain.Key, page int) (*AssetList, error) {
	body, err := c.json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      requestID,
		Method:  methodGetAssetsByOwner,
		Params: assetsByOwnerParams{
			OwnerAddress: owner.String(),
			Page:         page,
			Limit:        c.pageSize,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	respBody, err := ratelimit.Request(ctx, c.rateLimitProxy, ratelimit.ProviderMetadata, func(ctx context.Context) ([]byte, error) {
		return c.httpClient.Post(ctx, c.url, "application/json", body)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call metadata service: %w", err)
	}

	var response AssetsResponse
	if err := c.json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata response: %w", err)
	}
	if response.Error != nil {
		return nil, fmt.Errorf("metadata service error %d: %s", response.Error.Code, response.Error.Message)
	}
	if response.Result == nil {
		return nil, fmt.Errorf("metadata service returned no result")
	}

	return response.Result, nil
}

// FilterBySymbol keeps assets whose symbol matches, ignoring case
func FilterBySymbol(assets []domain.Asset, symbol string) []domain.Asset {
	filtered := make([]domain.Asset, 0, len(assets))
	for _, asset := range assets {
		if strings.EqualFold(asset.Symbol, symbol) {
			filtered = append(filtered, asset)
		}
	}
	return filtered
}

// Names maps mints to display names, skipping assets without one
func Names(assets []domain.Asset) map[domain.Key]string {
	names := make(map[domain.Key]string, len(assets))
	for _, asset := range assets {
		if asset.Name != "" {
			names[asset.Mint] = asset.Name
		}
	}
	return names
}
