package logger

import (
	"context"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

type queryKey struct{}

// QueryInfo identifies a report query for log correlation
type QueryInfo struct {
	QueryID string
	Kind    string
	Address string
}

func (q QueryInfo) fields() []zap.Field {
	return []zap.Field{
		zap.String("query_id", q.QueryID),
		zap.String("query_kind", q.Kind),
		zap.String("address", q.Address),
	}
}

// WithQuery attaches query info to ctx. When ctx carries a sentry hub, the hub is cloned
// and tagged so that events reported for this query can be grouped.
func WithQuery(ctx context.Context, info QueryInfo) context.Context {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub = hub.Clone()
		hub.Scope().SetTags(map[string]string{
			"query_id":   info.QueryID,
			"query_kind": info.Kind,
		})
		ctx = sentry.SetHubOnContext(ctx, hub)
	}
	return context.WithValue(ctx, queryKey{}, info)
}

// QueryFromContext returns the query info attached by WithQuery
func QueryFromContext(ctx context.Context) (QueryInfo, bool) {
	info, ok := ctx.Value(queryKey{}).(QueryInfo)
	return info, ok
}
