package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/couchcryptid/navaid-service/internal/domain"
	"github.com/couchcryptid/navaid-service/internal/observability"
	"github.com/couchcryptid/navaid-service/internal/resolve"
	"github.com/couchcryptid/navaid-service/internal/wire"
)

// Result message headers.
const (
	HeaderKind       = "kind"
	HeaderResolvedAt = "resolved_at"
)

// Request is the JSON body of a message on the request topic. Code is an
// identifier or packed notation. Radial and Distance must be given together
// and request a projection from Code.
type Request struct {
	Kind     string   `json:"kind"`
	Code     string   `json:"code"`
	Radial   *float64 `json:"radial,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
}

// Resolver answers lookup and projection requests.
type Resolver interface {
	Resolve(kind domain.Kind, token string) (resolve.Result, error)
	Project(kind domain.Kind, code string, radial, distanceNM float64) (resolve.Projection, error)
}

// ResolveTransformer implements Transformer by resolving each request
// against the registry.
type ResolveTransformer struct {
	resolver Resolver
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewTransformer creates a ResolveTransformer. metrics may be nil.
func NewTransformer(resolver Resolver, metrics *observability.Metrics, logger *slog.Logger) *ResolveTransformer {
	return &ResolveTransformer{resolver: resolver, metrics: metrics, logger: logger}
}

func (t *ResolveTransformer) Transform(_ context.Context, raw domain.RawMessage) (domain.OutputMessage, error) {
	var req Request
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return domain.OutputMessage{}, errors.Mark(errors.Wrap(err, "parse request"), ErrMalformedRequest)
	}
	kind, ok := domain.ParseKind(req.Kind)
	if !ok {
		return domain.OutputMessage{}, errors.Mark(errors.Newf("unknown kind %q", req.Kind), ErrMalformedRequest)
	}
	if req.Code == "" {
		return domain.OutputMessage{}, errors.Mark(errors.New("request has no code"), ErrMalformedRequest)
	}

	body, resolvedKind, err := t.resolve(kind, req)
	if err != nil {
		t.count(kind, outcome(err))
		return domain.OutputMessage{}, err
	}
	t.count(kind, "hit")

	value, err := json.Marshal(body)
	if err != nil {
		return domain.OutputMessage{}, errors.Wrap(err, "serialize result")
	}
	return domain.OutputMessage{
		Key:   raw.Key,
		Value: value,
		Headers: map[string]string{
			HeaderKind:       resolvedKind.String(),
			HeaderResolvedAt: domain.Now().Format(time.RFC3339),
		},
	}, nil
}

func (t *ResolveTransformer) resolve(kind domain.Kind, req Request) (any, domain.Kind, error) {
	switch {
	case req.Radial != nil && req.Distance != nil:
		p, err := t.resolver.Project(kind, req.Code, *req.Radial, *req.Distance)
		if err != nil {
			return nil, 0, err
		}
		return wire.FromProjection(p), p.Kind, nil
	case req.Radial != nil || req.Distance != nil:
		return nil, 0, errors.Mark(errors.New("radial and distance must be given together"), ErrMalformedRequest)
	}

	res, err := t.resolver.Resolve(kind, req.Code)
	if err != nil {
		return nil, 0, err
	}
	if res.Projection != nil {
		return wire.FromProjection(*res.Projection), res.Projection.Kind, nil
	}
	return wire.FromPoint(res.Point), res.Point.Kind(), nil
}

func (t *ResolveTransformer) count(kind domain.Kind, outcome string) {
	if t.metrics != nil {
		t.metrics.Lookups.WithLabelValues(kind.String(), outcome).Inc()
	}
}

func outcome(err error) string {
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return "not_found"
	}
	return "invalid"
}
