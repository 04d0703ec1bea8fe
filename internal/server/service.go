// Package server exposes the scenario engine as a gRPC service with
// Prometheus metrics and a standard health endpoint.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rshade/spongekit/internal/presets"
	"github.com/rshade/spongekit/internal/roofs"
	"github.com/rshade/spongekit/internal/scenario"
	"github.com/rshade/spongekit/internal/store"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// RunStore persists built tables.
type RunStore interface {
	Save(ctx context.Context, run *store.Run) error
}

// Service implements ScenarioServiceServer.
type Service struct {
	logger  zerolog.Logger
	catalog *presets.Catalog
	builder *scenario.Builder
	runs    RunStore
	metrics *Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithRunStore enables persisting tables for requests with "save": true.
func WithRunStore(rs RunStore) Option {
	return func(s *Service) { s.runs = rs }
}

// WithMetrics records build metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithBuilder replaces the default scenario builder.
func WithBuilder(b *scenario.Builder) Option {
	return func(s *Service) { s.builder = b }
}

// NewService creates the scenario service. catalog may be nil, in which
// case requests naming a preset are rejected.
func NewService(logger zerolog.Logger, catalog *presets.Catalog, opts ...Option) *Service {
	s := &Service{
		logger:  logger,
		catalog: catalog,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.builder == nil {
		s.builder = scenario.NewBuilder(logger)
	}
	return s
}

// BuildTable builds a scenario table from a JSON-shaped request.
func (s *Service) BuildTable(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	const operation = "BuildTable"
	traceID := getTraceID(ctx)
	s.setTraceHeader(ctx, traceID)
	start := time.Now()

	var req buildTableRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, s.fail(traceID, operation, codes.InvalidArgument, err, ErrorCodeInvalidRequest)
	}

	list, err := roofList(req.Roofs, req.MinRoofAreaM2)
	if err != nil {
		s.metrics.observeBuild("invalid", time.Since(start), 0)
		return nil, s.fail(traceID, operation, codes.InvalidArgument, err, ErrorCodeInvalidInput)
	}

	hp, cp, err := req.Overrides.Resolve(s.catalog)
	if err != nil {
		s.metrics.observeBuild("invalid", time.Since(start), 0)
		return nil, s.fail(traceID, operation, codes.InvalidArgument, err, ErrorCodeUnknownPreset)
	}

	if err := ctx.Err(); err != nil {
		return nil, s.fail(traceID, operation, codes.Canceled, err, ErrorCodeCanceled)
	}

	table, err := s.builder.Build(scenario.Input{
		Roofs:     list,
		Event:     req.event(),
		Hydrology: hp,
		Cost:      cp,
		Fractions: req.Fractions,
	})
	if err != nil {
		s.metrics.observeBuild("invalid", time.Since(start), 0)
		if errors.Is(err, roofs.ErrInvalidInput) {
			return nil, s.fail(traceID, operation, codes.InvalidArgument, err, ErrorCodeInvalidInput)
		}
		return nil, s.fail(traceID, operation, codes.Internal, err, ErrorCodeInternal)
	}
	if req.Save {
		if s.runs == nil {
			s.metrics.observeBuild("storage_error", time.Since(start), 0)
			return nil, s.fail(traceID, operation, codes.FailedPrecondition, errors.New("run storage is not configured"), ErrorCodeStorage)
		}
		run := &store.Run{Place: req.Place, Hydrology: hp, Cost: cp, Table: table}
		if err := s.runs.Save(ctx, run); err != nil {
			s.metrics.observeBuild("storage_error", time.Since(start), 0)
			return nil, s.fail(traceID, operation, codes.Unavailable, err, ErrorCodeStorage)
		}
	}
	s.metrics.observeBuild("ok", time.Since(start), len(table.Rows))

	s.logger.Info().
		Str(FieldTraceID, traceID).
		Str(FieldOperation, operation).
		Str("run_id", table.RunID).
		Int("rows", len(table.Rows)).
		Bool("saved", req.Save).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	out, err := encodeStruct(buildTableResponse{Table: table, Summary: table.Summary()})
	if err != nil {
		return nil, s.fail(traceID, operation, codes.Internal, err, ErrorCodeInternal)
	}
	return out, nil
}

// SelectRoofs returns the largest-first roof selection for one fraction.
func (s *Service) SelectRoofs(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	const operation = "SelectRoofs"
	traceID := getTraceID(ctx)
	s.setTraceHeader(ctx, traceID)

	var req selectRoofsRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, s.fail(traceID, operation, codes.InvalidArgument, err, ErrorCodeInvalidRequest)
	}

	list, err := roofList(req.Roofs, req.MinRoofAreaM2)
	if err != nil {
		return nil, s.fail(traceID, operation, codes.InvalidArgument, err, ErrorCodeInvalidInput)
	}
	sel, err := roofs.Select(list, req.Fraction)
	if err != nil {
		return nil, s.fail(traceID, operation, codes.InvalidArgument, err, ErrorCodeInvalidInput)
	}

	s.logger.Debug().
		Str(FieldTraceID, traceID).
		Str(FieldOperation, operation).
		Float64("fraction", req.Fraction).
		Int("selected", len(sel.Roofs)).
		Msg("request completed")

	out, err := encodeStruct(selectRoofsResponse{Selection: sel, GreenAreaM2: sel.AreaM2()})
	if err != nil {
		return nil, s.fail(traceID, operation, codes.Internal, err, ErrorCodeInternal)
	}
	return out, nil
}

type buildTableResponse struct {
	*scenario.Table
	Summary string `json:"summary"`
}

type selectRoofsResponse struct {
	roofs.Selection
	GreenAreaM2 float64 `json:"green_area_m2"`
}

func (s *Service) fail(traceID, operation string, grpcCode codes.Code, err error, code ErrorCode) error {
	s.logErrorWithID(traceID, operation, err, code)
	return s.newErrorWithID(traceID, grpcCode, err.Error(), code)
}

// setTraceHeader echoes the trace ID to the caller. It is a no-op outside
// a gRPC call.
func (s *Service) setTraceHeader(ctx context.Context, traceID string) {
	if grpc.ServerTransportStreamFromContext(ctx) == nil {
		return
	}
	if err := grpc.SetHeader(ctx, metadata.Pairs(TraceIDMetadataKey, traceID)); err != nil {
		s.logger.Debug().Str(FieldTraceID, traceID).Err(err).Msg("failed to set trace header")
	}
}
