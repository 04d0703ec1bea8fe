package server

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Log field names and metadata keys shared by every handler.
const (
	FieldTraceID   = "trace_id"
	FieldOperation = "operation"
	FieldErrorCode = "error_code"

	// TraceIDMetadataKey is the incoming and outgoing metadata key for trace IDs.
	TraceIDMetadataKey = "x-trace-id"

	errorDomain = "spongekit"
)

// ErrorCode is the machine-readable reason attached to failed calls.
type ErrorCode string

const (
	ErrorCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrorCodeInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrorCodeUnknownPreset  ErrorCode = "UNKNOWN_PRESET"
	ErrorCodeStorage        ErrorCode = "STORAGE_FAILURE"
	ErrorCodeCanceled       ErrorCode = "CANCELED"
	ErrorCodeInternal       ErrorCode = "INTERNAL"
)

// getTraceID returns the caller's trace ID from gRPC metadata, or a new
// UUID when none was sent.
func getTraceID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(TraceIDMetadataKey); len(values) > 0 && values[0] != "" {
			return values[0]
		}
	}
	return uuid.New().String()
}

// logErrorWithID logs a failed call using a pre-captured trace ID.
func (s *Service) logErrorWithID(traceID, operation string, err error, code ErrorCode) {
	s.logger.Error().
		Str(FieldTraceID, traceID).
		Str(FieldOperation, operation).
		Str(FieldErrorCode, string(code)).
		Err(err).
		Msg("request failed")
}

// newErrorWithID creates a gRPC error carrying the trace ID in an
// ErrorInfo detail.
func (s *Service) newErrorWithID(traceID string, grpcCode codes.Code, msg string, code ErrorCode) error {
	st := status.New(grpcCode, msg)
	withDetails, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   string(code),
		Domain:   errorDomain,
		Metadata: map[string]string{FieldTraceID: traceID},
	})
	if err != nil {
		s.logger.Warn().
			Str(FieldTraceID, traceID).
			Str("grpc_code", grpcCode.String()).
			Str(FieldErrorCode, string(code)).
			Err(err).
			Msg("failed to attach error details to gRPC status")
		return st.Err()
	}
	return withDetails.Err()
}

// ErrorInfo extracts the ErrorInfo detail from a gRPC error, if present.
func ErrorInfo(err error) (*errdetails.ErrorInfo, bool) {
	st, ok := status.FromError(err)
	if !ok {
		return nil, false
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info, true
		}
	}
	return nil, false
}
