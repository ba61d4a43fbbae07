package client

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kjstillabower/weather-dashboard/internal/models"
)

// TestCategorizeError verifies that CategorizeError maps errors to the correct ErrorCategory
// for metrics labeling, including sentinel errors, wrapped errors, and message-based heuristics.
func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"nil", nil, ""},
		{"timeout context", context.DeadlineExceeded, ErrorCategoryTimeout},
		{"canceled context", context.Canceled, ErrorCategoryTimeout},
		{"wrapped timeout", fmt.Errorf("%w: http request failed: %w", ErrTransport, context.DeadlineExceeded), ErrorCategoryTimeout},
		{"invalid API key", ErrInvalidAPIKey, ErrorCategoryInvalidAPIKey},
		{"wrapped invalid API key", fmt.Errorf("auth: %w", ErrInvalidAPIKey), ErrorCategoryInvalidAPIKey},
		{"network in message", errors.New("dial tcp: connection refused"), ErrorCategoryNetwork},
		{"parse in message", fmt.Errorf("%w: parse response (HTTP 200): bad", ErrTransport), ErrorCategoryParsing},
		{"upstream 5xx", fmt.Errorf("%w: HTTP 503", ErrTransport), ErrorCategoryUpstream5xx},
		{"unknown", errors.New("something else"), ErrorCategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategorizeError(tt.err)
			if got != tt.want {
				t.Errorf("CategorizeError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategorizeResponse(t *testing.T) {
	tests := []struct {
		name string
		resp Response
		want ErrorCategory
	}{
		{"location", Response{StatusCode: 400, Body: models.ProviderResponse{Error: &models.ProviderError{Code: 1006}}}, ErrorCategoryLocationNotFound},
		{"key invalid", Response{StatusCode: 401, Body: models.ProviderResponse{Error: &models.ProviderError{Code: 2006}}}, ErrorCategoryInvalidAPIKey},
		{"key disabled", Response{StatusCode: 403, Body: models.ProviderResponse{Error: &models.ProviderError{Code: 2008}}}, ErrorCategoryInvalidAPIKey},
		{"bare 400", Response{StatusCode: 400}, ErrorCategoryLocationNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategorizeResponse(tt.resp); got != tt.want {
				t.Errorf("CategorizeResponse() = %v, want %v", got, tt.want)
			}
		})
	}
}
