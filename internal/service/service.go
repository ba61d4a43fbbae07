package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-dashboard/internal/client"
	"github.com/kjstillabower/weather-dashboard/internal/history"
	"github.com/kjstillabower/weather-dashboard/internal/observability"
	"github.com/kjstillabower/weather-dashboard/internal/render"
	"github.com/kjstillabower/weather-dashboard/internal/validation"
)

var (
	// ErrCityNotFound is returned when the provider does not know the requested location.
	ErrCityNotFound = errors.New("city not found")
	// ErrProviderRejected is returned when the provider refused the request for another reason (bad key, quota).
	ErrProviderRejected = errors.New("provider rejected request")
)

// Kind classifies how a lookup ended.
type Kind string

const (
	KindInvalid          Kind = "invalid"
	KindNotFound         Kind = "not_found"
	KindTransportFailure Kind = "transport_failure"
	KindSuccess          Kind = "success"
)

// Outcome is the result of one Fetch.
type Outcome struct {
	Kind Kind
	// Seq increases with every Fetch on the same Orchestrator.
	Seq  uint64
	City string
	View *render.View
	Err  error
}

// Orchestrator runs a single lookup end to end: validate, call the provider,
// render into a Display and record successful cities in history.
type Orchestrator struct {
	client    client.WeatherClient
	history   *history.Store
	renderer  render.Renderer
	maxLength int
	logger    *zap.Logger
	seq       atomic.Uint64
}

// NewOrchestrator creates an Orchestrator. maxLength bounds the city name in runes (0 disables).
func NewOrchestrator(c client.WeatherClient, h *history.Store, maxLength int, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{client: c, history: h, maxLength: maxLength, logger: logger}
}

// NextSeq reserves the sequence number the next Fetch would get.
// Callers that need to tag a lookup before it starts use FetchSeq with this value.
func (o *Orchestrator) NextSeq() uint64 {
	return o.seq.Add(1)
}

// Fetch validates city, performs one provider lookup and writes the result into d.
func (o *Orchestrator) Fetch(ctx context.Context, city string, d render.Display) Outcome {
	return o.FetchSeq(ctx, o.NextSeq(), city, d)
}

// FetchSeq is Fetch with a sequence number obtained from NextSeq.
func (o *Orchestrator) FetchSeq(ctx context.Context, seq uint64, city string, d render.Display) Outcome {
	start := time.Now()
	logger := loggerFromContext(ctx, o.logger)

	out := o.fetch(ctx, logger, seq, city, d)
	observability.LookupsTotal.WithLabelValues(string(out.Kind)).Inc()
	logger.Debug("lookup finished",
		zap.Uint64("seq", seq),
		zap.String("city", out.City),
		zap.String("outcome", string(out.Kind)),
		zap.Duration("duration", time.Since(start)),
	)
	return out
}

// InvalidMessage picks the user-facing text for a city validation failure.
func InvalidMessage(err error) string {
	switch {
	case errors.Is(err, validation.ErrCityTooLong):
		return render.MsgTooLong
	case errors.Is(err, validation.ErrCityControlChars):
		return render.MsgInvalidChars
	default:
		return render.MsgPrompt
	}
}

func (o *Orchestrator) fetch(ctx context.Context, logger *zap.Logger, seq uint64, input string, d render.Display) Outcome {
	city, err := validation.ValidateCity(input, o.maxLength)
	if err != nil {
		d.ShowMessage(InvalidMessage(err))
		d.ShowPlaceholder(render.MsgPlaceholder)
		return Outcome{Kind: KindInvalid, Seq: seq, City: city, Err: err}
	}

	d.ShowMessage(render.MsgFetching)
	d.ClearWeather()

	resp, err := o.client.GetCurrent(ctx, city)
	if err != nil {
		category := client.CategorizeError(err)
		observability.WeatherAPIErrorsTotal.WithLabelValues(string(category)).Inc()
		logger.Warn("weather lookup failed",
			zap.String("city", city),
			zap.String("category", string(category)),
			zap.Error(err),
		)
		d.ClearWeather()
		d.ShowMessage(render.MsgConnectFailure)
		return Outcome{Kind: KindTransportFailure, Seq: seq, City: city, Err: fmt.Errorf("fetch weather for %s: %w", city, err)}
	}

	if !o.renderer.Render(resp.Body, resp.StatusCode, d) {
		category := client.CategorizeResponse(resp)
		observability.WeatherAPIErrorsTotal.WithLabelValues(string(category)).Inc()
		fields := []zap.Field{
			zap.String("city", city),
			zap.Int("status", resp.StatusCode),
			zap.String("category", string(category)),
		}
		if resp.Body.Error != nil {
			fields = append(fields, zap.Int("providerCode", resp.Body.Error.Code), zap.String("providerMessage", resp.Body.Error.Message))
		}
		logger.Info("provider reported failure", fields...)

		sentinel := ErrCityNotFound
		if category != client.ErrorCategoryLocationNotFound {
			sentinel = ErrProviderRejected
		}
		return Outcome{Kind: KindNotFound, Seq: seq, City: city, Err: fmt.Errorf("lookup %s: %w", city, sentinel)}
	}

	view := render.BuildView(resp.Body)
	if o.history != nil {
		if err := o.history.Record(ctx, city); err != nil {
			logger.Warn("history record failed", zap.String("city", city), zap.Error(err))
		}
	}
	return Outcome{Kind: KindSuccess, Seq: seq, City: city, View: &view}
}

// History returns the store lookups are recorded in.
func (o *Orchestrator) History() *history.Store {
	return o.history
}

// loggerFromContext extracts a zap.Logger from request context, falling back to def.
func loggerFromContext(ctx context.Context, def *zap.Logger) *zap.Logger {
	if l := observability.LoggerFromContext(ctx); l != nil {
		return l
	}
	return def
}
