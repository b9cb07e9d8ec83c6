package service

import (
	"context"
	"time"

	"jarvis/internal/metrics"
	"jarvis/internal/model"

	"go.uber.org/zap"
)

// CommandService runs the classify, dispatch and record pipeline for a transcript
type CommandService struct {
	classifier *Classifier
	dispatcher *Dispatcher
	history    *HistoryService
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewCommandService creates a new command service. history may be nil.
func NewCommandService(
	classifier *Classifier,
	dispatcher *Dispatcher,
	history *HistoryService,
	logger *zap.Logger,
	m *metrics.Metrics,
) *CommandService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.Noop()
	}
	return &CommandService{
		classifier: classifier,
		dispatcher: dispatcher,
		history:    history,
		logger:     logger.Named("command"),
		metrics:    m,
	}
}

// CommandEventCallback is called for streaming command events
type CommandEventCallback func(event string, data any) error

// Stream event names
const (
	EventStart  = "start"
	EventIntent = "intent"
	EventChunk  = "chunk"
	EventResult = "result"
)

// Classify maps a transcript to an intent without dispatching it
func (s *CommandService) Classify(ctx context.Context, transcript string) model.Intent {
	intent, rule := s.classifier.Match(transcript)
	s.metrics.RecordIntent(ctx, string(intent.Kind), rule)

	s.logger.Debug("classified transcript",
		zap.String("transcript", transcript),
		zap.String("intent", string(intent.Kind)),
		zap.String("rule", rule),
	)
	return intent
}

// Process classifies and dispatches a transcript, then records the outcome
func (s *CommandService) Process(ctx context.Context, transcript string) *model.CommandResponse {
	startTime := time.Now()

	intent := s.Classify(ctx, transcript)
	result := s.dispatcher.Dispatch(ctx, intent)

	return s.finish(ctx, startTime, transcript, intent, result)
}

// ProcessStream is Process with progress events. Answer text is forwarded as
// chunk events while it is generated; the final response is returned and also
// sent as a result event.
func (s *CommandService) ProcessStream(ctx context.Context, transcript string, callback CommandEventCallback) (*model.CommandResponse, error) {
	startTime := time.Now()

	if err := callback(EventStart, map[string]any{
		"transcript": transcript,
	}); err != nil {
		return nil, err
	}

	intent := s.Classify(ctx, transcript)
	if err := callback(EventIntent, intent); err != nil {
		return nil, err
	}

	result := s.dispatcher.DispatchStream(ctx, intent, func(delta string) error {
		return callback(EventChunk, map[string]any{
			"content": delta,
		})
	})

	response := s.finish(ctx, startTime, transcript, intent, result)
	if err := callback(EventResult, response); err != nil {
		return nil, err
	}
	return response, nil
}

// ComposeEmail drafts an email from the compose form and records the outcome
func (s *CommandService) ComposeEmail(ctx context.Context, form model.EmailFormData) *model.CommandResponse {
	startTime := time.Now()

	result := s.dispatcher.ComposeEmail(ctx, form)
	response := &model.CommandResponse{
		Result: result,
		View:   PresentEmail(form, result),
	}

	if s.history != nil {
		item, err := s.history.RecordEmail(ctx, form, result)
		if err != nil {
			s.logger.Error("failed to record email history", zap.Error(err))
		} else if item != nil {
			response.HistoryID = item.ID
		}
	}

	response.Took = time.Since(startTime).Milliseconds()
	return response
}

func (s *CommandService) finish(ctx context.Context, startTime time.Time, transcript string, intent model.Intent, result model.ActionResult) *model.CommandResponse {
	response := &model.CommandResponse{
		Intent: &intent,
		Result: result,
		View:   Present(result),
	}

	// History failures never fail the command
	if s.history != nil {
		item, err := s.history.Record(ctx, transcript, result)
		if err != nil {
			s.logger.Error("failed to record command history",
				zap.String("transcript", transcript),
				zap.Error(err),
			)
		} else if item != nil {
			response.HistoryID = item.ID
		}
	}

	response.Took = time.Since(startTime).Milliseconds()

	s.logger.Info("processed command",
		zap.String("intent", string(intent.Kind)),
		zap.String("result", string(result.Kind)),
		zap.Int64("took_ms", response.Took),
	)
	return response
}
