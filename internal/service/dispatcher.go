package service

import (
	"context"
	"errors"
	"time"

	"jarvis/internal/metrics"
	"jarvis/internal/model"

	"go.uber.org/zap"
)

// User-facing messages carried by error results
const (
	MsgDocumentFailed = "Failed to generate document content."
	MsgEmailFailed    = "Failed to compose email draft."
	MsgImageFailed    = "Failed to generate image."
	MsgAnswerFailed   = "Failed to get an answer for your query."
	MsgCanceled       = "The request was cancelled before it finished."
	MsgTimedOut       = "The request took too long and was stopped."
)

// Generator names used in logs and metrics
const (
	generatorDocument = "document"
	generatorEmail    = "email"
	generatorImage    = "image"
	generatorAnswer   = "answer"
)

var notConfiguredMessages = map[string]string{
	generatorDocument: "Document generation is not configured.",
	generatorEmail:    "Email drafting is not configured.",
	generatorImage:    "Image generation is not configured.",
	generatorAnswer:   "Answering questions is not configured.",
}

// Dispatcher turns intents into action results. Generation intents call
// exactly one collaborator; URL intents pass their query through; every
// collaborator failure becomes an error result instead of an error return.
//
// Dispatcher writes nothing and opens nothing. It is safe for concurrent use.
type Dispatcher struct {
	generators Generators
	timeout    time.Duration
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewDispatcher creates a dispatcher. A zero timeout leaves generation
// bounded only by the caller's context.
func NewDispatcher(generators Generators, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.Noop()
	}
	return &Dispatcher{
		generators: generators,
		timeout:    timeout,
		logger:     logger.Named("dispatcher"),
		metrics:    m,
	}
}

// Dispatch resolves an intent to its action result
func (d *Dispatcher) Dispatch(ctx context.Context, intent model.Intent) model.ActionResult {
	return d.DispatchStream(ctx, intent, nil)
}

// DispatchStream is Dispatch that forwards answer deltas to onChunk when the
// answer generator can stream. Other intents behave exactly as in Dispatch.
func (d *Dispatcher) DispatchStream(ctx context.Context, intent model.Intent, onChunk func(delta string) error) model.ActionResult {
	start := time.Now()
	result := d.dispatch(ctx, intent, onChunk)
	d.metrics.RecordDispatch(ctx, string(result.Kind), time.Since(start))
	return result
}

func (d *Dispatcher) dispatch(ctx context.Context, intent model.Intent, onChunk func(delta string) error) model.ActionResult {
	switch intent.Kind {
	case model.IntentOpenWebsite:
		return model.ActionResult{Kind: model.ActionOpenWebsiteSearch, Query: intent.Query}

	case model.IntentYoutubeSearch:
		return model.ActionResult{Kind: model.ActionYoutubeSearch, Query: intent.Query}

	case model.IntentMapsSearch:
		return model.ActionResult{Kind: model.ActionMapsSearch, Query: intent.Query}

	case model.IntentEmailCompose:
		return model.ActionResult{Kind: model.ActionEmailCompose, Transcript: intent.Transcript}

	case model.IntentGenerateDocument:
		return d.generateDocument(ctx, intent.Topic)

	case model.IntentGenerateImage:
		return d.generateImage(ctx, intent.Prompt)

	case model.IntentGeminiSearch:
		return d.answer(ctx, intent.Query, onChunk)

	default:
		message := intent.Message
		if message == "" {
			message = model.UnknownIntentMessage
		}
		return model.ActionResult{Kind: model.ActionUnknown, Message: message, Transcript: intent.Transcript}
	}
}

// ComposeEmail drafts an email from a submitted compose form
func (d *Dispatcher) ComposeEmail(ctx context.Context, form model.EmailFormData) model.ActionResult {
	start := time.Now()
	result := d.composeEmail(ctx, form)
	d.metrics.RecordDispatch(ctx, string(result.Kind), time.Since(start))
	return result
}

func (d *Dispatcher) composeEmail(ctx context.Context, form model.EmailFormData) model.ActionResult {
	if d.generators.Emails == nil {
		return d.notConfigured(ctx, generatorEmail)
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	resp, err := d.generators.Emails.DraftEmail(ctx, EmailDraftRequest{
		Recipient: form.Recipient,
		Subject:   form.Subject,
		Intention: form.Intention,
	})
	if err == nil && resp == nil {
		err = ErrEmptyResponse
	}
	if err != nil {
		return d.fail(ctx, generatorEmail, MsgEmailFailed, err)
	}
	return model.ActionResult{Kind: model.ActionEmailDraft, Draft: resp.EmailDraft}
}

func (d *Dispatcher) generateDocument(ctx context.Context, topic string) model.ActionResult {
	if d.generators.Documents == nil {
		return d.notConfigured(ctx, generatorDocument)
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	resp, err := d.generators.Documents.GenerateDocument(ctx, DocumentRequest{Topic: topic})
	if err == nil && resp == nil {
		err = ErrEmptyResponse
	}
	if err != nil {
		return d.fail(ctx, generatorDocument, MsgDocumentFailed, err)
	}
	return model.ActionResult{Kind: model.ActionGoogleDoc, Content: resp.DocumentContent, Topic: topic}
}

func (d *Dispatcher) generateImage(ctx context.Context, prompt string) model.ActionResult {
	if d.generators.Images == nil {
		return d.notConfigured(ctx, generatorImage)
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	resp, err := d.generators.Images.GenerateImage(ctx, ImageRequest{Prompt: prompt})
	if err == nil && (resp == nil || resp.ImageDataURI == "") {
		err = ErrNoImageData
	}
	if err != nil {
		return d.fail(ctx, generatorImage, MsgImageFailed, err)
	}

	if resp.Prompt != "" {
		prompt = resp.Prompt
	}
	return model.ActionResult{Kind: model.ActionImageGenerated, ImageDataURI: resp.ImageDataURI, Prompt: prompt}
}

func (d *Dispatcher) answer(ctx context.Context, query string, onChunk func(delta string) error) model.ActionResult {
	if d.generators.Answers == nil {
		return d.notConfigured(ctx, generatorAnswer)
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var (
		resp *AnswerResponse
		err  error
	)
	streamer, canStream := d.generators.Answers.(StreamingAnswerGenerator)
	if onChunk != nil && canStream {
		resp, err = streamer.AnswerStream(ctx, AnswerRequest{Query: query}, onChunk)
	} else {
		resp, err = d.generators.Answers.Answer(ctx, AnswerRequest{Query: query})
	}
	if err == nil && resp == nil {
		err = ErrEmptyResponse
	}
	if err != nil {
		return d.fail(ctx, generatorAnswer, MsgAnswerFailed, err)
	}
	return model.ActionResult{Kind: model.ActionGeminiSearch, Query: query, SearchResult: resp.SearchResult}
}

func (d *Dispatcher) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.timeout)
}

// fail logs the raw error and converts it to a user-facing error result
func (d *Dispatcher) fail(ctx context.Context, generator, message string, err error) model.ActionResult {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		message = MsgCanceled
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		message = MsgTimedOut
	}

	d.logger.Error("generation failed",
		zap.String("generator", generator),
		zap.String("message", message),
		zap.Error(err),
	)
	d.metrics.RecordGenerationFailure(ctx, generator)

	return model.ErrorResult(message)
}

func (d *Dispatcher) notConfigured(ctx context.Context, generator string) model.ActionResult {
	d.logger.Warn("generator not configured", zap.String("generator", generator))
	d.metrics.RecordGenerationFailure(ctx, generator)
	return model.ErrorResult(notConfiguredMessages[generator])
}
