package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"jarvis/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator implements every generator contract with canned replies
type fakeGenerator struct {
	err   error
	calls int

	document string
	draft    string
	answer   string
	image    string
	chunks   []string

	gotTopic  string
	gotPrompt string
	gotQuery  string
	gotEmail  EmailDraftRequest
}

func (f *fakeGenerator) GenerateDocument(_ context.Context, req DocumentRequest) (*DocumentResponse, error) {
	f.calls++
	f.gotTopic = req.Topic
	if f.err != nil {
		return nil, f.err
	}
	return &DocumentResponse{DocumentContent: f.document}, nil
}

func (f *fakeGenerator) DraftEmail(_ context.Context, req EmailDraftRequest) (*EmailDraftResponse, error) {
	f.calls++
	f.gotEmail = req
	if f.err != nil {
		return nil, f.err
	}
	return &EmailDraftResponse{EmailDraft: f.draft}, nil
}

func (f *fakeGenerator) GenerateImage(_ context.Context, req ImageRequest) (*ImageResponse, error) {
	f.calls++
	f.gotPrompt = req.Prompt
	if f.err != nil {
		return nil, f.err
	}
	return &ImageResponse{ImageDataURI: f.image, Prompt: req.Prompt}, nil
}

func (f *fakeGenerator) Answer(_ context.Context, req AnswerRequest) (*AnswerResponse, error) {
	f.calls++
	f.gotQuery = req.Query
	if f.err != nil {
		return nil, f.err
	}
	return &AnswerResponse{SearchResult: f.answer}, nil
}

func (f *fakeGenerator) AnswerStream(ctx context.Context, req AnswerRequest, callback func(string) error) (*AnswerResponse, error) {
	f.calls++
	f.gotQuery = req.Query
	if f.err != nil {
		return nil, f.err
	}
	for _, chunk := range f.chunks {
		if err := callback(chunk); err != nil {
			return nil, err
		}
	}
	return &AnswerResponse{SearchResult: f.answer}, nil
}

// blockingGenerator waits for its context to end
type blockingGenerator struct{}

func (blockingGenerator) GenerateDocument(ctx context.Context, _ DocumentRequest) (*DocumentResponse, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// nilGenerator succeeds without returning a payload
type nilGenerator struct{}

func (nilGenerator) GenerateDocument(context.Context, DocumentRequest) (*DocumentResponse, error) {
	return nil, nil
}

func (nilGenerator) DraftEmail(context.Context, EmailDraftRequest) (*EmailDraftResponse, error) {
	return nil, nil
}

func (nilGenerator) Answer(context.Context, AnswerRequest) (*AnswerResponse, error) {
	return nil, nil
}

func newTestDispatcher(gen *fakeGenerator) *Dispatcher {
	return NewDispatcher(Generators{
		Documents: gen,
		Emails:    gen,
		Images:    gen,
		Answers:   gen,
	}, time.Second, nil, nil)
}

func TestDispatch_URLIntentsPassThrough(t *testing.T) {
	gen := &fakeGenerator{}
	d := newTestDispatcher(gen)
	ctx := context.Background()

	tests := []struct {
		intent model.Intent
		want   model.ActionResult
	}{
		{
			intent: model.Intent{Kind: model.IntentYoutubeSearch, Query: "lofi beats"},
			want:   model.ActionResult{Kind: model.ActionYoutubeSearch, Query: "lofi beats"},
		},
		{
			intent: model.Intent{Kind: model.IntentMapsSearch, Query: "the Eiffel Tower"},
			want:   model.ActionResult{Kind: model.ActionMapsSearch, Query: "the Eiffel Tower"},
		},
		{
			intent: model.Intent{Kind: model.IntentOpenWebsite, Query: "Wikipedia"},
			want:   model.ActionResult{Kind: model.ActionOpenWebsiteSearch, Query: "Wikipedia"},
		},
		{
			intent: model.Intent{Kind: model.IntentEmailCompose, Transcript: "send an email"},
			want:   model.ActionResult{Kind: model.ActionEmailCompose, Transcript: "send an email"},
		},
		{
			intent: model.NewUnknownIntent("hello"),
			want:   model.ActionResult{Kind: model.ActionUnknown, Message: model.UnknownIntentMessage, Transcript: "hello"},
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, d.Dispatch(ctx, tt.intent))
	}
	assert.Zero(t, gen.calls, "URL intents must not call a generator")
}

func TestDispatch_GenerateDocument(t *testing.T) {
	gen := &fakeGenerator{document: "Solar and wind..."}
	d := newTestDispatcher(gen)

	got := d.Dispatch(context.Background(), model.Intent{Kind: model.IntentGenerateDocument, Topic: "renewable energy"})

	assert.Equal(t, model.ActionResult{Kind: model.ActionGoogleDoc, Content: "Solar and wind...", Topic: "renewable energy"}, got)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "renewable energy", gen.gotTopic)
}

func TestDispatch_GeneratorFailureBecomesErrorResult(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	d := newTestDispatcher(gen)
	ctx := context.Background()

	tests := []struct {
		intent  model.Intent
		message string
	}{
		{model.Intent{Kind: model.IntentGenerateDocument, Topic: "x"}, MsgDocumentFailed},
		{model.Intent{Kind: model.IntentGenerateImage, Prompt: "x"}, MsgImageFailed},
		{model.Intent{Kind: model.IntentGeminiSearch, Query: "x"}, MsgAnswerFailed},
	}

	for _, tt := range tests {
		got := d.Dispatch(ctx, tt.intent)
		assert.True(t, got.IsError())
		assert.Equal(t, tt.message, got.Message)
		assert.NotContains(t, got.Message, "quota", "raw errors stay in the logs")
	}
}

func TestDispatch_NilResponseBecomesErrorResult(t *testing.T) {
	gen := nilGenerator{}
	d := NewDispatcher(Generators{Documents: gen, Emails: gen, Answers: gen}, time.Second, nil, nil)
	ctx := context.Background()

	assert.Equal(t, model.ErrorResult(MsgDocumentFailed), d.Dispatch(ctx, model.Intent{Kind: model.IntentGenerateDocument, Topic: "tides"}))
	assert.Equal(t, model.ErrorResult(MsgAnswerFailed), d.Dispatch(ctx, model.Intent{Kind: model.IntentGeminiSearch, Query: "tides"}))

	form := model.EmailFormData{Recipient: "sam@example.com", Subject: "Lunch", Intention: "invite Sam to lunch"}
	assert.Equal(t, model.ErrorResult(MsgEmailFailed), d.ComposeEmail(ctx, form))
}

func TestDispatch_GenerateImage(t *testing.T) {
	gen := &fakeGenerator{image: "data:image/png;base64,AAAA"}
	d := newTestDispatcher(gen)

	got := d.Dispatch(context.Background(), model.Intent{Kind: model.IntentGenerateImage, Prompt: "a futuristic city"})

	assert.Equal(t, model.ActionImageGenerated, got.Kind)
	assert.Equal(t, "data:image/png;base64,AAAA", got.ImageDataURI)
	assert.Equal(t, "a futuristic city", got.Prompt)
}

func TestDispatch_ImageWithoutPayloadIsError(t *testing.T) {
	gen := &fakeGenerator{image: ""}
	d := newTestDispatcher(gen)

	got := d.Dispatch(context.Background(), model.Intent{Kind: model.IntentGenerateImage, Prompt: "a cat"})

	assert.Equal(t, model.ErrorResult(MsgImageFailed), got)
}

func TestDispatch_Answer(t *testing.T) {
	gen := &fakeGenerator{answer: "Photosynthesis converts light into chemical energy."}
	d := newTestDispatcher(gen)

	got := d.Dispatch(context.Background(), model.Intent{Kind: model.IntentGeminiSearch, Query: "photosynthesis"})

	assert.Equal(t, model.ActionGeminiSearch, got.Kind)
	assert.Equal(t, "photosynthesis", got.Query)
	assert.Equal(t, gen.answer, got.SearchResult)
}

func TestDispatchStream_ForwardsChunks(t *testing.T) {
	gen := &fakeGenerator{answer: "Hello world", chunks: []string{"Hello", " world"}}
	d := newTestDispatcher(gen)

	var received []string
	got := d.DispatchStream(context.Background(), model.Intent{Kind: model.IntentGeminiSearch, Query: "greeting"}, func(delta string) error {
		received = append(received, delta)
		return nil
	})

	assert.Equal(t, []string{"Hello", " world"}, received)
	assert.Equal(t, "Hello world", got.SearchResult)
}

func TestDispatchStream_FailureBecomesErrorResult(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("stream reset"), chunks: []string{"never sent"}}
	d := newTestDispatcher(gen)

	var received []string
	got := d.DispatchStream(context.Background(), model.Intent{Kind: model.IntentGeminiSearch, Query: "greeting"}, func(delta string) error {
		received = append(received, delta)
		return nil
	})

	assert.Equal(t, model.ErrorResult(MsgAnswerFailed), got)
	assert.Empty(t, received)
	assert.Equal(t, 1, gen.calls)
}

func TestComposeEmail(t *testing.T) {
	gen := &fakeGenerator{draft: "Hi Sam, ..."}
	d := newTestDispatcher(gen)

	form := model.EmailFormData{Recipient: "sam@example.com", Subject: "Lunch", Intention: "invite Sam to lunch"}
	got := d.ComposeEmail(context.Background(), form)

	assert.Equal(t, model.ActionResult{Kind: model.ActionEmailDraft, Draft: "Hi Sam, ..."}, got)
	assert.Equal(t, EmailDraftRequest{Recipient: "sam@example.com", Subject: "Lunch", Intention: "invite Sam to lunch"}, gen.gotEmail)

	gen.err = errors.New("boom")
	assert.Equal(t, model.ErrorResult(MsgEmailFailed), d.ComposeEmail(context.Background(), form))
}

func TestDispatch_MissingGenerator(t *testing.T) {
	d := NewDispatcher(Generators{}, 0, nil, nil)

	got := d.Dispatch(context.Background(), model.Intent{Kind: model.IntentGenerateImage, Prompt: "a cat"})
	require.True(t, got.IsError())
	assert.Equal(t, "Image generation is not configured.", got.Message)

	got = d.ComposeEmail(context.Background(), model.EmailFormData{Recipient: "a@b.co", Subject: "s", Intention: "i"})
	assert.True(t, got.IsError())
}

func TestDispatch_Cancellation(t *testing.T) {
	d := NewDispatcher(Generators{Documents: blockingGenerator{}}, 0, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := d.Dispatch(ctx, model.Intent{Kind: model.IntentGenerateDocument, Topic: "x"})
	assert.Equal(t, model.ErrorResult(MsgCanceled), got)
}

func TestDispatch_Timeout(t *testing.T) {
	d := NewDispatcher(Generators{Documents: blockingGenerator{}}, 10*time.Millisecond, nil, nil)

	got := d.Dispatch(context.Background(), model.Intent{Kind: model.IntentGenerateDocument, Topic: "x"})
	assert.Equal(t, model.ErrorResult(MsgTimedOut), got)
}

func TestClassifyThenDispatch_Pipeline(t *testing.T) {
	gen := &fakeGenerator{document: "content", answer: "answer", image: "data:image/png;base64,AA"}
	d := newTestDispatcher(gen)
	c := NewClassifier()
	ctx := context.Background()

	assert.Equal(t, model.ActionMapsSearch, d.Dispatch(ctx, c.Classify("where is the Eiffel Tower")).Kind)
	assert.Equal(t, model.ActionGoogleDoc, d.Dispatch(ctx, c.Classify("generate a document about renewable energy")).Kind)
	assert.Equal(t, model.ActionImageGenerated, d.Dispatch(ctx, c.Classify("create an image of a futuristic city")).Kind)
	assert.Equal(t, model.ActionGeminiSearch, d.Dispatch(ctx, c.Classify("what is photosynthesis")).Kind)
	assert.Equal(t, model.ActionUnknown, d.Dispatch(ctx, c.Classify("")).Kind)
}
