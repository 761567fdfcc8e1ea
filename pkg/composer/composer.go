// Package composer holds the client-side draft of a blog post through
// generation, manual editing and summarization.
package composer

import (
	"context"
	"errors"
	"strings"
	"sync"

	"ai-blog-be/pkg/apperror"
	"ai-blog-be/pkg/writer"
)

var (
	ErrGenerateInFlight  = errors.New("a generation request is already in progress")
	ErrSummarizeInFlight = errors.New("a summarization request is already in progress")
	// ErrCleared is returned to a caller whose request finished after Clear.
	ErrCleared = errors.New("draft was cleared while the request was in flight")
	// ErrSummaryStale means the body changed before the summary arrived.
	ErrSummaryStale = errors.New("draft body changed while summarizing")
	ErrInvalidState = errors.New("operation not allowed in the current draft state")
)

// Service is the generation backend, normally a *writer.Client.
type Service interface {
	Generate(ctx context.Context, req writer.GenerateRequest) (string, error)
	Summarize(ctx context.Context, content string, bounds writer.Bounds) (string, error)
}

type GenerateInput struct {
	Topic     string
	WordCount int
	Style     string
	Title     string
}

func (in GenerateInput) validate() error {
	switch {
	case strings.TrimSpace(in.Topic) == "":
		return apperror.Validation("Please enter a topic")
	case in.WordCount <= 0:
		return apperror.Validation("Please enter a word count greater than zero")
	case !IsKnownStyle(in.Style):
		return apperror.Validation("Please choose a blog style")
	case strings.TrimSpace(in.Title) == "":
		return apperror.Validation("Please enter a title")
	}
	return nil
}

// Composer is safe for concurrent use. Network calls run without holding
// the lock; epoch changes on Clear so late responses can be recognised.
type Composer struct {
	svc Service

	mu          sync.Mutex
	draft       Draft
	epoch       uint64
	bodyVersion uint64
	cancelGen   context.CancelFunc
	cancelSum   context.CancelFunc
}

func New(svc Service) *Composer {
	return &Composer{svc: svc}
}

func (c *Composer) Generate(ctx context.Context, in GenerateInput) error {
	if err := in.validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.draft.State == StateGenerating {
		c.mu.Unlock()
		return ErrGenerateInFlight
	}
	c.draft.Topic = in.Topic
	c.draft.WordCount = in.WordCount
	c.draft.Style = in.Style
	c.draft.Title = in.Title
	c.draft.State = StateGenerating
	epoch := c.epoch
	reqCtx, cancel := context.WithCancel(ctx)
	c.cancelGen = cancel
	req := writer.GenerateRequest{
		Topic:     in.Topic,
		WordCount: in.WordCount,
		Style:     in.Style,
		Title:     in.Title,
	}
	if c.draft.Image != nil {
		req.Image = c.draft.Image.Filename
	}
	c.mu.Unlock()

	text, err := c.svc.Generate(reqCtx, req)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != epoch {
		return ErrCleared
	}
	c.cancelGen = nil

	if err != nil {
		c.draft.State = StateEmpty
		c.setBody("")
		if apperror.KindOf(err) == apperror.KindUnknown {
			err = apperror.ExternalService(writer.GenerateFailedMessage, err)
		}
		return err
	}

	c.setBody(TrimIncompleteSentence(text))
	c.draft.Summary = nil
	c.draft.State = StateReady
	return nil
}

// Edit unlocks the body for manual changes.
func (c *Composer) Edit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.draft.State != StateReady {
		return ErrInvalidState
	}
	c.draft.State = StateEditing
	return nil
}

func (c *Composer) UpdateBody(body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.draft.State != StateEditing {
		return ErrInvalidState
	}
	c.setBody(body)
	return nil
}

// Save locks the body again and re-applies the sentence trim.
func (c *Composer) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.draft.State != StateEditing {
		return ErrInvalidState
	}
	c.setBody(TrimIncompleteSentence(c.draft.Body))
	c.draft.State = StateReady
	return nil
}

// Clear resets the draft and abandons any request in flight.
func (c *Composer) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelGen != nil {
		c.cancelGen()
	}
	if c.cancelSum != nil {
		c.cancelSum()
	}
	c.epoch++
	c.bodyVersion++
	c.draft = Draft{}
	c.cancelGen = nil
	c.cancelSum = nil
}

func (c *Composer) Summarize(ctx context.Context) (Summary, error) {
	c.mu.Lock()
	if c.draft.State == StateGenerating {
		c.mu.Unlock()
		return Summary{}, apperror.Validation("Please wait for generation to finish before summarizing.")
	}
	if strings.TrimSpace(c.draft.Body) == "" {
		c.mu.Unlock()
		return Summary{}, apperror.Validation("Please generate content before summarizing.")
	}
	if c.draft.Summarizing {
		c.mu.Unlock()
		return Summary{}, ErrSummarizeInFlight
	}
	c.draft.Summarizing = true
	epoch := c.epoch
	version := c.bodyVersion
	body := c.draft.Body
	reqCtx, cancel := context.WithCancel(ctx)
	c.cancelSum = cancel
	c.mu.Unlock()

	text, err := c.svc.Summarize(reqCtx, body, writer.DraftSummaryBounds)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != epoch {
		return Summary{}, ErrCleared
	}
	c.draft.Summarizing = false
	c.cancelSum = nil

	if err != nil {
		if apperror.KindOf(err) == apperror.KindUnknown {
			err = apperror.ExternalService(writer.SummarizeFailedMessage, err)
		}
		return Summary{}, err
	}

	summary := Summary{SourceBody: body, Text: text, Bounds: writer.DraftSummaryBounds}
	if c.bodyVersion != version {
		return summary, ErrSummaryStale
	}
	c.draft.Summary = &summary
	return summary, nil
}

func (c *Composer) SetTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Title = title
}

func (c *Composer) SetImage(img *Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Image = img
}

// Snapshot returns a copy that later changes to the composer do not affect.
func (c *Composer) Snapshot() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := c.draft
	if d.Image != nil {
		img := *d.Image
		img.Data = append([]byte(nil), d.Image.Data...)
		d.Image = &img
	}
	if d.Summary != nil {
		s := *d.Summary
		d.Summary = &s
	}
	return d
}

// setBody must be called with mu held. Any body change drops the summary.
func (c *Composer) setBody(body string) {
	if body == c.draft.Body {
		return
	}
	c.draft.Body = body
	c.draft.Summary = nil
	c.bodyVersion++
}
