package composer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ai-blog-be/pkg/apperror"
	"ai-blog-be/pkg/writer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	text string
	err  error
}

// fakeService blocks each call until the test sends a result, unless an
// immediate reply is configured.
type fakeService struct {
	genCalls int32
	sumCalls int32

	genReply chan result
	sumReply chan result

	genStarted chan struct{}
	sumStarted chan struct{}

	lastBounds writer.Bounds
	lastBody   string
	mu         sync.Mutex
}

func newFakeService() *fakeService {
	return &fakeService{
		genReply:   make(chan result, 1),
		sumReply:   make(chan result, 1),
		genStarted: make(chan struct{}, 4),
		sumStarted: make(chan struct{}, 4),
	}
}

func (f *fakeService) Generate(ctx context.Context, req writer.GenerateRequest) (string, error) {
	atomic.AddInt32(&f.genCalls, 1)
	f.genStarted <- struct{}{}
	select {
	case r := <-f.genReply:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (f *fakeService) Summarize(ctx context.Context, content string, bounds writer.Bounds) (string, error) {
	atomic.AddInt32(&f.sumCalls, 1)
	f.mu.Lock()
	f.lastBounds = bounds
	f.lastBody = content
	f.mu.Unlock()
	f.sumStarted <- struct{}{}
	select {
	case r := <-f.sumReply:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

var validInput = GenerateInput{Topic: "Go generics", WordCount: 300, Style: "Students", Title: "Generics 101"}

func readyComposer(t *testing.T, body string) (*Composer, *fakeService) {
	t.Helper()
	svc := newFakeService()
	c := New(svc)
	svc.genReply <- result{text: body}
	require.NoError(t, c.Generate(context.Background(), validInput))
	<-svc.genStarted
	return c, svc
}

func TestGenerateValidatesInput(t *testing.T) {
	c := New(newFakeService())

	cases := []GenerateInput{
		{WordCount: 10, Style: "Students", Title: "t"},
		{Topic: "x", Style: "Students", Title: "t"},
		{Topic: "x", WordCount: 10, Style: "Aliens", Title: "t"},
		{Topic: "x", WordCount: 10, Style: "Students", Title: "  "},
	}
	for _, in := range cases {
		err := c.Generate(context.Background(), in)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	}
	assert.Equal(t, StateEmpty, c.Snapshot().State)
}

func TestGenerateTrimsAndBecomesReady(t *testing.T) {
	c, svc := readyComposer(t, "First sentence. Second one is cut")

	d := c.Snapshot()
	assert.Equal(t, StateReady, d.State)
	assert.Equal(t, "First sentence.", d.Body)
	assert.Equal(t, int32(1), atomic.LoadInt32(&svc.genCalls))
}

func TestGenerateIsSingleFlight(t *testing.T) {
	svc := newFakeService()
	c := New(svc)

	done := make(chan error, 1)
	go func() { done <- c.Generate(context.Background(), validInput) }()
	<-svc.genStarted

	assert.Equal(t, StateGenerating, c.Snapshot().State)
	assert.ErrorIs(t, c.Generate(context.Background(), validInput), ErrGenerateInFlight)

	svc.genReply <- result{text: "Done."}
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), atomic.LoadInt32(&svc.genCalls))
}

func TestGenerateFailureReturnsToEmpty(t *testing.T) {
	svc := newFakeService()
	c := New(svc)
	svc.genReply <- result{err: apperror.ExternalService("model overloaded", errors.New("502"))}

	err := c.Generate(context.Background(), validInput)

	require.Error(t, err)
	assert.Equal(t, "model overloaded", apperror.UserMessage(err, ""))
	d := c.Snapshot()
	assert.Equal(t, StateEmpty, d.State)
	assert.Empty(t, d.Body)
}

func TestGenerateFailureWithoutMessageUsesFallback(t *testing.T) {
	svc := newFakeService()
	c := New(svc)
	svc.genReply <- result{err: errors.New("dial tcp: refused")}

	err := c.Generate(context.Background(), validInput)

	assert.Equal(t, apperror.KindExternalService, apperror.KindOf(err))
	assert.Equal(t, writer.GenerateFailedMessage, apperror.UserMessage(err, ""))
}

func TestEditUpdateSave(t *testing.T) {
	c, _ := readyComposer(t, "Hello.")

	assert.ErrorIs(t, c.UpdateBody("nope"), ErrInvalidState)
	require.NoError(t, c.Edit())
	assert.True(t, c.Snapshot().Editable())

	require.NoError(t, c.UpdateBody("Edited text. With a dangling"))
	require.NoError(t, c.Save())

	d := c.Snapshot()
	assert.Equal(t, StateReady, d.State)
	assert.Equal(t, "Edited text.", d.Body)
	assert.ErrorIs(t, c.Save(), ErrInvalidState)
}

func TestSummarizeRequiresBody(t *testing.T) {
	c := New(newFakeService())

	_, err := c.Summarize(context.Background())

	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestSummarizeStoresSummaryWithFixedBounds(t *testing.T) {
	c, svc := readyComposer(t, "A long body.")
	svc.sumReply <- result{text: "Short."}

	s, err := c.Summarize(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Short.", s.Text)
	assert.Equal(t, writer.Bounds{Min: 100, Max: 150}, svc.lastBounds)
	d := c.Snapshot()
	require.NotNil(t, d.Summary)
	assert.Equal(t, "A long body.", d.Summary.SourceBody)
	assert.False(t, d.Summarizing)
}

func TestSummarizeIsSingleFlight(t *testing.T) {
	c, svc := readyComposer(t, "Body.")

	done := make(chan error, 1)
	go func() {
		_, err := c.Summarize(context.Background())
		done <- err
	}()
	<-svc.sumStarted

	_, err := c.Summarize(context.Background())
	assert.ErrorIs(t, err, ErrSummarizeInFlight)

	svc.sumReply <- result{text: "S."}
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), atomic.LoadInt32(&svc.sumCalls))
}

func TestSummaryDiscardedWhenBodyChanges(t *testing.T) {
	c, svc := readyComposer(t, "Original body.")
	require.NoError(t, c.Edit())

	done := make(chan error, 1)
	go func() {
		_, err := c.Summarize(context.Background())
		done <- err
	}()
	<-svc.sumStarted

	require.NoError(t, c.UpdateBody("Rewritten body."))
	svc.sumReply <- result{text: "Summary of the original."}

	assert.ErrorIs(t, <-done, ErrSummaryStale)
	assert.Nil(t, c.Snapshot().Summary)
}

func TestBodyChangeInvalidatesStoredSummary(t *testing.T) {
	c, svc := readyComposer(t, "Body one.")
	svc.sumReply <- result{text: "S1."}
	_, err := c.Summarize(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c.Snapshot().Summary)

	require.NoError(t, c.Edit())
	require.NoError(t, c.UpdateBody("Body two."))

	assert.Nil(t, c.Snapshot().Summary)
}

func TestSummarizeFailureLeavesDraftUntouched(t *testing.T) {
	c, svc := readyComposer(t, "Body.")
	svc.sumReply <- result{text: "S."}
	_, err := c.Summarize(context.Background())
	require.NoError(t, err)

	svc.sumReply <- result{err: errors.New("boom")}
	_, err = c.Summarize(context.Background())

	assert.Equal(t, writer.SummarizeFailedMessage, apperror.UserMessage(err, ""))
	d := c.Snapshot()
	assert.Equal(t, "Body.", d.Body)
	require.NotNil(t, d.Summary)
	assert.Equal(t, "S.", d.Summary.Text)
}

func TestClearDiscardsLateGeneration(t *testing.T) {
	svc := newFakeService()
	c := New(svc)

	done := make(chan error, 1)
	go func() { done <- c.Generate(context.Background(), validInput) }()
	<-svc.genStarted

	c.Clear()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrCleared)
	case <-time.After(2 * time.Second):
		t.Fatal("generate did not return after Clear")
	}

	d := c.Snapshot()
	assert.Equal(t, StateEmpty, d.State)
	assert.Empty(t, d.Body)
	assert.Empty(t, d.Title)
}

func TestClearDiscardsLateSummary(t *testing.T) {
	c, svc := readyComposer(t, "Body.")

	done := make(chan error, 1)
	go func() {
		_, err := c.Summarize(context.Background())
		done <- err
	}()
	<-svc.sumStarted

	c.Clear()

	assert.ErrorIs(t, <-done, ErrCleared)
	assert.Nil(t, c.Snapshot().Summary)
}

func TestTitleAndImageEditableDuringGeneration(t *testing.T) {
	svc := newFakeService()
	c := New(svc)

	done := make(chan error, 1)
	go func() { done <- c.Generate(context.Background(), validInput) }()
	<-svc.genStarted

	c.SetTitle("New title")
	c.SetImage(&Image{Filename: "cover.png", ContentType: "image/png", Data: []byte{1}})

	svc.genReply <- result{text: "Done."}
	require.NoError(t, <-done)

	d := c.Snapshot()
	assert.Equal(t, "New title", d.Title)
	require.NotNil(t, d.Image)
	assert.Equal(t, "cover.png", d.Image.Filename)
}

func TestSnapshotIsACopy(t *testing.T) {
	c := New(newFakeService())
	c.SetImage(&Image{Filename: "a.png", Data: []byte{1, 2}})

	d := c.Snapshot()
	d.Image.Data[0] = 9

	assert.Equal(t, byte(1), c.Snapshot().Image.Data[0])
}
