package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ai-blog-be/pkg/apperror"
	"ai-blog-be/pkg/composer"
	"ai-blog-be/pkg/gateway"
	"ai-blog-be/pkg/writer"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWriter struct {
	text    string
	summary string
	err     error
}

func (s *stubWriter) Generate(ctx context.Context, req writer.GenerateRequest) (string, error) {
	return s.text, s.err
}

func (s *stubWriter) Summarize(ctx context.Context, content string, bounds writer.Bounds) (string, error) {
	return s.summary, nil
}

type stubSubmitter struct {
	loginErr error
	drafts   []composer.Draft
	session  gateway.Session
}

func (s *stubSubmitter) Login(ctx context.Context, username, password string) (gateway.Session, error) {
	if s.loginErr != nil {
		return gateway.Session{}, s.loginErr
	}
	return gateway.Session{Token: "tok", OwnerId: uuid.New()}, nil
}

func (s *stubSubmitter) SubmitPost(ctx context.Context, draft composer.Draft, session gateway.Session) (*gateway.Result, error) {
	s.drafts = append(s.drafts, draft)
	s.session = session
	return &gateway.Result{Id: uuid.New(), Message: "Post created successfully"}, nil
}

// pngHeader is enough for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func writePlan(t *testing.T, yaml string) *Plan {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.png"), pngHeader, 0o644))
	path := filepath.Join(dir, "draft.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	plan, err := LoadPlan(path)
	require.NoError(t, err)
	return plan
}

const basePlan = `
username: ada
password: secret
topic: Go generics
words: 300
style: Students
title: Generics in practice
image: cover.png
`

func TestLoadPlanDefaultsAndValidation(t *testing.T) {
	plan := writePlan(t, basePlan)

	assert.Equal(t, "http://localhost:3000", plan.Server)
	require.NoError(t, plan.Validate())

	plan.Style = "Pirates"
	assert.ErrorContains(t, plan.Validate(), "unknown style")

	empty := writePlan(t, "summarize: true\n")
	assert.EqualError(t, empty.Validate(), "plan is missing: image, style, title, topic, username, words")
}

func TestRunSubmitsTrimmedDraft(t *testing.T) {
	plan := writePlan(t, basePlan+"summarize: true\n")
	sub := &stubSubmitter{}
	var out bytes.Buffer
	r := &runner{
		plan:   plan,
		comp:   composer.New(&stubWriter{text: "Generics help. They reduce dup", summary: "Short."}),
		submit: sub,
		out:    &out,
	}

	res, err := r.Run(context.Background())

	require.NoError(t, err)
	require.NotNil(t, res)
	require.Len(t, sub.drafts, 1)
	d := sub.drafts[0]
	assert.Equal(t, "Generics help.", d.Body)
	assert.Equal(t, "Generics in practice", d.Title)
	require.NotNil(t, d.Image)
	assert.Equal(t, "image/png", d.Image.ContentType)
	require.NotNil(t, d.Summary)
	assert.Equal(t, "Short.", d.Summary.Text)
	assert.Equal(t, "tok", sub.session.Token)
	assert.Contains(t, out.String(), "Post created successfully")
}

func TestRunBodyFileReplacesGeneratedText(t *testing.T) {
	plan := writePlan(t, basePlan+"body_file: body.md\n")
	require.NoError(t, os.WriteFile(filepath.Join(plan.dir, "body.md"), []byte("Hand written. Unfinished"), 0o644))
	sub := &stubSubmitter{}
	r := &runner{plan: plan, comp: composer.New(&stubWriter{text: "Generated."}), submit: sub, out: &bytes.Buffer{}}

	_, err := r.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Hand written.", sub.drafts[0].Body)
}

func TestRunStopsOnFailures(t *testing.T) {
	plan := writePlan(t, basePlan)

	r := &runner{plan: plan, comp: composer.New(&stubWriter{err: errors.New("offline")}), submit: &stubSubmitter{}, out: &bytes.Buffer{}}
	_, err := r.Run(context.Background())
	assert.Equal(t, apperror.KindExternalService, apperror.KindOf(err))
	assert.Equal(t, writer.GenerateFailedMessage, describe(err))

	sub := &stubSubmitter{loginErr: apperror.Authentication("Invalid username or password")}
	r = &runner{plan: plan, comp: composer.New(&stubWriter{text: "Fine."}), submit: sub, out: &bytes.Buffer{}}
	_, err = r.Run(context.Background())
	assert.Equal(t, "Invalid username or password", describe(err))
	assert.Empty(t, sub.drafts)
}

func TestRunDryRunSkipsSubmission(t *testing.T) {
	plan := writePlan(t, basePlan+"dry_run: true\n")
	sub := &stubSubmitter{}
	var out bytes.Buffer
	r := &runner{plan: plan, comp: composer.New(&stubWriter{text: "Only this."}), submit: sub, out: &out}

	res, err := r.Run(context.Background())

	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Empty(t, sub.drafts)
	assert.Contains(t, out.String(), "Only this.")
}
