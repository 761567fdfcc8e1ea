package main

import (
	"context"
	"fmt"
	"io"

	"ai-blog-be/pkg/apperror"
	"ai-blog-be/pkg/composer"
	"ai-blog-be/pkg/gateway"

	"github.com/fatih/color"
)

// Submitter is the part of the gateway the CLI needs.
type Submitter interface {
	Login(ctx context.Context, username, password string) (gateway.Session, error)
	SubmitPost(ctx context.Context, draft composer.Draft, session gateway.Session) (*gateway.Result, error)
}

type runner struct {
	plan   *Plan
	comp   *composer.Composer
	submit Submitter
	out    io.Writer
}

func (r *runner) step(format string, args ...interface{}) {
	fmt.Fprintln(r.out, color.YellowString(format, args...))
}

func (r *runner) ok(format string, args ...interface{}) {
	fmt.Fprintln(r.out, color.GreenString(format, args...))
}

// Run walks the generate, edit, summarize, submit flow and returns the
// created post on success.
func (r *runner) Run(ctx context.Context) (*gateway.Result, error) {
	image, err := r.plan.LoadImage()
	if err != nil {
		return nil, err
	}
	r.comp.SetImage(image)

	r.step("Generating %d words on %q for %s...", r.plan.Words, r.plan.Topic, r.plan.Style)
	err = r.comp.Generate(ctx, composer.GenerateInput{
		Topic:     r.plan.Topic,
		WordCount: r.plan.Words,
		Style:     r.plan.Style,
		Title:     r.plan.Title,
	})
	if err != nil {
		return nil, err
	}
	r.ok("Draft ready (%d characters)", len(r.comp.Snapshot().Body))

	body, err := r.plan.LoadBody()
	if err != nil {
		return nil, err
	}
	if body != "" {
		r.step("Replacing body with %s", r.plan.BodyFile)
		if err := r.comp.Edit(); err != nil {
			return nil, err
		}
		if err := r.comp.UpdateBody(body); err != nil {
			return nil, err
		}
		if err := r.comp.Save(); err != nil {
			return nil, err
		}
	}

	if r.plan.Summarize {
		r.step("Summarizing...")
		summary, err := r.comp.Summarize(ctx)
		if err != nil {
			return nil, err
		}
		r.ok("Summary: %s", summary.Text)
	}

	if r.plan.DryRun {
		fmt.Fprintln(r.out, r.comp.Snapshot().Body)
		return nil, nil
	}

	r.step("Logging in as %s...", r.plan.Username)
	session, err := r.submit.Login(ctx, r.plan.Username, r.plan.Password)
	if err != nil {
		return nil, err
	}

	r.step("Submitting post...")
	result, err := r.submit.SubmitPost(ctx, r.comp.Snapshot(), session)
	if err != nil {
		return nil, err
	}
	r.ok("%s (id %s)", result.Message, result.Id)
	return result, nil
}

func describe(err error) string {
	return apperror.UserMessage(err, err.Error())
}
