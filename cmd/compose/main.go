package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"ai-blog-be/pkg/composer"
	"ai-blog-be/pkg/gateway"
	"ai-blog-be/pkg/writer"

	"github.com/fatih/color"
)

func main() {
	planPath := flag.String("f", "draft.yaml", "composition plan (YAML)")
	dryRun := flag.Bool("dry-run", false, "print the draft instead of submitting it")
	flag.Parse()

	plan, err := LoadPlan(*planPath)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if *dryRun {
		plan.DryRun = true
	}
	if err := plan.Validate(); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	color.Cyan("Composing %q\n", plan.Title)
	r := &runner{
		plan:   plan,
		comp:   composer.New(writer.NewClient(plan.GenerationURL, plan.SummarizationURL)),
		submit: gateway.New(plan.Server),
		out:    os.Stdout,
	}
	if _, err := r.Run(ctx); err != nil {
		color.Red("Failed: %s", describe(err))
		os.Exit(1)
	}
}
