package service

import (
	"context"
	"encoding/json"
	"strings"

	"ai-blog-be/internal/dto"
	"ai-blog-be/internal/pkg/logger"
	"ai-blog-be/internal/repository/specification"
	"ai-blog-be/internal/repository/unitofwork"
	"ai-blog-be/pkg/writer"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// PostSummaryBounds are the word bounds used for stored post summaries.
var PostSummaryBounds = writer.Bounds{Min: 30, Max: 80}

const excerptRunes = 280

// Summarizer produces a summary of content, normally a *writer.Client.
type Summarizer interface {
	Summarize(ctx context.Context, content string, bounds writer.Bounds) (string, error)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	summarizer Summarizer
	log        logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	summarizer Summarizer,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		summarizer: summarizer,
		log:        log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks. A failed summarization falls back to an
// excerpt so a broken summarizer cannot cause endless redelivery.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.SummarizePostMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("SUMMARY", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: payload.PostId})
	if err != nil {
		cs.log.Error("SUMMARY", "Failed to load post", map[string]interface{}{
			"post_id": payload.PostId.String(),
			"error":   err.Error(),
		})
		return
	}
	if post == nil || strings.TrimSpace(post.Content) == "" {
		return
	}

	summary := ""
	if cs.summarizer != nil {
		summary, err = cs.summarizer.Summarize(ctx, post.Content, PostSummaryBounds)
		if err != nil {
			cs.log.Warn("SUMMARY", "Summarizer failed, using excerpt", map[string]interface{}{
				"post_id": post.Id.String(),
				"error":   err.Error(),
			})
			summary = ""
		}
	}
	if strings.TrimSpace(summary) == "" {
		summary = Excerpt(post.Content, excerptRunes)
	}

	if err := uow.PostRepository().UpdateSummary(ctx, post.Id, strings.TrimSpace(summary)); err != nil {
		cs.log.Error("SUMMARY", "Failed to store summary", map[string]interface{}{
			"post_id": post.Id.String(),
			"error":   err.Error(),
		})
		return
	}

	cs.log.Info("SUMMARY", "Post summary stored", map[string]interface{}{"post_id": post.Id.String()})
}

// Excerpt cuts content to max runes at a word boundary, collapsing
// whitespace. A cut is marked with an ellipsis.
func Excerpt(content string, max int) string {
	words := strings.Fields(content)
	var b strings.Builder
	length := 0
	for _, w := range words {
		n := len([]rune(w))
		if length > 0 {
			n++
		}
		if length+n > max {
			if length == 0 {
				return string([]rune(w)[:max])
			}
			b.WriteString("…")
			break
		}
		if length > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
		length += n
	}
	return b.String()
}
