package service

import (
	"context"
	"fmt"
	"strings"

	"ai-blog-be/internal/pkg/logger"
	"ai-blog-be/internal/pkg/mailer"
	"ai-blog-be/internal/repository/specification"
	"ai-blog-be/internal/repository/unitofwork"
	"ai-blog-be/pkg/events"
	pktNats "ai-blog-be/pkg/nats"

	"github.com/google/uuid"
)

const mailNotifierDurable = "blog-mail-notifier"

// IMailNotifierService emails users about their own account and posts:
// a welcome on registration and a notice when someone reviews their post.
type IMailNotifierService interface {
	Start(ctx context.Context) error
	Handle(ctx context.Context, event events.Event) error
}

type mailNotifierService struct {
	subscriber *pktNats.Subscriber
	uowFactory unitofwork.RepositoryFactory
	mail       mailer.IEmailService
	baseURL    string
	log        logger.ILogger
}

func NewMailNotifierService(
	subscriber *pktNats.Subscriber,
	uowFactory unitofwork.RepositoryFactory,
	mail mailer.IEmailService,
	baseURL string,
	log logger.ILogger,
) IMailNotifierService {
	return &mailNotifierService{
		subscriber: subscriber,
		uowFactory: uowFactory,
		mail:       mail,
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
	}
}

func (s *mailNotifierService) Start(ctx context.Context) error {
	if s.subscriber == nil || s.mail == nil {
		return nil
	}
	return s.subscriber.Subscribe(ctx, pktNats.SubjectPrefix+">", mailNotifierDurable, s.Handle)
}

// Handle never fails on missing records or delivery errors, so a bad
// address does not keep the message redelivering.
func (s *mailNotifierService) Handle(ctx context.Context, event events.Event) error {
	switch event.EventType() {
	case events.TypeUserRegistered:
		return s.welcome(ctx, event.Payload())
	case events.TypeReviewCreated:
		return s.reviewNotice(ctx, event.Payload())
	}
	return nil
}

func (s *mailNotifierService) welcome(ctx context.Context, payload map[string]interface{}) error {
	userId, ok := payloadUUID(payload, "user_id")
	if !ok {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	_ = s.mail.SendWelcome(user.Email, user.Username)
	return nil
}

func (s *mailNotifierService) reviewNotice(ctx context.Context, payload map[string]interface{}) error {
	postId, ok := payloadUUID(payload, "post_id")
	if !ok {
		return nil
	}
	reviewerId, _ := payloadUUID(payload, "author_id")

	uow := s.uowFactory.NewUnitOfWork(ctx)
	post, err := uow.PostRepository().FindOne(ctx, specification.ByID{ID: postId})
	if err != nil {
		return err
	}
	if post == nil || post.AuthorId == reviewerId {
		return nil
	}

	author, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: post.AuthorId})
	if err != nil {
		return err
	}
	if author == nil {
		return nil
	}

	rating := payloadInt(payload, "rating")
	postURL := fmt.Sprintf("%s/posts/%s", s.baseURL, post.Id)
	_ = s.mail.SendReviewNotice(author.Email, post.Title, postURL, rating)
	return nil
}

func payloadUUID(payload map[string]interface{}, key string) (uuid.UUID, bool) {
	raw, _ := payload[key].(string)
	id, err := uuid.Parse(raw)
	return id, err == nil
}

// payloadInt accepts both the in-process int and the float64 JSON decoding
// produces after a trip through the bus.
func payloadInt(payload map[string]interface{}, key string) int {
	switch v := payload[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
