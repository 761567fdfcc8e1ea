package bootstrap

import (
	"context"
	"fmt"

	"ai-blog-be/internal/config"
	"ai-blog-be/internal/controller"
	"ai-blog-be/internal/handler"
	"ai-blog-be/internal/pkg/logger"
	"ai-blog-be/internal/pkg/mailer"
	"ai-blog-be/internal/pkg/storage"
	"ai-blog-be/internal/repository/session"
	"ai-blog-be/internal/repository/unitofwork"
	"ai-blog-be/internal/service"
	internalWS "ai-blog-be/internal/websocket"
	"ai-blog-be/pkg/events"
	pktNats "ai-blog-be/pkg/nats"
	"ai-blog-be/pkg/writer"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const summaryTopic = "post.summarize"

type Container struct {
	Logger  *logger.ZapLogger
	Storage *storage.LocalStorage

	// Controllers
	AuthController   controller.IAuthController
	PostController   controller.IPostController
	ReviewController controller.IReviewController
	LiveFeedHandler  *handler.LiveFeedHandler

	// Background services, started by Start
	ConsumerService service.IConsumerService
	ActivityService service.IActivityService
	MailNotifier    service.IMailNotifierService
	PostService     service.IPostService

	natsSub   *pktNats.Subscriber
	scheduler *cron.Cron
	closers   []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config, sysLogger *logger.ZapLogger) (*Container, error) {
	c := &Container{Logger: sysLogger}

	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)

	images, err := storage.NewLocalStorage(cfg.Upload.Dir, "/uploads")
	if err != nil {
		return nil, err
	}
	c.Storage = images

	sessions, err := c.newSessionStore(cfg)
	if err != nil {
		return nil, err
	}

	// 2. Event bus: JetStream for domain events, gochannel for summary jobs
	var eventPublisher events.Publisher = events.NopPublisher{}
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "NATS publisher unavailable, domain events disabled", map[string]interface{}{"error": err.Error()})
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	var natsSub *pktNats.Subscriber
	if natsPub != nil {
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "NATS subscriber unavailable", map[string]interface{}{"error": err.Error()})
			natsSub = nil
		} else {
			c.closers = append(c.closers, natsSub.Close)
		}
	}
	c.natsSub = natsSub

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Services
	summarizer := writer.NewClient(cfg.Writer.GenerationEndpointURL, cfg.Writer.SummarizationEndpointURL)

	publisherService := service.NewPublisherService(summaryTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, summaryTopic, uowFactory, summarizer, sysLogger)
	c.ActivityService = service.NewActivityService(natsSub, sysLogger)

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			fmt.Sprintf("%s <%s>", cfg.SMTP.SenderName, cfg.SMTP.Email),
			sysLogger,
		)
	}
	c.MailNotifier = service.NewMailNotifierService(natsSub, uowFactory, emailService, cfg.App.BaseURL, sysLogger)

	authService := service.NewAuthService(uowFactory, sessions, eventPublisher, sysLogger, cfg.Auth.JwtSecret, cfg.Auth.SessionTTL)
	c.PostService = service.NewPostService(uowFactory, publisherService, eventPublisher, images, sysLogger)
	reviewService := service.NewReviewService(uowFactory, eventPublisher, sysLogger)

	// 4. Controllers
	c.AuthController = controller.NewAuthController(authService, cfg.App.SignInURL)
	c.PostController = controller.NewPostController(c.PostService, authService, images, cfg.App.SignInURL, int64(cfg.Upload.MaxBytes))
	c.ReviewController = controller.NewReviewController(reviewService, authService, cfg.App.SignInURL)
	c.LiveFeedHandler = handler.NewLiveFeedHandler(internalWS.NewHub(sysLogger), c.PostService, sysLogger)

	return c, nil
}

func (c *Container) newSessionStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Auth.SessionStore {
	case "redis":
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			c.Logger.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("connect redis session store: %w", err)
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		return session.NewRedisStore(rdb), nil
	case "memory", "":
		return session.NewMemoryStore(cfg.Auth.SessionTTL), nil
	default:
		return nil, fmt.Errorf("unsupported session store: %s", cfg.Auth.SessionStore)
	}
}

// Start runs the summary consumer, the event subscribers and the summary
// backfill schedule.
func (c *Container) Start(ctx context.Context) error {
	if err := c.ConsumerService.Consume(ctx); err != nil {
		return fmt.Errorf("start summary consumer: %w", err)
	}
	if err := c.ActivityService.Start(ctx); err != nil {
		c.Logger.Warn("BOOTSTRAP", "Activity log subscriber not started", map[string]interface{}{"error": err.Error()})
	}
	if err := c.MailNotifier.Start(ctx); err != nil {
		c.Logger.Warn("BOOTSTRAP", "Mail notifier not started", map[string]interface{}{"error": err.Error()})
	}
	if err := c.LiveFeedHandler.Start(ctx, c.natsSub); err != nil {
		c.Logger.Warn("BOOTSTRAP", "Live feed subscriber not started", map[string]interface{}{"error": err.Error()})
	}

	scheduler, err := NewSummaryBackfill(ctx, c.PostService, c.Logger, DefaultBackfillSpec)
	if err != nil {
		return err
	}
	scheduler.Start()
	c.scheduler = scheduler
	return nil
}

// Close stops background work and releases connections in reverse order.
func (c *Container) Close() {
	if c.scheduler != nil {
		<-c.scheduler.Stop().Done()
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
