package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"ai-blog-be/internal/dto"
	"ai-blog-be/internal/entity"
	"ai-blog-be/internal/pkg/logger"
	"ai-blog-be/internal/repository/contract"
	"ai-blog-be/internal/repository/session"
	"ai-blog-be/internal/repository/specification"
	"ai-blog-be/internal/repository/unitofwork"
	"ai-blog-be/pkg/apperror"
	"ai-blog-be/pkg/events"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	errInvalidCredentials = apperror.Authentication("Invalid username or password")
	errSessionInvalid     = apperror.Authentication("Your session has expired. Please log in again.")
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, sessionId string) error
	Me(ctx context.Context, userId uuid.UUID) (*dto.MeResponse, error)
	ResolveSession(ctx context.Context, token string) (*entity.Session, error)
}

type authClaims struct {
	UserId    string `json:"user_id"`
	SessionId string `json:"sid"`
	jwt.RegisteredClaims
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	sessions       session.Store
	eventPublisher events.Publisher
	log            logger.ILogger
	jwtSecret      []byte
	sessionTTL     time.Duration
	now            func() time.Time
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	sessions session.Store,
	eventPublisher events.Publisher,
	log logger.ILogger,
	jwtSecret string,
	sessionTTL time.Duration,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		sessions:       sessions,
		eventPublisher: eventPublisher,
		log:            log,
		jwtSecret:      []byte(jwtSecret),
		sessionTTL:     sessionTTL,
		now:            time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: username})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if existing != nil {
		return nil, apperror.Validation("username is already taken")
	}

	existing, err = uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if existing != nil {
		return nil, apperror.Validation("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Id:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
		UpdatedAt:    s.now(),
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if errors.Is(err, contract.ErrDuplicate) {
			return nil, apperror.Validation("username or email is already registered")
		}
		return nil, apperror.Persistence(err)
	}

	s.log.Info("AUTH", "User registered", map[string]interface{}{"user_id": user.Id.String()})
	publishEvent(ctx, s.eventPublisher, s.log, events.UserRegistered(user.Id, user.Username))

	return &dto.RegisterResponse{Id: user.Id, Username: user.Username}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	identifier := strings.TrimSpace(req.Username)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByUsernameOrEmail{Identifier: identifier})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if user == nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	now := s.now()
	sess := &entity.Session{
		Id:        uuid.NewString(),
		UserId:    user.Id,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, sess, s.sessionTTL); err != nil {
		return nil, apperror.Persistence(err)
	}

	token, err := s.signToken(sess, now)
	if err != nil {
		return nil, err
	}

	s.log.Info("AUTH", "User logged in", map[string]interface{}{"user_id": user.Id.String()})

	return &dto.LoginResponse{
		Token:     token,
		UserId:    user.Id,
		Username:  user.Username,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

func (s *authService) signToken(sess *entity.Session, now time.Time) (string, error) {
	claims := authClaims{
		UserId:    sess.UserId.String(),
		SessionId: sess.Id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *authService) Logout(ctx context.Context, sessionId string) error {
	if sessionId == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionId); err != nil {
		return apperror.Persistence(err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, userId uuid.UUID) (*dto.MeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}
	return &dto.MeResponse{
		Id:        user.Id,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

// ResolveSession accepts a token only if its signature is valid, its
// session is still in the store, and the owning user still exists.
func (s *authService) ResolveSession(ctx context.Context, token string) (*entity.Session, error) {
	claims := &authClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, errSessionInvalid
	}

	userId, err := uuid.Parse(claims.UserId)
	if err != nil || claims.SessionId == "" {
		return nil, errSessionInvalid
	}

	sess, err := s.sessions.Get(ctx, claims.SessionId)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if sess == nil || sess.UserId != userId || sess.Expired(s.now()) {
		return nil, errSessionInvalid
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if user == nil {
		return nil, errSessionInvalid
	}

	return sess, nil
}

func publishEvent(ctx context.Context, pub events.Publisher, log logger.ILogger, event events.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, event); err != nil {
		log.Warn("EVENTS", "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

