// Package gateway submits drafts and reviews to the blog API on behalf of
// a logged-in user.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"ai-blog-be/pkg/apperror"
	"ai-blog-be/pkg/composer"

	"github.com/google/uuid"
)

const authTokenHeader = "auth-token"

var (
	ErrContentMissing   = apperror.Validation("Please generate or write content before submitting.")
	ErrNoTitle          = apperror.Validation("Please enter a title before submitting.")
	ErrNoImage          = apperror.Validation("Please choose a cover image before submitting.")
	ErrNotAuthenticated = apperror.Authentication("You must be logged in to submit.")
	ErrSessionExpired   = apperror.Authentication("Your session has expired. Please log in again.")
	ErrForbidden        = apperror.Authorization("You are not allowed to do that.")
	ErrSubmission       = apperror.ExternalService("Submission failed. Please try again.", nil)
)

// Session is the caller's credential, passed explicitly to every call.
type Session struct {
	Token   string
	OwnerId uuid.UUID
}

func (s Session) LoggedIn() bool {
	return strings.TrimSpace(s.Token) != ""
}

type Result struct {
	Id      uuid.UUID
	Message string
}

type ReviewInput struct {
	Rating int    `json:"rating"`
	Body   string `json:"body"`
}

type Gateway struct {
	baseURL string
	http    *http.Client
}

type Option func(*Gateway)

func WithHTTPClient(hc *http.Client) Option {
	return func(g *Gateway) {
		g.http = hc
	}
}

func New(baseURL string, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type idData struct {
	Id uuid.UUID `json:"id"`
}

// SubmitPost publishes the draft as a new post. Preconditions are checked
// in a fixed order: content, title, image, then credentials. The request
// is sent once and never retried.
func (g *Gateway) SubmitPost(ctx context.Context, draft composer.Draft, session Session) (*Result, error) {
	switch {
	case strings.TrimSpace(draft.Body) == "":
		return nil, ErrContentMissing
	case strings.TrimSpace(draft.Title) == "":
		return nil, ErrNoTitle
	case draft.Image == nil || len(draft.Image.Data) == 0:
		return nil, ErrNoImage
	case !session.LoggedIn():
		return nil, ErrNotAuthenticated
	}

	body, contentType, err := encodePostForm(draft)
	if err != nil {
		return nil, submissionError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/posts", body)
	if err != nil {
		return nil, submissionError(err)
	}
	req.Header.Set("Content-Type", contentType)

	return g.send(req, session)
}

func encodePostForm(draft composer.Draft) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	contentType := draft.Image.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(draft.Image.Data)
	}
	filename := draft.Image.Filename
	if filename == "" {
		filename = "image"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, escapeQuotes(filename)))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(draft.Image.Data); err != nil {
		return nil, "", err
	}

	if err := mw.WriteField("title", draft.Title); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("content", draft.Body); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func (g *Gateway) SubmitReview(ctx context.Context, postId uuid.UUID, input ReviewInput, session Session) (*Result, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperror.Validation("rating must be between 1 and 5")
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, apperror.Validation("body is required")
	}
	if !session.LoggedIn() {
		return nil, ErrNotAuthenticated
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return nil, submissionError(err)
	}
	url := fmt.Sprintf("%s/posts/%s/reviews", g.baseURL, postId)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, submissionError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	return g.send(req, session)
}

func (g *Gateway) DeleteReview(ctx context.Context, postId, reviewId uuid.UUID, session Session) (*Result, error) {
	if !session.LoggedIn() {
		return nil, ErrNotAuthenticated
	}

	url := fmt.Sprintf("%s/posts/%s/reviews/%s", g.baseURL, postId, reviewId)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return nil, submissionError(err)
	}

	return g.send(req, session)
}

type loginData struct {
	Token  string    `json:"token"`
	UserId uuid.UUID `json:"user_id"`
}

// Login exchanges credentials for a Session.
func (g *Gateway) Login(ctx context.Context, username, password string) (Session, error) {
	payload, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return Session{}, submissionError(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/auth/login", bytes.NewReader(payload))
	if err != nil {
		return Session{}, submissionError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return Session{}, submissionError(err)
	}
	defer resp.Body.Close()

	env, err := decodeEnvelope(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		message := "Invalid username or password"
		if err == nil && env.Message != "" {
			message = env.Message
		}
		return Session{}, apperror.Authentication(message)
	}
	if err != nil || resp.StatusCode/100 != 2 {
		return Session{}, submissionError(statusError(resp.StatusCode, env))
	}

	var data loginData
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		return Session{}, submissionError(errors.New("login response carried no token"))
	}
	return Session{Token: data.Token, OwnerId: data.UserId}, nil
}

func (g *Gateway) send(req *http.Request, session Session) (*Result, error) {
	req.Header.Set(authTokenHeader, session.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, submissionError(err)
	}
	defer resp.Body.Close()

	env, decodeErr := decodeEnvelope(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrSessionExpired
	case resp.StatusCode == http.StatusForbidden:
		return nil, ErrForbidden
	case resp.StatusCode/100 != 2:
		return nil, submissionError(statusError(resp.StatusCode, env))
	}

	// A 2xx means the server applied the change; the body is informational.
	result := &Result{}
	if decodeErr != nil {
		return result, nil
	}
	result.Message = env.Message
	var data idData
	if len(env.Data) > 0 && json.Unmarshal(env.Data, &data) == nil {
		result.Id = data.Id
	}
	return result, nil
}

func decodeEnvelope(r io.Reader) (*envelope, error) {
	var env envelope
	if err := json.NewDecoder(io.LimitReader(r, 1<<20)).Decode(&env); err != nil {
		return &envelope{}, err
	}
	return &env, nil
}

func statusError(code int, env *envelope) error {
	if env != nil && env.Message != "" {
		return fmt.Errorf("server returned %d: %s", code, env.Message)
	}
	return fmt.Errorf("server returned %d", code)
}

func submissionError(cause error) error {
	return apperror.ExternalService(ErrSubmission.Message, cause)
}
