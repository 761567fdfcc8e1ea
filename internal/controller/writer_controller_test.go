package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-blog-be/internal/dto"
	"ai-blog-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWriterService struct{ err error }

func (s stubWriterService) GenerateBlog(ctx context.Context, req *dto.GenerateBlogRequest) (*dto.GenerateBlogResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.GenerateBlogResponse{GeneratedText: "About " + req.Topic + "."}, nil
}

func (s stubWriterService) Summarize(ctx context.Context, req *dto.SummarizeRequest) (*dto.SummarizeResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SummarizeResponse{Summary: "short"}, nil
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestWriterRoutes(t *testing.T) {
	app := fiber.New()
	NewWriterController(stubWriterService{}).RegisterRoutes(app)

	code, body := postJSON(t, app, "/generate_blog", `{"input_text_field":"Go","no_words":100,"blog_style":"Students"}`)
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `{"generated_text":"About Go."}`, body)

	code, body = postJSON(t, app, "/summarize", `{"content":"long"}`)
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `{"summary":"short"}`, body)
}

func TestWriterRoutesReportErrors(t *testing.T) {
	app := fiber.New()
	NewWriterController(stubWriterService{err: apperror.ExternalService("The writing model is unavailable. Please try again later.", nil)}).RegisterRoutes(app)

	code, body := postJSON(t, app, "/generate_blog", `{"input_text_field":"Go","no_words":100,"blog_style":"Students"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	var res dto.WriterErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &res))
	assert.Equal(t, "The writing model is unavailable. Please try again later.", res.Error)

	code, body = postJSON(t, app, "/summarize", `not json`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.JSONEq(t, `{"error":"Invalid JSON body"}`, body)
}
