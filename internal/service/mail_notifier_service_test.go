package service

import (
	"context"
	"testing"

	"ai-blog-be/internal/entity"
	"ai-blog-be/internal/pkg/logger"
	"ai-blog-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to      string
	subject string
	rating  int
	url     string
}

type recordingMailer struct{ sent []sentMail }

func (m *recordingMailer) SendWelcome(toEmail, username string) error {
	m.sent = append(m.sent, sentMail{to: toEmail, subject: "welcome:" + username})
	return nil
}

func (m *recordingMailer) SendReviewNotice(toEmail, postTitle, postURL string, rating int) error {
	m.sent = append(m.sent, sentMail{to: toEmail, subject: "review:" + postTitle, rating: rating, url: postURL})
	return nil
}

func newNotifierFixture() (*memoryDB, *recordingMailer, IMailNotifierService) {
	db := newMemoryDB()
	mail := &recordingMailer{}
	return db, mail, NewMailNotifierService(nil, fakeFactory{db}, mail, "https://blog.example/", logger.NewNopLogger())
}

func seedUser(db *memoryDB, username string) *entity.User {
	u := &entity.User{Id: uuid.New(), Username: username, Email: username + "@example.com"}
	db.users[u.Id] = u
	return u
}

func TestMailNotifierWelcomesNewUsers(t *testing.T) {
	db, mail, svc := newNotifierFixture()
	ada := seedUser(db, "ada")

	require.NoError(t, svc.Handle(context.Background(), events.UserRegistered(ada.Id, ada.Username)))

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "ada@example.com", mail.sent[0].to)
	assert.Equal(t, "welcome:ada", mail.sent[0].subject)
}

func TestMailNotifierTellsPostAuthorAboutReviews(t *testing.T) {
	db, mail, svc := newNotifierFixture()
	author := seedUser(db, "ada")
	reader := seedUser(db, "grace")
	post := seedPost(db, author.Id)

	require.NoError(t, svc.Handle(context.Background(), events.ReviewCreated(uuid.New(), post.Id, reader.Id, 4)))

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "ada@example.com", mail.sent[0].to)
	assert.Equal(t, 4, mail.sent[0].rating)
	assert.Equal(t, "https://blog.example/posts/"+post.Id.String(), mail.sent[0].url)
}

func TestMailNotifierSkipsSelfReviewsAndUnknownRecords(t *testing.T) {
	db, mail, svc := newNotifierFixture()
	author := seedUser(db, "ada")
	post := seedPost(db, author.Id)
	ctx := context.Background()

	require.NoError(t, svc.Handle(ctx, events.ReviewCreated(uuid.New(), post.Id, author.Id, 5)))
	require.NoError(t, svc.Handle(ctx, events.ReviewCreated(uuid.New(), uuid.New(), uuid.New(), 5)))
	require.NoError(t, svc.Handle(ctx, events.UserRegistered(uuid.New(), "ghost")))
	require.NoError(t, svc.Handle(ctx, events.PostCreated(post.Id, author.Id)))

	assert.Empty(t, mail.sent)
}

func TestPayloadIntAfterJSONDecoding(t *testing.T) {
	assert.Equal(t, 3, payloadInt(map[string]interface{}{"rating": float64(3)}, "rating"))
	assert.Equal(t, 2, payloadInt(map[string]interface{}{"rating": 2}, "rating"))
	assert.Equal(t, 0, payloadInt(map[string]interface{}{}, "rating"))
}
