package mailer

import (
	"fmt"
	"html"

	"ai-blog-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendWelcome(toEmail, username string) error
	SendReviewNotice(toEmail, postTitle, postURL string, rating int) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	log         logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderEmail string, log logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		log:         log,
	}
}

func (s *emailService) SendWelcome(toEmail, username string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome, %s!</h2>
			<p>Your account is ready. Generate a draft, polish it and publish your first post.</p>
		</div>
	`, html.EscapeString(username))

	return s.send(toEmail, "Welcome to the blog", body)
}

func (s *emailService) SendReviewNotice(toEmail, postTitle, postURL string, rating int) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>New review on "%s"</h2>
			<p>A reader rated your post %d out of 5.</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Read the review</a>
		</div>
	`, html.EscapeString(postTitle), rating, postURL)

	return s.send(toEmail, "Your post has a new review", body)
}

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.log.Error("MAILER", "Failed to send email", map[string]interface{}{
			"to":      toEmail,
			"subject": subject,
			"error":   err.Error(),
		})
		return err
	}

	s.log.Info("MAILER", "Email sent", map[string]interface{}{"to": toEmail, "subject": subject})
	return nil
}
