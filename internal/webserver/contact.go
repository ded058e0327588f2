package webserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type contactForm struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

// handleContact relays a contact-form submission to the configured mailbox.
func (s *WebServer) handleContact(c echo.Context) error {
	var form contactForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": 1, "error": "unable to parse contact form"})
	}
	if strings.TrimSpace(form.Name) == "" || strings.TrimSpace(form.Email) == "" ||
		strings.TrimSpace(form.Message) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": 1, "error": "name, email and message are required"})
	}

	smtp := s.appctx.Config().Smtp
	if smtp.Host == "" {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"code": 1, "error": "mail delivery not configured"})
	}

	subject := strings.TrimSpace(form.Subject)
	if subject == "" {
		subject = "Website contact from " + form.Name
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtp.From)
	m.SetHeader("To", smtp.To)
	m.SetHeader("Reply-To", form.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", form.Message+"\n\n-- "+form.Name+" <"+form.Email+">")

	d := gomail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password)
	if err := d.DialAndSend(m); err != nil {
		zap.L().Error("contact mail delivery failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"code": 1, "error": "mail delivery failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"code": 0, "data": "message sent"})
}
