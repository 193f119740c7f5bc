package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"RealEstateAPI/models"

	"github.com/labstack/echo/v4"
	"gopkg.in/gomail.v2"
)

type ContactController struct{}

func NewContactController() *ContactController {
	return &ContactController{}
}

// SendContact forwards a visitor inquiry to the site mailbox. Nothing is
// persisted. Without SMTP configuration the message is logged only, so
// local setups stay functional.
func (cc *ContactController) SendContact(c echo.Context) error {
	var req models.ContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Name, email and message are required"})
	}

	host := os.Getenv("SMTP_HOST")
	user := os.Getenv("SMTP_USER")
	if host == "" || user == "" {
		log.Printf("SMTP not configured, contact message from %s <%s> logged only", req.Name, req.Email)
		return c.JSON(http.StatusOK, map[string]string{"message": "Message sent successfully"})
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	m := gomail.NewMessage()
	m.SetHeader("From", user)
	m.SetHeader("To", user)
	m.SetHeader("Reply-To", req.Email)
	m.SetHeader("Subject", fmt.Sprintf("New Contact Form Submission from %s", req.Name))
	m.SetBody("text/html", fmt.Sprintf(
		`<h2>New Contact Form Submission</h2>
		<p><strong>Name:</strong> %s</p>
		<p><strong>Email:</strong> %s</p>
		<p><strong>Phone:</strong> %s</p>
		<p><strong>Interest:</strong> %s</p>
		<p><strong>Message:</strong></p>
		<p>%s</p>`,
		req.Name, req.Email, req.Phone, req.Interest, req.Message,
	))

	d := gomail.NewDialer(host, port, user, os.Getenv("SMTP_PASS"))
	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send contact email: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to send message"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Message sent successfully"})
}
