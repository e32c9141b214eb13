package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jagadeeshD3/portfolio/internal/mail"
)

// Contact endpoint responses.
const (
	msgSent       = "Email sent successfully"
	msgSendFailed = "Failed to send email"
	msgFormFailed = "Sorry, there was an error sending your message. Please try again later."
	msgFormFields = "Please fill in every field with a valid email address."
)

func (s *Server) setupContactRoutes(r *gin.Engine) {
	r.POST("/api/contact", s.contactAPI)

	// HTMX contact form; returns an HTML fragment either way
	r.POST("/contact", s.contactForm)
}

func (s *Server) contactAPI(c *gin.Context) {
	var in mail.Contact
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	err := s.deliver(c, in)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": msgSent})
	case errors.Is(err, mail.ErrInvalidContact):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": msgSendFailed})
	}
}

func (s *Server) contactForm(c *gin.Context) {
	var in mail.Contact
	if err := c.ShouldBind(&in); err != nil {
		s.log.Debug().Err(err).Msg("Malformed contact form")
		c.HTML(http.StatusOK, "contact-error.html", s.view(c, "", gin.H{
			"error": msgFormFields,
			"form":  in,
		}))
		return
	}

	if err := s.deliver(c, in); err != nil {
		msg := msgFormFailed
		if errors.Is(err, mail.ErrInvalidContact) {
			msg = msgFormFields
		}
		c.HTML(http.StatusOK, "contact-error.html", s.view(c, "", gin.H{
			"error": msg,
			"form":  in,
		}))
		return
	}

	// The fresh form in the success fragment starts empty.
	c.HTML(http.StatusOK, "contact-success.html", s.view(c, "", gin.H{
		"success": s.content.Contact.Thanks,
		"form":    mail.Contact{},
	}))
}

func (s *Server) deliver(c *gin.Context, in mail.Contact) error {
	if s.relay == nil {
		return mail.ErrNotConfigured
	}
	return s.relay.Deliver(c.Request.Context(), in)
}
