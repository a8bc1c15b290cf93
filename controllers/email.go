package controllers

import (
	"net/http"
	"time"

	"github.com/BritneyNunes/NunesAutoBackEnd/utils"
	"github.com/gin-gonic/gin"
)

type EmailController struct {
	Mailer  utils.Mailer // nil when SMTP is not configured
	Timeout time.Duration
}

func NewEmailController(mailer utils.Mailer) *EmailController {
	return &EmailController{Mailer: mailer, Timeout: mailTimeout}
}

type sendEmailRequest struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	HTML    string `json:"html" binding:"required"`
}

func (h *EmailController) SendEmail(c *gin.Context) {
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "A valid to address, subject and html body are required",
		})
		return
	}
	if h.Mailer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Email is not configured"})
		return
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	res := h.Mailer.Send(ctx, req.To, req.Subject, req.HTML)
	if !res.Success {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":  false,
			"message":  "Failed to send email",
			"response": res.Response,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email sent", "response": res.Response})
}
