package controllers

import (
	"net/http"
	"testing"

	"github.com/BritneyNunes/NunesAutoBackEnd/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmailRouter(mailer utils.Mailer) *gin.Engine {
	h := NewEmailController(mailer)
	r := gin.New()
	r.POST("/send-email", h.SendEmail)
	return r
}

func TestSendEmail(t *testing.T) {
	mailer := &fakeMailer{result: utils.SendResult{Success: true, Response: "250 accepted by smtp.gmail.com"}}
	r := newEmailRouter(mailer)

	w := perform(r, http.MethodPost, "/send-email", `{"to":"a@b.com","subject":"Hi","html":"<p>x</p>"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w.Body.Bytes())
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Email sent", body["message"])
	assert.Equal(t, "250 accepted by smtp.gmail.com", body["response"])
	assert.Equal(t, []string{"a@b.com|Hi"}, mailer.sent)
}

func TestSendEmailFailure(t *testing.T) {
	mailer := &fakeMailer{result: utils.SendResult{Response: "550 5.1.1 user unknown"}}
	r := newEmailRouter(mailer)

	w := perform(r, http.MethodPost, "/send-email", `{"to":"a@b.com","subject":"Hi","html":"<p>x</p>"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w.Body.Bytes())
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Failed to send email", body["message"])
	assert.Equal(t, "550 5.1.1 user unknown", body["response"])
}

func TestSendEmailRejectsBadInput(t *testing.T) {
	mailer := &fakeMailer{result: utils.SendResult{Success: true}}
	r := newEmailRouter(mailer)

	for _, body := range []string{
		`{"subject":"Hi","html":"x"}`,
		`{"to":"not-an-address","subject":"Hi","html":"x"}`,
		`{"to":"a@b.com","html":"x"}`,
		`not json`,
	} {
		w := perform(r, http.MethodPost, "/send-email", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Empty(t, mailer.sent)
}

func TestSendEmailNotConfigured(t *testing.T) {
	w := perform(newEmailRouter(nil), http.MethodPost, "/send-email", `{"to":"a@b.com","subject":"Hi","html":"x"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
