package mailer

import (
	"errors"
	"os"

	"github.com/matcornic/hermes/v2"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

var ErrNotConfigured = errors.New("mailer not configured")

func appHermes() hermes.Hermes {
	link := os.Getenv("APP_URL")
	if link == "" {
		link = "http://localhost:3000"
	}
	return hermes.Hermes{
		Product: hermes.Product{
			Name: "Daybook",
			Link: link,
		},
	}
}

// SendResetPassword emails a password-reset link. When SENDGRID_API_KEY is
// unset the send is skipped with ErrNotConfigured so callers can degrade
// gracefully in development.
func SendResetPassword(toEmail, token string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return ErrNotConfigured
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:3000"
	}
	resetLink := appURL + "/password/reset?token=" + token

	h := appHermes()
	email := hermes.Email{
		Body: hermes.Body{
			Intros: []string{
				"You have received this email because a password reset request was made for your account.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "Click the button below to reset your password:",
					Button: hermes.Button{
						Color: "#DC4D2F",
						Text:  "Reset your password",
						Link:  resetLink,
					},
				},
			},
			Outros: []string{
				"If you did not request a password reset, no further action is required on your part.",
			},
		},
	}

	emailBody, err := h.GenerateHTML(email)
	if err != nil {
		return err
	}

	from := mail.NewEmail("Daybook", senderAddress())
	to := mail.NewEmail(toEmail, toEmail)
	message := mail.NewSingleEmail(from, "Reset your password", to, "", emailBody)

	client := sendgrid.NewSendClient(apiKey)
	_, err = client.Send(message)
	return err
}

func senderAddress() string {
	if sender := os.Getenv("MAIL_SENDER"); sender != "" {
		return sender
	}
	return "no-reply@daybook.app"
}
