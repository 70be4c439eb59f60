package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

var _ ports.Notifier = (*SESNotifier)(nil)

var errMissingRecipient = errors.New("recipient email address is empty")

// SESConfig configures the Amazon SES notifier. Static keys are optional; the default
// credential chain is used when they are empty.
type SESConfig struct {
	Region          string
	SenderEmail     string
	AccessKeyID     string
	SecretAccessKey string
}

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESNotifier emails order confirmations through Amazon SES.
type SESNotifier struct {
	client sesAPI
	sender string
}

// NewSESNotifier loads the AWS configuration and builds an SES client.
func NewSESNotifier(ctx context.Context, cfg SESConfig) (*SESNotifier, error) {
	if strings.TrimSpace(cfg.SenderEmail) == "" {
		return nil, errors.New("sender email address is not configured")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newSESNotifier(ses.NewFromConfig(awsCfg), cfg.SenderEmail), nil
}

func newSESNotifier(client sesAPI, sender string) *SESNotifier {
	return &SESNotifier{client: client, sender: sender}
}

// SendOrderConfirmation sends the confirmation email.
func (n *SESNotifier) SendOrderConfirmation(ctx context.Context, c ports.Confirmation) error {
	if strings.TrimSpace(c.Email) == "" {
		return errMissingRecipient
	}
	subject, text, html := render(c)
	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(n.sender),
		Destination: &sestypes.Destination{ToAddresses: []string{c.Email}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Charset: aws.String("UTF-8"), Data: aws.String(subject)},
			Body: &sestypes.Body{
				Html: &sestypes.Content{Charset: aws.String("UTF-8"), Data: aws.String(html)},
				Text: &sestypes.Content{Charset: aws.String("UTF-8"), Data: aws.String(text)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send confirmation for order %s: %w", c.OrderNumber, err)
	}
	return nil
}

func render(c ports.Confirmation) (subject, text, html string) {
	total := fmt.Sprintf("%s %s", c.GrandTotal.StringFixed(2), strings.ToUpper(c.Currency))
	subject = fmt.Sprintf("Order confirmation %s", c.OrderNumber)
	text = fmt.Sprintf("Dear %s,\n\nThank you for your order! Order %s has been placed.\n\nGrand total: %s\n\n"+
		"We'll send you another email when your order ships.\n", c.FullName, c.OrderNumber, total)
	html = fmt.Sprintf("<html><body><p>Dear %s,</p><p>Thank you for your order! Order <strong>%s</strong> has been placed.</p>"+
		"<p>Grand total: %s</p><p>We'll send you another email when your order ships.</p></body></html>",
		c.FullName, c.OrderNumber, total)
	return subject, text, html
}
