package checkout

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"

	"evently/internal/common/config"
	"evently/internal/common/logger"
	"evently/internal/common/metrics"
	"evently/internal/models"
)

// EmailSender is the slice of the SES client the notifier needs.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// SMSSender is the slice of the SNS client the notifier needs.
type SMSSender interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// Notifier delivers receipts over email and SMS. Delivery failures
// are logged and counted but never fail the checkout.
type Notifier struct {
	cfg    config.CheckoutConfig
	email  EmailSender
	sms    SMSSender
	logger logger.Logger
}

func NewNotifier(cfg config.CheckoutConfig, email EmailSender, sms SMSSender, log logger.Logger) *Notifier {
	return &Notifier{
		cfg:    cfg,
		email:  email,
		sms:    sms,
		logger: log.WithFields(map[string]interface{}{"component": "checkout-notifier"}),
	}
}

// Deliver sends the receipt on every enabled channel the order has an
// address for.
func (n *Notifier) Deliver(ctx context.Context, order *models.Order, receipt *models.Receipt) {
	if n.cfg.EmailEnabled && n.email != nil && order.Email != "" {
		n.sendEmail(ctx, order.Email, receipt)
	}
	if n.cfg.SMSEnabled && n.sms != nil && order.Phone != "" {
		n.sendSMS(ctx, order.Phone, receipt)
	}
}

func (n *Notifier) sendEmail(ctx context.Context, to string, receipt *models.Receipt) {
	_, err := n.email.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(n.cfg.ReceiptFromEmail),
		Destination: &sestypes.Destination{ToAddresses: []string{to}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{
				Data: aws.String("Your receipt " + receipt.ReceiptNumber),
			},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(RenderEmailBody(receipt))},
			},
		},
	})
	if err != nil {
		metrics.ReceiptsSent.WithLabelValues("email", "error").Inc()
		n.logger.Error("receipt email delivery failed", map[string]interface{}{
			"receiptNumber": receipt.ReceiptNumber,
			"error":         err.Error(),
		})
		return
	}
	metrics.ReceiptsSent.WithLabelValues("email", "success").Inc()
}

func (n *Notifier) sendSMS(ctx context.Context, phone string, receipt *models.Receipt) {
	input := &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(RenderSMSBody(receipt)),
	}
	if n.cfg.SMSSenderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(n.cfg.SMSSenderID),
			},
		}
	}

	if _, err := n.sms.Publish(ctx, input); err != nil {
		metrics.ReceiptsSent.WithLabelValues("sms", "error").Inc()
		n.logger.Error("receipt SMS delivery failed", map[string]interface{}{
			"receiptNumber": receipt.ReceiptNumber,
			"error":         err.Error(),
		})
		return
	}
	metrics.ReceiptsSent.WithLabelValues("sms", "success").Inc()
}
