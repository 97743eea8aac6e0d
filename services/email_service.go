package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"

	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs/tables"
)

var (
	client     *resend.Client
	clientOnce = sync.Once{}
)

type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *resend.Client
}

func NewEmailService(logger *gecho.Logger, cfg *structs.Config) *EmailService {
	return &EmailService{
		logger: logger,
		cfg:    cfg,
		client: getEmailClient(cfg.Email.ApiKey),
	}
}

func getEmailClient(apiKey string) *resend.Client {
	clientOnce.Do(func() {
		client = resend.NewClient(apiKey)
	})
	return client
}

func (es *EmailService) SendEmail(to []string, subject string, body string) error {
	params := &resend.SendEmailRequest{
		From:    es.cfg.Email.From,
		To:      to,
		Html:    body,
		Subject: subject,
	}

	_, err := es.client.Emails.Send(params)
	if err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}

	return nil
}

// SendOrderConfirmationEmail sends the order confirmation with line items,
// total and delivery address. Amounts are cents.
func (es *EmailService) SendOrderConfirmationEmail(email, name, orderNumber string, items []*tables.OrderItem, totalCents uint64, shipping *structs.ShippingInfo) error {
	totalFormatted := formatCents(totalCents)

	var itemsBuilder strings.Builder
	for _, item := range items {
		label := item.ProductName
		if item.Size != "" || item.Color != "" {
			label = fmt.Sprintf("%s (%s, %s)", item.ProductName, item.Size, item.Color)
		}
		fmt.Fprintf(&itemsBuilder, "<li>%dx %s - %s</li>", item.Quantity, label, formatCents(item.LineTotal))
	}

	addressFormatted := fmt.Sprintf("%s %s<br>%s %s<br>%s",
		shipping.Street, shipping.HouseNo, shipping.PostalCode, shipping.City, shipping.Country)

	emailBody := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				.header { background-color: #b08d57; color: white; padding: 20px; text-align: center; }
				.content { padding: 20px; background-color: #f9f9f9; }
				.order-details { background-color: white; padding: 15px; margin: 15px 0; border-radius: 5px; }
				.footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
				ul { list-style-type: none; padding: 0; }
				li { padding: 5px 0; border-bottom: 1px solid #eee; }
			</style>
		</head>
		<body>
			<div class="container">
				<div class="header">
					<h1>Thank you for your order!</h1>
				</div>
				<div class="content">
					<p>Dear %s,</p>
					<p>We have received your order. Below you will find the details.</p>

					<div class="order-details">
						<h3>Order Number: <strong>%s</strong></h3>
						<h4>Items:</h4>
						<ul>%s</ul>
						<p><strong>Total: %s</strong></p>

						<h4>Delivery Address:</h4>
						<p>%s</p>
					</div>

					<p>We will confirm your order shortly and let you know as soon as it ships. You can follow its progress any time with your order number and email address.</p>

					<p>Questions? Contact us at %s</p>
				</div>

				<div class="footer">
					<p>Halikarnas Sandals | Handcrafted Leather Sandals from Bodrum</p>
				</div>
			</div>
		</body>
		</html>
	`, name, orderNumber, itemsBuilder.String(), totalFormatted, addressFormatted, es.cfg.Email.SupportEmail)

	subject := fmt.Sprintf("Order confirmation %s", orderNumber)

	return es.SendEmail([]string{email, es.cfg.Email.SupportEmail}, subject, emailBody)
}

// SendShippingNotificationEmail tells the customer their order is on its way
// with the carrier tracking number.
func (es *EmailService) SendShippingNotificationEmail(email, name, orderNumber, trackingNumber string) error {
	emailBody := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				.header { background-color: #b08d57; color: white; padding: 20px; text-align: center; }
				.content { padding: 20px; background-color: #f9f9f9; }
				.tracking { background-color: white; padding: 15px; margin: 15px 0; border-radius: 5px; text-align: center; }
				.footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
			</style>
		</head>
		<body>
			<div class="container">
				<div class="header">
					<h1>Your order has shipped!</h1>
				</div>
				<div class="content">
					<p>Dear %s,</p>
					<p>Good news: your order <strong>%s</strong> is on its way.</p>

					<div class="tracking">
						<h4>Tracking Number</h4>
						<p style="font-size: 18px;"><strong>%s</strong></p>
					</div>

					<p>Questions? Contact us at %s</p>
				</div>

				<div class="footer">
					<p>Halikarnas Sandals | Handcrafted Leather Sandals from Bodrum</p>
				</div>
			</div>
		</body>
		</html>
	`, name, orderNumber, trackingNumber, es.cfg.Email.SupportEmail)

	subject := fmt.Sprintf("Your order %s has shipped", orderNumber)

	return es.SendEmail([]string{email}, subject, emailBody)
}

func formatCents(cents uint64) string {
	return fmt.Sprintf("€%.2f", float64(cents)/100)
}
