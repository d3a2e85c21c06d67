package utils

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/sirupsen/logrus"
)

var sesClient *ses.Client

func InitSES() {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		logrus.Fatalf("AWS config load failed: %v", err)
	}
	sesClient = ses.NewFromConfig(cfg)
}

// generic SES sender
func sendEmail(to string, subject string, body string) error {
	if sesClient == nil {
		return errors.New("SES client not initialized")
	}
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
		Source: aws.String(os.Getenv("SES_EMAIL")),
	}

	_, err := sesClient.SendEmail(context.TODO(), input)
	if err != nil {
		logrus.Warnf("SES send error: %v", err)
		return fmt.Errorf("email send failed: %v", err)
	}
	return nil
}

// SendPaymentReceiptEmail confirms a membership purchase.
func SendPaymentReceiptEmail(to, packageName string, amount float64, transactionID string) error {
	subject := "Your membership receipt"
	body := fmt.Sprintf(
		"Thanks for upgrading!\n\nPackage: %s\nAmount: $%.2f\nTransaction: %s\n\nYour new membership is active now.",
		packageName, amount, transactionID,
	)
	return sendEmail(to, subject, body)
}

// SendDeliveryEmail tells a user their requested meal has been served.
func SendDeliveryEmail(to, mealTitle string) error {
	subject := "Your meal is on its way"
	body := fmt.Sprintf("Your requested meal %q has been marked delivered. Enjoy!", mealTitle)
	return sendEmail(to, subject, body)
}
