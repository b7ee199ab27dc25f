// pkg/email/email.go
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type ExpiryWarningData struct {
	StoreName  string
	PlanName   string
	DaysLeft   int
	ExpiryDate time.Time
}

type SubscriptionExpiredData struct {
	StoreName string
	PlanName  string
}

type PaymentReceiptData struct {
	StoreName   string
	Amount      float64
	Currency    string
	Method      string
	Reference   string
	PaymentDate time.Time
	PeriodEnd   *time.Time
}

func NewEmailService(apiKey, from string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      from,
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	log.Printf("Email sent to %s: %s", to, subject)
	return nil
}

// Email sending methods
func (s *EmailService) SendSubscriptionExpiryWarning(email, storeName, planName string, daysLeft int, expiryDate time.Time) error {
	data := ExpiryWarningData{
		StoreName:  storeName,
		PlanName:   planName,
		DaysLeft:   daysLeft,
		ExpiryDate: expiryDate,
	}

	subject := fmt.Sprintf("Your VentaPOS subscription expires in %d days", daysLeft)
	return s.sendTemplateEmail(email, subject, "expiry_warning.html", data)
}

func (s *EmailService) SendSubscriptionExpiredEmail(email, storeName, planName string) error {
	data := SubscriptionExpiredData{
		StoreName: storeName,
		PlanName:  planName,
	}
	return s.sendTemplateEmail(email, "Your VentaPOS subscription has expired", "subscription_expired.html", data)
}

func (s *EmailService) SendPaymentReceipt(email, storeName string, amount float64, currency, method, reference string, paymentDate time.Time, periodEnd *time.Time) error {
	data := PaymentReceiptData{
		StoreName:   storeName,
		Amount:      amount,
		Currency:    currency,
		Method:      method,
		Reference:   reference,
		PaymentDate: paymentDate,
		PeriodEnd:   periodEnd,
	}
	return s.sendTemplateEmail(email, "Your VentaPOS payment receipt", "payment_receipt.html", data)
}
