package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

var ErrPaymentDeclined = errors.New("payment was declined")

type ChargeResult struct {
	ID     string
	Status string
	Paid   bool
}

// PaymentGateway charges a tokenized card.
type PaymentGateway interface {
	Charge(ctx context.Context, amount float64, cardToken string) (*ChargeResult, error)
}

type OmiseGateway struct {
	client   *omise.Client
	currency string
}

func NewOmiseGateway(publicKey, secretKey, currency string) (*OmiseGateway, error) {
	client, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("omise client init failed: %w", err)
	}
	return &OmiseGateway{client: client, currency: currency}, nil
}

// Charge creates a card charge for amount (in major units). A charge the
// card issuer refused is reported as ErrPaymentDeclined.
func (g *OmiseGateway) Charge(_ context.Context, amount float64, cardToken string) (*ChargeResult, error) {
	op := &operations.CreateCharge{
		Amount:   MinorUnits(amount),
		Currency: g.currency,
		Card:     cardToken,
	}

	charge := &omise.Charge{}
	if err := g.client.Do(charge, op); err != nil {
		return nil, fmt.Errorf("omise charge failed: %w", err)
	}

	res := &ChargeResult{ID: charge.ID, Status: fmt.Sprint(charge.Status), Paid: charge.Paid}
	log.Printf("[PAYMENT] charge %s status=%s paid=%t", res.ID, res.Status, res.Paid)
	if !res.Paid && res.Status == "failed" {
		return res, ErrPaymentDeclined
	}
	return res, nil
}

// MinorUnits converts 123.45 into 12345.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
