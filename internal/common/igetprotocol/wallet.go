package igetprotocol

import (
	"time"

	"github.com/shopspring/decimal"
)

type Balance struct {
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency,omitempty"`
}

type BalanceResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Data    Balance `json:"data"`
}

type Bank struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type BanksResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    []Bank `json:"data"`
}

type VerifyAccountRequest struct {
	AccountNumber string `json:"accountNumber"`
	BankCode      string `json:"bankCode"`
}

type VerifyAccountResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    struct {
		AccountName   string `json:"accountName"`
		AccountNumber string `json:"accountNumber"`
	} `json:"data"`
}

type WithdrawRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	AccountNumber string          `json:"accountNumber"`
	BankCode      string          `json:"bankCode"`
	AccountName   string          `json:"accountName,omitempty"`
}

type AfaRegistration struct {
	ID             string          `json:"_id,omitempty"`
	OrderReference string          `json:"orderReference,omitempty"`
	FullName       string          `json:"fullName"`
	PhoneNumber    string          `json:"phoneNumber"`
	IDType         string          `json:"idType"`
	IDNumber       string          `json:"idNumber"`
	DateOfBirth    string          `json:"dateOfBirth"`
	Occupation     string          `json:"occupation"`
	Location       string          `json:"location"`
	Capacity       float64         `json:"capacity,omitempty"`
	Price          decimal.Decimal `json:"price"`
	Status         string          `json:"status,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type AfaRegistrationsResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    []AfaRegistration `json:"data"`
}

// GenericResponse covers mutation endpoints whose payload the console does not inspect.
type GenericResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
