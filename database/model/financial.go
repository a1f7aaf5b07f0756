package model

import "time"

const BankNameMaxLength = 255

const BankAccountNumberMaxLength = 255

// Bank is a financial institution accounts belong to.
type Bank struct {
	Id   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:255;not null"`
}

// BankAccount holds money at a bank. Balance is minor currency units and
// is always 0 at creation; no operation mutates it directly.
type BankAccount struct {
	Id                int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	BankAccountNumber string    `json:"bankAccountNumber" gorm:"size:255;not null"`
	Balance           int64     `json:"balance" gorm:"not null;default:0"`
	Currency          string    `json:"currency" gorm:"size:3;not null"`
	LastUpdate        time.Time `json:"lastUpdate"`
	BankId            int64     `json:"bankId" gorm:"not null;index"`
}

// BankAccountOwner is the resource-level ACL: a user is a direct owner of
// an account iff such a row exists.
type BankAccountOwner struct {
	BankAccountId int64 `json:"bankAccountId" gorm:"primaryKey;autoIncrement:false"`
	UserId        int64 `json:"userId" gorm:"primaryKey;autoIncrement:false"`
}

// CardType discriminates bank card variants.
type CardType string

const (
	CreditCard CardType = "credit"
	DebitCard  CardType = "debit"
)

// BankCard is a card issued against a bank account. Credit and debit
// variants share one table with a discriminator column.
type BankCard struct {
	Id            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CardType      CardType  `json:"cardType" gorm:"size:10;not null;index"`
	CardNumber    string    `json:"cardNumber" gorm:"size:50;not null"`
	CCV           string    `json:"-" gorm:"size:10"`
	PIN           string    `json:"-" gorm:"size:10"`
	Expires       time.Time `json:"expires"`
	OwnerId       int64     `json:"ownerId" gorm:"not null;index"`
	BankAccountId int64     `json:"bankAccountId" gorm:"not null;index"`
}

// OperationType discriminates account operation variants.
type OperationType string

const (
	BankTransferOperation OperationType = "transfer"
	CreditCardOperation   OperationType = "credit_card"
	DebitCardOperation    OperationType = "debit_card"
)

// Operation is a movement recorded against an account. Persisted model
// only: ledger correctness is out of scope for this core and nothing
// mutates balances from it.
type Operation struct {
	Id                    int64         `json:"id" gorm:"primaryKey;autoIncrement"`
	OperationType         OperationType `json:"operationType" gorm:"size:20;not null;index"`
	Amount                int64         `json:"amount" gorm:"not null"`
	Concept               string        `json:"concept" gorm:"size:255"`
	Date                  time.Time     `json:"date"`
	BankAccountId         int64         `json:"bankAccountId" gorm:"not null;index"`
	CardId                *int64        `json:"cardId"`
	CounterpartyAccountId *int64        `json:"counterpartyAccountId"`
}
