package service

import (
	"strings"
	"time"

	"household-economy/database"
	"household-economy/database/model"
	"household-economy/logger"
)

// CardService manages bank cards attached to accounts.
type CardService struct {
	userService        UserService
	bankAccountService BankAccountService
}

// CardData carries caller-supplied card fields.
type CardData struct {
	CardNumber    *string    `json:"cardNumber"`
	CCV           *string    `json:"ccv"`
	PIN           *string    `json:"pin"`
	Expires       *time.Time `json:"expires"`
	OwnerId       *int64     `json:"ownerId"`
	BankAccountId *int64     `json:"bankAccountId"`
}

// CreateCreditCard creates a credit card for an owner on an account. Any
// authenticated user may issue one; there is no card permission to hold.
//
// Error codes:
//
//	-1 -> server error
//	 2 -> operation user not defined
//	 3 -> card data not defined
//	 4 -> card number not defined
//	 5 -> card expiration not defined
//	 6 -> card owner not defined or does not exist
//	 7 -> bank account not defined or does not exist
func (s *CardService) CreateCreditCard(actorId *int64, data *CardData) Result[model.BankCard] {
	actor, err := s.userService.findUserRef(actorId)
	if err != nil {
		logger.Error("error getting operation user:", err)
		return Err[model.BankCard](serverErr)
	}
	if actor == nil {
		return Err[model.BankCard](2)
	}
	if data == nil {
		return Err[model.BankCard](3)
	}
	if data.CardNumber == nil || strings.TrimSpace(*data.CardNumber) == "" {
		return Err[model.BankCard](4)
	}
	if data.Expires == nil {
		return Err[model.BankCard](5)
	}

	owner, err := s.userService.findUserRef(data.OwnerId)
	if err != nil {
		logger.Error("error getting card owner:", err)
		return Err[model.BankCard](serverErr)
	}
	if owner == nil {
		return Err[model.BankCard](6)
	}

	if data.BankAccountId == nil {
		return Err[model.BankCard](7)
	}
	account, err := s.bankAccountService.findBankAccount(*data.BankAccountId)
	if err != nil {
		logger.Error("error getting card's bank account:", err)
		return Err[model.BankCard](serverErr)
	}
	if account == nil {
		return Err[model.BankCard](7)
	}

	card := &model.BankCard{
		CardType:      model.CreditCard,
		CardNumber:    *data.CardNumber,
		Expires:       data.Expires.UTC(),
		OwnerId:       owner.Id,
		BankAccountId: account.Id,
	}
	if data.CCV != nil {
		card.CCV = *data.CCV
	}
	if data.PIN != nil {
		card.PIN = *data.PIN
	}

	db := database.GetDB()
	if err := db.Create(card).Error; err != nil {
		logger.Error("error saving credit card:", err)
		return Err[model.BankCard](serverErr)
	}

	logger.Infof("credit card %d created for user %d on account %d", card.Id, owner.Id, account.Id)
	return Ok(*card)
}
