package service

import (
	"strings"
	"time"

	"household-economy/database"
	"household-economy/database/model"
	"household-economy/logger"

	"gorm.io/gorm"
)

// BankAccountService manages bank accounts and their owner ACL. Account
// access is granted by direct ownership only: ancestor reach-through is
// deliberately not honored here, unlike the user-entity permissions.
type BankAccountService struct {
	userService UserService
}

// BankAccountData carries caller-supplied bank account fields.
type BankAccountData struct {
	Id                *int64  `json:"id"`
	BankAccountNumber *string `json:"bankAccountNumber"`
	Currency          *string `json:"currency"`
	BankId            *int64  `json:"bankId"`
}

// BankAccountComplete is the full read model of an account: the account
// row plus its bank and its direct owners.
type BankAccountComplete struct {
	BankAccount model.BankAccount `json:"bankAccount"`
	Bank        model.Bank        `json:"bank"`
	Owners      []model.User      `json:"owners"`
}

func (s *BankAccountService) findBankAccount(id int64) (*model.BankAccount, error) {
	db := database.GetDB()
	account := &model.BankAccount{}
	err := db.Model(model.BankAccount{}).Where("id = ?", id).First(account).Error
	if database.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return account, nil
}

// getBankAccountOwners loads the direct-owner set of an account.
func (s *BankAccountService) getBankAccountOwners(accountId int64) ([]model.User, error) {
	db := database.GetDB()
	var owners []model.User
	err := db.Model(&model.User{}).
		Joins("JOIN bank_account_owners ON bank_account_owners.user_id = users.id").
		Where("bank_account_owners.bank_account_id = ?", accountId).
		Find(&owners).Error
	if err != nil {
		return nil, err
	}
	return owners, nil
}

func ownersContain(owners []model.User, userId int64) bool {
	for _, owner := range owners {
		if owner.Id == userId {
			return true
		}
	}
	return false
}

// CreateBankAccount creates an account and one owner row per supplied
// owner, all inside a single transaction: either the account and every
// owner link exist afterwards, or nothing does.
//
// Error codes:
//
//	-1 -> server error
//	 2 -> operation user not defined
//	 3 -> bank account data not defined
//	 4 -> bank account number not defined
//	 5 -> bank account number not valid
//	 6 -> currency not defined
//	 7 -> currency not valid
//	 8 -> bank not defined or does not exist
//	 9 -> owners not defined or do not exist (all owners must exist)
//	10 -> no permission to create this bank account
func (s *BankAccountService) CreateBankAccount(actorId *int64, data *BankAccountData, ownerIds []int64) Result[model.BankAccount] {
	actor, err := s.userService.findUserRef(actorId)
	if err != nil {
		logger.Error("error getting operation user:", err)
		return Err[model.BankAccount](serverErr)
	}
	if actor == nil {
		return Err[model.BankAccount](2)
	}

	validation := validateBankAccountCreation(data, ownerIds)
	if !validation.Valid {
		logger.Warningf("error validating bank account creation data (code=%d): %s", validation.ErrCode, validation.ErrMsg)
		return Err[model.BankAccount](validation.ErrCode + 2)
	}

	permissions, err := GetUserPermissions(actor)
	if err != nil {
		logger.Error("error getting user permissions:", err)
		return Err[model.BankAccount](serverErr)
	}
	if !isGod(permissions) && !contains(permissions, model.AddBankAccount) {
		logger.Warningf("user %d has no permission to create a bank account", actor.Id)
		return Err[model.BankAccount](10)
	}

	db := database.GetDB()

	var owners []model.User
	err = db.Model(model.User{}).Where("id IN ?", ownerIds).Find(&owners).Error
	if err != nil {
		logger.Error("error searching bank account owners:", err)
		return Err[model.BankAccount](serverErr)
	}
	if len(owners) != len(uniqueIds(ownerIds)) {
		return Err[model.BankAccount](9)
	}

	var bank model.Bank
	err = db.Model(model.Bank{}).Where("id = ?", *data.BankId).First(&bank).Error
	if database.IsNotFound(err) {
		return Err[model.BankAccount](8)
	} else if err != nil {
		logger.Error("error getting bank account's bank:", err)
		return Err[model.BankAccount](serverErr)
	}

	account := &model.BankAccount{
		BankAccountNumber: *data.BankAccountNumber,
		Balance:           0,
		Currency:          strings.ToUpper(*data.Currency),
		LastUpdate:        time.Now().UTC(),
		BankId:            bank.Id,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		for _, owner := range owners {
			link := &model.BankAccountOwner{
				BankAccountId: account.Id,
				UserId:        owner.Id,
			}
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("error creating bank account:", err)
		return Err[model.BankAccount](serverErr)
	}

	logger.Infof("bank account %d created with %d owners", account.Id, len(owners))
	return Ok(*account)
}

// validateBankAccountCreation error codes: 1=data, 2=number missing,
// 3=number invalid, 4=currency missing, 5=currency invalid, 6=bank,
// 7=owners.
func validateBankAccountCreation(data *BankAccountData, ownerIds []int64) ValidationResult {
	if data == nil {
		return ValidationError(1, "bank account data not defined")
	}
	if data.BankAccountNumber == nil || strings.TrimSpace(*data.BankAccountNumber) == "" {
		return ValidationError(2, "bank account number not defined")
	}
	if len(*data.BankAccountNumber) > model.BankAccountNumberMaxLength {
		return ValidationError(3, "bank account number not valid")
	}
	if data.Currency == nil || strings.TrimSpace(*data.Currency) == "" {
		return ValidationError(4, "bank account's currency not defined")
	}
	if !isValidCurrency(*data.Currency) {
		return ValidationError(5, "bank account's currency not valid")
	}
	if data.BankId == nil {
		return ValidationError(6, "bank account's bank not defined")
	}
	if len(ownerIds) == 0 {
		return ValidationError(7, "bank account's owners not defined")
	}
	return ValidationOK()
}

// isValidCurrency accepts ISO 4217 alphabetic codes (three letters).
func isValidCurrency(currency string) bool {
	if len(currency) != 3 {
		return false
	}
	for _, r := range currency {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

func uniqueIds(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// GetBankAccountComplete returns an account with its bank and owners.
// Only SYSTEM/ADMIN or a direct owner holding GET_BANK_ACCOUNT may read
// it; an account of a descendant user is not reachable through ancestry.
//
// Error codes:
//
//	-1 -> server error
//	 2 -> operation user not defined
//	 3 -> bank account not defined or does not exist
//	 4 -> no permission to get this bank account
func (s *BankAccountService) GetBankAccountComplete(actorId *int64, accountId *int64) Result[BankAccountComplete] {
	actor, err := s.userService.findUserRef(actorId)
	if err != nil {
		logger.Error("error getting operation user:", err)
		return Err[BankAccountComplete](serverErr)
	}
	if actor == nil {
		return Err[BankAccountComplete](2)
	}
	if accountId == nil {
		return Err[BankAccountComplete](3)
	}

	account, err := s.findBankAccount(*accountId)
	if err != nil {
		logger.Error("error getting bank account:", err)
		return Err[BankAccountComplete](serverErr)
	}
	if account == nil {
		return Err[BankAccountComplete](3)
	}

	owners, err := s.getBankAccountOwners(account.Id)
	if err != nil {
		logger.Error("error getting bank account owners:", err)
		return Err[BankAccountComplete](serverErr)
	}

	permissions, err := GetUserPermissions(actor)
	if err != nil {
		logger.Error("error getting user permissions:", err)
		return Err[BankAccountComplete](serverErr)
	}
	if !canAccessAccount(actor, permissions, model.GetBankAccount, owners) {
		logger.Warningf("user %d has no permission to get bank account %d", actor.Id, account.Id)
		return Err[BankAccountComplete](4)
	}

	db := database.GetDB()
	var bank model.Bank
	if err := db.Model(model.Bank{}).Where("id = ?", account.BankId).First(&bank).Error; err != nil {
		logger.Error("error getting bank account's bank:", err)
		return Err[BankAccountComplete](serverErr)
	}

	return Ok(BankAccountComplete{
		BankAccount: *account,
		Bank:        bank,
		Owners:      owners,
	})
}

// canAccessAccount: SYSTEM/ADMIN always; otherwise the named account
// permission plus membership in the direct-owner set.
func canAccessAccount(actor *model.User, permissions []model.Permission, required model.Permission, owners []model.User) bool {
	if isGod(permissions) {
		return true
	}
	return contains(permissions, required) && ownersContain(owners, actor.Id)
}

// GetOwnerBankAccounts lists the accounts a user directly owns. Only
// SYSTEM/ADMIN may list another user's accounts; a user may list their
// own with GET_BANK_ACCOUNT.
//
// Error codes:
//
//	-1 -> server error
//	 2 -> operation user not defined or does not exist
//	 3 -> owner not defined or does not exist
//	 4 -> no permission to get this data
func (s *BankAccountService) GetOwnerBankAccounts(actorId *int64, ownerId *int64) Result[[]model.BankAccount] {
	actor, err := s.userService.findUserRef(actorId)
	if err != nil {
		logger.Error("error getting operation user:", err)
		return Err[[]model.BankAccount](serverErr)
	}
	if actor == nil {
		return Err[[]model.BankAccount](2)
	}

	owner, err := s.userService.findUserRef(ownerId)
	if err != nil {
		logger.Error("error getting owner:", err)
		return Err[[]model.BankAccount](serverErr)
	}
	if owner == nil {
		return Err[[]model.BankAccount](3)
	}

	permissions, err := GetUserPermissions(actor)
	if err != nil {
		logger.Error("error getting user permissions:", err)
		return Err[[]model.BankAccount](serverErr)
	}
	allowed := isGod(permissions) ||
		(actor.Id == owner.Id && contains(permissions, model.GetBankAccount))
	if !allowed {
		logger.Warningf("user %d has no permission to get bank accounts of user %d", actor.Id, owner.Id)
		return Err[[]model.BankAccount](4)
	}

	db := database.GetDB()
	var accounts []model.BankAccount
	err = db.Model(&model.BankAccount{}).
		Joins("JOIN bank_account_owners ON bank_account_owners.bank_account_id = bank_accounts.id").
		Where("bank_account_owners.user_id = ?", owner.Id).
		Find(&accounts).Error
	if err != nil {
		logger.Error("error getting owner bank accounts:", err)
		return Err[[]model.BankAccount](serverErr)
	}

	return Ok(accounts)
}

// EditBankAccount updates an account's number and currency. The balance
// is never settable. Permission follows the account ACL: SYSTEM/ADMIN or
// a direct owner holding EDIT_BANK_ACCOUNT.
//
// Error codes:
//
//	-1 -> server error
//	 2 -> operation user not defined
//	 3 -> bank account data not defined
//	 4 -> bank account id not defined
//	 5 -> bank account number not valid
//	 6 -> currency not valid
//	 7 -> bank account does not exist
//	 8 -> no permission to edit this bank account
func (s *BankAccountService) EditBankAccount(actorId *int64, data *BankAccountData) Result[model.BankAccount] {
	actor, err := s.userService.findUserRef(actorId)
	if err != nil {
		logger.Error("error getting operation user:", err)
		return Err[model.BankAccount](serverErr)
	}
	if actor == nil {
		return Err[model.BankAccount](2)
	}
	if data == nil {
		return Err[model.BankAccount](3)
	}
	if data.Id == nil {
		return Err[model.BankAccount](4)
	}
	if data.BankAccountNumber != nil {
		if strings.TrimSpace(*data.BankAccountNumber) == "" ||
			len(*data.BankAccountNumber) > model.BankAccountNumberMaxLength {
			return Err[model.BankAccount](5)
		}
	}
	if data.Currency != nil && !isValidCurrency(*data.Currency) {
		return Err[model.BankAccount](6)
	}

	account, err := s.findBankAccount(*data.Id)
	if err != nil {
		logger.Error("error getting bank account:", err)
		return Err[model.BankAccount](serverErr)
	}
	if account == nil {
		return Err[model.BankAccount](7)
	}

	owners, err := s.getBankAccountOwners(account.Id)
	if err != nil {
		logger.Error("error getting bank account owners:", err)
		return Err[model.BankAccount](serverErr)
	}

	permissions, err := GetUserPermissions(actor)
	if err != nil {
		logger.Error("error getting user permissions:", err)
		return Err[model.BankAccount](serverErr)
	}
	if !canAccessAccount(actor, permissions, model.EditBankAccount, owners) {
		logger.Warningf("user %d has no permission to edit bank account %d", actor.Id, account.Id)
		return Err[model.BankAccount](8)
	}

	if data.BankAccountNumber != nil {
		account.BankAccountNumber = *data.BankAccountNumber
	}
	if data.Currency != nil {
		account.Currency = strings.ToUpper(*data.Currency)
	}
	account.LastUpdate = time.Now().UTC()

	db := database.GetDB()
	if err := db.Save(account).Error; err != nil {
		logger.Error("error saving bank account:", err)
		return Err[model.BankAccount](serverErr)
	}

	return Ok(*account)
}

// DeleteBankAccountById deletes an account and its owner rows in one
// transaction.
//
// Error codes:
//
//	-1 -> server error
//	 2 -> operation user not defined
//	 3 -> bank account id not defined
//	 4 -> bank account does not exist
//	 5 -> no permission to delete this bank account
func (s *BankAccountService) DeleteBankAccountById(actorId *int64, accountId *int64) Result[model.BankAccount] {
	actor, err := s.userService.findUserRef(actorId)
	if err != nil {
		logger.Error("error getting operation user:", err)
		return Err[model.BankAccount](serverErr)
	}
	if actor == nil {
		return Err[model.BankAccount](2)
	}
	if accountId == nil {
		return Err[model.BankAccount](3)
	}

	account, err := s.findBankAccount(*accountId)
	if err != nil {
		logger.Error("error getting bank account:", err)
		return Err[model.BankAccount](serverErr)
	}
	if account == nil {
		return Err[model.BankAccount](4)
	}

	owners, err := s.getBankAccountOwners(account.Id)
	if err != nil {
		logger.Error("error getting bank account owners:", err)
		return Err[model.BankAccount](serverErr)
	}

	permissions, err := GetUserPermissions(actor)
	if err != nil {
		logger.Error("error getting user permissions:", err)
		return Err[model.BankAccount](serverErr)
	}
	if !canAccessAccount(actor, permissions, model.DeleteBankAccount, owners) {
		logger.Warningf("user %d has no permission to delete bank account %d", actor.Id, account.Id)
		return Err[model.BankAccount](5)
	}

	db := database.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("bank_account_id = ?", account.Id).Delete(&model.BankAccountOwner{})
		if result.Error != nil {
			return result.Error
		}
		logger.Infof("bank account owners deleted: %d", result.RowsAffected)
		return tx.Delete(&model.BankAccount{}, account.Id).Error
	})
	if err != nil {
		logger.Error("error deleting bank account:", err)
		return Err[model.BankAccount](serverErr)
	}

	logger.Infof("bank account %d deleted", account.Id)
	return Ok(*account)
}
