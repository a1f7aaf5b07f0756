package service

import (
	"strings"

	"household-economy/database"
	"household-economy/database/model"
	"household-economy/logger"
)

// BankService manages banks. Bank permissions are flat grants: no
// hierarchy or ownership is involved, only SYSTEM/ADMIN bypass.
type BankService struct {
	userService UserService
}

// BankData carries caller-supplied bank fields.
type BankData struct {
	Id   *int64  `json:"id"`
	Name *string `json:"name"`
}

func (s *BankService) findBank(id int64) (*model.Bank, error) {
	db := database.GetDB()
	bank := &model.Bank{}
	err := db.Model(model.Bank{}).Where("id = ?", id).First(bank).Error
	if database.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return bank, nil
}

// CreateBank creates a bank.
//
// Error codes:
//
//	-1 -> server error
//	 2 -> operation user not defined
//	 3 -> no permission to create a bank
//	 4 -> bank data not defined
//	 5 -> bank name not defined
//	 6 -> bank name not valid
func (s *BankService) CreateBank(actorId *int64, data *BankData) Result[model.Bank] {
	actor, err := s.userService.findUserRef(actorId)
	if err != nil {
		logger.Error("error getting operation user:", err)
		return Err[model.Bank](serverErr)
	}
	if actor == nil {
		return Err[model.Bank](2)
	}

	validation := validateBankCreationData(data)
	if !validation.Valid {
		logger.Warningf("error validating bank creation data (code=%d): %s", validation.ErrCode, validation.ErrMsg)
		return Err[model.Bank](validation.ErrCode + 3)
	}

	permissions, err := GetUserPermissions(actor)
	if err != nil {
		logger.Error("error getting user permissions:", err)
		return Err[model.Bank](serverErr)
	}
	if !isGod(permissions) && !contains(permissions, model.AddBank) {
		logger.Warningf("user %d has no permission to create a bank", actor.Id)
		return Err[model.Bank](3)
	}

	bank := &model.Bank{Name: *data.Name}
	db := database.GetDB()
	if err := db.Create(bank).Error; err != nil {
		logger.Error("error saving bank:", err)
		return Err[model.Bank](serverErr)
	}

	logger.Infof("bank %d created", bank.Id)
	return Ok(*bank)
}

// validateBankCreationData error codes: 1=data, 2=name missing, 3=name too long.
func validateBankCreationData(data *BankData) ValidationResult {
	if data == nil {
		return ValidationError(1, "bank data not defined")
	}
	if data.Name == nil || strings.TrimSpace(*data.Name) == "" {
		return ValidationError(2, "bank name not defined")
	}
	if len(*data.Name) > model.BankNameMaxLength {
		return ValidationError(3, "bank name too long (max length is 255)")
	}
	return ValidationOK()
}

// GetBankById returns a bank.
//
// Error codes:
//
//	-1 -> server error
//	 2 -> bank id not defined
//	 3 -> bank does not exist
//	 4 -> no permission to get bank info
//	 5 -> operation user not defined
func (s *BankService) GetBankById(actorId *int64, bankId *int64) Result[model.Bank] {
	actor, err := s.userService.findUserRef(actorId)
	if err != nil {
		logger.Error("error getting operation user:", err)
		return Err[model.Bank](serverErr)
	}
	if actor == nil {
		return Err[model.Bank](5)
	}
	if bankId == nil {
		return Err[model.Bank](2)
	}

	permissions, err := GetUserPermissions(actor)
	if err != nil {
		logger.Error("error getting user permissions:", err)
		return Err[model.Bank](serverErr)
	}
	if !isGod(permissions) && !contains(permissions, model.GetBank) {
		logger.Warningf("user %d has no permission to get bank info", actor.Id)
		return Err[model.Bank](4)
	}

	bank, err := s.findBank(*bankId)
	if err != nil {
		logger.Error("error getting bank:", err)
		return Err[model.Bank](serverErr)
	}
	if bank == nil {
		return Err[model.Bank](3)
	}

	return Ok(*bank)
}

// EditBank updates a bank's name.
//
// Error codes:
//
//	-1 -> server error
//	 2 -> operation user not defined
//	 3 -> no permission to edit this bank
//	 4 -> bank does not exist
//	 5 -> bank data not defined
//	 6 -> bank id not defined
//	 7 -> bank name not valid
func (s *BankService) EditBank(actorId *int64, data *BankData) Result[model.Bank] {
	actor, err := s.userService.findUserRef(actorId)
	if err != nil {
		logger.Error("error getting operation user:", err)
		return Err[model.Bank](serverErr)
	}
	if actor == nil {
		return Err[model.Bank](2)
	}

	validation := validateBankEditionData(data)
	if !validation.Valid {
		logger.Warningf("error validating bank edition data (code=%d): %s", validation.ErrCode, validation.ErrMsg)
		return Err[model.Bank](validation.ErrCode + 4)
	}

	permissions, err := GetUserPermissions(actor)
	if err != nil {
		logger.Error("error getting user permissions:", err)
		return Err[model.Bank](serverErr)
	}
	if !isGod(permissions) && !contains(permissions, model.EditBank) {
		logger.Warningf("user %d has no permission to edit a bank", actor.Id)
		return Err[model.Bank](3)
	}

	bank, err := s.findBank(*data.Id)
	if err != nil {
		logger.Error("error getting bank:", err)
		return Err[model.Bank](serverErr)
	}
	if bank == nil {
		return Err[model.Bank](4)
	}

	if data.Name != nil {
		bank.Name = *data.Name
	}
	db := database.GetDB()
	if err := db.Save(bank).Error; err != nil {
		logger.Error("error saving bank:", err)
		return Err[model.Bank](serverErr)
	}

	return Ok(*bank)
}

// validateBankEditionData error codes: 1=data, 2=id, 3=name invalid.
func validateBankEditionData(data *BankData) ValidationResult {
	if data == nil {
		return ValidationError(1, "bank data not defined")
	}
	if data.Id == nil {
		return ValidationError(2, "bank id not defined")
	}
	if data.Name != nil {
		if strings.TrimSpace(*data.Name) == "" {
			return ValidationError(3, "bank name cannot be blank")
		}
		if len(*data.Name) > model.BankNameMaxLength {
			return ValidationError(3, "bank name too long (max length is 255)")
		}
	}
	return ValidationOK()
}

// DeleteBankById deletes a bank.
//
// Error codes:
//
//	-1 -> server error
//	 2 -> bank id not defined
//	 3 -> bank does not exist
//	 4 -> no permission to delete this bank
//	 5 -> operation user not defined
func (s *BankService) DeleteBankById(actorId *int64, bankId *int64) Result[model.Bank] {
	actor, err := s.userService.findUserRef(actorId)
	if err != nil {
		logger.Error("error getting operation user:", err)
		return Err[model.Bank](serverErr)
	}
	if actor == nil {
		return Err[model.Bank](5)
	}
	if bankId == nil {
		return Err[model.Bank](2)
	}

	permissions, err := GetUserPermissions(actor)
	if err != nil {
		logger.Error("error getting user permissions:", err)
		return Err[model.Bank](serverErr)
	}
	if !isGod(permissions) && !contains(permissions, model.DeleteBank) {
		logger.Warningf("user %d has no permission to delete a bank", actor.Id)
		return Err[model.Bank](4)
	}

	bank, err := s.findBank(*bankId)
	if err != nil {
		logger.Error("error getting bank:", err)
		return Err[model.Bank](serverErr)
	}
	if bank == nil {
		return Err[model.Bank](3)
	}

	db := database.GetDB()
	if err := db.Delete(&model.Bank{}, bank.Id).Error; err != nil {
		logger.Error("error deleting bank:", err)
		return Err[model.Bank](serverErr)
	}

	logger.Infof("bank %d deleted", bank.Id)
	return Ok(*bank)
}
