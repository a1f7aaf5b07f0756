package service

import (
	"testing"

	"household-economy/database"
	"household-economy/database/model"

	"github.com/stretchr/testify/assert"
)

func newAccount(t *testing.T, bankId int64, ownerIds ...int64) *model.BankAccount {
	t.Helper()
	service := BankAccountService{}
	result := service.CreateBankAccount(i64(model.SystemUserId), &BankAccountData{
		BankAccountNumber: str("ES12 3456 7890"),
		Currency:          str("EUR"),
		BankId:            i64(bankId),
	}, ownerIds)
	if !result.Valid() {
		t.Fatalf("create account failed with code %d", result.Code())
	}
	account := result.Value()
	return &account
}

func TestCreateBankAccount(t *testing.T) {
	setup()
	defer teardown()

	service := BankAccountService{}
	bank := newBank(t, "Acme")
	owner := newUser(t, "owner", i64(model.SystemUserId))
	coOwner := newUser(t, "co-owner", i64(model.SystemUserId))
	grant(t, owner.Id, model.AddBankAccount)

	valid := func() *BankAccountData {
		return &BankAccountData{
			BankAccountNumber: str("ES12 3456 7890"),
			Currency:          str("EUR"),
			BankId:            i64(bank.Id),
		}
	}

	result := service.CreateBankAccount(nil, valid(), []int64{owner.Id})
	assert.Equal(t, 2, result.Code())
	result = service.CreateBankAccount(i64(owner.Id), nil, []int64{owner.Id})
	assert.Equal(t, 3, result.Code())

	data := valid()
	data.BankAccountNumber = str("  ")
	result = service.CreateBankAccount(i64(owner.Id), data, []int64{owner.Id})
	assert.Equal(t, 4, result.Code())

	data = valid()
	data.Currency = nil
	result = service.CreateBankAccount(i64(owner.Id), data, []int64{owner.Id})
	assert.Equal(t, 6, result.Code())

	data = valid()
	data.Currency = str("EURO")
	result = service.CreateBankAccount(i64(owner.Id), data, []int64{owner.Id})
	assert.Equal(t, 7, result.Code())

	data = valid()
	data.BankId = nil
	result = service.CreateBankAccount(i64(owner.Id), data, []int64{owner.Id})
	assert.Equal(t, 8, result.Code())

	data = valid()
	data.BankId = i64(99999)
	result = service.CreateBankAccount(i64(owner.Id), data, []int64{owner.Id})
	assert.Equal(t, 8, result.Code())

	// Owner set must be non-empty and fully resolvable.
	result = service.CreateBankAccount(i64(owner.Id), valid(), nil)
	assert.Equal(t, 9, result.Code())
	result = service.CreateBankAccount(i64(owner.Id), valid(), []int64{owner.Id, 99999})
	assert.Equal(t, 9, result.Code())

	// Permission check.
	result = service.CreateBankAccount(i64(coOwner.Id), valid(), []int64{coOwner.Id})
	assert.Equal(t, 10, result.Code())

	// No account and no owner links survive the failed attempts.
	db := database.GetDB()
	var accounts, links int64
	db.Model(model.BankAccount{}).Count(&accounts)
	db.Model(model.BankAccountOwner{}).Count(&links)
	assert.Equal(t, int64(0), accounts)
	assert.Equal(t, int64(0), links)

	result = service.CreateBankAccount(i64(owner.Id), valid(), []int64{owner.Id, coOwner.Id})
	assert.True(t, result.Valid())
	account := result.Value()
	assert.Equal(t, int64(0), account.Balance)
	assert.Equal(t, "EUR", account.Currency)
	assert.Equal(t, bank.Id, account.BankId)

	owners, err := service.getBankAccountOwners(account.Id)
	assert.NoError(t, err)
	assert.Len(t, owners, 2)
}

func TestGetBankAccountComplete(t *testing.T) {
	setup()
	defer teardown()

	service := BankAccountService{}
	bank := newBank(t, "Acme")
	owner := newUser(t, "owner", i64(model.SystemUserId))
	stranger := newUser(t, "stranger", i64(model.SystemUserId))
	account := newAccount(t, bank.Id, owner.Id)

	result := service.GetBankAccountComplete(nil, i64(account.Id))
	assert.Equal(t, 2, result.Code())
	result = service.GetBankAccountComplete(i64(owner.Id), nil)
	assert.Equal(t, 3, result.Code())
	result = service.GetBankAccountComplete(i64(owner.Id), i64(99999))
	assert.Equal(t, 3, result.Code())

	// An owner still needs the grant.
	result = service.GetBankAccountComplete(i64(owner.Id), i64(account.Id))
	assert.Equal(t, 4, result.Code())

	grant(t, owner.Id, model.GetBankAccount)
	result = service.GetBankAccountComplete(i64(owner.Id), i64(account.Id))
	assert.True(t, result.Valid())
	complete := result.Value()
	assert.Equal(t, "Acme", complete.Bank.Name)
	assert.Len(t, complete.Owners, 1)
	assert.Equal(t, owner.Id, complete.Owners[0].Id)

	// The grant alone does not open someone else's account.
	grant(t, stranger.Id, model.GetBankAccount)
	result = service.GetBankAccountComplete(i64(stranger.Id), i64(account.Id))
	assert.Equal(t, 4, result.Code())

	// SYSTEM bypasses the ownership check.
	result = service.GetBankAccountComplete(i64(model.SystemUserId), i64(account.Id))
	assert.True(t, result.Valid())
}

func TestGetOwnerBankAccounts(t *testing.T) {
	setup()
	defer teardown()

	service := BankAccountService{}
	bank := newBank(t, "Acme")
	owner := newUser(t, "owner", i64(model.SystemUserId))
	parent := newUser(t, "parent", i64(model.SystemUserId))
	newAccount(t, bank.Id, owner.Id)
	newAccount(t, bank.Id, owner.Id)

	result := service.GetOwnerBankAccounts(nil, i64(owner.Id))
	assert.Equal(t, 2, result.Code())
	result = service.GetOwnerBankAccounts(i64(owner.Id), i64(99999))
	assert.Equal(t, 3, result.Code())

	result = service.GetOwnerBankAccounts(i64(owner.Id), i64(owner.Id))
	assert.Equal(t, 4, result.Code())

	grant(t, owner.Id, model.GetBankAccount)
	result = service.GetOwnerBankAccounts(i64(owner.Id), i64(owner.Id))
	assert.True(t, result.Valid())
	assert.Len(t, result.Value(), 2)

	// Listing another user's accounts is not hierarchical: the grant on a
	// different user does not help.
	grant(t, parent.Id, model.GetBankAccount)
	result = service.GetOwnerBankAccounts(i64(parent.Id), i64(owner.Id))
	assert.Equal(t, 4, result.Code())

	result = service.GetOwnerBankAccounts(i64(model.SystemUserId), i64(owner.Id))
	assert.True(t, result.Valid())
	assert.Len(t, result.Value(), 2)
}

func TestEditBankAccount(t *testing.T) {
	setup()
	defer teardown()

	service := BankAccountService{}
	bank := newBank(t, "Acme")
	owner := newUser(t, "owner", i64(model.SystemUserId))
	stranger := newUser(t, "stranger", i64(model.SystemUserId))
	account := newAccount(t, bank.Id, owner.Id)

	result := service.EditBankAccount(nil, &BankAccountData{Id: i64(account.Id)})
	assert.Equal(t, 2, result.Code())
	result = service.EditBankAccount(i64(owner.Id), nil)
	assert.Equal(t, 3, result.Code())
	result = service.EditBankAccount(i64(owner.Id), &BankAccountData{})
	assert.Equal(t, 4, result.Code())
	result = service.EditBankAccount(i64(owner.Id), &BankAccountData{Id: i64(account.Id), BankAccountNumber: str(" ")})
	assert.Equal(t, 5, result.Code())
	result = service.EditBankAccount(i64(owner.Id), &BankAccountData{Id: i64(account.Id), Currency: str("X")})
	assert.Equal(t, 6, result.Code())
	result = service.EditBankAccount(i64(owner.Id), &BankAccountData{Id: i64(99999)})
	assert.Equal(t, 7, result.Code())

	grant(t, stranger.Id, model.EditBankAccount)
	result = service.EditBankAccount(i64(stranger.Id), &BankAccountData{Id: i64(account.Id), Currency: str("USD")})
	assert.Equal(t, 8, result.Code())

	grant(t, owner.Id, model.EditBankAccount)
	result = service.EditBankAccount(i64(owner.Id), &BankAccountData{
		Id:                i64(account.Id),
		BankAccountNumber: str("ES99 0000 1111"),
		Currency:          str("usd"),
	})
	assert.True(t, result.Valid())
	assert.Equal(t, "ES99 0000 1111", result.Value().BankAccountNumber)
	assert.Equal(t, "USD", result.Value().Currency)
	assert.False(t, result.Value().LastUpdate.Before(account.LastUpdate))
}

func TestDeleteBankAccountById(t *testing.T) {
	setup()
	defer teardown()

	service := BankAccountService{}
	bank := newBank(t, "Acme")
	owner := newUser(t, "owner", i64(model.SystemUserId))
	stranger := newUser(t, "stranger", i64(model.SystemUserId))
	account := newAccount(t, bank.Id, owner.Id)

	result := service.DeleteBankAccountById(nil, i64(account.Id))
	assert.Equal(t, 2, result.Code())
	result = service.DeleteBankAccountById(i64(owner.Id), nil)
	assert.Equal(t, 3, result.Code())
	result = service.DeleteBankAccountById(i64(owner.Id), i64(99999))
	assert.Equal(t, 4, result.Code())

	grant(t, stranger.Id, model.DeleteBankAccount)
	result = service.DeleteBankAccountById(i64(stranger.Id), i64(account.Id))
	assert.Equal(t, 5, result.Code())

	grant(t, owner.Id, model.DeleteBankAccount)
	result = service.DeleteBankAccountById(i64(owner.Id), i64(account.Id))
	assert.True(t, result.Valid())

	stored, err := service.findBankAccount(account.Id)
	assert.NoError(t, err)
	assert.Nil(t, stored)

	var links int64
	database.GetDB().Model(model.BankAccountOwner{}).
		Where("bank_account_id = ?", account.Id).Count(&links)
	assert.Equal(t, int64(0), links)
}
