package controller

import (
	"household-economy/web/service"

	"github.com/gin-gonic/gin"
)

// BankAccountController handles bank account management requests.
type BankAccountController struct {
	bankAccountService service.BankAccountService
}

// NewBankAccountController creates a BankAccountController and sets up
// its routes.
func NewBankAccountController(g *gin.RouterGroup) *BankAccountController {
	a := &BankAccountController{}
	a.initRouter(g)
	return a
}

func (a *BankAccountController) initRouter(g *gin.RouterGroup) {
	g.POST("/add", a.addBankAccount)
	g.GET("/get/:id", a.getBankAccount)
	g.GET("/byOwner/:id", a.getOwnerBankAccounts)
	g.POST("/update", a.updateBankAccount)
	g.POST("/del/:id", a.delBankAccount)
}

type addBankAccountForm struct {
	BankAccount service.BankAccountData `json:"bankAccount"`
	OwnerIds    []int64                 `json:"ownerIds"`
}

var addBankAccountMsgs = map[int]string{
	2:  "operation user not defined",
	3:  "bank account data not defined",
	4:  "bank account number not defined",
	5:  "bank account number not valid",
	6:  "currency not defined",
	7:  "currency not valid",
	8:  "bank not defined or does not exist",
	9:  "owners not defined or do not exist",
	10: "no permission to create this bank account",
}

func (a *BankAccountController) addBankAccount(c *gin.Context) {
	form := &addBankAccountForm{}
	if err := c.ShouldBind(form); err != nil {
		jsonMsg(c, "invalid bank account data", err)
		return
	}
	result := a.bankAccountService.CreateBankAccount(actorId(c), &form.BankAccount, form.OwnerIds)
	jsonResult(c, result, addBankAccountMsgs)
}

var getBankAccountMsgs = map[int]string{
	2: "operation user not defined",
	3: "bank account not defined or does not exist",
	4: "no permission to get this bank account",
}

// getBankAccount returns the account with its bank and owners.
func (a *BankAccountController) getBankAccount(c *gin.Context) {
	result := a.bankAccountService.GetBankAccountComplete(actorId(c), pathId(c))
	jsonResult(c, result, getBankAccountMsgs)
}

var ownerBankAccountsMsgs = map[int]string{
	2: "operation user not defined",
	3: "owner not defined or does not exist",
	4: "no permission to get this data",
}

func (a *BankAccountController) getOwnerBankAccounts(c *gin.Context) {
	result := a.bankAccountService.GetOwnerBankAccounts(actorId(c), pathId(c))
	jsonResult(c, result, ownerBankAccountsMsgs)
}

var updateBankAccountMsgs = map[int]string{
	2: "operation user not defined",
	3: "bank account data not defined",
	4: "bank account id not defined",
	5: "bank account number not valid",
	6: "currency not valid",
	7: "bank account does not exist",
	8: "no permission to edit this bank account",
}

func (a *BankAccountController) updateBankAccount(c *gin.Context) {
	data := &service.BankAccountData{}
	if err := c.ShouldBind(data); err != nil {
		jsonMsg(c, "invalid bank account data", err)
		return
	}
	jsonResult(c, a.bankAccountService.EditBankAccount(actorId(c), data), updateBankAccountMsgs)
}

var delBankAccountMsgs = map[int]string{
	2: "operation user not defined",
	3: "bank account id not defined",
	4: "bank account does not exist",
	5: "no permission to delete this bank account",
}

func (a *BankAccountController) delBankAccount(c *gin.Context) {
	result := a.bankAccountService.DeleteBankAccountById(actorId(c), pathId(c))
	jsonResult(c, result, delBankAccountMsgs)
}
