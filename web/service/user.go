package service

import (
	"strings"

	"household-economy/database"
	"household-economy/database/model"
	"household-economy/logger"
	"household-economy/util/crypto"

	"gorm.io/gorm"
)

const minPasswordLength = 10

// UserService manages users and the parent/child hierarchy.
type UserService struct{}

// UserCreateData carries the caller-supplied fields for a new user.
type UserCreateData struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// UserEditData carries a partial user edit; nil fields are left untouched.
type UserEditData struct {
	Id        *int64  `json:"id"`
	Username  *string `json:"username"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
}

func (s *UserService) findUser(id int64) (*model.User, error) {
	db := database.GetDB()
	user := &model.User{}
	err := db.Model(model.User{}).Where("id = ?", id).First(user).Error
	if database.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) findUserRef(id *int64) (*model.User, error) {
	if id == nil {
		return nil, nil
	}
	return s.findUser(*id)
}

func (s *UserService) findUserByUsername(username string) (*model.User, error) {
	db := database.GetDB()
	user := &model.User{}
	err := db.Model(model.User{}).Where("username = ?", username).First(user).Error
	if database.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser signs up an independent user. The new user hangs from the
// system user, which also acts as the operation actor.
func (s *UserService) CreateUser(data *UserCreateData) Result[model.User] {
	if data == nil {
		return Err[model.User](3)
	}

	systemUser, err := s.findUser(model.SystemUserId)
	if err != nil {
		logger.Error("error getting system user:", err)
		return Err[model.User](serverErr)
	}

	systemUserId := model.SystemUserId
	user := &model.User{
		Username:     data.Username,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		Email:        data.Email,
		ParentUserId: &systemUserId,
	}
	return s.createUser(systemUser, user, data.Password)
}

// CreateUserOfOther creates a user hanging from another user.
func (s *UserService) CreateUserOfOther(actorId *int64, data *UserCreateData, parentUserId *int64) Result[model.User] {
	actor, err := s.findUserRef(actorId)
	if err != nil {
		logger.Error("error getting operation user:", err)
		return Err[model.User](serverErr)
	}

	if data == nil {
		return Err[model.User](3)
	}

	user := &model.User{
		Username:     data.Username,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		Email:        data.Email,
		ParentUserId: parentUserId,
	}
	return s.createUser(actor, user, data.Password)
}

// createUser validates and persists a new user.
//
// Error codes:
//
//	-1 -> server error
//	 2 -> operation user not defined
//	 3 -> user data not defined
//	 4 -> no permission to create this user
//	 5 -> username not defined
//	 6 -> username not valid
//	 7 -> password not defined
//	 8 -> password not valid
//	 9 -> first name not defined
//	10 -> email not defined
//	11 -> email not valid
//	12 -> username or email already registered
func (s *UserService) createUser(actor *model.User, user *model.User, password string) Result[model.User] {
	if actor == nil {
		return Err[model.User](2)
	}
	if user == nil {
		return Err[model.User](3)
	}

	permissions, err := GetUserPermissions(actor)
	if err != nil {
		logger.Error("error getting user permissions:", err)
		return Err[model.User](serverErr)
	}

	// An independent user cannot be created through this path.
	parent, err := s.findUserRef(user.ParentUserId)
	if err != nil {
		logger.Error("error getting parent user:", err)
		return Err[model.User](serverErr)
	}
	if parent == nil {
		return Err[model.User](4)
	}

	allowed, err := hasHierarchicalPermission(actor, permissions, model.AddUser, model.AddAllUser, user, parent)
	if err != nil {
		logger.Error("error checking user creation permission:", err)
		return Err[model.User](serverErr)
	}
	if !allowed {
		logger.Warningf("user %d has no permission to create a user under user %d", actor.Id, parent.Id)
		return Err[model.User](4)
	}

	if strings.TrimSpace(user.Username) == "" {
		return Err[model.User](5)
	}
	if strings.Contains(user.Username, "@") {
		return Err[model.User](6)
	}
	if strings.TrimSpace(password) == "" {
		return Err[model.User](7)
	}
	if len(password) < minPasswordLength {
		return Err[model.User](8)
	}
	if strings.TrimSpace(user.FirstName) == "" {
		return Err[model.User](9)
	}
	if strings.TrimSpace(user.Email) == "" {
		return Err[model.User](10)
	}
	if !strings.Contains(user.Email, "@") {
		return Err[model.User](11)
	}

	db := database.GetDB()
	var count int64
	err = db.Model(model.User{}).
		Where("username = ? OR email = ?", user.Username, user.Email).
		Count(&count).Error
	if err != nil {
		logger.Error("error checking username/email uniqueness:", err)
		return Err[model.User](serverErr)
	}
	if count > 0 {
		return Err[model.User](12)
	}

	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		logger.Error("error hashing user password:", err)
		return Err[model.User](serverErr)
	}
	user.Password = hash

	if err := db.Create(user).Error; err != nil {
		logger.Error("error saving user:", err)
		return Err[model.User](serverErr)
	}

	logger.Infof("user %d created under user %d", user.Id, parent.Id)
	return Ok(*user)
}

// GetUserById returns a user's data.
//
// Error codes:
//
//	-1 -> server error
//	 1 -> operation user not defined
//	 2 -> user id not defined
//	 3 -> no permission to get this user
//	 4 -> user does not exist
func (s *UserService) GetUserById(actorId *int64, userId *int64) Result[model.User] {
	actor, err := s.findUserRef(actorId)
	if err != nil {
		logger.Error("error getting operation user:", err)
		return Err[model.User](serverErr)
	}
	if actor == nil {
		return Err[model.User](1)
	}
	if userId == nil {
		return Err[model.User](2)
	}

	permissions, err := GetUserPermissions(actor)
	if err != nil {
		logger.Error("error getting user permissions:", err)
		return Err[model.User](serverErr)
	}

	// When the target does not exist the permission check runs against a
	// system-parented stand-in, so callers without reach get the auth
	// error and cannot probe for existence.
	user, err := s.findUser(*userId)
	if err != nil {
		logger.Error("error getting user:", err)
		return Err[model.User](serverErr)
	}
	exists := user != nil
	if !exists {
		systemUserId := model.SystemUserId
		user = &model.User{Id: 0, ParentUserId: &systemUserId}
	}

	parent, err := s.findUserRef(user.ParentUserId)
	if err != nil {
		logger.Error("error getting parent user:", err)
		return Err[model.User](serverErr)
	}

	allowed, err := hasHierarchicalPermission(actor, permissions, model.GetUser, model.GetAllUser, user, parent)
	if err != nil {
		logger.Error("error checking user access permission:", err)
		return Err[model.User](serverErr)
	}
	if !allowed {
		logger.Warningf("user %d has no permission to see user %d", actor.Id, *userId)
		return Err[model.User](3)
	}

	if !exists {
		return Err[model.User](4)
	}
	return Ok(*user)
}

// SetUser edits a user. Nil fields in data are left untouched; changing
// the email resets its validated flag.
//
// Error codes:
//
//	-1 -> server error
//	 2 -> operation user not defined
//	 3 -> user to edit not defined
//	 4 -> no permission to edit this user
//	 5 -> username cannot be blank
//	 6 -> username not valid
//	 7 -> first name cannot be blank
//	 8 -> email cannot be blank
//	 9 -> email not valid
//	10 -> username already in use
//	11 -> email already in use
func (s *UserService) SetUser(actorId *int64, data *UserEditData) Result[model.User] {
	actor, err := s.findUserRef(actorId)
	if err != nil {
		logger.Error("error getting operation user:", err)
		return Err[model.User](serverErr)
	}
	if actor == nil {
		return Err[model.User](2)
	}
	if data == nil || data.Id == nil {
		return Err[model.User](3)
	}

	user, err := s.findUser(*data.Id)
	if err != nil {
		logger.Error("error getting user to edit:", err)
		return Err[model.User](serverErr)
	}
	if user == nil {
		return Err[model.User](3)
	}

	permissions, err := GetUserPermissions(actor)
	if err != nil {
		logger.Error("error getting user permissions:", err)
		return Err[model.User](serverErr)
	}

	parent, err := s.findUserRef(user.ParentUserId)
	if err != nil {
		logger.Error("error getting parent user:", err)
		return Err[model.User](serverErr)
	}

	allowed, err := hasHierarchicalPermission(actor, permissions, model.EditUser, model.EditAllUser, user, parent)
	if err != nil {
		logger.Error("error checking user edition permission:", err)
		return Err[model.User](serverErr)
	}
	if !allowed {
		logger.Warningf("user %d has no permission to edit user %d", actor.Id, user.Id)
		return Err[model.User](4)
	}

	if data.Username != nil {
		if strings.TrimSpace(*data.Username) == "" {
			return Err[model.User](5)
		}
		if strings.Contains(*data.Username, "@") {
			return Err[model.User](6)
		}
	}
	if data.FirstName != nil && strings.TrimSpace(*data.FirstName) == "" {
		return Err[model.User](7)
	}
	if data.Email != nil {
		if strings.TrimSpace(*data.Email) == "" {
			return Err[model.User](8)
		}
		if !strings.Contains(*data.Email, "@") {
			return Err[model.User](9)
		}
	}

	if data.Username != nil || data.Email != nil {
		code, err := s.checkEditUniqueness(user.Id, data.Username, data.Email)
		if err != nil {
			logger.Error("error checking username/email uniqueness for edition:", err)
			return Err[model.User](serverErr)
		}
		if code != 0 {
			return Err[model.User](code)
		}
	}

	if data.Username != nil {
		user.Username = *data.Username
	}
	if data.FirstName != nil {
		user.FirstName = *data.FirstName
	}
	if data.LastName != nil {
		user.LastName = *data.LastName
	}
	if data.Email != nil {
		user.EmailValidated = false
		user.Email = *data.Email
	}

	db := database.GetDB()
	if err := db.Save(user).Error; err != nil {
		logger.Error("error saving user:", err)
		return Err[model.User](serverErr)
	}

	return Ok(*user)
}

// checkEditUniqueness looks for another user already holding the edited
// username (code 10) or email (code 11); 0 means no conflict.
func (s *UserService) checkEditUniqueness(userId int64, username, email *string) (int, error) {
	db := database.GetDB()

	if username != nil {
		var count int64
		err := db.Model(model.User{}).
			Where("username = ? AND id <> ?", *username, userId).
			Count(&count).Error
		if err != nil {
			return 0, err
		}
		if count > 0 {
			return 10, nil
		}
	}

	if email != nil {
		var count int64
		err := db.Model(model.User{}).
			Where("email = ? AND id <> ?", *email, userId).
			Count(&count).Error
		if err != nil {
			return 0, err
		}
		if count > 0 {
			return 11, nil
		}
	}

	return 0, nil
}

// DeleteUserById removes a user and all of that user's tokens, in one
// transaction. The system user can never be deleted.
//
// Error codes:
//
//	-1 -> server error
//	 2 -> operation user not found
//	 3 -> user to delete not found
//	 4 -> no permission to delete this user
func (s *UserService) DeleteUserById(actorId *int64, userId *int64) Result[model.User] {
	if actorId == nil {
		return Err[model.User](2)
	}
	if userId == nil {
		return Err[model.User](3)
	}

	actor, err := s.findUser(*actorId)
	if err != nil {
		logger.Error("error getting operation user:", err)
		return Err[model.User](serverErr)
	}
	if actor == nil {
		return Err[model.User](2)
	}

	user, err := s.findUser(*userId)
	if err != nil {
		logger.Error("error getting user to delete:", err)
		return Err[model.User](serverErr)
	}
	if user == nil {
		return Err[model.User](3)
	}

	allowed, err := s.canDeleteUser(actor, user)
	if err != nil {
		logger.Error("error checking user deletion permission:", err)
		return Err[model.User](serverErr)
	}
	if !allowed {
		logger.Warningf("user %d has no permission to delete user %d", actor.Id, user.Id)
		return Err[model.User](4)
	}

	db := database.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ?", user.Id).Delete(&model.Token{})
		if result.Error != nil {
			return result.Error
		}
		logger.Infof("%d tokens removed for user %d", result.RowsAffected, user.Id)
		return tx.Delete(&model.User{}, user.Id).Error
	})
	if err != nil {
		logger.Error("error removing user:", err)
		return Err[model.User](serverErr)
	}

	logger.Infof("user %d removed", user.Id)
	return Ok(*user)
}

// canDeleteUser: nobody deletes the system user; otherwise god, self,
// DELETE_ALL_USER, or DELETE_USER over an ancestry-reachable target.
func (s *UserService) canDeleteUser(actor *model.User, user *model.User) (bool, error) {
	if user.Id == model.SystemUserId {
		return false, nil
	}

	permissions, err := GetUserPermissions(actor)
	if err != nil {
		return false, err
	}

	if isGod(permissions) {
		return true, nil
	}
	if actor.Id == user.Id {
		return true, nil
	}
	if contains(permissions, model.DeleteAllUser) {
		return true, nil
	}
	if contains(permissions, model.DeleteUser) {
		return IsAncestor(actor, user)
	}
	return false, nil
}
