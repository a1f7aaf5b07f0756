package service

import (
	"testing"
	"time"

	"household-economy/database"
	"household-economy/database/model"
	"household-economy/util/crypto"

	"github.com/stretchr/testify/assert"
)

func validUserData(username string) *UserCreateData {
	return &UserCreateData{
		Username:  username,
		Password:  "long-enough-password",
		FirstName: "First",
		LastName:  "Last",
		Email:     username + "@example.com",
	}
}

func TestCreateUserSignup(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}
	result := service.CreateUser(validUserData("alice"))
	assert.True(t, result.Valid())

	user := result.Value()
	assert.Equal(t, "alice", user.Username)
	assert.NotNil(t, user.ParentUserId)
	assert.Equal(t, model.SystemUserId, *user.ParentUserId)

	// Stored password is a hash of the plaintext, never the plaintext.
	assert.NotEqual(t, "long-enough-password", user.Password)
	assert.True(t, crypto.CheckPasswordHash(user.Password, "long-enough-password"))
}

func TestCreateUserValidation(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	tests := []struct {
		name     string
		mutate   func(*UserCreateData)
		wantCode int
	}{
		{"blank username", func(d *UserCreateData) { d.Username = "  " }, 5},
		{"username with at sign", func(d *UserCreateData) { d.Username = "bob@home" }, 6},
		{"blank password", func(d *UserCreateData) { d.Password = "" }, 7},
		{"short password", func(d *UserCreateData) { d.Password = "short" }, 8},
		{"blank first name", func(d *UserCreateData) { d.FirstName = "" }, 9},
		{"blank email", func(d *UserCreateData) { d.Email = "" }, 10},
		{"email without at sign", func(d *UserCreateData) { d.Email = "bob.example.com" }, 11},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data := validUserData("bob")
			tc.mutate(data)
			result := service.CreateUser(data)
			assert.False(t, result.Valid())
			assert.Equal(t, tc.wantCode, result.Code())
		})
	}

	assert.True(t, service.CreateUser(validUserData("bob")).Valid())

	// Same username, different email.
	dup := validUserData("bob")
	dup.Email = "other@example.com"
	result := service.CreateUser(dup)
	assert.False(t, result.Valid())
	assert.Equal(t, 12, result.Code())

	// Same email, different username.
	dup = validUserData("robert")
	dup.Email = "bob@example.com"
	result = service.CreateUser(dup)
	assert.False(t, result.Valid())
	assert.Equal(t, 12, result.Code())
}

func TestCreateUserOfOtherPermissions(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}
	parent := newUser(t, "parent", i64(model.SystemUserId))
	child := newUser(t, "child", i64(parent.Id))
	outsider := newUser(t, "outsider", i64(model.SystemUserId))

	// No permission at all.
	result := service.CreateUserOfOther(i64(outsider.Id), validUserData("w1"), i64(outsider.Id))
	assert.False(t, result.Valid())
	assert.Equal(t, 4, result.Code())

	// ADD_USER over the own subtree: parent creates under child.
	grant(t, parent.Id, model.AddUser)
	result = service.CreateUserOfOther(i64(parent.Id), validUserData("grandchild"), i64(child.Id))
	assert.True(t, result.Valid())

	// ADD_USER does not reach outside the subtree.
	grant(t, outsider.Id, model.AddUser)
	result = service.CreateUserOfOther(i64(outsider.Id), validUserData("w2"), i64(child.Id))
	assert.False(t, result.Valid())
	assert.Equal(t, 4, result.Code())

	// ADD_ALL_USER reaches anywhere.
	grant(t, outsider.Id, model.AddAllUser)
	result = service.CreateUserOfOther(i64(outsider.Id), validUserData("anywhere"), i64(child.Id))
	assert.True(t, result.Valid())

	// Unknown parent cannot host a user.
	result = service.CreateUserOfOther(i64(model.SystemUserId), validUserData("orphan"), i64(99999))
	assert.False(t, result.Valid())
	assert.Equal(t, 4, result.Code())

	// Nor can a nil parent.
	result = service.CreateUserOfOther(i64(model.SystemUserId), validUserData("orphan"), nil)
	assert.False(t, result.Valid())
	assert.Equal(t, 4, result.Code())
}

func TestGetUserById(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}
	parent := newUser(t, "parent", i64(model.SystemUserId))
	child := newUser(t, "child", i64(parent.Id))
	outsider := newUser(t, "outsider", i64(model.SystemUserId))

	result := service.GetUserById(nil, i64(child.Id))
	assert.Equal(t, 1, result.Code())

	result = service.GetUserById(i64(parent.Id), nil)
	assert.Equal(t, 2, result.Code())

	// Self access needs no grant.
	result = service.GetUserById(i64(child.Id), i64(child.Id))
	assert.True(t, result.Valid())
	assert.Equal(t, "child", result.Value().Username)

	// No permission over an unrelated user.
	result = service.GetUserById(i64(outsider.Id), i64(child.Id))
	assert.Equal(t, 3, result.Code())

	// GET_USER over the subtree.
	grant(t, parent.Id, model.GetUser)
	result = service.GetUserById(i64(parent.Id), i64(child.Id))
	assert.True(t, result.Valid())

	// A caller without reach gets the permission error for a missing id,
	// not the existence error.
	result = service.GetUserById(i64(outsider.Id), i64(99999))
	assert.Equal(t, 3, result.Code())

	// A caller with full reach learns the user does not exist.
	result = service.GetUserById(i64(model.SystemUserId), i64(99999))
	assert.Equal(t, 4, result.Code())
}

func TestSetUser(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}
	user := newUser(t, "editme", i64(model.SystemUserId))
	other := newUser(t, "other", i64(model.SystemUserId))

	db := database.GetDB()
	err := db.Model(model.User{}).Where("id = ?", user.Id).Update("email_validated", true).Error
	assert.NoError(t, err)

	// Self edit, no grants needed.
	result := service.SetUser(i64(user.Id), &UserEditData{
		Id:        i64(user.Id),
		FirstName: str("Edited"),
	})
	assert.True(t, result.Valid())
	assert.Equal(t, "Edited", result.Value().FirstName)
	assert.True(t, result.Value().EmailValidated)

	// Changing the email resets the validated flag.
	result = service.SetUser(i64(user.Id), &UserEditData{
		Id:    i64(user.Id),
		Email: str("new@example.com"),
	})
	assert.True(t, result.Valid())
	assert.False(t, result.Value().EmailValidated)

	// An unrelated user without grants cannot edit.
	result = service.SetUser(i64(other.Id), &UserEditData{
		Id:        i64(user.Id),
		FirstName: str("Hacked"),
	})
	assert.Equal(t, 4, result.Code())

	// Field validation.
	result = service.SetUser(i64(user.Id), &UserEditData{Id: i64(user.Id), Username: str(" ")})
	assert.Equal(t, 5, result.Code())
	result = service.SetUser(i64(user.Id), &UserEditData{Id: i64(user.Id), Username: str("a@b")})
	assert.Equal(t, 6, result.Code())
	result = service.SetUser(i64(user.Id), &UserEditData{Id: i64(user.Id), FirstName: str("")})
	assert.Equal(t, 7, result.Code())
	result = service.SetUser(i64(user.Id), &UserEditData{Id: i64(user.Id), Email: str("")})
	assert.Equal(t, 8, result.Code())
	result = service.SetUser(i64(user.Id), &UserEditData{Id: i64(user.Id), Email: str("no-at")})
	assert.Equal(t, 9, result.Code())

	// Uniqueness against other users.
	result = service.SetUser(i64(user.Id), &UserEditData{Id: i64(user.Id), Username: str("other")})
	assert.Equal(t, 10, result.Code())
	result = service.SetUser(i64(user.Id), &UserEditData{Id: i64(user.Id), Email: str("other@example.com")})
	assert.Equal(t, 11, result.Code())

	// Re-setting one's own current username is not a conflict.
	result = service.SetUser(i64(user.Id), &UserEditData{Id: i64(user.Id), Username: str("editme")})
	assert.True(t, result.Valid())

	result = service.SetUser(i64(user.Id), &UserEditData{Id: i64(99999)})
	assert.Equal(t, 3, result.Code())
}

func TestDeleteUserById(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}
	parent := newUser(t, "parent", i64(model.SystemUserId))
	child := newUser(t, "child", i64(parent.Id))
	victim := newUser(t, "victim", i64(model.SystemUserId))

	// The system user is never deletable, not even by itself.
	result := service.DeleteUserById(i64(model.SystemUserId), i64(model.SystemUserId))
	assert.Equal(t, 4, result.Code())

	// A child cannot delete its ancestor.
	grant(t, child.Id, model.DeleteUser)
	result = service.DeleteUserById(i64(child.Id), i64(parent.Id))
	assert.Equal(t, 4, result.Code())

	// DELETE_USER over a descendant.
	grant(t, parent.Id, model.DeleteUser)
	result = service.DeleteUserById(i64(parent.Id), i64(child.Id))
	assert.True(t, result.Valid())

	// Deleting a user removes that user's tokens.
	db := database.GetDB()
	token := &model.Token{
		Token:   "some-token",
		Expires: time.Now().UTC().Add(time.Hour),
		Type:    model.LoginToken,
		UserId:  victim.Id,
	}
	assert.NoError(t, db.Create(token).Error)

	result = service.DeleteUserById(i64(victim.Id), i64(victim.Id))
	assert.True(t, result.Valid())

	var tokenCount int64
	db.Model(model.Token{}).Where("user_id = ?", victim.Id).Count(&tokenCount)
	assert.Equal(t, int64(0), tokenCount)

	result = service.DeleteUserById(i64(parent.Id), i64(99999))
	assert.Equal(t, 3, result.Code())
}
