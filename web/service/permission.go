package service

import (
	"household-economy/database"
	"household-economy/database/model"
	"household-economy/util/common"
)

// maxHierarchyDepth caps the parent-chain walk. The chain of a healthy
// tree is far shorter; hitting the cap means the data is cyclic and the
// walk reports a server error instead of spinning.
const maxHierarchyDepth = 64

// GetUserPermissions loads the permission set granted to a user. A failed
// load is a server error, reported before any permission predicate runs.
func GetUserPermissions(user *model.User) ([]model.Permission, error) {
	if user == nil {
		return nil, nil
	}

	db := database.GetDB()
	var grants []model.UserPermission
	err := db.Model(model.UserPermission{}).Where("user_id = ?", user.Id).Find(&grants).Error
	if err != nil {
		return nil, common.NewError("error getting user permissions:", err)
	}

	permissions := make([]model.Permission, 0, len(grants))
	for _, grant := range grants {
		permissions = append(permissions, grant.Permission)
	}
	return permissions, nil
}

// GrantPermission assigns a permission to a user. Granting twice is
// harmless: HasPermission outcomes do not change.
func GrantPermission(userId int64, permission model.Permission) error {
	db := database.GetDB()
	grant := &model.UserPermission{
		Permission: permission,
		UserId:     userId,
	}
	return db.Create(grant).Error
}

func contains(permissions []model.Permission, p model.Permission) bool {
	for _, held := range permissions {
		if held == p {
			return true
		}
	}
	return false
}

func isGod(permissions []model.Permission) bool {
	return contains(permissions, model.System) || contains(permissions, model.Admin)
}

// IsAncestor reports whether candidate is target itself or appears in
// target's parent chain. The walk stops at the root (no parent) and is
// depth-capped: exceeding the cap means cyclic data and is an error.
func IsAncestor(candidate *model.User, target *model.User) (bool, error) {
	if candidate == nil || target == nil {
		return false, nil
	}
	if target.Id == candidate.Id {
		return true, nil
	}

	db := database.GetDB()
	parentId := target.ParentUserId
	for depth := 0; parentId != nil; depth++ {
		if depth >= maxHierarchyDepth {
			return false, common.NewError("user hierarchy too deep, possible parent cycle at user", target.Id)
		}
		if *parentId == candidate.Id {
			return true, nil
		}

		var parent model.User
		err := db.Model(model.User{}).Where("id = ?", *parentId).First(&parent).Error
		if database.IsNotFound(err) {
			return false, nil
		} else if err != nil {
			return false, err
		}
		parentId = parent.ParentUserId
	}

	return false, nil
}

// hasHierarchicalPermission evaluates the shared authorization rule for
// user-scoped operations, in fixed order:
//
//  1. actor holds SYSTEM or ADMIN
//  2. actor is the target itself
//  3. actor holds the ALL variant
//  4. actor holds the scoped variant and is an ancestor of hierarchyRef
//     (the target's parent for add/get/edit, the target itself for delete)
func hasHierarchicalPermission(actor *model.User, actorPermissions []model.Permission, scoped, all model.Permission, target *model.User, hierarchyRef *model.User) (bool, error) {
	if isGod(actorPermissions) {
		return true, nil
	}
	if target != nil && actor.Id == target.Id {
		return true, nil
	}
	if contains(actorPermissions, all) {
		return true, nil
	}
	if contains(actorPermissions, scoped) {
		return IsAncestor(actor, hierarchyRef)
	}
	return false, nil
}
