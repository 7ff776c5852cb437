package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, PermissionSalaryPay))
	assert.True(t, HasPermission(RoleHR, PermissionSalaryGenerate))
	assert.False(t, HasPermission(RoleHR, PermissionSalaryApprove))
	assert.True(t, HasPermission(RoleAccountant, PermissionSalaryApprove))
	assert.False(t, HasPermission(RoleAccountant, PermissionEmployeeManage))
	assert.True(t, HasPermission(RoleViewer, PermissionReportsView))
	assert.False(t, HasPermission(RoleViewer, PermissionSalaryGenerate))
	assert.False(t, HasPermission(Role("intern"), PermissionSalaryView))
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleAccountant.IsValid())
	assert.False(t, Role("").IsValid())
}
