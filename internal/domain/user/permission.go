package user

type Permission string

const (
	// Departments
	PermissionDepartmentView   Permission = "department.view"
	PermissionDepartmentManage Permission = "department.manage"

	// Employee Management
	PermissionEmployeeView   Permission = "employee.view"
	PermissionEmployeeManage Permission = "employee.manage"

	// Salary
	PermissionSalaryView     Permission = "salary.view"
	PermissionSalaryGenerate Permission = "salary.generate"
	PermissionSalaryApprove  Permission = "salary.approve"
	PermissionSalaryPay      Permission = "salary.pay"
	PermissionPayslipSend    Permission = "payslip.send"

	// Reports
	PermissionReportsView Permission = "reports.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionDepartmentView,
		PermissionDepartmentManage,
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionSalaryView,
		PermissionSalaryGenerate,
		PermissionSalaryApprove,
		PermissionSalaryPay,
		PermissionPayslipSend,
		PermissionReportsView,
	},
	RoleHR: {
		PermissionDepartmentView,
		PermissionDepartmentManage,
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionSalaryView,
		PermissionSalaryGenerate,
		PermissionPayslipSend,
		PermissionReportsView,
	},
	RoleAccountant: {
		PermissionDepartmentView,
		PermissionEmployeeView,
		PermissionSalaryView,
		PermissionSalaryApprove,
		PermissionSalaryPay,
		PermissionPayslipSend,
		PermissionReportsView,
	},
	RoleViewer: {
		PermissionDepartmentView,
		PermissionEmployeeView,
		PermissionSalaryView,
		PermissionReportsView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
