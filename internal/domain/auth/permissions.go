package auth

const (
	RoleSystemAdmin = "SystemAdmin"
	RoleHR          = "HR"
	RoleEvaluator   = "Evaluator"
	RoleEmployee    = "Employee"
)

const (
	PermEvaluationRead    = "evaluation.read"
	PermEvaluationWrite   = "evaluation.write"
	PermEvaluationConfirm = "evaluation.confirm"
	PermEvaluationExport  = "evaluation.export"
	PermPeriodManage      = "evaluation.periods.manage"
	PermMasterRead        = "master.read"
	PermMasterWrite       = "master.write"
	PermOrgRead           = "org.read"
	PermOrgWrite          = "org.write"
	PermAuditRead         = "audit.read"
	PermUsersManage       = "admin.users"
	PermAccessKeysManage  = "admin.access_keys"
	PermAnnouncements     = "admin.announcements"
	PermMetricsRead       = "admin.metrics"
	PermDirectoryRead     = "directory.read"
	PermDirectoryWrite    = "directory.write"
)

var DefaultPermissions = []string{
	PermEvaluationRead,
	PermEvaluationWrite,
	PermEvaluationConfirm,
	PermEvaluationExport,
	PermPeriodManage,
	PermMasterRead,
	PermMasterWrite,
	PermOrgRead,
	PermOrgWrite,
	PermAuditRead,
	PermUsersManage,
	PermAccessKeysManage,
	PermAnnouncements,
	PermMetricsRead,
	PermDirectoryRead,
	PermDirectoryWrite,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEvaluationRead,
		PermOrgRead,
	},
	RoleEvaluator: {
		PermEvaluationRead,
		PermEvaluationWrite,
		PermEvaluationExport,
		PermMasterRead,
		PermOrgRead,
	},
	RoleHR: {
		PermEvaluationRead,
		PermEvaluationWrite,
		PermEvaluationConfirm,
		PermEvaluationExport,
		PermPeriodManage,
		PermMasterRead,
		PermMasterWrite,
		PermOrgRead,
		PermOrgWrite,
		PermAuditRead,
		PermDirectoryRead,
	},
	RoleSystemAdmin: {
		PermMasterRead,
		PermMasterWrite,
		PermOrgRead,
		PermOrgWrite,
		PermAuditRead,
		PermUsersManage,
		PermAccessKeysManage,
		PermAnnouncements,
		PermMetricsRead,
		PermDirectoryRead,
		PermDirectoryWrite,
	},
}

// IsHRRole reports whether the role acts on every evaluation of the tenant.
func IsHRRole(role string) bool {
	return role == RoleHR || role == RoleSystemAdmin
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
