package auth

import "slices"

// Modules partition the API for access keys. A key may only reach
// permissions that belong to one of its modules.
const (
	ModuleEvaluation = "evaluation"
	ModuleMaster     = "master"
	ModuleAdmin      = "admin"
	ModuleDirectory  = "directory"
	ModuleMCP        = "mcp"
)

var Modules = []string{ModuleEvaluation, ModuleMaster, ModuleAdmin, ModuleDirectory, ModuleMCP}

var permissionModules = map[string]string{
	PermEvaluationRead:    ModuleEvaluation,
	PermEvaluationWrite:   ModuleEvaluation,
	PermEvaluationConfirm: ModuleEvaluation,
	PermEvaluationExport:  ModuleEvaluation,
	PermPeriodManage:      ModuleEvaluation,
	PermMasterRead:        ModuleMaster,
	PermMasterWrite:       ModuleMaster,
	PermOrgRead:           ModuleAdmin,
	PermOrgWrite:          ModuleAdmin,
	PermAuditRead:         ModuleAdmin,
	PermUsersManage:       ModuleAdmin,
	PermAccessKeysManage:  ModuleAdmin,
	PermAnnouncements:     ModuleAdmin,
	PermMetricsRead:       ModuleAdmin,
	PermDirectoryRead:     ModuleDirectory,
	PermDirectoryWrite:    ModuleDirectory,
}

func ValidModule(module string) bool {
	return slices.Contains(Modules, module)
}

func ModuleForPermission(permission string) (string, bool) {
	module, ok := permissionModules[permission]
	return module, ok
}

// KeyAllows reports whether a key holding modules may use permission.
// Access management itself is never reachable through a key.
func KeyAllows(modules []string, permission string) bool {
	if permission == PermAccessKeysManage || permission == PermUsersManage {
		return false
	}
	module, ok := permissionModules[permission]
	if !ok {
		return false
	}
	return slices.Contains(modules, module)
}
