package i18n

import "golang.org/x/text/language"

func init() {
	lang := language.English

	// Generic
	set(lang, "unauthorized", "Authentication is required.")
	set(lang, "forbidden", "You do not have permission to perform this action.")
	set(lang, "invalid_payload", "The request could not be read.")
	set(lang, "validation_error", "Some fields are invalid.")
	set(lang, "not_found", "The requested item was not found.")
	set(lang, "conflict", "The item was changed or already exists.")
	set(lang, "rate_limited", "Too many requests. Please wait and try again.")
	set(lang, "request_failed", "The request could not be completed.")
	set(lang, "internal_error", "An unexpected error occurred. Please try again later.")
	set(lang, "permission_error", "Permission check failed.")

	// Auth
	set(lang, "invalid_credentials", "The email address or password is incorrect.")
	set(lang, "mfa_required", "Enter the code from your authenticator app.")
	set(lang, "mfa_invalid", "The authentication code is invalid.")
	set(lang, "session_expired", "Your session has expired. Please sign in again.")
	set(lang, "token_error", "Failed to issue a token.")

	// Evaluation
	set(lang, "period_not_found", "The evaluation period was not found.")
	set(lang, "period_invalid_transition", "The evaluation period cannot move to that status.")
	set(lang, "period_locked", "The evaluation period does not accept changes in its current status.")
	set(lang, "period_not_deletable", "Only draft evaluation periods can be deleted.")
	set(lang, "weights_invalid", "Weights must be non-negative and add up to 100%.")
	set(lang, "category_invalid", "The category settings are invalid.")
	set(lang, "evaluation_not_found", "The evaluation was not found.")
	set(lang, "evaluation_invalid_state", "The evaluation cannot be changed in its current status.")

	// Organization
	set(lang, "department_not_empty", "The department still has employees.")
	set(lang, "employee_not_found", "The employee was not found.")

	// Access keys
	set(lang, "access_key_invalid", "The access key is invalid or expired.")
	set(lang, "access_key_module_denied", "The access key is not allowed to use this module.")
	set(lang, "module_invalid", "Unknown module.")

	// Directory
	set(lang, "directory_unavailable", "The directory server is unavailable.")
	set(lang, "directory_user_not_found", "The directory user was not found.")
	set(lang, "directory_user_exists", "A directory user with that ID already exists.")

	// Misc
	set(lang, "payload_too_large", "The request body is too large.")
	set(lang, "duplicate", "An item with the same key already exists.")
	set(lang, "evaluation_not_evaluator", "Only the assigned evaluator can change this evaluation.")
	set(lang, "category_not_found", "The category was not found.")
	set(lang, "department_not_found", "The department was not found.")
	set(lang, "employee_invalid", "Employee number, first name and last name are required.")
	set(lang, "employee_self_manager", "An employee cannot be their own manager.")
	set(lang, "weak_password", "The password must be at least 8 characters and contain upper and lower case letters and a number.")
	set(lang, "mfa_unavailable", "Two-factor authentication is not available on this server.")
	set(lang, "user_not_found", "The user was not found.")
	set(lang, "user_exists", "A user with that email address already exists.")
	set(lang, "unknown_role", "Unknown role.")
	set(lang, "access_key_not_found", "The access key was not found.")
	set(lang, "announcement_not_found", "The announcement was not found.")
	set(lang, "announcement_invalid", "The announcement settings are invalid.")
	set(lang, "mfa_not_set_up", "Set up two-factor authentication first.")
	set(lang, "user_invalid_status", "The user status is invalid.")
	set(lang, "export_failed", "The export could not be generated.")
	set(lang, "directory_invalid", "The directory entry is invalid.")

	// Evaluation sheet
	set(lang, "sheet.title", "Performance Evaluation Sheet")
	set(lang, "sheet.period", "Period")
	set(lang, "sheet.employee", "Employee")
	set(lang, "sheet.grade", "Job grade")
	set(lang, "sheet.results", "Results")
	set(lang, "sheet.achievement_rate", "Achievement rate")
	set(lang, "sheet.process", "Process")
	set(lang, "sheet.growth", "Growth")
	set(lang, "sheet.weight", "Weight")
	set(lang, "sheet.score", "Score")
	set(lang, "sheet.final", "Final score")
	set(lang, "sheet.rating", "Rating")
	set(lang, "sheet.status", "Status")
	set(lang, "sheet.comment", "Comment")
	set(lang, "sheet.complete", "Complete")
	set(lang, "sheet.incomplete", "Incomplete")
}
