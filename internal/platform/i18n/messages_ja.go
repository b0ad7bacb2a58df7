package i18n

import "golang.org/x/text/language"

func init() {
	lang := language.Japanese

	// Generic
	set(lang, "unauthorized", "ログインが必要です。")
	set(lang, "forbidden", "この操作を行う権限がありません。")
	set(lang, "invalid_payload", "リクエストの形式が正しくありません。")
	set(lang, "validation_error", "入力内容に誤りがあります。")
	set(lang, "not_found", "対象が見つかりません。")
	set(lang, "conflict", "対象は既に存在するか、変更されています。")
	set(lang, "rate_limited", "リクエストが多すぎます。しばらくしてから再度お試しください。")
	set(lang, "request_failed", "処理を完了できませんでした。")
	set(lang, "internal_error", "予期しないエラーが発生しました。時間をおいて再度お試しください。")
	set(lang, "permission_error", "権限の確認に失敗しました。")

	// Auth
	set(lang, "invalid_credentials", "メールアドレスまたはパスワードが正しくありません。")
	set(lang, "mfa_required", "認証アプリのコードを入力してください。")
	set(lang, "mfa_invalid", "認証コードが正しくありません。")
	set(lang, "session_expired", "セッションの有効期限が切れました。再度ログインしてください。")
	set(lang, "token_error", "トークンの発行に失敗しました。")

	// Evaluation
	set(lang, "period_not_found", "評価期間が見つかりません。")
	set(lang, "period_invalid_transition", "評価期間をそのステータスに変更できません。")
	set(lang, "period_locked", "現在のステータスでは評価期間を変更できません。")
	set(lang, "period_not_deletable", "削除できるのは下書きの評価期間のみです。")
	set(lang, "weights_invalid", "ウェイトは0以上で、合計が100%になるように設定してください。")
	set(lang, "category_invalid", "カテゴリの設定が正しくありません。")
	set(lang, "evaluation_not_found", "評価が見つかりません。")
	set(lang, "evaluation_invalid_state", "現在のステータスでは評価を変更できません。")

	// Organization
	set(lang, "department_not_empty", "部署に所属している社員がいます。")
	set(lang, "employee_not_found", "社員が見つかりません。")

	// Access keys
	set(lang, "access_key_invalid", "アクセスキーが無効か、有効期限が切れています。")
	set(lang, "access_key_module_denied", "このアクセスキーではこのモジュールを利用できません。")
	set(lang, "module_invalid", "不明なモジュールです。")

	// Directory
	set(lang, "directory_unavailable", "ディレクトリサーバーに接続できません。")
	set(lang, "directory_user_not_found", "ディレクトリのユーザーが見つかりません。")
	set(lang, "directory_user_exists", "同じIDのディレクトリユーザーが既に存在します。")

	// Misc
	set(lang, "payload_too_large", "リクエストのサイズが大きすぎます。")
	set(lang, "duplicate", "同じキーの項目が既に存在します。")
	set(lang, "evaluation_not_evaluator", "担当の評価者のみがこの評価を変更できます。")
	set(lang, "category_not_found", "カテゴリが見つかりません。")
	set(lang, "department_not_found", "部署が見つかりません。")
	set(lang, "employee_invalid", "社員番号、姓、名は必須です。")
	set(lang, "employee_self_manager", "社員を自分自身の上長に設定することはできません。")
	set(lang, "weak_password", "パスワードは8文字以上で、英大文字・英小文字・数字を含めてください。")
	set(lang, "mfa_unavailable", "このサーバーでは二要素認証を利用できません。")
	set(lang, "user_not_found", "ユーザーが見つかりません。")
	set(lang, "user_exists", "このメールアドレスのユーザーは既に存在します。")
	set(lang, "unknown_role", "不明なロールです。")
	set(lang, "access_key_not_found", "アクセスキーが見つかりません。")
	set(lang, "announcement_not_found", "お知らせが見つかりません。")
	set(lang, "announcement_invalid", "お知らせの設定が正しくありません。")
	set(lang, "mfa_not_set_up", "先に二要素認証を設定してください。")
	set(lang, "user_invalid_status", "ユーザーの状態が正しくありません。")
	set(lang, "export_failed", "エクスポートを作成できませんでした。")
	set(lang, "directory_invalid", "ディレクトリのエントリが正しくありません。")

	// Evaluation sheet
	set(lang, "sheet.title", "人事評価シート")
	set(lang, "sheet.period", "評価期間")
	set(lang, "sheet.employee", "社員")
	set(lang, "sheet.grade", "等級")
	set(lang, "sheet.results", "成果")
	set(lang, "sheet.achievement_rate", "達成率")
	set(lang, "sheet.process", "プロセス")
	set(lang, "sheet.growth", "成長")
	set(lang, "sheet.weight", "ウェイト")
	set(lang, "sheet.score", "点数")
	set(lang, "sheet.final", "最終点")
	set(lang, "sheet.rating", "評語")
	set(lang, "sheet.status", "ステータス")
	set(lang, "sheet.comment", "コメント")
	set(lang, "sheet.complete", "入力完了")
	set(lang, "sheet.incomplete", "未完了")
}
