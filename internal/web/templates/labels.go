package templates

// labels holds UI strings per settings language. Unknown languages and keys
// fall back to Japanese, the workspace default.
var labels = map[string]map[string]string{
	"ja": {
		"title":                 "実験データ管理",
		"tab.structure":         "構造",
		"tab.search":            "検索",
		"tab.analytics":         "分析",
		"tab.settings":          "設定",
		"tree.heading":          "プロジェクト",
		"tree.new":              "新規フォルダ",
		"tree.create":           "作成",
		"tree.root":             "(最上位)",
		"overview":              "プロジェクト概要",
		"overview.dirs":         "フォルダ数",
		"overview.files":        "ファイル数",
		"overview.hint":         "左のツリーからフォルダを選択してください",
		"files":                 "ファイル",
		"table.empty":           "データがありません",
		"upload.drop":           "CSVファイルをドロップ、または選択",
		"upload.submit":         "アップロード",
		"upload.mode":           "解析モード",
		"mode.header":           "ヘッダー付き",
		"mode.raw":              "そのまま",
		"search.placeholder":    "ファイル名・内容を検索",
		"search.submit":         "検索",
		"search.none":           "該当するファイルはありません",
		"search.rows":           "行",
		"analytics.experiments": "実験数",
		"analytics.success":     "成功率(%)",
		"analytics.month":       "月",
		"settings.username":     "ユーザー名",
		"settings.email":        "メールアドレス",
		"settings.language":     "言語",
		"settings.darkmode":     "ダークモード",
		"settings.save":         "保存",
		"settings.saved":        "設定を保存しました",
	},
	"en": {
		"title":                 "Lab Data Manager",
		"tab.structure":         "Structure",
		"tab.search":            "Search",
		"tab.analytics":         "Analytics",
		"tab.settings":          "Settings",
		"tree.heading":          "Projects",
		"tree.new":              "New folder",
		"tree.create":           "Create",
		"tree.root":             "(top level)",
		"overview":              "Project overview",
		"overview.dirs":         "Folders",
		"overview.files":        "Files",
		"overview.hint":         "Select a folder in the tree",
		"files":                 "Files",
		"table.empty":           "No data",
		"upload.drop":           "Drop a CSV file here or choose one",
		"upload.submit":         "Upload",
		"upload.mode":           "Parse mode",
		"mode.header":           "With header",
		"mode.raw":              "Raw",
		"search.placeholder":    "Search file names and contents",
		"search.submit":         "Search",
		"search.none":           "No matching files",
		"search.rows":           "rows",
		"analytics.experiments": "Experiments",
		"analytics.success":     "Success rate (%)",
		"analytics.month":       "Month",
		"settings.username":     "User name",
		"settings.email":        "Email",
		"settings.language":     "Language",
		"settings.darkmode":     "Dark mode",
		"settings.save":         "Save",
		"settings.saved":        "Settings saved",
	},
}

// label returns the UI string for key in lang.
func label(lang, key string) string {
	if s, ok := labels[lang][key]; ok {
		return s
	}
	if s, ok := labels["ja"][key]; ok {
		return s
	}
	return key
}
