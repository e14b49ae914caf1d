package todo

import "time"

// SeedTodos returns the fixture used by local mode.
func SeedTodos() []Todo {
	return []Todo{
		{ID: 1, Task: "完成專案報告", CompletedAt: seedTime("2024-07-20T15:30:00Z")},
		{ID: 2, Task: "準備團隊會議"},
		{ID: 3, Task: "回覆客戶郵件", CompletedAt: seedTime("2024-07-18T09:45:00Z")},
		{ID: 4, Task: "更新網站內容"},
		{ID: 5, Task: "安排下週行程", CompletedAt: seedTime("2024-07-19T17:00:00Z")},
	}
}

func seedTime(value string) *time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return &parsed
}
