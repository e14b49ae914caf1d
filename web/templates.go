package web

import (
	"html/template"
)

func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"modeLabel": modeLabel,
	}
	return template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))
}

func modeLabel(mode string) string {
	switch mode {
	case "local":
		return "本機模式"
	case "remote":
		return "雲端模式"
	case "sql":
		return "資料庫模式"
	default:
		return mode
	}
}

const pageTemplate = `<!doctype html>
<html lang="zh-Hant">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    :root {
      color-scheme: light;
    }
    body {
      margin: 0;
      font-family: "Charter", "Georgia", serif;
      color: #2b2520;
      background: radial-gradient(circle at top left, #f4efe3 0%, #fcfaf6 55%, #f6f2e8 100%);
    }
    header {
      padding: 16px 24px;
      border-bottom: 1px solid #d7cdbd;
      background: rgba(255, 255, 255, 0.72);
      display: flex;
      align-items: baseline;
      gap: 12px;
    }
    header h1 {
      margin: 0;
      font-size: 20px;
      letter-spacing: 0.02em;
    }
    .mode {
      color: #72685f;
      font-size: 13px;
    }
    main {
      max-width: 640px;
      margin: 0 auto;
      padding: 18px 24px 28px;
    }
    .pane {
      background: #ffffff;
      border: 1px solid #d7cdbd;
      border-radius: 14px;
      box-shadow: 0 8px 24px rgba(60, 45, 30, 0.08);
      padding: 16px;
    }
    .error {
      margin-bottom: 12px;
      padding: 10px 12px;
      border-radius: 10px;
      background: #f4d7d2;
      border: 1px solid #d7a7a1;
    }
    .add-form, .edit-form {
      display: flex;
      gap: 10px;
    }
    .add-form {
      margin-bottom: 16px;
    }
    input[type="text"] {
      flex: 1;
      padding: 8px 10px;
      border-radius: 8px;
      border: 1px solid #cbbfae;
      font-family: inherit;
      font-size: 14px;
      background: #fffdf9;
    }
    button {
      padding: 6px 12px;
      border-radius: 8px;
      border: 1px solid #bfb3a2;
      background: #efe6d7;
      font-family: inherit;
      cursor: pointer;
    }
    button.danger {
      background: #f4d7d2;
      border-color: #d7a7a1;
    }
    .item-list {
      list-style: none;
      padding: 0;
      margin: 0;
      display: flex;
      flex-direction: column;
      gap: 8px;
    }
    .list-item {
      display: flex;
      align-items: center;
      gap: 10px;
      padding: 8px 10px;
      border-radius: 10px;
      border: 1px solid #eee5d8;
    }
    .item-title {
      flex: 1;
      overflow-wrap: anywhere;
    }
    .done .item-title {
      text-decoration: line-through;
      color: #8a8077;
    }
    .item-meta {
      color: #72685f;
      font-size: 12px;
    }
    form.inline {
      display: inline;
    }
    footer {
      margin-top: 12px;
      color: #72685f;
      font-size: 13px;
      display: flex;
      justify-content: space-between;
    }
  </style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <span class="mode">{{modeLabel .Mode}}</span>
  </header>
  <main>
    <div class="pane">
      {{if .Error}}<div class="error" role="alert">{{.Error}}</div>{{end}}
      <form class="add-form" method="post" action="/todos/add">
        <input type="text" name="task" value="{{.Input}}" placeholder="新增待辦事項..." autofocus>
        <button type="submit">新增</button>
      </form>
      {{if .Todos}}
      <ul class="item-list">
        {{range .Todos}}
        <li class="list-item{{if .Completed}} done{{end}}" id="todo-{{.ID}}">
          {{if .Editing}}
          <form class="edit-form" method="post" action="/todos/{{.ID}}/save">
            <input type="text" name="task" value="{{.Draft}}" autofocus>
            <button type="submit">儲存</button>
          </form>
          <form class="inline" method="post" action="/todos/{{.ID}}/cancel">
            <button type="submit">取消</button>
          </form>
          {{else}}
          <form class="inline" method="post" action="/todos/{{.ID}}/toggle">
            <button type="submit" aria-label="toggle">{{if .Completed}}&#x2611;{{else}}&#x2610;{{end}}</button>
          </form>
          <span class="item-title">{{.Task}}</span>
          {{if .Completed}}<span class="item-meta">{{.Completion}}</span>{{end}}
          <form class="inline" method="post" action="/todos/{{.ID}}/edit">
            <button type="submit">編輯</button>
          </form>
          <form class="inline" method="post" action="/todos/{{.ID}}/delete">
            <button type="submit" class="danger">刪除</button>
          </form>
          {{end}}
        </li>
        {{end}}
      </ul>
      {{else}}
      <p class="item-meta">目前沒有待辦事項</p>
      {{end}}
      <footer>
        <span>{{.Pending}} 項未完成</span>
        <form class="inline" method="post" action="/reload">
          <button type="submit">重新整理</button>
        </form>
      </footer>
    </div>
  </main>
</body>
</html>
`
