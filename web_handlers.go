package main

import (
	"html/template"
	"log"
	"net/http"
)

// WebHandler serves the browser chat page. The page is a thin client: it
// keeps the conversation in the DOM and posts each question to /query.
type WebHandler struct {
	templates *template.Template
}

// NewWebHandler creates a new WebHandler with parsed templates
func NewWebHandler() *WebHandler {
	tmpl := template.Must(template.New("chat").Parse(chatPageTemplate))
	return &WebHandler{templates: tmpl}
}

// ChatPage renders the chat page
func (h *WebHandler) ChatPage(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title": "Cargo Query",
	}

	if err := h.templates.ExecuteTemplate(w, "chat", data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

const chatPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: system-ui, sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; }
  #history { border: 1px solid #ddd; border-radius: 6px; padding: 1rem; min-height: 320px; }
  .msg { margin: 0.5rem 0; }
  .msg.user { text-align: right; color: #1a4d8f; }
  .msg.bot { text-align: left; color: #222; }
  form { display: flex; gap: 0.5rem; margin-top: 1rem; }
  input[type=text] { flex: 1; padding: 0.5rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Ask about company finance or cargo operations.</p>
<div id="history"></div>
<form id="ask">
  <input type="text" id="question" placeholder="e.g. What was the net profit in 2024-25?" autocomplete="off">
  <button type="submit">Ask</button>
</form>
<script>
const history = document.getElementById('history');
const form = document.getElementById('ask');
const input = document.getElementById('question');

function addMessage(cls, text) {
  const div = document.createElement('div');
  div.className = 'msg ' + cls;
  div.textContent = text;
  history.appendChild(div);
  history.scrollTop = history.scrollHeight;
}

form.addEventListener('submit', async (e) => {
  e.preventDefault();
  const question = input.value.trim();
  if (!question) return;
  addMessage('user', question);
  input.value = '';
  try {
    const resp = await fetch('/query', {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify({question})
    });
    const data = await resp.json();
    addMessage('bot', data.response);
  } catch (err) {
    addMessage('bot', 'Request failed: ' + err);
  }
});
</script>
</body>
</html>
`
