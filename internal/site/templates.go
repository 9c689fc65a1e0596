package site

// pageTemplate is the Go html/template for every page of the site.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}{{if ne .Title .SiteTitle}} · {{.SiteTitle}}{{end}}</title>
  <link rel="stylesheet" href="/style.css">
</head>
<body>
  <aside class="sidebar">
    {{.NavHTML}}
  </aside>
  <main class="content">
    {{if .Section}}<div class="breadcrumb">{{.Section}}</div>{{end}}
    <article class="page-content">
      {{.Content}}
    </article>
  </main>
  <script src="/search.js"></script>
  {{if .LiveReload}}<script>
  (function() {
    var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
    var ws = new WebSocket(proto + location.host + '/ws/livereload');
    ws.onmessage = function(ev) {
      if (ev.data === 'reload') { location.reload(); }
    };
  })();
  </script>{{end}}
</body>
</html>`

// homeContentTemplate is the body of the landing page.
const homeContentTemplate = `<h1>{{.Title}}</h1>
{{range .Sections}}<section class="home-section">
  <h2><a href="{{.Path}}">{{.Label}}</a></h2>
  <ul>
    {{range .Pages}}<li><a href="{{.Path}}">{{.Title}}</a></li>
    {{end}}
  </ul>
</section>
{{end}}`

// cssContent styles the page layout and the navigation sidebar. Collapsing
// is driven entirely by the hidden nav_toggle checkboxes.
const cssContent = `:root {
  --bg: #ffffff;
  --sidebar-bg: #f6f8fa;
  --text: #24292f;
  --muted: #57606a;
  --accent: #0969da;
  --border: #d0d7de;
  --sidebar-width: 300px;
}

* { box-sizing: border-box; }

body {
  margin: 0;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif;
  color: var(--text);
  background: var(--bg);
}

.sidebar {
  position: fixed;
  top: 0;
  bottom: 0;
  left: 0;
  width: var(--sidebar-width);
  overflow-y: auto;
  background: var(--sidebar-bg);
  border-right: 1px solid var(--border);
}

.content {
  margin-left: var(--sidebar-width);
  padding: 32px 48px;
  max-width: 960px;
}

.breadcrumb {
  color: var(--muted);
  font-size: 12px;
  letter-spacing: 0.08em;
}

/* ============ Navigation ============ */
#nav ul {
  list-style: none;
  margin: 0;
  padding-left: 12px;
}

#nav > ul { padding-left: 0; }

#nav a {
  color: inherit;
  text-decoration: none;
}

#nav a:hover { color: var(--accent); }

#nav_header {
  display: flex;
  flex-wrap: wrap;
  align-items: center;
  gap: 8px;
  padding: 12px;
  border-bottom: 1px solid var(--border);
}

#nav_search { position: relative; flex: 1 1 100%; }

#search-docs {
  width: 100%;
  padding: 6px 10px;
  border: 1px solid var(--border);
  border-radius: 6px;
}

#search-result {
  position: absolute;
  z-index: 10;
  left: 0;
  right: 0;
  background: var(--bg);
  border: 1px solid var(--border);
  border-radius: 6px;
  max-height: 320px;
  overflow-y: auto;
}

#search-result:empty { display: none; }

#search-result a {
  display: block;
  padding: 6px 10px;
}

#search-result small { color: var(--muted); }

.nav_button {
  display: inline-block;
  width: 28px;
  height: 28px;
  border-radius: 50%;
  background: var(--border);
}

.nav_button:hover { background: var(--accent); }

.nav_button-github,
.nav_button-discord,
.nav_button-twitter {
  width: 100%;
  height: 100%;
  background-position: center;
  background-repeat: no-repeat;
  background-size: 16px;
}

.nav_toggle { display: none; }

.nav_toggle ~ ul { display: none; }

.nav_toggle:checked ~ ul { display: block; }

.nav_toggle-label,
.nav_toggle-label-empty {
  display: block;
  padding: 4px 12px;
  cursor: pointer;
}

.nav_toggle-label::before {
  content: "\25B8";
  display: inline-block;
  width: 1em;
  color: var(--muted);
}

.nav_toggle:checked + .nav_toggle-label::before { content: "\25BE"; }

.nav_toggle-label-empty::before {
  content: "";
  display: inline-block;
  width: 1em;
}

.nav_home::before { content: none; }

.nav_section {
  font-size: 12px;
  font-weight: 700;
  letter-spacing: 0.08em;
  padding-top: 12px;
}

.nav_item { border-bottom: 1px solid var(--border); }

.nav_link { font-weight: 600; }

.nav_page { font-size: 14px; }

.nav_sublink {
  font-size: 13px;
  color: var(--muted);
}

.nav_open > .nav_toggle-label,
.nav_open > .nav_toggle-label-empty { color: var(--accent); }

/* ============ Content ============ */
.page-content h1,
.page-content h2,
.page-content h3 { scroll-margin-top: 16px; }

.page-content pre {
  padding: 12px;
  overflow-x: auto;
  border-radius: 6px;
}

.page-content table { border-collapse: collapse; }

.page-content th,
.page-content td {
  border: 1px solid var(--border);
  padding: 6px 12px;
}

.home-section ul { padding-left: 20px; }

@media (max-width: 800px) {
  .sidebar { position: static; width: auto; border-right: none; }
  .content { margin-left: 0; padding: 16px; }
}
`

// searchJS filters search-index.json as the user types into the sidebar
// search box.
const searchJS = `(function() {
  var input = document.getElementById('search-docs');
  var results = document.getElementById('search-result');
  if (!input || !results) { return; }

  var entries = null;
  function load() {
    if (entries) { return Promise.resolve(entries); }
    return fetch('/search-index.json')
      .then(function(r) { return r.json(); })
      .then(function(data) { entries = data; return data; });
  }

  function escapeHTML(s) {
    return String(s).replace(/[&<>"']/g, function(c) {
      return {'&': '&amp;', '<': '&lt;', '>': '&gt;', '"': '&quot;', "'": '&#39;'}[c];
    });
  }

  function render(query) {
    if (!query) { results.innerHTML = ''; return; }
    var q = query.toLowerCase();
    load().then(function(all) {
      var hits = all.filter(function(e) {
        return e.title.toLowerCase().indexOf(q) !== -1 ||
          (e.summary || '').toLowerCase().indexOf(q) !== -1;
      }).slice(0, 20);
      results.innerHTML = hits.map(function(e) {
        return '<a href="' + escapeHTML(e.path) + '">' + escapeHTML(e.title) +
          ' <small>' + escapeHTML(e.section) + ' / ' + escapeHTML(e.page) + '</small></a>';
      }).join('');
    });
  }

  input.addEventListener('input', function() { render(input.value.trim()); });
  input.addEventListener('keydown', function(ev) {
    if (ev.key === 'Escape') { input.value = ''; render(''); }
  });
})();
`
