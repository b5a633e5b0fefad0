package docindex

import (
	"path"
	"regexp"
	"strings"
)

// frameworkVocab is the fixed framework-name vocabulary recognized inside
// code blocks.
var frameworkVocab = []string{
	"react", "vue", "angular", "svelte", "nextjs", "nuxt",
	"express", "fastify", "nestjs",
	"django", "flask", "fastapi",
	"rails", "laravel", "spring",
	"jquery", "redux", "graphql", "tailwind",
	"webpack", "vite", "jest", "mocha", "pytest",
}

// languagePatterns maps a fence language to idiomatic syntax fragments:
// hook calls, route registrations, and similar constructs worth indexing.
var languagePatterns = map[string][]string{
	"javascript": jsPatterns,
	"js":         jsPatterns,
	"jsx":        jsPatterns,
	"typescript": jsPatterns,
	"ts":         jsPatterns,
	"tsx":        jsPatterns,
	"python": {
		"@app.route", "@router.get", "@router.post",
		"def test_", "async def",
	},
	"go": {
		"func Test", "http.HandleFunc", "go func(",
	},
	"ruby": {
		"get '/", "post '/", "describe ",
	},
}

var jsPatterns = []string{
	"useState(", "useEffect(", "useContext(", "useMemo(",
	"useCallback(", "useRef(", "useReducer(",
	"app.get(", "app.post(", "app.put(", "app.delete(", "app.use(",
	"router.get(", "router.post(", "router.put(", "router.delete(",
}

// sqlPatterns are matched in every code block. They are all-uppercase, so
// containment checks against them are case-insensitive.
var sqlPatterns = []string{
	"SELECT", "INSERT INTO", "UPDATE", "DELETE FROM",
	"CREATE TABLE", "ALTER TABLE", "DROP TABLE", "JOIN",
}

type codeBlock struct {
	lang string
	code string
}

var fenceRe = regexp.MustCompile("(?s)```([a-zA-Z0-9]*)\n(.*?)```")

// codeBlocks extracts fenced code blocks with their declared language.
func codeBlocks(body string) []codeBlock {
	matches := fenceRe.FindAllStringSubmatch(body, -1)
	out := make([]codeBlock, 0, len(matches))
	for _, m := range matches {
		out = append(out, codeBlock{lang: strings.ToLower(m[1]), code: m[2]})
	}
	return out
}

var importRe = regexp.MustCompile(`(?m)^\s*(?:import\s+.*?from\s+['"]([^'"]+)['"]|import\s+['"]([^'"]+)['"]|(?:const|let|var)\s+\w+\s*=\s*require\(['"]([^'"]+)['"]\)|from\s+(\w+)[\w.]*\s+import|import\s+(\w+))`)

// importTokens extracts imported module names from a code block, reduced
// to their leading package segment (scoped npm packages keep both parts).
func importTokens(code string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range importRe.FindAllStringSubmatch(code, -1) {
		var mod string
		for _, g := range m[1:] {
			if g != "" {
				mod = g
				break
			}
		}
		mod = normalizeModule(mod)
		if mod == "" {
			continue
		}
		if _, dup := seen[mod]; dup {
			continue
		}
		seen[mod] = struct{}{}
		out = append(out, mod)
	}
	return out
}

// normalizeModule reduces an import path to an indexable token. Relative
// paths carry no framework signal and are dropped.
func normalizeModule(mod string) string {
	if mod == "" || strings.HasPrefix(mod, ".") || strings.HasPrefix(mod, "/") {
		return ""
	}
	mod = strings.ToLower(mod)
	if strings.HasPrefix(mod, "@") {
		parts := strings.SplitN(mod, "/", 3)
		if len(parts) >= 2 {
			return parts[0] + "/" + parts[1]
		}
		return mod
	}
	if i := strings.IndexByte(mod, '/'); i > 0 {
		return mod[:i]
	}
	return mod
}

func frameworkMentions(code string) []string {
	codeLC := strings.ToLower(code)
	var out []string
	for _, fw := range frameworkVocab {
		if strings.Contains(codeLC, fw) {
			out = append(out, fw)
		}
	}
	return out
}

func patternMentions(lang, code string) []string {
	var out []string
	for _, pat := range languagePatterns[lang] {
		if strings.Contains(code, pat) {
			out = append(out, pat)
		}
	}
	codeUC := strings.ToUpper(code)
	for _, pat := range sqlPatterns {
		if strings.Contains(codeUC, pat) {
			out = append(out, pat)
		}
	}
	return out
}

// containsPattern checks pattern containment in a snippet. All-uppercase
// patterns (the SQL verbs) are matched case-insensitively.
func containsPattern(snippet, snippetLC, pat string) bool {
	if pat == strings.ToUpper(pat) {
		return strings.Contains(snippetLC, strings.ToLower(pat))
	}
	return strings.Contains(snippet, pat)
}

// headings returns the text of every markdown heading line.
func headings(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			out = append(out, strings.TrimLeft(trimmed, "# "))
		}
	}
	return out
}

// matchesFilePatterns reports whether filePath matches any of the metadata
// glob patterns, testing both the full path and its base name.
func matchesFilePatterns(patterns []string, filePath string) bool {
	base := path.Base(filePath)
	for _, pat := range patterns {
		if ok, err := path.Match(pat, filePath); err == nil && ok {
			return true
		}
		if ok, err := path.Match(pat, base); err == nil && ok {
			return true
		}
	}
	return false
}
