package shortcode

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"
)

// coreShortcodes emit C snippets for file and memory plumbing.
func coreShortcodes() template.FuncMap {
	return template.FuncMap{
		// {{ open_file "data.txt" "r" "fp" }}
		"open_file": func(filename, mode, varName string) string {
			return fmt.Sprintf(
				"FILE *%s = fopen(\"%s\", \"%s\");\n"+
					"if (%s == NULL) {\n"+
					"    perror(\"fopen\");\n"+
					"    exit(EXIT_FAILURE);\n"+
					"}",
				varName, filename, mode, varName)
		},
		// {{ alloc "int" "xs" 16 }}
		"alloc": func(typeName, varName string, count int) string {
			return fmt.Sprintf(
				"%s *%s = malloc(%d * sizeof(%s));\n"+
					"if (%s == NULL) {\n"+
					"    fprintf(stderr, \"allocation failed: %s\\n\");\n"+
					"    exit(EXIT_FAILURE);\n"+
					"}",
				typeName, varName, count, typeName, varName, varName)
		},
		// {{ grow "xs" 32 }}
		"grow": func(ptrName string, newCount int) string {
			return fmt.Sprintf(
				"%s = realloc(%s, %d * sizeof(*%s));\n"+
					"if (%s == NULL) {\n"+
					"    fprintf(stderr, \"reallocation failed: %s\\n\");\n"+
					"    exit(EXIT_FAILURE);\n"+
					"}",
				ptrName, ptrName, newCount, ptrName, ptrName, ptrName)
		},
	}
}

// stringShortcodes emit C snippets and compile-time string values.
func stringShortcodes() template.FuncMap {
	return template.FuncMap{
		// {{ create_buffer "name" 64 "hello" }}
		"create_buffer": func(varName string, size int, initial string) string {
			return fmt.Sprintf("char %s[%d] = %q;", varName, size, initial)
		},
		// {{ string_concat "a" "b" "out" }} emits the same owned-buffer
		// contract as the runtime concat_strings helper.
		"string_concat": func(a, b, result string) string {
			return fmt.Sprintf(
				"char *%s = malloc(strlen(%s) + strlen(%s) + 1);\n"+
					"if (%s) {\n"+
					"    strcpy(%s, %s);\n"+
					"    strcat(%s, %s);\n"+
					"}",
				result, a, b, result, result, a, result, b)
		},
		// {{ repeat "ab" 3 }} folds to "ababab" at expansion time.
		"repeat": func(text string, count int) string {
			if count < 0 {
				count = 0
			}
			return strings.Repeat(text, count)
		},
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
	}
}

// jsonShortcodes embed data as C string literals.
func jsonShortcodes() template.FuncMap {
	return template.FuncMap{
		// {{ json_literal "{\"k\": 1}" }} validates and compacts the JSON,
		// then renders it as a quoted C literal.
		"json_literal": func(raw string) (string, error) {
			var v any
			if err := json.Unmarshal([]byte(raw), &v); err != nil {
				return "", fmt.Errorf("json_literal: %w", err)
			}
			compact, err := json.Marshal(v)
			if err != nil {
				return "", fmt.Errorf("json_literal: %w", err)
			}
			return fmt.Sprintf("%q", string(compact)), nil
		},
	}
}

// curlShortcodes fetch remote content at expansion time and embed it.
func curlShortcodes() template.FuncMap {
	return template.FuncMap{
		// {{ fetch "https://example.com/banner.txt" }} embeds the response
		// body as a quoted C literal.
		"fetch": func(url string) (string, error) {
			resp, err := http.Get(url)
			if err != nil {
				return "", fmt.Errorf("fetch %s: %w", url, err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return "", fmt.Errorf("fetch %s: status %s", url, resp.Status)
			}
			body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			if err != nil {
				return "", fmt.Errorf("fetch %s: %w", url, err)
			}
			return fmt.Sprintf("%q", string(body)), nil
		},
	}
}

// sugarShortcodes emit structural comment markers.
func sugarShortcodes() template.FuncMap {
	return template.FuncMap{
		"section": func(name string) string {
			return fmt.Sprintf("// ===== %s =====", name)
		},
		"endsection": func(name string) string {
			return fmt.Sprintf("// ===== end %s =====", name)
		},
	}
}
