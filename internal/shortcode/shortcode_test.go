package shortcode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExpander(t *testing.T, extras ...template.FuncMap) *Expander {
	t.Helper()
	e, skipped := NewExpander(extras...)
	require.Empty(t, skipped)
	return e
}

func TestExpandPassthrough(t *testing.T) {
	e := newTestExpander(t)

	src := []byte("var x = 1;\nprint(x);\n")
	out, err := e.Expand("main.cccp", src)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestExpandBuiltins(t *testing.T) {
	e := newTestExpander(t)

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "upper",
			src:  `{{ upper "hello" }}`,
			want: "HELLO",
		},
		{
			name: "lower",
			src:  `{{ lower "LOUD" }}`,
			want: "loud",
		},
		{
			name: "repeat",
			src:  `{{ repeat "ab" 3 }}`,
			want: "ababab",
		},
		{
			name: "repeat negative count",
			src:  `{{ repeat "ab" -1 }}`,
			want: "",
		},
		{
			name: "create_buffer",
			src:  `{{ create_buffer "buf" 64 "hello" }}`,
			want: `char buf[64] = "hello";`,
		},
		{
			name: "section markers",
			src:  `{{ section "init" }}`,
			want: "// ===== init =====",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := e.Expand("test.cccp", []byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestStringConcatSnippet(t *testing.T) {
	e := newTestExpander(t)

	out, err := e.Expand("test.cccp", []byte(`{{ string_concat "first" "second" "joined" }}`))
	require.NoError(t, err)

	got := string(out)
	assert.Contains(t, got, "char *joined = malloc(strlen(first) + strlen(second) + 1);")
	assert.Contains(t, got, "strcpy(joined, first);")
	assert.Contains(t, got, "strcat(joined, second);")
}

func TestAllocSnippet(t *testing.T) {
	e := newTestExpander(t)

	out, err := e.Expand("test.cccp", []byte(`{{ alloc "int" "xs" 16 }}`))
	require.NoError(t, err)

	got := string(out)
	assert.Contains(t, got, "int *xs = malloc(16 * sizeof(int));")
	assert.Contains(t, got, "if (xs == NULL) {")
}

func TestJSONLiteral(t *testing.T) {
	e := newTestExpander(t)

	out, err := e.Expand("test.cccp", []byte(`{{ json_literal "{\"k\":  1}" }}`))
	require.NoError(t, err)
	assert.Equal(t, `"{\"k\":1}"`, string(out))

	_, err = e.Expand("test.cccp", []byte(`{{ json_literal "not json" }}`))
	require.Error(t, err)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("remote banner"))
	}))
	defer srv.Close()

	e := newTestExpander(t)

	out, err := e.Expand("test.cccp", []byte(`{{ fetch "`+srv.URL+`" }}`))
	require.NoError(t, err)
	assert.Equal(t, `"remote banner"`, string(out))
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	e := newTestExpander(t)

	_, err := e.Expand("test.cccp", []byte(`{{ fetch "`+srv.URL+`" }}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status")
}

func TestUnknownShortcode(t *testing.T) {
	e := newTestExpander(t)

	_, err := e.Expand("test.cccp", []byte(`{{ no_such_thing "x" }}`))
	require.Error(t, err)
}

func TestDuplicateNamesSkipped(t *testing.T) {
	extra := template.FuncMap{
		"upper": func(s string) string { return "overridden" },
		"fresh": func() string { return "new" },
	}

	e, skipped := NewExpander(extra)
	assert.Equal(t, []string{"upper"}, skipped)

	out, err := e.Expand("test.cccp", []byte(`{{ upper "abc" }} {{ fresh }}`))
	require.NoError(t, err)
	assert.Equal(t, "ABC new", string(out))
}

func TestNames(t *testing.T) {
	e := newTestExpander(t)

	names := e.Names()
	assert.Contains(t, names, "upper")
	assert.Contains(t, names, "string_concat")
	assert.Contains(t, names, "json_literal")
	assert.Contains(t, names, "fetch")
	assert.Contains(t, names, "section")
}

func TestRuntimeScripts(t *testing.T) {
	fsys := fstest.MapFS{
		"shout.risor": &fstest.MapFile{
			Data: []byte(`args[0] + "!"` + "\n"),
		},
	}

	rt := NewRuntime(fsys)
	funcs, err := rt.Funcs(context.Background())
	require.NoError(t, err)
	require.Contains(t, funcs, "shout")

	e := newTestExpander(t, funcs)
	out, err := e.Expand("test.cccp", []byte(`{{ shout "hey" }}`))
	require.NoError(t, err)
	assert.Equal(t, "hey!", string(out))
}

func TestDefaultScripts(t *testing.T) {
	rt := NewRuntime(DefaultScripts)
	funcs, err := rt.Funcs(context.Background())
	require.NoError(t, err)
	require.Contains(t, funcs, "banner")
	require.Contains(t, funcs, "guard")

	e := newTestExpander(t, funcs)
	out, err := e.Expand("test.cccp", []byte(`{{ banner "generated" }}`))
	require.NoError(t, err)
	assert.Equal(t, "// === generated ===", string(out))
}
