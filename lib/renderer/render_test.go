package renderer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bareIndex = "<html><head></head><body></body></html>"

func index(content string) File {
	return File{Name: "index.html", Path: "index.html", Content: content, FileType: "html"}
}

func css(name, content string) File {
	return File{Name: name, Path: name, Content: content, FileType: "css"}
}

func js(name, content string) File {
	return File{Name: name, Path: name, Content: content, FileType: "js"}
}

func TestRender_NoIndex(t *testing.T) {
	_, err := Render([]File{css("style.css", "a{}")}, Meta{})
	assert.ErrorIs(t, err, ErrNoIndex)

	_, err = Render(nil, Meta{})
	assert.ErrorIs(t, err, ErrNoIndex)
}

func TestRender_ReplacesLinkedStylesheet(t *testing.T) {
	files := []File{
		index(`<html><head><link rel="stylesheet" href="style.css"></head><body></body></html>`),
		css("style.css", "body{color:red}"),
	}

	out, err := Render(files, Meta{})
	require.NoError(t, err)

	assert.Contains(t, out, "<style>\n/* style.css */\nbody{color:red}\n</style>")
	assert.NotContains(t, out, `<link rel="stylesheet" href="style.css">`)
	assert.Equal(t, "<html><head><style>\n/* style.css */\nbody{color:red}\n</style></head><body></body></html>", out)
}

func TestRender_AppendsUnlinkedStylesheetBeforeHeadClose(t *testing.T) {
	files := []File{index(bareIndex), css("style.css", "body{color:red}")}

	out, err := Render(files, Meta{})
	require.NoError(t, err)

	assert.Equal(t, "<html><head>  <style>\n/* style.css */\nbody{color:red}\n</style>\n</head><body></body></html>", out)
}

func TestRender_ScriptsInlinedOrAppended(t *testing.T) {
	files := []File{
		index(`<html><head></head><body><script src="app.js"></script></body></html>`),
		js("app.js", "run()"),
		js("extra.js", "more()"),
	}

	out, err := Render(files, Meta{})
	require.NoError(t, err)

	assert.Equal(t,
		"<html><head></head><body><script>\n/* app.js */\nrun()\n</script>  <script>\n/* extra.js */\nmore()\n</script>\n</body></html>",
		out)
}

func TestRender_AppendedStylesKeepListOrder(t *testing.T) {
	files := []File{index(bareIndex), css("a.css", "A"), css("b.css", "B")}

	out, err := Render(files, Meta{})
	require.NoError(t, err)

	assert.Less(t, strings.Index(out, "/* a.css */"), strings.Index(out, "/* b.css */"))
}

func TestRender_IndexNeedNotBeFirst(t *testing.T) {
	files := []File{css("style.css", "p{}"), index(bareIndex)}

	out, err := Render(files, Meta{})
	require.NoError(t, err)
	assert.Contains(t, out, "/* style.css */")
}

func TestRender_DeploymentMeta(t *testing.T) {
	files := []File{index(bareIndex)}

	out, err := Render(files, Meta{ProjectName: "Demo", DeploymentURL: "http://localhost:8080/deploy/demo-abc"})
	require.NoError(t, err)

	assert.Equal(t, "<html><head>\n"+
		"  <meta name=\"generator\" content=\"CodeHub\">\n"+
		"  <meta name=\"deployment-url\" content=\"http://localhost:8080/deploy/demo-abc\">\n"+
		"  <meta name=\"project-name\" content=\"Demo\">\n"+
		"</head><body></body></html>", out)
}

func TestRender_PreviewHasNoMeta(t *testing.T) {
	out, err := Render([]File{index(bareIndex)}, Meta{ProjectName: "Demo"})
	require.NoError(t, err)

	assert.Equal(t, bareIndex, out)
	assert.NotContains(t, out, "generator")
}

func TestRender_MetaDefaultsProjectName(t *testing.T) {
	out, err := Render([]File{index(bareIndex)}, Meta{DeploymentURL: "http://x/deploy/y"})
	require.NoError(t, err)
	assert.Contains(t, out, `<meta name="project-name" content="Untitled">`)
}

func TestRender_Idempotent(t *testing.T) {
	files := []File{
		index(`<html><head><link rel="stylesheet" href="style.css"></head><body></body></html>`),
		css("style.css", "body{}"),
		js("script.js", "go()"),
	}
	meta := Meta{ProjectName: "Demo", DeploymentURL: "http://x/deploy/demo"}

	first, err := Render(files, meta)
	require.NoError(t, err)
	second, err := Render(files, meta)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRender_ContainsOriginalIndexWhenNothingToInline(t *testing.T) {
	content := "<!DOCTYPE html><html><head><title>t</title></head><body><h1>hi</h1></body></html>"

	out, err := Render([]File{index(content)}, Meta{})
	require.NoError(t, err)
	assert.Contains(t, out, content)
}

func TestRender_ReplacementIsLiteral(t *testing.T) {
	files := []File{index(bareIndex), css("style.css", `a::after{content:"$&$1"}`)}

	out, err := Render(files, Meta{})
	require.NoError(t, err)
	assert.Contains(t, out, `a::after{content:"$&$1"}`)
}

func TestRender_DoesNotMutateInput(t *testing.T) {
	files := []File{index(bareIndex), css("style.css", "p{}")}

	_, err := Render(files, Meta{DeploymentURL: "http://x/deploy/y"})
	require.NoError(t, err)
	assert.Equal(t, bareIndex, files[0].Content)
}

// The following cases pin down the literal-match behaviour for malformed documents.
// They are accepted limitations, not bugs to be fixed here.

func TestRender_MissingHeadCloseDropsAppendedStyle(t *testing.T) {
	content := "<html><body></body></html>"

	out, err := Render([]File{index(content), css("style.css", "p{}")}, Meta{})
	require.NoError(t, err)
	assert.Equal(t, content, out)
}

func TestRender_MissingBodyCloseDropsAppendedScript(t *testing.T) {
	content := "<html><head></head><body>"

	out, err := Render([]File{index(content), js("script.js", "go()")}, Meta{})
	require.NoError(t, err)
	assert.Equal(t, content, out)
}

func TestRender_DuplicateHeadCloseInsertsBeforeFirstOnly(t *testing.T) {
	content := "<html><head></head><head></head><body></body></html>"

	out, err := Render([]File{index(content), css("style.css", "p{}")}, Meta{})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "<style>"))
	assert.True(t, strings.HasPrefix(out, "<html><head>  <style>"))
}

func TestRender_DuplicateLinkTagReplacesFirstOnly(t *testing.T) {
	link := `<link rel="stylesheet" href="style.css">`
	content := "<html><head>" + link + link + "</head><body></body></html>"

	out, err := Render([]File{index(content), css("style.css", "p{}")}, Meta{})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "<style>"))
	assert.Equal(t, 1, strings.Count(out, link))
}

func TestRender_NonCanonicalLinkIsNotMatched(t *testing.T) {
	content := `<html><head><link href="style.css" rel="stylesheet"></head><body></body></html>`

	out, err := Render([]File{index(content), css("style.css", "p{}")}, Meta{})
	require.NoError(t, err)
	assert.Contains(t, out, `<link href="style.css" rel="stylesheet">`)
	assert.Contains(t, out, "  <style>\n/* style.css */\np{}\n</style>\n</head>")
}
