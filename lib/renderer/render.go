// Package renderer turns a stored project file set into one self-contained HTML document
// by inlining its stylesheets and scripts into index.html.
//
// Matching is plain substring search on the canonical tags produced by the editor
// (`<link rel="stylesheet" href="...">` and `<script src="..."></script>`). Tags written
// with other attribute orders or quoting are left alone and the file is appended instead.
package renderer

import (
	"errors"
	"html"
	"strings"
)

// IndexFileName is the entry page every project must contain.
const IndexFileName = "index.html"

// Generator is advertised in the meta tags of published deployments.
const Generator = "CodeHub"

// ErrNoIndex is returned when the file set has no index.html.
var ErrNoIndex = errors.New("no index.html file found")

// File is the minimal view of a project or commit file needed for rendering.
type File struct {
	Name     string
	Path     string
	Content  string
	FileType string
}

// Meta describes where the document is being served. DeploymentURL is empty for private
// live previews; when set, deployment meta tags are injected into <head>.
type Meta struct {
	ProjectName   string
	DeploymentURL string
}

// Render produces the inlined document. It never mutates files and is safe for
// concurrent use.
func Render(files []File, meta Meta) (string, error) {
	index, ok := findIndex(files)
	if !ok {
		return "", ErrNoIndex
	}

	doc := index.Content

	for _, f := range files {
		if f.FileType != "css" {
			continue
		}
		link := `<link rel="stylesheet" href="` + f.Path + `">`
		style := "<style>\n/* " + f.Name + " */\n" + f.Content + "\n</style>"
		doc = inlineOrAppend(doc, link, style, "</head>")
	}

	for _, f := range files {
		if f.FileType != "js" {
			continue
		}
		src := `<script src="` + f.Path + `"></script>`
		script := "<script>\n/* " + f.Name + " */\n" + f.Content + "\n</script>"
		doc = inlineOrAppend(doc, src, script, "</body>")
	}

	if meta.DeploymentURL != "" {
		doc = strings.Replace(doc, "</head>", deploymentMeta(meta)+"\n</head>", 1)
	}

	return doc, nil
}

func findIndex(files []File) (File, bool) {
	for _, f := range files {
		if f.Name == IndexFileName {
			return f, true
		}
	}
	return File{}, false
}

// inlineOrAppend swaps the first occurrence of ref for block, or, when ref is absent,
// inserts block before the first closing tag. A document without the closing tag is
// returned unchanged.
func inlineOrAppend(doc, ref, block, closing string) string {
	if strings.Contains(doc, ref) {
		return strings.Replace(doc, ref, block, 1)
	}
	return strings.Replace(doc, closing, "  "+block+"\n"+closing, 1)
}

func deploymentMeta(meta Meta) string {
	name := meta.ProjectName
	if name == "" {
		name = "Untitled"
	}
	var b strings.Builder
	b.WriteString("\n  <meta name=\"generator\" content=\"" + Generator + "\">")
	b.WriteString("\n  <meta name=\"deployment-url\" content=\"" + html.EscapeString(meta.DeploymentURL) + "\">")
	b.WriteString("\n  <meta name=\"project-name\" content=\"" + html.EscapeString(name) + "\">")
	return b.String()
}
