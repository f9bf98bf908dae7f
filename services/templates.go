package services

import (
	"strings"

	"github.com/codehub-server/models"
)

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{name}}</title>
    <link rel="stylesheet" href="style.css">
</head>
<body>
    <div class="container">
        <h1>Welcome to {{name}}</h1>
        <p>Start building your amazing web project!</p>
    </div>
    <script src="script.js"></script>
</body>
</html>`

const styleTemplate = `/* {{name}} Styles */
.container {
    max-width: 800px;
    margin: 0 auto;
    padding: 2rem;
    font-family: Arial, sans-serif;
}

h1 {
    color: #333;
    text-align: center;
    margin-bottom: 1rem;
}

p {
    color: #666;
    text-align: center;
    font-size: 1.1rem;
}`

const scriptTemplate = `// {{name}} JavaScript
console.log('Welcome to {{name}}!');

// Add your JavaScript code here
document.addEventListener('DOMContentLoaded', function() {
    console.log('Page loaded successfully!');
});`

// starterFiles returns the files every new project begins with
func starterFiles(projectID, name string) []models.ProjectFile {
	seeds := []struct {
		name     string
		fileType models.FileType
		body     string
	}{
		{models.IndexFileName, models.FileTypeHTML, indexTemplate},
		{"style.css", models.FileTypeCSS, styleTemplate},
		{"script.js", models.FileTypeJS, scriptTemplate},
	}

	files := make([]models.ProjectFile, 0, len(seeds))
	for _, seed := range seeds {
		f := models.ProjectFile{
			ProjectID: projectID,
			Name:      seed.name,
			Path:      seed.name,
			FileType:  seed.fileType,
		}
		f.SetContent(strings.ReplaceAll(seed.body, "{{name}}", name))
		files = append(files, f)
	}
	return files
}
