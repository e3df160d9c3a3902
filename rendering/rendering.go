// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package rendering turns a directory listing or a one-off status into the
// HTML pages the engine writes back to clients.
package rendering

import (
	"html/template"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/hypershare/hypershare/common"
)

const md5sumMaxBytes = 34

// Entry is a single row of a rendered directory listing.
type Entry struct {
	Name    string
	Href    string
	IsDir   bool
	Size    string
	MD5     string
	HasHash bool
}

// DirectoryData is everything the directory template needs.
type DirectoryData struct {
	RelativePath   string
	Entries        []Entry
	ShowUploadForm bool
	ShowUpLink     bool
	UpHref         string
	GitHash        string
}

// StatusData is everything the error/status template needs.
type StatusData struct {
	Code    int
	Message string
	Body    string
	GitHash string
}

var dirTemplate = template.Must(template.New("dir").Parse(`<html>
<head>
<style>
tr { font-family: monospace; }
</style>
<link rel="shortcut icon" href="data:image/x-icon;," type="image/x-icon">
</head>
<body>
<h1>Directory listing for /{{.RelativePath}}</h1>
<hr>
{{if .ShowUpLink}}<a href="{{.UpHref}}"><i>Up a directory</i></a><br>{{end}}
<table>
{{range .Entries}}<tr><td><pre style="display: block; text-align: center;">{{if .IsDir}}[DIR]{{else}}[FILE]{{end}}</pre></td><td><a href="{{.Href}}">{{.Name}}</a></td><td><pre style="display: block; text-align: right;">{{.Size}}</pre></td><td>{{if .HasHash}}<pre>MD5: {{.MD5}}</pre>{{end}}</td></tr>
{{end}}</table>
{{if .ShowUploadForm}}<hr>
<form method="post" enctype="multipart/form-data">
<input type="file" name="data">
<input type="submit">
</form>{{end}}
<footer><hr><pre>Rendered with hypershare revision {{.GitHash}}.</pre></footer>
</body>
</html>`))

var errorTemplate = template.Must(template.New("error").Parse(`<html>
<head>
<link rel="shortcut icon" href="data:image/x-icon;," type="image/x-icon">
</head>
<body>
<h1>{{.Code}} {{.Message}}</h1>
<hr>
{{if .Body}}<pre class="error">{{.Body}}</pre>{{end}}
<footer><hr><pre>Rendered with hypershare revision {{.GitHash}}.</pre></footer>
</body>
</html>`))

func gitHash() string {
	h := common.GetBuildInfo().GitHash
	if h == "" {
		return "unknown"
	}
	return h
}

// generateHref builds the href for an entry under relativePath. No href
// ever gets a trailing slash appended. When noSlash is set, one trailing
// slash is stripped from relativePath first; this changes the result only
// when relativePath ends in two or more slashes, where it removes one of
// the doubled slashes. hypershare never redirects a bare directory
// request.
func generateHref(relativePath, name string, noSlash bool) string {
	rel := relativePath
	if noSlash {
		rel = strings.TrimSuffix(rel, "/")
	}
	if strings.HasSuffix(rel, "/") {
		return "/" + rel + name
	}
	if rel == "" {
		return "/" + name
	}
	return "/" + rel + "/" + name
}

func md5Table(dirPath string, entries []os.DirEntry) map[string]string {
	table := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md5sum") {
			continue
		}
		info, err := e.Info()
		if err != nil || info.Size() > md5sumMaxBytes {
			continue
		}
		data, err := os.ReadFile(path.Join(dirPath, e.Name()))
		if err != nil {
			continue
		}
		table[e.Name()] = strings.TrimSpace(string(data))
	}
	return table
}

// RenderDirectory renders a directory listing rooted at fsPath, whose
// request-visible location is relativePath (no leading slash). showForm
// toggles the multipart upload form; noSlash governs href construction
// per generateHref.
func RenderDirectory(fsPath, relativePath string, showForm, noSlash bool) (string, error) {
	dirEntries, err := os.ReadDir(fsPath)
	if err != nil {
		return "", err
	}
	sort.Slice(dirEntries, func(i, j int) bool { return dirEntries[i].Name() < dirEntries[j].Name() })

	hashes := md5Table(fsPath, dirEntries)

	data := DirectoryData{
		RelativePath:   relativePath,
		ShowUploadForm: showForm,
		ShowUpLink:     relativePath != "",
		UpHref:         generateHref(relativePath, "..", noSlash),
		GitHash:        gitHash(),
	}

	for _, e := range dirEntries {
		name := e.Name()
		if strings.HasSuffix(name, ".md5sum") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		entry := Entry{
			Name:  name,
			Href:  generateHref(relativePath, name, noSlash),
			IsDir: e.IsDir(),
		}
		if !e.IsDir() {
			entry.Size = strconv.FormatInt(info.Size(), 10)
		}
		if sum, ok := hashes[name+".md5sum"]; ok {
			entry.MD5 = sum
			entry.HasHash = true
		}
		data.Entries = append(data.Entries, entry)
	}

	var buf strings.Builder
	if err := dirTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderError renders a one-off status page; message may be empty.
func RenderError(code int, reason, message string) (string, error) {
	data := StatusData{
		Code:    code,
		Message: reason,
		Body:    message,
		GitHash: gitHash(),
	}
	var buf strings.Builder
	if err := errorTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
