package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/aravindhsampath/chitti/internal/jsonschema"
)

// FileInput is the argument schema for the file executor.
type FileInput struct {
	Operation string `json:"operation" jsonschema:"description=One of read/write/list,required,enum=read,enum=write,enum=list"`
	Path      string `json:"path" jsonschema:"description=Filesystem path to operate on,required"`
	Content   string `json:"content,omitempty" jsonschema:"description=Content to write; required when operation is write"`
}

// File implements the read/write/list filesystem operations. A .html or
// .htm file read is converted to Markdown before being returned, so the
// model sees readable text instead of markup.
type File struct {
	params *jsonschema.Schema
}

// NewFile returns a File executor.
func NewFile() *File {
	return &File{params: jsonschema.GenerateJSONSchema[FileInput]()}
}

func (f *File) Name() string { return "file" }

func (f *File) Definition() Definition {
	return Definition{
		Name:        "file",
		Description: "Reads, writes, or lists files on the local filesystem. HTML files are converted to Markdown on read.",
		Parameters:  f.params,
	}
}

func (f *File) Execute(ctx context.Context, args json.RawMessage) (Result, error) {
	var in FileInput
	if len(args) > 0 {
		if err := json.Unmarshal(args, &in); err != nil {
			return errorResult(err), nil
		}
	}

	var (
		output any
		err    error
	)
	switch in.Operation {
	case "read":
		output, err = f.read(in.Path)
	case "write":
		output, err = f.write(in.Path, in.Content)
	case "list":
		output, err = f.list(in.Path)
	default:
		err = fmt.Errorf("unknown operation %q", in.Operation)
	}
	if err != nil {
		return errorResult(err), nil
	}

	encoded, marshalErr := json.Marshal(output)
	if marshalErr != nil {
		return errorResult(marshalErr), nil
	}
	return Result{Output: encoded}, nil
}

func (f *File) read(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	content := string(data)
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" || ext == ".htm" {
		markdown, err := htmltomarkdown.ConvertString(content)
		if err != nil {
			return nil, fmt.Errorf("converting html to markdown: %w", err)
		}
		content = markdown
	}

	return struct {
		Content string `json:"content"`
	}{Content: content}, nil
}

func (f *File) write(path, content string) (any, error) {
	if content == "" {
		return nil, fmt.Errorf("write requires content")
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, err
	}
	return struct {
		Bytes int `json:"bytes"`
	}{Bytes: len(content)}, nil
}

func (f *File) list(path string) (any, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return struct {
		Entries []string `json:"entries"`
	}{Entries: names}, nil
}
