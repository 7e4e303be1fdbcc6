package task

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ResolveOutput substitutes the tokens of pattern with parts of the
// slash-separated input path inputRel and joins the result with
// outputRoot:
//
//	{relpath}  inputRel itself
//	{reldir}   directory of inputRel, empty at the top level
//	{name}     base name without extension
//	{ext}      extension without the leading dot
//
// The joined path is cleaned, so an empty {reldir} never escapes
// outputRoot.
func ResolveOutput(inputRel, outputRoot, pattern string) string {
	inputRel = filepath.ToSlash(inputRel)

	dir := path.Dir(inputRel)
	if dir == "." {
		dir = ""
	}

	base := path.Base(inputRel)
	ext := path.Ext(base)
	name := strings.TrimSuffix(base, ext)

	rel := strings.NewReplacer(
		"{relpath}", inputRel,
		"{reldir}", dir,
		"{name}", name,
		"{ext}", strings.TrimPrefix(ext, "."),
	).Replace(pattern)

	return filepath.Join(outputRoot, filepath.FromSlash(rel))
}

// inputFile is a file selected by a task spec.
type inputFile struct {
	rel  string // slash-separated, relative to the input root
	size int64
}

// inputFiles walks root and returns, in lexical order, every regular file
// whose relative path ends with components matching pattern. A "**"
// component in pattern matches any number of directories.
func inputFiles(root, pattern string) ([]inputFile, error) {
	if root == "" {
		root = "."
	}

	want := splitPattern(pattern)

	var files []inputFile

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !matchTail(want, strings.Split(rel, "/")) {
			return nil
		}

		info, err := os.Stat(p)
		if err != nil {
			return err
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		files = append(files, inputFile{rel: rel, size: info.Size()})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func splitPattern(pattern string) []string {
	var parts []string
	for _, p := range strings.Split(filepath.ToSlash(pattern), "/") {
		if p != "" && p != "." {
			parts = append(parts, p)
		}
	}
	return parts
}

// matchTail reports whether the trailing components of name match pattern.
func matchTail(pattern, name []string) bool {
	return matchComponents(append([]string{"**"}, pattern...), name)
}

func matchComponents(pattern, name []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(name); i++ {
				if matchComponents(rest, name[i:]) {
					return true
				}
			}
			return false
		}

		if len(name) == 0 {
			return false
		}

		ok, err := path.Match(pattern[0], name[0])
		if err != nil || !ok {
			return false
		}

		pattern, name = pattern[1:], name[1:]
	}

	return len(name) == 0
}

// Stats summarizes the input of a task.
type Stats struct {
	TotalFiles int
	TotalBytes int64
}

// CollectStats counts the files selected by spec and their total size.
func CollectStats(spec *TaskSpec) (Stats, error) {
	files, err := inputFiles(spec.InputRoot, spec.InputPattern)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{TotalFiles: len(files)}
	for _, f := range files {
		stats.TotalBytes += f.size
	}

	return stats, nil
}
