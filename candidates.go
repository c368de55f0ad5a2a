package partloader

import "strings"

// NameStrategy builds the ordered list of filenames to try for slug and name, most specific first.
type NameStrategy func(slug, name, ext string) []string

// CandidateNames is the default NameStrategy.
//
// With a name it yields "slug-name.ext", "name.ext", "slug.ext"; without one only "slug.ext".
// ext may be given with or without its leading dot.
func CandidateNames(slug, name, ext string) []string {
	ext = normalizeExt(ext)
	files := make([]string, 0, 3)
	if name != "" {
		files = append(files, slug+"-"+name+ext, name+ext)
	}
	return append(files, slug+ext)
}

func normalizeExt(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
