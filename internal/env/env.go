package env

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Slide describes the slide a demo is launched from.
type Slide struct {
	File  string
	Index int
	Count int
}

// ForSlide returns base with the SLIDES_* variables set for s and the
// slide's directory appended to PATH, so helper scripts next to a deck can be
// called by name.
func ForSlide(base []string, s Slide) []string {
	m := toMap(base)

	dir := slideDir(s.File)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	m["SLIDES_FILE"] = s.File
	m["SLIDES_DIR"] = dir
	m["SLIDES_INDEX"] = strconv.Itoa(s.Index + 1)
	m["SLIDES_COUNT"] = strconv.Itoa(s.Count)

	key := pathKey(m)
	m[key] = mergePath(m[key], []string{dir})

	return fromMap(m)
}

func slideDir(file string) string {
	if file == "" {
		return "."
	}
	return filepath.Dir(file)
}

// pathKey finds the existing spelling of PATH; Windows uses "Path".
func pathKey(m map[string]string) string {
	for k := range m {
		if strings.EqualFold(k, "PATH") {
			return k
		}
	}
	return "PATH"
}

func mergePath(existing string, extra []string) string {
	set := map[string]bool{}
	var out []string

	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		key := filepath.Clean(v)
		if set[key] {
			return
		}
		set[key] = true
		out = append(out, v)
	}

	for _, part := range filepath.SplitList(existing) {
		add(part)
	}
	for _, e := range extra {
		add(e)
	}

	return strings.Join(out, string(os.PathListSeparator))
}

func toMap(env []string) map[string]string {
	out := make(map[string]string, len(env))
	for _, kv := range env {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		out[k] = v
	}
	return out
}

func fromMap(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
