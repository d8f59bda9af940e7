// Package nlp extracts the #project, @label and due-date shortcuts typed into
// the task edit box.
package nlp

import (
	"regexp"
	"strings"

	"github.com/hy4ri/tuidoist/internal/api"
	"github.com/hy4ri/tuidoist/internal/cache"
)

var (
	projectRef   = regexp.MustCompile(`#(\w+)`)
	projectStrip = regexp.MustCompile(`\s*#\w+`)
	labelRef     = regexp.MustCompile(`@(\w+)`)
	labelStrip   = regexp.MustCompile(`\s*@\w+`)
	spaces       = regexp.MustCompile(`\s{2,}`)
)

// duePatterns are tried in order; the first one found wins.
var duePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(today|tomorrow|yesterday)\b`),
	regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}[/-]\d{1,2}([/-]\d{2,4})?\b`),
	regexp.MustCompile(`(?i)\bat \d{1,2}:\d{2}( ?[ap]m)?\b`),
	regexp.MustCompile(`(?i)\b(next|this) (week|month|year)\b`),
	regexp.MustCompile(`(?i)\bin \d+ (day|week|month|year)s?\b`),
}

// Result is what an edit line asks for.
type Result struct {
	Content   string
	DueString string
	// ProjectID is empty when no #project matched a cached project.
	ProjectID string
	// ProjectRef is the #name as typed, even when it did not resolve.
	ProjectRef string
	// Labels are label names as the server expects them.
	Labels []string
}

// HasDue reports whether a due phrase was found.
func (r Result) HasDue() bool {
	return r.DueString != ""
}

// Parse splits input into plain content and the shortcuts it carries.
// Projects resolve case-insensitively against the cache. Labels resolve to
// their canonical cached name or are kept as typed so the server can create
// them.
func Parse(input string, store *cache.Store) Result {
	res := Result{Content: input}

	if m := projectRef.FindStringSubmatch(input); m != nil {
		res.ProjectRef = m[1]
		if id, ok := store.Projects.IDByName(m[1]); ok {
			res.ProjectID = id
		}
		res.Content = projectStrip.ReplaceAllString(res.Content, "")
	}

	if matches := labelRef.FindAllStringSubmatch(input, -1); matches != nil {
		labels := store.Labels.Snapshot()
		for _, m := range matches {
			name := m[1]
			if id, ok := labels.IDByName(name); ok {
				name, _ = labels.Name(id)
			}
			res.Labels = appendUnique(res.Labels, name)
		}
		res.Content = labelStrip.ReplaceAllString(res.Content, "")
	}

	res.Content = strings.TrimSpace(res.Content)
	for _, re := range duePatterns {
		if due := re.FindString(res.Content); due != "" {
			res.DueString = due
			res.Content = strings.TrimSpace(re.ReplaceAllString(res.Content, ""))
			break
		}
	}

	res.Content = spaces.ReplaceAllString(res.Content, " ")
	return res
}

// Request builds the update body for r. Empty content leaves the task's
// content alone and no labels leaves its labels alone.
func (r Result) Request() api.UpdateTaskRequest {
	var req api.UpdateTaskRequest
	if r.Content != "" {
		content := r.Content
		req.Content = &content
	}
	if r.DueString != "" {
		due := r.DueString
		req.DueString = &due
	}
	if len(r.Labels) > 0 {
		req.Labels = r.Labels
	}
	return req
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return list
		}
	}
	return append(list, s)
}
