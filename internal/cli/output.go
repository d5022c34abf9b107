package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

var (
	doneColor   = color.New(color.FgGreen).SprintFunc()
	dimColor    = color.New(color.FgHiBlack).SprintFunc()
	headerColor = color.New(color.Bold).SprintFunc()
	warnColor   = color.New(color.FgYellow).SprintFunc()
)

func newTable(headers ...any) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 60
	table.Wrap = true
	bold := make([]any, len(headers))
	for i, h := range headers {
		bold[i] = headerColor(h)
	}
	table.AddRow(bold...)
	return table
}

func checkbox(done bool) string {
	if done {
		return doneColor("[x]")
	}
	return "[ ]"
}

// shortID shortens a UUID for listings. Any unique prefix is accepted back.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// matchID resolves a full id or unique prefix against ids.
func matchID(kind, prefix string, ids []string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("%s id is required", kind)
	}
	var found []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%s %q not found", kind, prefix)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%s id %q is ambiguous (%d matches)", kind, prefix, len(found))
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return dimColor("-")
	}
	return s
}
