// Package validate is the command-safety gatekeeper. It decides, before any
// session is opened, whether operator-supplied command text is safe to send
// to a device that has no transactional rollback.
//
// Both checks are blocklists, not allowlists: the configuration surface of a
// network OS is far too large to enumerate safely, so the contract here is
// "block known-destructive operations", nothing stronger.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// RejectionError carries the human-readable reason a command was refused.
// The reason is safe to return to the caller verbatim.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string { return e.Reason }

func reject(format string, args ...any) error {
	return &RejectionError{Reason: fmt.Sprintf(format, args...)}
}

// showBlockset 列出不允许出现在 show 命令里的子命令关键字
// 命中即拒绝，即使它只是参数（比如型号恰好叫 "copy" 的误伤是可接受的代价）
var showBlockset = map[string]struct{}{
	"copy":      {},
	"delete":    {},
	"erase":     {},
	"reload":    {},
	"write":     {},
	"configure": {},
	"conf":      {},
}

// wordPattern splits a lowered command into maximal word-like tokens,
// discarding punctuation and whitespace.
var wordPattern = regexp.MustCompile(`[a-z0-9_-]+`)

// configPatterns 按固定优先级检查，第一个命中即返回
// 匹配在全批次小写拼接文本上进行，跨行也能命中
var configPatterns = []struct {
	pattern *regexp.Regexp
	name    string
}{
	{regexp.MustCompile(`write\s+erase`), "write erase"},
	{regexp.MustCompile(`(?m)^\s*erase`), "erase"},
	{regexp.MustCompile(`\breload\b`), "reload"},
	{regexp.MustCompile(`\bdelete\b`), "delete"},
	{regexp.MustCompile(`\bformat\b`), "format"},
}

// configWrappers are implicit in how configuration is applied and are
// stripped by NormalizeConfig before validation.
var configWrappers = map[string]struct{}{
	"configure terminal": {},
	"conf t":             {},
	"end":                {},
}

// Show reports whether a caller-supplied command is a safe read-only
// inspection command. nil means allowed. Matching is case-insensitive; the
// original casing is preserved for execution by the caller.
func Show(command string) error {
	lowered := strings.ToLower(strings.TrimSpace(command))
	if !strings.HasPrefix(lowered, "show") {
		return reject("Only 'show' commands are allowed, got: %s", strings.TrimSpace(command))
	}
	for _, token := range wordPattern.FindAllString(lowered, -1) {
		if _, blocked := showBlockset[token]; blocked {
			return reject("Command contains blocked keyword '%s'", token)
		}
	}
	// Pipes and redirects can chain a second, unvalidated command on some
	// CLI dialects, so they are rejected anywhere in the string.
	if strings.ContainsAny(command, "|<>") {
		return reject("Pipe/redirect characters are not allowed")
	}
	return nil
}

// ConfigSet reports whether an ordered batch of configuration lines is safe
// to push. The caller strips blank and wrapper lines first; ConfigSet is
// never invoked on an empty batch. A batch matching several patterns reports
// only the first in priority order.
func ConfigSet(lines []string) error {
	joined := strings.ToLower(strings.Join(lines, "\n"))
	for _, p := range configPatterns {
		if p.pattern.MatchString(joined) {
			return reject("Configuration contains blocked command '%s'", p.name)
		}
	}
	return nil
}

// NormalizeConfig splits raw configuration text into the line batch that is
// validated and sent. Blank lines and the wrapper lines (configure terminal /
// conf t / end, any case) are dropped; leading indentation of sub-mode lines
// is preserved. Normalizing an already-normalized batch is a no-op.
func NormalizeConfig(text string) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, " \t\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if _, wrapper := configWrappers[strings.ToLower(trimmed)]; wrapper {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
