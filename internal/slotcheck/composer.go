// internal/slotcheck/composer.go
package slotcheck

import (
	"sort"
	"strings"
)

// Human-facing prefixes for the two single-shape categories. The
// combined category has never carried a prefix and downstream bots
// depend on that, so it stays prefix-free.
const (
	prefixMissing = "由于缺少以下槽位信息而导致无法查出"
	prefixInvalid = "不好意思，此次查询由于以下槽位数据暂时不支持查找而导致无法得出结果"
)

// Compose renders the user-facing explanation for a validation result.
// Successful and precondition results keep their message untouched; a
// graded failure is expanded into the category prefix followed
// immediately by one line per offending slot listing the values the
// rule would have accepted. The prefix runs straight into the first
// slot line with no separator; consumers parse this exact shape.
func Compose(res Result) string {
	if res.Kind != FailValidationFailed || res.Data == nil {
		return res.Message
	}

	var b strings.Builder
	switch res.Data.Category {
	case CategoryMissing:
		b.WriteString(prefixMissing)
		writeSlotLines(&b, res.Data.Missing)
	case CategoryInvalid:
		b.WriteString(prefixInvalid)
		writeSlotLines(&b, res.Data.Invalid)
	case CategoryBoth:
		writeSlotLines(&b, res.Data.Missing)
		writeSlotLines(&b, res.Data.Invalid)
	default:
		return res.Message
	}
	return b.String()
}

// writeSlotLines emits one "slot：v1、v2" line per slot, newline
// terminated, in sorted slot order so output is stable run to run.
func writeSlotLines(b *strings.Builder, slots map[string][]string) {
	names := make([]string, 0, len(slots))
	for name := range slots {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		b.WriteString(name)
		b.WriteString("：")
		b.WriteString(strings.Join(slots[name], "、"))
		b.WriteString("\n")
	}
}
