package rule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
)

// MaxInlineValues 单个分段展开后的最大取值数
const MaxInlineValues = 10000

// ExpandInlineExpression 展开行表达式
//
// Supported forms, combined as a cartesian product within one segment and
// concatenated across top-level commas:
//
//	t_order_${0..3}            range, inclusive, may count down
//	t_${['a', 'b']}            list, quotes optional
//	ds_$->{0..1}.t_order_${0..1}
//	ds_0.t_user, ds_1.t_user   plain comma separated values
func ExpandInlineExpression(expression string) ([]string, error) {
	segments, err := splitSegments(expression)
	if err != nil {
		return nil, err
	}

	var result []string
	for _, segment := range segments {
		values, err := expandSegment(expression, segment)
		if err != nil {
			return nil, err
		}
		result = append(result, values...)
	}
	return result, nil
}

// splitSegments splits on commas that are outside placeholders.
func splitSegments(expression string) ([]string, error) {
	var segments []string
	depth := 0
	start := 0
	for i, ch := range expression {
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return nil, domain.NewErrInvalidInlineExpression(expression, "unbalanced '}'")
			}
		case ',':
			if depth == 0 {
				segments = appendSegment(segments, expression[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, domain.NewErrInvalidInlineExpression(expression, "unclosed placeholder")
	}
	return appendSegment(segments, expression[start:]), nil
}

func appendSegment(segments []string, segment string) []string {
	if segment = strings.TrimSpace(segment); segment != "" {
		segments = append(segments, segment)
	}
	return segments
}

func expandSegment(expression, segment string) ([]string, error) {
	results := []string{""}
	rest := segment
	for rest != "" {
		open, width := findPlaceholder(rest)
		if open < 0 {
			results = appendLiteral(results, rest)
			break
		}
		results = appendLiteral(results, rest[:open])

		body := rest[open+width:]
		end := strings.IndexByte(body, '}')
		if end < 0 {
			return nil, domain.NewErrInvalidInlineExpression(expression, "unclosed placeholder")
		}
		values, err := placeholderValues(expression, body[:end])
		if err != nil {
			return nil, err
		}
		if len(results)*len(values) > MaxInlineValues {
			return nil, domain.NewErrInvalidInlineExpression(expression,
				fmt.Sprintf("expands to more than %d values", MaxInlineValues))
		}
		results = product(results, values)
		rest = body[end+1:]
	}
	return results, nil
}

// findPlaceholder returns the offset and opening width of the first "${" or "$->{".
func findPlaceholder(s string) (int, int) {
	i := strings.Index(s, "$")
	for i >= 0 {
		switch {
		case strings.HasPrefix(s[i:], "${"):
			return i, 2
		case strings.HasPrefix(s[i:], "$->{"):
			return i, 4
		}
		next := strings.Index(s[i+1:], "$")
		if next < 0 {
			break
		}
		i += next + 1
	}
	return -1, 0
}

func placeholderValues(expression, body string) ([]string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.NewErrInvalidInlineExpression(expression, "empty placeholder")
	}

	if strings.HasPrefix(body, "[") {
		if !strings.HasSuffix(body, "]") {
			return nil, domain.NewErrInvalidInlineExpression(expression, "unclosed list")
		}
		var values []string
		for _, item := range strings.Split(body[1:len(body)-1], ",") {
			item = strings.Trim(strings.TrimSpace(item), `'"`)
			if item != "" {
				values = append(values, item)
			}
		}
		if len(values) == 0 {
			return nil, domain.NewErrInvalidInlineExpression(expression, "empty list")
		}
		return values, nil
	}

	bounds := strings.SplitN(body, "..", 2)
	if len(bounds) != 2 {
		return nil, domain.NewErrInvalidInlineExpression(expression, "unsupported placeholder "+body)
	}
	from, err := strconv.ParseInt(strings.TrimSpace(bounds[0]), 10, 32)
	if err != nil {
		return nil, domain.NewErrInvalidInlineExpression(expression, "invalid range start "+bounds[0])
	}
	to, err := strconv.ParseInt(strings.TrimSpace(bounds[1]), 10, 32)
	if err != nil {
		return nil, domain.NewErrInvalidInlineExpression(expression, "invalid range end "+bounds[1])
	}

	// 32 位边界相减不会溢出 int64
	span := to - from
	step := int64(1)
	if span < 0 {
		span, step = -span, -1
	}
	if span >= MaxInlineValues {
		return nil, domain.NewErrInvalidInlineExpression(expression,
			fmt.Sprintf("range %s expands to more than %d values", body, MaxInlineValues))
	}

	values := make([]string, 0, span+1)
	for n := from; ; n += step {
		values = append(values, strconv.FormatInt(n, 10))
		if n == to {
			break
		}
	}
	return values, nil
}

func appendLiteral(results []string, literal string) []string {
	for i := range results {
		results[i] += literal
	}
	return results
}

func product(prefixes, values []string) []string {
	out := make([]string, 0, len(prefixes)*len(values))
	for _, prefix := range prefixes {
		for _, value := range values {
			out = append(out, prefix+value)
		}
	}
	return out
}

