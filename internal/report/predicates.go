package report

import "github.com/sells-group/callrecon/internal/normalize"

// Category is a status bucket of the region × status matrix.
type Category string

const (
	CategoryPositive Category = "Positive"
	CategoryNegative Category = "Negative"
	CategoryNoAnswer Category = "NoAnswer"
	CategoryOther    Category = "Other"
	CategoryUnknown  Category = "Unknown"
)

// Categories lists the status buckets in column order.
var Categories = []Category{
	CategoryPositive,
	CategoryNegative,
	CategoryNoAnswer,
	CategoryOther,
	CategoryUnknown,
}

var (
	noAnswerStems = foldAll("could not reach", "no answer", "busy", "disconnected", "не дозвон", "нет ответа", "занято", "отключ")
	negativeStems = foldAll("negativ", "отриц")
	positiveStems = foldAll("positiv", "полож")
	closedStems   = foldAll("application closed", "заявка закрыта")
)

func foldAll(stems ...string) []string {
	out := make([]string, len(stems))
	for i, s := range stems {
		out[i] = normalize.Fold(s)
	}
	return out
}

// IsNoAnswer reports whether status is an unsuccessful call-back.
func IsNoAnswer(status string) bool { return normalize.ContainsAny(status, noAnswerStems) }

// IsNegative reports whether status records a negative review.
func IsNegative(status string) bool { return normalize.ContainsAny(status, negativeStems) }

// IsPositive reports whether status records a positive review.
func IsPositive(status string) bool { return normalize.ContainsAny(status, positiveStems) }

// IsClosed reports whether status marks the application as closed.
func IsClosed(status string) bool { return normalize.ContainsAny(status, closedStems) }

// Categorize buckets a resolved status. A status matching several stems takes
// the first of NoAnswer, Negative, Positive.
func Categorize(status string) Category {
	switch {
	case normalize.Clean(status) == "":
		return CategoryUnknown
	case IsNoAnswer(status):
		return CategoryNoAnswer
	case IsNegative(status):
		return CategoryNegative
	case IsPositive(status):
		return CategoryPositive
	default:
		return CategoryOther
	}
}
