package classify

import (
	"strings"

	"github.com/levynexus/nexus/internal/model"
)

// Amount heuristics used when neither merchant nor items carry signal.
const (
	smallPurchaseCeiling = 5.00
	subscriptionBandMin  = 10.00
	subscriptionBandMax  = 30.00
)

// TransactionData is the classification input: a parsed receipt or any
// raw transaction record reduced to its classification-relevant fields.
type TransactionData struct {
	Merchant string
	Items    []model.LineItem
	Total    *float64
}

// FromReceipt extracts classification input from a parsed receipt.
func FromReceipt(r model.ParsedReceipt) TransactionData {
	tx := TransactionData{Items: r.Items, Total: r.Total}
	if r.Merchant != nil {
		tx.Merchant = *r.Merchant
	}
	return tx
}

// Classifier resolves transactions against an ordered rule table. The
// table is read-only after construction; a Classifier is safe for
// concurrent use.
type Classifier struct {
	rules []model.ClassificationRule
}

// New creates a Classifier with the built-in rule table.
func New() *Classifier {
	return NewWithRules(DefaultRules())
}

// NewWithRules creates a Classifier with a caller-supplied ordered table.
func NewWithRules(rules []model.ClassificationRule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify assigns a category to a transaction. It is a pure function of
// its input and never fails: with no signal at all it returns
// Uncategorized/Other at low confidence.
//
// Precedence is strict: merchant rules (first match wins), then item
// keywords, then amount heuristics.
func (c *Classifier) Classify(tx TransactionData) model.Classification {
	if cls, ok := c.classifyByMerchant(tx.Merchant); ok {
		return cls
	}
	if len(tx.Items) > 0 {
		return classifyByItems(tx.Items)
	}
	return classifyByAmount(tx.Total)
}

func (c *Classifier) classifyByMerchant(merchant string) (model.Classification, bool) {
	name := strings.ToLower(strings.TrimSpace(merchant))
	if name == "" {
		return model.Classification{}, false
	}
	for _, rule := range c.rules {
		for _, pattern := range rule.MerchantPatterns {
			if strings.Contains(name, pattern) {
				return model.Classification{
					Category:        rule.Category,
					Subcategory:     rule.Subcategory,
					IsDiscretionary: rule.IsDiscretionary,
					Recurrence:      rule.Recurrence,
					Confidence:      model.ConfidenceHigh,
				}, true
			}
		}
	}
	return model.Classification{}, false
}

func classifyByItems(items []model.LineItem) model.Classification {
	for _, item := range items {
		name := strings.ToLower(item.Name)
		for _, kw := range groceryItemKeywords {
			if strings.Contains(name, kw) {
				return model.Classification{
					Category:        "Food",
					Subcategory:     "Groceries",
					IsDiscretionary: false,
					Recurrence:      model.RecurrenceOneTime,
					Confidence:      model.ConfidenceMedium,
				}
			}
		}
	}
	return uncategorized("Other")
}

func classifyByAmount(total *float64) model.Classification {
	if total == nil {
		return uncategorized("Other")
	}
	switch {
	case *total > 0 && *total < smallPurchaseCeiling:
		return uncategorized("Small Purchase")
	case *total >= subscriptionBandMin && *total <= subscriptionBandMax:
		cls := uncategorized("Possible Subscription")
		cls.Recurrence = model.RecurrenceMonthly
		return cls
	default:
		return uncategorized("Other")
	}
}

func uncategorized(subcategory string) model.Classification {
	return model.Classification{
		Category:        "Uncategorized",
		Subcategory:     subcategory,
		IsDiscretionary: false,
		Recurrence:      model.RecurrenceUnknown,
		Confidence:      model.ConfidenceLow,
	}
}
