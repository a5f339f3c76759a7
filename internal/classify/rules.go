// Package classify assigns spending categories to parsed transactions.
package classify

import "github.com/levynexus/nexus/internal/model"

// DefaultRules is the built-in merchant rule table. Order matters: the
// first rule whose patterns substring-match the merchant wins, so more
// specific entries must precede broader ones (e.g. "whole foods" before
// any rule that would match on "foods"). Western and Indonesian merchants
// share the one ordered list.
func DefaultRules() []model.ClassificationRule {
	return []model.ClassificationRule{
		// Groceries and convenience stores.
		{
			MerchantPatterns: []string{"whole foods", "trader joe", "safeway", "kroger", "aldi", "costco"},
			Category:         "Food", Subcategory: "Groceries",
			IsDiscretionary: false, Recurrence: model.RecurrenceOneTime,
		},
		{
			MerchantPatterns: []string{"indomaret", "alfamart", "circle k", "familymart"},
			Category:         "Food", Subcategory: "Groceries",
			IsDiscretionary: false, Recurrence: model.RecurrenceOneTime,
		},

		// Restaurants, Western and Indonesian.
		{
			MerchantPatterns: []string{"restoran", "warung", "padang", "bakso", "sate"},
			Category:         "Food", Subcategory: "Restaurant",
			IsDiscretionary: true, Recurrence: model.RecurrenceOneTime,
		},
		{
			MerchantPatterns: []string{"restaurant", "cafe", "kafe", "chipotle", "mcdonald", "burger king", "starbucks", "kfc", "pizza"},
			Category:         "Food", Subcategory: "Restaurant",
			IsDiscretionary: true, Recurrence: model.RecurrenceOneTime,
		},

		// Transportation.
		{
			MerchantPatterns: []string{"shell", "chevron", "exxon", "pertamina", "gas station", "spbu", "petrol"},
			Category:         "Transportation", Subcategory: "Fuel",
			IsDiscretionary: false, Recurrence: model.RecurrenceOneTime,
		},
		{
			MerchantPatterns: []string{"grab", "gojek", "uber", "lyft", "bluebird"},
			Category:         "Transportation", Subcategory: "Rideshare",
			IsDiscretionary: false, Recurrence: model.RecurrenceOneTime,
		},

		// Subscriptions and entertainment.
		{
			MerchantPatterns: []string{"netflix", "spotify", "disney+", "hbo", "youtube premium", "vidio"},
			Category:         "Entertainment", Subcategory: "Streaming",
			IsDiscretionary: true, Recurrence: model.RecurrenceMonthly,
		},
		{
			MerchantPatterns: []string{"cinema", "cgv", "xxi", "theater"},
			Category:         "Entertainment", Subcategory: "Movies",
			IsDiscretionary: true, Recurrence: model.RecurrenceOneTime,
		},

		// Health and fitness.
		{
			MerchantPatterns: []string{"la fitness", "planet fitness", "gym", "fitness first", "celebrity fitness"},
			Category:         "Health", Subcategory: "Fitness",
			IsDiscretionary: false, Recurrence: model.RecurrenceMonthly,
		},
		{
			MerchantPatterns: []string{"pharmacy", "apotek", "cvs", "walgreens", "kimia farma", "guardian"},
			Category:         "Health", Subcategory: "Pharmacy",
			IsDiscretionary: false, Recurrence: model.RecurrenceOneTime,
		},

		// Shopping and travel.
		{
			MerchantPatterns: []string{"amazon", "tokopedia", "shopee", "lazada", "target", "walmart"},
			Category:         "Shopping", Subcategory: "General",
			IsDiscretionary: true, Recurrence: model.RecurrenceOneTime,
		},
		{
			MerchantPatterns: []string{"traveloka", "agoda", "airbnb", "booking.com", "expedia"},
			Category:         "Travel", Subcategory: "Booking",
			IsDiscretionary: true, Recurrence: model.RecurrenceOneTime,
		},

		// Indonesian e-wallet top-ups.
		{
			MerchantPatterns: []string{"gopay", "dana", "ovo", "linkaja"},
			Category:         "Finance", Subcategory: "E-Wallet",
			IsDiscretionary: false, Recurrence: model.RecurrenceOneTime,
		},

		// Utilities and telecom.
		{
			MerchantPatterns: []string{"pln", "telkomsel", "indihome", "comcast", "verizon", "at&t"},
			Category:         "Utilities", Subcategory: "Bills",
			IsDiscretionary: false, Recurrence: model.RecurrenceMonthly,
		},
	}
}

// groceryItemKeywords back up the merchant rules when only line items
// carry signal.
var groceryItemKeywords = []string{
	"milk", "bread", "cheese", "egg", "yogurt", "butter",
	"vegetable", "fruit", "produce", "organic",
	"beras", "telur", "mie", "kopi", "susu", "roti",
}
