package constants

// Plan is a subscription tier.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
)

// FreePlanBillLimit is the lifetime upload cap for the free tier.
const FreePlanBillLimit = 20

// BillingPeriod is the payment cadence for a paid plan.
type BillingPeriod string

const (
	PeriodMonthly BillingPeriod = "monthly"
	PeriodYearly  BillingPeriod = "yearly"
)

// PlanPricesPaise holds plan prices in paise (INR minor units).
var PlanPricesPaise = map[Plan]map[BillingPeriod]int64{
	PlanPro: {
		PeriodMonthly: 49900,
		PeriodYearly:  499900,
	},
	PlanBusiness: {
		PeriodMonthly: 99900,
		PeriodYearly:  999900,
	},
}

const CurrencyINR = "INR"
