package subscription

type Plan string
type Status string
type Feature string

const (
	PlanFree   Plan = "FREE"
	PlanBasico Plan = "BASICO"
	PlanPro    Plan = "PRO"
)

const (
	StatusActive       Status = "ACTIVE"
	StatusExpiringSoon Status = "EXPIRING_SOON"
	StatusExpired      Status = "EXPIRED"
	StatusPermanent    Status = "PERMANENT"
)

const (
	AdvancedReports Feature = "advanced_reports"
	PurchaseOrders  Feature = "purchase_orders"
	CSVExport       Feature = "csv_export"
	MultiUser       Feature = "multi_user"
	PrioritySupport Feature = "priority_support"
)

func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanBasico, PlanPro:
		return true
	}
	return false
}

// IsPaid reports whether the plan can expire. FREE stores are permanent by
// policy and never enter the expiry flow.
func (p Plan) IsPaid() bool {
	return p == PlanBasico || p == PlanPro
}

type PlanLimits struct {
	MaxProducts     int
	MaxUsers        int
	AllowedFeatures map[Feature]bool
}

var PlanFeatures = map[Plan]PlanLimits{
	PlanFree: {
		MaxProducts: 50,
		MaxUsers:    1,
		AllowedFeatures: map[Feature]bool{
			AdvancedReports: false,
			PurchaseOrders:  false,
			CSVExport:       false,
			MultiUser:       false,
			PrioritySupport: false,
		},
	},
	PlanBasico: {
		MaxProducts: 1000,
		MaxUsers:    5,
		AllowedFeatures: map[Feature]bool{
			AdvancedReports: false,
			PurchaseOrders:  true,
			CSVExport:       true,
			MultiUser:       true,
			PrioritySupport: false,
		},
	},
	PlanPro: {
		MaxProducts: 20000,
		MaxUsers:    50,
		AllowedFeatures: map[Feature]bool{
			AdvancedReports: true,
			PurchaseOrders:  true,
			CSVExport:       true,
			MultiUser:       true,
			PrioritySupport: true,
		},
	},
}

func CanUseFeature(plan Plan, feature Feature) bool {
	limits, exists := PlanFeatures[plan]
	if !exists {
		return false
	}
	return limits.AllowedFeatures[feature]
}

func GetPlanLimits(plan Plan) PlanLimits {
	return PlanFeatures[plan]
}

// Billing-provider variant ids, set once from config at startup.
var (
	basicoVariantID string
	proVariantID    string
)

func ConfigureVariants(basico, pro string) {
	basicoVariantID = basico
	proVariantID = pro
}

// DeterminePlan maps a LemonSqueezy variant id to a plan. Unknown variants fall
// back to FREE.
func DeterminePlan(variantID string) Plan {
	if variantID == "" {
		return PlanFree
	}
	switch variantID {
	case basicoVariantID:
		return PlanBasico
	case proVariantID:
		return PlanPro
	default:
		return PlanFree
	}
}
