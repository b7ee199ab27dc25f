package subscription

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"ventapos_backend/internal/model"
)

// Service owns every mutation of a store's subscription fields. Each operation
// runs in a single transaction and re-derives status through CalculateStatus.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// StoreSnapshot is what mutation operations return to callers.
type StoreSnapshot struct {
	ID          uint       `json:"id"`
	Plan        Plan       `json:"plan"`
	Status      Status     `json:"status"`
	EndDate     *time.Time `json:"end_date"`
	IsPermanent bool       `json:"is_permanent"`
}

type RenewInput struct {
	DurationMonths int `json:"duration_months"`
	DurationYears  int `json:"duration_years"`
}

type PaymentInput struct {
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	Method         string    `json:"method"`
	Reference      string    `json:"reference"`
	PaymentDate    time.Time `json:"payment_date"`
	DurationMonths int       `json:"duration_months"`
	DurationYears  int       `json:"duration_years"`
	IsPermanent    bool      `json:"is_permanent"`
	Notes          string    `json:"notes"`
}

// RenewSubscription extends the store's paid period. A store renewed before its
// end date keeps the remaining days; an expired one starts from now.
func (s *Service) RenewSubscription(storeID uint, input RenewInput) (*StoreSnapshot, error) {
	months, err := normalizeDuration(input.DurationMonths, input.DurationYears)
	if err != nil {
		return nil, err
	}

	store, err := s.loadStore(storeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	endDate := NextEndDate(store.SubscriptionEndDate, now, months)
	status := CalculateStatus(Plan(store.SubscriptionPlan), &endDate, store.IsPermanent, now)

	updates := map[string]interface{}{
		"subscription_end_date": endDate,
		"subscription_status":   string(status),
	}
	if store.SubscriptionStartDate == nil {
		updates["subscription_start_date"] = now
	}

	if err := s.updateStore(storeID, updates); err != nil {
		return nil, err
	}

	return &StoreSnapshot{
		ID:          storeID,
		Plan:        Plan(store.SubscriptionPlan),
		Status:      status,
		EndDate:     &endDate,
		IsPermanent: store.IsPermanent,
	}, nil
}

// SetPlan changes the commercial tier. FREE is final: it forces permanence and
// clears the paid period. Paid plans keep their dates; establishing a period is
// a separate renewal.
func (s *Service) SetPlan(storeID uint, plan Plan) (*StoreSnapshot, error) {
	if !plan.Valid() {
		return nil, &ValidationError{Field: "plan", Message: "must be one of FREE, BASICO, PRO"}
	}

	store, err := s.loadStore(storeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{"subscription_plan": string(plan)}

	var snapshot StoreSnapshot
	snapshot.ID = storeID
	snapshot.Plan = plan

	if plan == PlanFree {
		updates["is_permanent"] = true
		updates["subscription_status"] = string(StatusPermanent)
		updates["subscription_start_date"] = nil
		updates["subscription_end_date"] = nil
		snapshot.Status = StatusPermanent
		snapshot.IsPermanent = true
	} else {
		status := CalculateStatus(plan, store.SubscriptionEndDate, store.IsPermanent, now)
		updates["subscription_status"] = string(status)
		snapshot.Status = status
		snapshot.EndDate = store.SubscriptionEndDate
		snapshot.IsPermanent = store.IsPermanent
	}

	if err := s.updateStore(storeID, updates); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// TogglePermanent flips the permanence override. Turning it off on a paid plan
// with a past or absent end date lands the store on EXPIRED until someone
// renews; that is intentional.
func (s *Service) TogglePermanent(storeID uint, isPermanent bool) (*StoreSnapshot, error) {
	store, err := s.loadStore(storeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	status := CalculateStatus(Plan(store.SubscriptionPlan), store.SubscriptionEndDate, isPermanent, now)

	updates := map[string]interface{}{
		"is_permanent":        isPermanent,
		"subscription_status": string(status),
	}
	if err := s.updateStore(storeID, updates); err != nil {
		return nil, err
	}

	return &StoreSnapshot{
		ID:          storeID,
		Plan:        Plan(store.SubscriptionPlan),
		Status:      status,
		EndDate:     store.SubscriptionEndDate,
		IsPermanent: isPermanent,
	}, nil
}

// RecordPayment appends a row to the payment ledger. It never touches the
// store's live subscription fields; the admin renews or changes plan as a
// separate step.
func (s *Service) RecordPayment(storeID uint, input PaymentInput, recordedByID uint) (*model.SubscriptionPayment, error) {
	if err := validatePaymentInput(input); err != nil {
		return nil, err
	}

	if _, err := s.loadStore(storeID); err != nil {
		return nil, err
	}

	paymentDate := input.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	payment := model.SubscriptionPayment{
		StoreID:        storeID,
		Amount:         input.Amount,
		Currency:       defaultString(input.Currency, "USD"),
		Method:         input.Method,
		Reference:      input.Reference,
		PaymentDate:    paymentDate,
		DurationMonths: input.DurationMonths,
		DurationYears:  input.DurationYears,
		IsPermanent:    input.IsPermanent,
		Notes:          input.Notes,
		RecordedByID:   recordedByID,
	}

	if !input.IsPermanent {
		start := paymentDate
		end := paymentDate.AddDate(input.DurationYears, input.DurationMonths, 0)
		payment.PeriodStartDate = &start
		payment.PeriodEndDate = &end
	}

	if err := s.db.Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPaymentHistory returns the store's ledger newest first, with the recording
// admin resolved.
func (s *Service) GetPaymentHistory(storeID uint) ([]model.SubscriptionPayment, error) {
	var payments []model.SubscriptionPayment
	err := s.db.Where("store_id = ?", storeID).
		Preload("RecordedBy").
		Order("payment_date DESC, id DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// Stats is a report, not authoritative state.
type Stats struct {
	TotalStores int64            `json:"total_stores"`
	ByPlan      map[string]int64 `json:"by_plan"`
	ByStatus    map[string]int64 `json:"by_status"`
}

func (s *Service) GetSubscriptionStats(includeInactive bool) (*Stats, error) {
	stats := &Stats{
		ByPlan:   make(map[string]int64),
		ByStatus: make(map[string]int64),
	}

	query := s.db.Model(&model.Store{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Session(&gorm.Session{}).Count(&stats.TotalStores).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var byPlan []bucket
	if err := query.Session(&gorm.Session{}).
		Select("subscription_plan AS key, COUNT(*) AS count").
		Group("subscription_plan").
		Scan(&byPlan).Error; err != nil {
		return nil, err
	}
	for _, b := range byPlan {
		stats.ByPlan[b.Key] = b.Count
	}

	var byStatus []bucket
	if err := query.Session(&gorm.Session{}).
		Select("subscription_status AS key, COUNT(*) AS count").
		Group("subscription_status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, b := range byStatus {
		stats.ByStatus[b.Key] = b.Count
	}

	return stats, nil
}

func (s *Service) loadStore(storeID uint) (*model.Store, error) {
	var store model.Store
	if err := s.db.First(&store, storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "store", ID: storeID}
		}
		return nil, err
	}
	return &store, nil
}

func (s *Service) updateStore(storeID uint, updates map[string]interface{}) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&model.Store{}).Where("id = ?", storeID).Updates(updates).Error
	})
}

func normalizeDuration(months, years int) (int, error) {
	if months < 0 || years < 0 {
		return 0, &ValidationError{Field: "duration", Message: "duration cannot be negative"}
	}
	if months > 0 && years > 0 {
		return 0, &ValidationError{Field: "duration", Message: "provide either months or years, not both"}
	}
	if months == 0 && years == 0 {
		return 0, &ValidationError{Field: "duration", Message: "a duration in months or years is required"}
	}
	if years > 0 {
		return years * 12, nil
	}
	return months, nil
}

func validatePaymentInput(input PaymentInput) error {
	if input.Amount <= 0 {
		return &ValidationError{Field: "amount", Message: "must be greater than zero"}
	}
	if input.Method == "" {
		return &ValidationError{Field: "method", Message: "is required"}
	}

	set := 0
	if input.DurationMonths > 0 {
		set++
	}
	if input.DurationYears > 0 {
		set++
	}
	if input.IsPermanent {
		set++
	}
	if set != 1 {
		return &ValidationError{
			Field:   "duration",
			Message: "exactly one of duration_months, duration_years or is_permanent is required",
		}
	}
	return nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
