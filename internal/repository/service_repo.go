package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"txunajob/internal/database"
	"txunajob/internal/domain"
)

type ServiceRepository struct {
	store *database.Store
}

func NewServiceRepository(store *database.Store) *ServiceRepository {
	return &ServiceRepository{store: store}
}

// Transition is a compare-and-set status change. The row must match ID,
// every non-nil owner field, and one of From; otherwise nothing is written.
type Transition struct {
	ServiceID      int64
	ProfessionalID *int64
	ClientID       *int64
	From           []domain.ServiceStatus
	To             domain.ServiceStatus
	Set            map[string]any
}

// Apply executes t as a single conditional UPDATE and reports whether the
// row was changed.
func (r *ServiceRepository) Apply(ctx context.Context, t Transition) (bool, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return false, err
	}
	if len(t.From) == 0 {
		return false, errors.New("transition without source status")
	}

	updates := make(map[string]any, len(t.Set)+2)
	for k, v := range t.Set {
		updates[k] = v
	}
	updates["status"] = t.To
	updates["updated_at"] = time.Now().UTC()

	q := db.Model(&domain.Service{}).Where("id = ?", t.ServiceID)
	if t.ProfessionalID != nil {
		q = q.Where("professional_id = ?", *t.ProfessionalID)
	}
	if t.ClientID != nil {
		q = q.Where("client_id = ?", *t.ClientID)
	}
	if len(t.From) == 1 {
		q = q.Where("status = ?", t.From[0])
	} else {
		q = q.Where("status IN ?", t.From)
	}

	res := q.Updates(updates)
	return res.RowsAffected == 1, res.Error
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	db, err := r.store.Session(ctx)
	if err != nil {
		return err
	}
	return db.Create(s).Error
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return nil, err
	}
	var s domain.Service
	if err := db.First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// SetReview records the client's rating on a completed service it requested.
func (r *ServiceRepository) SetReview(ctx context.Context, id, clientID int64, rating int, comment string) (bool, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return false, err
	}
	now := time.Now().UTC()
	res := db.Model(&domain.Service{}).
		Where("id = ? AND client_id = ? AND status = ?", id, clientID, domain.ServiceCompleted).
		Updates(map[string]any{
			"rating":         rating,
			"review_comment": comment,
			"reviewed_at":    now,
			"updated_at":     now,
		})
	return res.RowsAffected == 1, res.Error
}

type ServiceFilter struct {
	ProfessionalID *int64
	ClientID       *int64
	Statuses       []domain.ServiceStatus
	Category       string
	ScheduledFrom  *time.Time
	ScheduledTo    *time.Time
	CreatedFrom    *time.Time
	Reviewed       bool
	WithComment    bool
	Limit          int
	Offset         int
	OrderBy        string
}

func (r *ServiceRepository) List(ctx context.Context, f ServiceFilter) ([]domain.Service, int64, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return nil, 0, err
	}
	q := applyServiceFilter(db.Model(&domain.Service{}), f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := f.OrderBy
	if order == "" {
		order = "created_at DESC, id DESC"
	}
	q = q.Order(order)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var services []domain.Service
	if err := q.Find(&services).Error; err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

func applyServiceFilter(q *gorm.DB, f ServiceFilter) *gorm.DB {
	if f.ProfessionalID != nil {
		q = q.Where("professional_id = ?", *f.ProfessionalID)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.ScheduledFrom != nil {
		q = q.Where("scheduled_date >= ?", *f.ScheduledFrom)
	}
	if f.ScheduledTo != nil {
		q = q.Where("scheduled_date <= ?", *f.ScheduledTo)
	}
	if f.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.Reviewed {
		q = q.Where("rating IS NOT NULL")
	}
	if f.WithComment {
		q = q.Where("review_comment IS NOT NULL AND review_comment <> ''")
	}
	return q
}

func (r *ServiceRepository) Count(ctx context.Context, f ServiceFilter) (int64, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	err = applyServiceFilter(db.Model(&domain.Service{}), f).Count(&count).Error
	return count, err
}

// AverageRating averages reviewed services of a professional; zero when
// nothing was rated.
func (r *ServiceRepository) AverageRating(ctx context.Context, professionalID int64) (float64, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return 0, err
	}
	var avg sql.NullFloat64
	err = db.Model(&domain.Service{}).
		Select("AVG(rating)").
		Where("professional_id = ? AND rating IS NOT NULL", professionalID).
		Row().Scan(&avg)
	if err != nil {
		return 0, err
	}
	return avg.Float64, nil
}

// DistinctClientsSince counts clients that requested a professional's
// services at or after since.
func (r *ServiceRepository) DistinctClientsSince(ctx context.Context, professionalID int64, since time.Time) (int64, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	err = db.Model(&domain.Service{}).
		Where("professional_id = ? AND client_id IS NOT NULL AND requested_at >= ?", professionalID, since).
		Distinct("client_id").
		Count(&count).Error
	return count, err
}

// CompletedSince returns services completed at or after since, oldest first.
func (r *ServiceRepository) CompletedSince(ctx context.Context, since time.Time) ([]domain.Service, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return nil, err
	}
	var services []domain.Service
	err = db.Where("status = ? AND completed_at >= ?", domain.ServiceCompleted, since).
		Order("completed_at ASC").
		Find(&services).Error
	return services, err
}

// CompletedRevenue sums the price of every completed service.
func (r *ServiceRepository) CompletedRevenue(ctx context.Context) (float64, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return 0, err
	}
	var total sql.NullFloat64
	err = db.Model(&domain.Service{}).
		Select("SUM(price)").
		Where("status = ?", domain.ServiceCompleted).
		Row().Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Float64, nil
}
