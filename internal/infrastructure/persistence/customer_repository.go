package persistence

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/customer"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// nameSearchSQL folds accented lowercase names so "açai" matches
// "acai". Kept to the accents Brazilian names actually carry; no
// unaccent extension required.
const nameSearchSQL = "translate(lower(name), 'áàâãäéèêëíìîïóòôõöúùûüç', 'aaaaaeeeeiiiiooooouuuuc')"

// searchFolder strips combining marks after NFD decomposition,
// the Go-side counterpart of nameSearchSQL for the keyword.
var searchFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Create creates a new customer
func (r *GormCustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Update updates an existing customer
func (r *GormCustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	result := r.db.WithContext(ctx).Save(c)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a customer by ID
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&customer.Customer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a customer by ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	var c customer.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByIDForTenant finds a customer scoped to a tenant
func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*customer.Customer, error) {
	var c customer.Customer
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByPhone finds a customer by phone in national digit form,
// used by the checkout merge-by-phone upsert
func (r *GormCustomerRepository) FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*customer.Customer, error) {
	var c customer.Customer
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND phone = ?", tenantID, phone).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByDocument finds a customer by unmasked CPF/CNPJ digits
func (r *GormCustomerRepository) FindByDocument(ctx context.Context, tenantID uuid.UUID, document string) (*customer.Customer, error) {
	var c customer.Customer
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND document = ?", tenantID, document).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll finds customers of a tenant with filtering and the total count
func (r *GormCustomerRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter customer.CustomerFilter) ([]*customer.Customer, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&customer.Customer{}).
		Where("tenant_id = ?", tenantID)

	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		if digits := digitsOnly(keyword); digits != "" && strings.Trim(keyword, "+()-./ 0123456789") == "" {
			// Numeric input (masked or not) searches phone and document prefixes
			query = query.Where("phone LIKE ? OR document LIKE ?", digits+"%", digits+"%")
		} else {
			query = query.Where(nameSearchSQL+" LIKE ?", "%"+foldSearchKeyword(keyword)+"%")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := ValidateSortField(filter.SortBy, CustomerSortFields, "created_at")
	direction := ValidateSortOrder(filter.SortOrder)

	var customers []*customer.Customer
	if err := query.
		Order(sortBy + " " + direction).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&customers).Error; err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// ExistsByPhone checks whether a customer with the phone exists
func (r *GormCustomerRepository) ExistsByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&customer.Customer{}).
		Where("tenant_id = ? AND phone = ?", tenantID, phone).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count counts customers of a tenant
func (r *GormCustomerRepository) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&customer.Customer{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// foldSearchKeyword lowercases the keyword and strips accents so it
// compares against nameSearchSQL output
func foldSearchKeyword(keyword string) string {
	folded, _, err := transform.String(searchFolder, strings.ToLower(keyword))
	if err != nil {
		return strings.ToLower(keyword)
	}
	return folded
}

// digitsOnly keeps the decimal digits of the input
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
