package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-user-api/internal/domain"
	"go-user-api/pkg/hash"
)

// UserRepo specializes the generic base for users: plaintext passwords are
// swapped for bcrypt hashes before anything reaches the store.
type UserRepo struct {
	*Base[domain.User, domain.UserCreate, domain.UserUpdate]
	hasher hash.Hasher
}

func NewUserRepo(db *gorm.DB, h hash.Hasher) *UserRepo {
	return &UserRepo{
		Base:   New[domain.User, domain.UserCreate, domain.UserUpdate](db),
		hasher: h,
	}
}

// GetByEmail returns the user with the given email, or nil when absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persists a new user with the password replaced by its hash.
func (r *UserRepo) Create(ctx context.Context, in domain.UserCreate) (*domain.User, error) {
	hashed, err := r.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := in.Model()
	u.PasswordHash = hashed
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// Update merges the set fields into the existing user. A password in the
// input is re-hashed into password_hash before the generic merge runs.
func (r *UserRepo) Update(ctx context.Context, existing *domain.User, in domain.UserUpdate) (*domain.User, error) {
	return r.applyUpdate(ctx, existing, in.Changes())
}

// UpdateFields is the plain-mapping form of Update, with the same password
// handling.
func (r *UserRepo) UpdateFields(ctx context.Context, existing *domain.User, fields Fields) (*domain.User, error) {
	changes := make(map[string]any, len(fields))
	for k, v := range fields {
		changes[k] = v
	}
	return r.applyUpdate(ctx, existing, changes)
}

func (r *UserRepo) applyUpdate(ctx context.Context, existing *domain.User, changes map[string]any) (*domain.User, error) {
	if pw, ok := changes["password"]; ok {
		plain, _ := pw.(string)
		hashed, err := r.hasher.Hash(plain)
		if err != nil {
			return nil, err
		}
		delete(changes, "password")
		changes["password_hash"] = hashed
	}
	return r.merge(ctx, existing, changes)
}

// Authenticate verifies the email/password pair. Unknown email and wrong
// password both come back as ErrInvalidCredentials.
func (r *UserRepo) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !r.hasher.Verify(password, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

func (r *UserRepo) IsActive(u *domain.User) bool    { return u.IsActive }
func (r *UserRepo) IsSuperuser(u *domain.User) bool { return u.IsSuperuser }

// Activate sets is_active and persists the change.
func (r *UserRepo) Activate(ctx context.Context, u *domain.User) (*domain.User, error) {
	return r.UpdateFields(ctx, u, Fields{"is_active": true})
}

// Deactivate clears is_active and persists the change.
func (r *UserRepo) Deactivate(ctx context.Context, u *domain.User) (*domain.User, error) {
	return r.UpdateFields(ctx, u, Fields{"is_active": false})
}

// ActiveUsers pages through users with is_active set.
func (r *UserRepo) ActiveUsers(ctx context.Context, skip, limit int) ([]domain.User, error) {
	skip, limit = normalizePage(skip, limit)
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Offset(skip).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// SearchByNameOrEmail pages through users whose full name or email contains
// the term.
func (r *UserRepo) SearchByNameOrEmail(ctx context.Context, term string, skip, limit int) ([]domain.User, error) {
	skip, limit = normalizePage(skip, limit)
	like := "%" + term + "%"
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("full_name LIKE ? OR email LIKE ?", like, like).
		Offset(skip).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
