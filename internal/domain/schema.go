package domain

// UserCreate is the inbound shape for registering a user. Password arrives in
// plaintext here and is swapped for a hash before anything is persisted.
type UserCreate struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	FullName    string `json:"full_name" binding:"omitempty,max=255"`
	IsActive    *bool  `json:"is_active"`
	IsSuperuser *bool  `json:"is_superuser"`
}

// Model builds a fresh entity from the input, applying defaults for the
// omitted flags. PasswordHash is left for the repository to fill.
func (in UserCreate) Model() *User {
	u := &User{
		Email:    in.Email,
		FullName: in.FullName,
		IsActive: true,
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	if in.IsSuperuser != nil {
		u.IsSuperuser = *in.IsSuperuser
	}
	return u
}

// UserUpdate is a partial update: nil means "leave the field alone".
type UserUpdate struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	Password    *string `json:"password"`
	FullName    *string `json:"full_name" binding:"omitempty,max=255"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
}

// Changes maps the set fields to their columns. The plaintext password keeps
// its input name here; the user repository rewrites it into password_hash.
func (in UserUpdate) Changes() map[string]any {
	m := map[string]any{}
	if in.Email != nil {
		m["email"] = *in.Email
	}
	if in.Password != nil {
		m["password"] = *in.Password
	}
	if in.FullName != nil {
		m["full_name"] = *in.FullName
	}
	if in.IsActive != nil {
		m["is_active"] = *in.IsActive
	}
	if in.IsSuperuser != nil {
		m["is_superuser"] = *in.IsSuperuser
	}
	return m
}
