package dto

// RegisterForm is the password-auth fallback used where Azure AD is not
// available (e.g. contractor kiosks).
type RegisterForm struct {
	Email    string `form:"email" validate:"required,email,max=320"`
	Name     string `form:"name" validate:"required,max=200"`
	Password string `form:"password" validate:"required,min=8,max=72"`
}

type PasswordLoginForm struct {
	Email    string `form:"email" validate:"required,email,max=320"`
	Password string `form:"password" validate:"required"`
}

type AdminLoginForm struct {
	Password string `form:"password" validate:"required"`
}
