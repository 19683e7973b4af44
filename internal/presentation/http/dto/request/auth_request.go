package request

// SignUpRequest represents a sign-up request
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	FullName string `json:"full_name" binding:"max=255"`
}

// SignInRequest represents a sign-in request
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents a session refresh. The refresh token may come
// from the session cookie instead.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateProfileRequest represents a profile update
type UpdateProfileRequest struct {
	FullName    *string `json:"full_name" binding:"omitempty,max=255"`
	CompanyName *string `json:"company_name" binding:"omitempty,max=255"`
}
