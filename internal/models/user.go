package models

// User представляет зарегистрированного пользователя.
// Username является первичным ключом и используется как subject в JWT.
type User struct {
	ID           int64  `json:"user_id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // PHC-строка scrypt, наружу не отдается
}

// RegisterRequest представляет тело запроса на регистрацию.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest представляет тело запроса на вход.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse представляет тело ответа на успешную регистрацию.
type UserResponse struct {
	ID       int64  `json:"user_id"`
	Username string `json:"username"`
}

// NewUserResponse строит ответ без хеша пароля.
func NewUserResponse(u *User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username}
}
