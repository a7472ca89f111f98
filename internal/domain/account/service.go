package account

import (
	"context"
	"net/http"
	"strconv"

	"pet-clinic-client/internal/session"
)

// Caller es el gateway por donde sale toda llamada (con o sin token:
// register/login salen sin sesión, el resto la requiere).
type Caller interface {
	Call(ctx context.Context, method, path string, in, out any, fallback string) error
}

// Service habla con los endpoints /user del backend.
// Implementa session.Authenticator, así el session store le delega
// el intercambio de credenciales sin conocer el wire.
type Service struct {
	gw Caller
}

func NewService(gw Caller) *Service {
	return &Service{gw: gw}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	User    session.User `json:"user"`
	Message string       `json:"message"`
}

// Register crea la cuenta y devuelve el user + mensaje del server.
// No inicia sesión: el flujo original manda al usuario a la pantalla
// de login después de registrarse.
func (s *Service) Register(ctx context.Context, name, email, password string) (session.User, string, error) {
	var resp registerResponse
	in := registerRequest{Name: name, Email: email, Password: password}
	if err := s.gw.Call(ctx, http.MethodPost, "/user/register", in, &resp, "registration failed"); err != nil {
		return session.User{}, "", err
	}
	return resp.User, resp.Message, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

// Login intercambia credenciales por token+user (POST /user/login).
func (s *Service) Login(ctx context.Context, email, password string) (string, session.User, error) {
	var resp loginResponse
	in := loginRequest{Email: email, Password: password}
	if err := s.gw.Call(ctx, http.MethodPost, "/user/login", in, &resp, "login failed"); err != nil {
		return "", session.User{}, err
	}
	return resp.Token, resp.User, nil
}

// ProfileInput es el update parcial de perfil. Punteros: nil = no tocar.
type ProfileInput struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

type profileResponse struct {
	User session.User `json:"user"`
}

// UpdateProfile hace PUT /user/{id} y devuelve el user actualizado.
// El caller (la pantalla) luego refleja el cambio en el session store
// vía UpdateUser.
func (s *Service) UpdateProfile(ctx context.Context, userID int, in ProfileInput) (session.User, error) {
	var resp profileResponse
	if err := s.gw.Call(ctx, http.MethodPut, userPath(userID), in, &resp, "failed to update profile"); err != nil {
		return session.User{}, err
	}
	return resp.User, nil
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ChangePassword hace PUT /user/{id}/change-password.
func (s *Service) ChangePassword(ctx context.Context, userID int, current, newPass, confirm string) (string, error) {
	var resp messageResponse
	in := changePasswordRequest{
		CurrentPassword: current,
		NewPassword:     newPass,
		ConfirmPassword: confirm,
	}
	if err := s.gw.Call(ctx, http.MethodPut, userPath(userID)+"/change-password", in, &resp, "failed to change password"); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func userPath(id int) string {
	return "/user/" + strconv.Itoa(id)
}
