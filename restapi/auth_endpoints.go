package restapi

import (
	"context"
	"encoding/json"
	"net/http"
)

// EmployeeTokenResponse is the payload of POST /auth/token/.
type EmployeeTokenResponse struct {
	Access       string `json:"access"`
	Refresh      string `json:"refresh"`
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	TipoEmpleado string `json:"tipo_empleado"`
	IsAdmin      bool   `json:"is_admin"`
}

// CustomerLoginResponse is the payload of POST /clientes/login/.
type CustomerLoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	UserID  int64  `json:"user_id"`
	Usuario string `json:"usuario"`
	Email   string `json:"email"`
}

// RegistroResponse is the confirmation payload of POST /clientes/registro/.
type RegistroResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ObtainEmployeeToken exchanges staff credentials for a token pair plus the
// employee's identity fields. Always unauthenticated.
func (c *Client) ObtainEmployeeToken(ctx context.Context, username, password string) (EmployeeTokenResponse, error) {
	body := map[string]string{"username": username, "password": password}
	var out EmployeeTokenResponse
	if err := c.doJSON(ctx, "", http.MethodPost, "/auth/token/", body, &out); err != nil {
		return EmployeeTokenResponse{}, err
	}
	return out, nil
}

// CustomerLogin exchanges customer credentials for a token pair plus the
// customer's identity fields.
func (c *Client) CustomerLogin(ctx context.Context, usuario, password string) (CustomerLoginResponse, error) {
	body := map[string]string{"usuario": usuario, "password": password}
	var out CustomerLoginResponse
	if err := c.doJSON(ctx, "", http.MethodPost, "/clientes/login/", body, &out); err != nil {
		return CustomerLoginResponse{}, err
	}
	return out, nil
}

// RegisterCustomer creates a customer account. Registration never
// establishes a session; login is a separate step.
func (c *Client) RegisterCustomer(ctx context.Context, usuario, email, password string) (RegistroResponse, error) {
	body := map[string]string{"usuario": usuario, "email": email, "password": password}
	var out RegistroResponse
	if err := c.doJSON(ctx, "", http.MethodPost, "/clientes/registro/", body, &out); err != nil {
		return RegistroResponse{}, err
	}
	return out, nil
}
