package restapi

import (
	"context"
	"net/http"
)

const (
	EmpleadoAdmin  = "ADM"
	EmpleadoMesero = "MES"
)

// NuevoEmpleado is the body of POST /empleados/ (admin-only upstream).
type NuevoEmpleado struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	TipoEmpleado string `json:"tipo_empleado"`
	Password     string `json:"password"`
}

// EmpleadoCreado is the upstream's confirmation.
type EmpleadoCreado struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	TipoEmpleado string `json:"tipo_empleado"`
}

func (c *Client) CreateEmpleado(ctx context.Context, sid string, e NuevoEmpleado) (EmpleadoCreado, error) {
	var out EmpleadoCreado
	if err := c.doJSON(ctx, sid, http.MethodPost, "/empleados/", e, &out); err != nil {
		return EmpleadoCreado{}, err
	}
	return out, nil
}
