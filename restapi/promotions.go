package restapi

import (
	"context"
	"fmt"
	"net/http"
)

const (
	PromocionActiva   = "ACTIVA"
	PromocionInactiva = "INACTIVA"
)

// Promocion is a discount campaign over a set of products. Dates use the
// upstream's "2006-01-02" form; Descuento is a decimal string.
type Promocion struct {
	ID          int64   `json:"id,omitempty"`
	Nombre      string  `json:"nombre"`
	Descripcion string  `json:"descripcion"`
	Descuento   string  `json:"descuento"`
	Productos   []int64 `json:"productos"`
	FechaInicio string  `json:"fecha_inicio"`
	FechaFin    string  `json:"fecha_fin"`
	Estado      string  `json:"estado,omitempty"`
}

func (c *Client) ListPromociones(ctx context.Context, sid string) ([]Promocion, error) {
	var out []Promocion
	if err := c.doJSON(ctx, sid, http.MethodGet, "/promociones/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPromocion(ctx context.Context, sid string, id int64) (Promocion, error) {
	var out Promocion
	if err := c.doJSON(ctx, sid, http.MethodGet, fmt.Sprintf("/promociones/%d/", id), nil, &out); err != nil {
		return Promocion{}, err
	}
	return out, nil
}

// CreatePromocion is admin-only upstream; a waiter gets a 403 back, which
// passes through untouched.
func (c *Client) CreatePromocion(ctx context.Context, sid string, p Promocion) (Promocion, error) {
	var out Promocion
	if err := c.doJSON(ctx, sid, http.MethodPost, "/promociones/", p, &out); err != nil {
		return Promocion{}, err
	}
	return out, nil
}

func (c *Client) UpdatePromocion(ctx context.Context, sid string, id int64, p Promocion) (Promocion, error) {
	var out Promocion
	if err := c.doJSON(ctx, sid, http.MethodPut, fmt.Sprintf("/promociones/%d/", id), p, &out); err != nil {
		return Promocion{}, err
	}
	return out, nil
}

func (c *Client) DeletePromocion(ctx context.Context, sid string, id int64) error {
	return c.doJSON(ctx, sid, http.MethodDelete, fmt.Sprintf("/promociones/%d/", id), nil, nil)
}
