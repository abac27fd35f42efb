package restapi

import (
	"context"
	"fmt"
	"net/http"
)

// Product categories and states as the upstream stores them.
const (
	CategoriaPlatoPrincipal = "PLATO_PRINCIPAL"
	CategoriaEntrada        = "ENTRADA"
	CategoriaBebida         = "BEBIDA"
	CategoriaAdicion        = "ADICION"
	CategoriaPostre         = "POSTRE"

	EstadoDisponible = "DISPONIBLE"
	EstadoFueraStock = "FUERA_STOCK"
)

// Producto is a menu item. Precio is a decimal string, as the upstream
// serializes it.
type Producto struct {
	ID              int64  `json:"id,omitempty"`
	Categoria       string `json:"categoria"`
	Nombre          string `json:"nombre"`
	Descripcion     string `json:"descripcion"`
	Precio          string `json:"precio"`
	Estado          string `json:"estado,omitempty"`
	CategoriaNombre string `json:"categoria_nombre,omitempty"`
	EstadoNombre    string `json:"estado_nombre,omitempty"`
}

// Categorias lists the product categories in menu display order.
func Categorias() []string {
	return []string{
		CategoriaPlatoPrincipal,
		CategoriaEntrada,
		CategoriaBebida,
		CategoriaAdicion,
		CategoriaPostre,
	}
}

// ToggleEstadoResponse is the upstream's answer to the availability toggle.
type ToggleEstadoResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	NuevoEstado string `json:"nuevo_estado"`
	ProductoID  int64  `json:"producto_id"`
}

// ListProductos fetches the full menu. Guests may call it with an empty
// session ID; the request simply goes out unauthenticated.
func (c *Client) ListProductos(ctx context.Context, sid string) ([]Producto, error) {
	var out []Producto
	if err := c.doJSON(ctx, sid, http.MethodGet, "/productos/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProducto(ctx context.Context, sid string, id int64) (Producto, error) {
	var out Producto
	if err := c.doJSON(ctx, sid, http.MethodGet, fmt.Sprintf("/productos/%d/", id), nil, &out); err != nil {
		return Producto{}, err
	}
	return out, nil
}

func (c *Client) CreateProducto(ctx context.Context, sid string, p Producto) (Producto, error) {
	var out Producto
	if err := c.doJSON(ctx, sid, http.MethodPost, "/productos/", p, &out); err != nil {
		return Producto{}, err
	}
	return out, nil
}

func (c *Client) UpdateProducto(ctx context.Context, sid string, id int64, p Producto) (Producto, error) {
	var out Producto
	if err := c.doJSON(ctx, sid, http.MethodPut, fmt.Sprintf("/productos/%d/", id), p, &out); err != nil {
		return Producto{}, err
	}
	return out, nil
}

// ToggleProductoEstado flips a product between available and out-of-stock.
func (c *Client) ToggleProductoEstado(ctx context.Context, sid string, id int64) (ToggleEstadoResponse, error) {
	body := map[string]string{"estado": "toggle"}
	var out ToggleEstadoResponse
	if err := c.doJSON(ctx, sid, http.MethodPatch, fmt.Sprintf("/productos/%d/", id), body, &out); err != nil {
		return ToggleEstadoResponse{}, err
	}
	return out, nil
}

func (c *Client) DeleteProducto(ctx context.Context, sid string, id int64) error {
	return c.doJSON(ctx, sid, http.MethodDelete, fmt.Sprintf("/productos/%d/", id), nil, nil)
}
