package rest

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"nexussync/collection"
)

// Endpoints are the per-collection routes, relative to the client's base
// URL. Update and Delete may contain ":id", replaced with the record id.
// An empty route leaves the corresponding gateway operation unconfigured.
type Endpoints struct {
	List   string
	Create string
	Update string
	Delete string
}

// Gateway binds a client and one collection's endpoints.
type Gateway struct {
	client    *Client
	endpoints Endpoints
	desc      collection.Descriptor[collection.Dynamic]
}

// NewGateway creates a gateway for one collection. The descriptor is needed
// to extract ids for ":id" route substitution.
func NewGateway(client *Client, endpoints Endpoints, desc collection.Descriptor[collection.Dynamic]) *Gateway {
	return &Gateway{client: client, endpoints: endpoints, desc: desc}
}

// Operations exposes the configured routes as the gateway contract.
func (g *Gateway) Operations() collection.Operations[collection.Dynamic] {
	var ops collection.Operations[collection.Dynamic]
	if g.endpoints.List != "" {
		ops.FetchAll = g.fetchAll
	}
	if g.endpoints.Create != "" {
		ops.Create = g.create
	}
	if g.endpoints.Update != "" {
		ops.Update = g.update
	}
	if g.endpoints.Delete != "" {
		ops.Delete = g.delete
	}
	return ops
}

func (g *Gateway) fetchAll(ctx context.Context) ([]collection.Dynamic, error) {
	var out []collection.Dynamic
	if err := g.client.doJSON(ctx, "FetchAll", http.MethodGet, g.endpoints.List, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gateway) create(ctx context.Context, item collection.Dynamic) (collection.Dynamic, error) {
	// The optimistic local id and flag stay client-side; the server
	// assigns the authoritative id.
	body := item.Clone()
	delete(body, collection.OfflineCreatedAttribute)

	// Idempotency key so a retried create after a lost response does not
	// duplicate the record.
	headers := map[string]string{"Idempotency-Key": uuid.NewString()}

	var out collection.Dynamic
	if err := g.client.doJSON(ctx, "Create", http.MethodPost, g.endpoints.Create, headers, body, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = body
	}
	return out, nil
}

func (g *Gateway) update(ctx context.Context, item collection.Dynamic) (collection.Dynamic, error) {
	id := ""
	if g.desc.ID != nil {
		id = g.desc.ID(item)
	}
	path := expandID(g.endpoints.Update, id)

	var out collection.Dynamic
	if err := g.client.doJSON(ctx, "Update", http.MethodPut, path, nil, item, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = item
	}
	return out, nil
}

func (g *Gateway) delete(ctx context.Context, id string) (string, error) {
	path := expandID(g.endpoints.Delete, id)

	// APIs echo the deleted id as a bare string, an {"id": ...} object, or
	// nothing at all.
	var out any
	if err := g.client.doJSON(ctx, "Delete", http.MethodDelete, path, nil, nil, &out); err != nil {
		return "", err
	}
	switch v := out.(type) {
	case string:
		return v, nil
	case map[string]any:
		if echoed, ok := v["id"].(string); ok && echoed != "" {
			return echoed, nil
		}
	}
	return id, nil
}

func expandID(route, id string) string {
	return strings.Replace(route, ":id", url.PathEscape(id), 1)
}
